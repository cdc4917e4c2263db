// Package tcellscreen implements [display.Surface] on a [tcell.Screen].
//
// tcell owns the terminal while the screen is open: it runs in raw mode, so
// the usual interrupt signal never reaches the process. [Screen.Listen]
// pumps tcell's events and reports Ctrl+C, Esc, and q through a callback.
package tcellscreen

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"go.jacobcolvin.com/textreel/display"
	"go.jacobcolvin.com/textreel/glyph"
	"go.jacobcolvin.com/textreel/surface"
)

// Styles used for each tier.
var (
	DimStyle    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	MidStyle    = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	BrightStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

// Screen draws grids on a tcell screen.
//
// Create instances with [New] or [Open].
type Screen struct {
	screen  tcell.Screen
	done    chan struct{}
	metrics display.Metrics
	cursor  [2]int
	once    sync.Once
}

// New wraps an initialized screen.
func New(s tcell.Screen) *Screen {
	s.HideCursor()

	return &Screen{
		screen:  s,
		metrics: display.DefaultMetrics,
	}
}

// Open creates and initializes a screen on the controlling terminal.
func Open() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}

	err = s.Init()
	if err != nil {
		return nil, fmt.Errorf("initializing screen: %w", err)
	}

	return New(s), nil
}

// Listen starts pumping screen events in a goroutine until [Screen.Close].
// interrupt is called for Ctrl+C, Esc, and q. Resize events resynchronize
// the screen; the new size is picked up by the next [Screen.Size].
func (s *Screen) Listen(interrupt func()) {
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)

		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				return
			}

			switch ev := ev.(type) {
			case *tcell.EventKey:
				if isInterrupt(ev) {
					interrupt()
				}

			case *tcell.EventResize:
				s.screen.Sync()
			}
		}
	}()
}

func isInterrupt(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	default:
		return false
	}
}

// Close restores the terminal and waits for the event pump to stop.
func (s *Screen) Close() {
	s.once.Do(func() {
		s.screen.Fini()

		if s.done != nil {
			<-s.done
		}
	})
}

// Size returns the screen size in cells.
func (s *Screen) Size() (int, int) {
	return s.screen.Size()
}

// WriteGrid draws grid with its top-left cell at (col, row) and shows it.
func (s *Screen) WriteGrid(grid *surface.Grid, col, row int) error {
	for y := range grid.Height() {
		for x, c := range grid.Row(y) {
			s.screen.SetContent(col+x, row+y, c.Glyph, nil, style(c.Tier))
		}
	}

	s.screen.Show()

	return nil
}

// SetCursor records the cursor position. tcell addresses every cell
// directly, so the hardware cursor stays hidden.
func (s *Screen) SetCursor(col, row int) error {
	s.cursor = [2]int{col, row}

	return nil
}

// Cursor returns the position last passed to [Screen.SetCursor].
func (s *Screen) Cursor() (int, int) {
	return s.cursor[0], s.cursor[1]
}

// SetGlyphMetrics records m; see [display.Metrics].
func (s *Screen) SetGlyphMetrics(m display.Metrics) error {
	s.metrics = m

	return nil
}

// Metrics returns the glyph metrics last set.
func (s *Screen) Metrics() display.Metrics {
	return s.metrics
}

// Clear blanks the screen.
func (s *Screen) Clear() error {
	s.screen.Clear()
	s.screen.Show()

	return nil
}

func style(t glyph.Tier) tcell.Style {
	switch t {
	case glyph.Dim:
		return DimStyle
	case glyph.Mid:
		return MidStyle
	default:
		return BrightStyle
	}
}
