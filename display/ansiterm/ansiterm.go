// Package ansiterm implements [display.Surface] on a plain ANSI terminal.
//
// Each grid is encoded into a single buffer of cursor-positioning and SGR
// sequences and written with one call, so a frame never appears half drawn.
// Tiers map onto the terminal's own palette: dim cells use bright black,
// mid cells white, and bright cells bright white.
package ansiterm

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"

	"go.jacobcolvin.com/textreel/display"
	"go.jacobcolvin.com/textreel/glyph"
	"go.jacobcolvin.com/textreel/surface"
)

// SizeFunc reports the terminal size in cells.
type SizeFunc func() (cols, rows int, err error)

// Option configures a [Terminal].
type Option func(*Terminal)

// WithSizeFunc replaces the size query. The default asks the kernel for the
// size of the descriptor passed to [New].
func WithSizeFunc(fn SizeFunc) Option {
	return func(t *Terminal) {
		t.size = fn
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Terminal) {
		if l != nil {
			t.logger = l
		}
	}
}

// Terminal writes grids to an ANSI terminal.
//
// Create instances with [New].
type Terminal struct {
	out     io.Writer
	size    SizeFunc
	logger  *slog.Logger
	buf     bytes.Buffer
	metrics display.Metrics
	// sizeErr suppresses repeated logging of the same size failure.
	sizeErr bool
}

// New creates a [Terminal] writing to out. The size of the viewport is read
// from fd.
func New(out io.Writer, fd int, opts ...Option) *Terminal {
	t := &Terminal{
		out:     out,
		logger:  slog.New(slog.DiscardHandler),
		metrics: display.DefaultMetrics,
		size: func() (int, int, error) {
			return term.GetSize(fd)
		},
	}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Open switches to the alternate screen and hides the cursor.
func (t *Terminal) Open() error {
	return t.emit(ansi.SetAltScreenSaveCursorMode + ansi.HideCursor + ansi.EraseEntireScreen + ansi.CursorHomePosition)
}

// Close shows the cursor and leaves the alternate screen.
func (t *Terminal) Close() error {
	return t.emit(ansi.ResetStyle + ansi.ShowCursor + ansi.ResetAltScreenSaveCursorMode)
}

// Size returns the terminal size. A terminal whose size cannot be read
// reports 0x0, so nothing is drawn until the size is known.
func (t *Terminal) Size() (int, int) {
	cols, rows, err := t.size()
	if err != nil {
		if !t.sizeErr {
			t.logger.Debug("reading terminal size", slog.Any("err", err))
		}

		t.sizeErr = true

		return 0, 0
	}

	t.sizeErr = false

	return max(cols, 0), max(rows, 0)
}

// WriteGrid draws grid with its top-left cell at the zero-based (col, row).
func (t *Terminal) WriteGrid(grid *surface.Grid, col, row int) error {
	t.buf.Reset()

	for y := range grid.Height() {
		t.buf.WriteString(ansi.CursorPosition(col+1, row+y+1))

		var tier glyph.Tier

		for x, c := range grid.Row(y) {
			if x == 0 || c.Tier != tier {
				tier = c.Tier
				t.buf.WriteString(sgr(tier))
			}

			t.buf.WriteRune(c.Glyph)
		}
	}

	t.buf.WriteString(ansi.ResetStyle)

	_, err := t.out.Write(t.buf.Bytes())
	if err != nil {
		return fmt.Errorf("writing to terminal: %w", err)
	}

	return nil
}

// SetCursor moves the cursor to the zero-based (col, row).
func (t *Terminal) SetCursor(col, row int) error {
	return t.emit(ansi.CursorPosition(col+1, row+1))
}

// SetGlyphMetrics records m. A terminal's font is owned by the emulator, so
// the metrics only affect what [Terminal.Metrics] reports.
func (t *Terminal) SetGlyphMetrics(m display.Metrics) error {
	t.metrics = m

	return nil
}

// Metrics returns the glyph metrics last set.
func (t *Terminal) Metrics() display.Metrics {
	return t.metrics
}

// Clear resets the style, erases the screen, and homes the cursor.
func (t *Terminal) Clear() error {
	return t.emit(ansi.ResetStyle + ansi.EraseEntireScreen + ansi.CursorHomePosition)
}

func (t *Terminal) emit(seq string) error {
	_, err := io.WriteString(t.out, seq)
	if err != nil {
		return fmt.Errorf("writing to terminal: %w", err)
	}

	return nil
}

func sgr(tier glyph.Tier) string {
	switch tier {
	case glyph.Dim:
		return ansi.SGR(ansi.BrightBlackForegroundColorAttr)
	case glyph.Mid:
		return ansi.SGR(ansi.WhiteForegroundColorAttr)
	default:
		return ansi.SGR(ansi.BrightWhiteForegroundColorAttr)
	}
}
