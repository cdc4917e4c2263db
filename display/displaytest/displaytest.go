// Package displaytest provides an in-memory [display.Surface] for tests.
package displaytest

import (
	"strings"

	"go.jacobcolvin.com/textreel/display"
	"go.jacobcolvin.com/textreel/glyph"
	"go.jacobcolvin.com/textreel/surface"
)

// Size is a viewport size.
type Size struct {
	Cols, Rows int
}

// Write records one [Surface.WriteGrid] call.
type Write struct {
	Cells []glyph.Cell
	// Viewport is the size most recently reported by [Surface.Size] when the
	// write happened.
	Viewport Size
	Col      int
	Row      int
	Width    int
	Height   int
}

// Text returns the written glyphs as rows joined with LF.
func (w Write) Text() string {
	var sb strings.Builder

	for y := range w.Height {
		if y > 0 {
			sb.WriteByte('\n')
		}

		for _, c := range w.Cells[y*w.Width : (y+1)*w.Width] {
			sb.WriteRune(c.Glyph)
		}
	}

	return sb.String()
}

// Surface is an in-memory [display.Surface]. Sizes returned by
// [Surface.Size] follow a script: each call consumes the next entry, and the
// last entry repeats once the script is exhausted.
//
// Create instances with [New].
type Surface struct {
	// OnSize, when set, runs at the start of every Size call with the
	// number of prior calls. Tests use it to advance a fake clock.
	OnSize func(call int)

	Writes  []Write
	Cursor  [][2]int
	Metrics []display.Metrics
	sizes   []Size
	last    Size
	calls   int
	Clears  int
}

// New creates a [Surface] that reports the given sizes in order.
func New(sizes ...Size) *Surface {
	if len(sizes) == 0 {
		sizes = []Size{{Cols: 80, Rows: 24}}
	}

	return &Surface{sizes: sizes}
}

// Size returns the next scripted size.
func (s *Surface) Size() (int, int) {
	if s.OnSize != nil {
		s.OnSize(s.calls)
	}

	sz := s.sizes[min(s.calls, len(s.sizes)-1)]
	s.calls++
	s.last = sz

	return sz.Cols, sz.Rows
}

// SizeCalls returns how many times Size was called.
func (s *Surface) SizeCalls() int {
	return s.calls
}

// WriteGrid records a copy of the grid.
func (s *Surface) WriteGrid(grid *surface.Grid, col, row int) error {
	cells := make([]glyph.Cell, len(grid.Cells()))
	copy(cells, grid.Cells())

	s.Writes = append(s.Writes, Write{
		Cells:    cells,
		Viewport: s.last,
		Col:      col,
		Row:      row,
		Width:    grid.Width(),
		Height:   grid.Height(),
	})

	return nil
}

// SetCursor records the cursor position.
func (s *Surface) SetCursor(col, row int) error {
	s.Cursor = append(s.Cursor, [2]int{col, row})

	return nil
}

// SetGlyphMetrics records the metrics.
func (s *Surface) SetGlyphMetrics(m display.Metrics) error {
	s.Metrics = append(s.Metrics, m)

	return nil
}

// Clear counts the call.
func (s *Surface) Clear() error {
	s.Clears++

	return nil
}

// LastWrite returns the most recent write, or false if there were none.
func (s *Surface) LastWrite() (Write, bool) {
	if len(s.Writes) == 0 {
		return Write{}, false
	}

	return s.Writes[len(s.Writes)-1], true
}
