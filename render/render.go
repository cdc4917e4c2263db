// Package render flushes completed glyph grids to a display surface.
package render

import (
	"fmt"

	"go.jacobcolvin.com/textreel/display"
	"go.jacobcolvin.com/textreel/surface"
)

// Renderer writes grids to a [display.Surface].
//
// Create instances with [New].
type Renderer struct {
	surface display.Surface
}

// New creates a [Renderer] for d.
func New(d display.Surface) *Renderer {
	return &Renderer{surface: d}
}

// Flush writes the whole grid at the origin in one call sized exactly to the
// grid, then returns the cursor to the origin. An empty grid writes nothing.
func (r *Renderer) Flush(grid *surface.Grid) error {
	if grid.Empty() {
		return nil
	}

	err := r.surface.WriteGrid(grid, 0, 0)
	if err != nil {
		return fmt.Errorf("writing %dx%d grid: %w", grid.Width(), grid.Height(), err)
	}

	err = r.surface.SetCursor(0, 0)
	if err != nil {
		return fmt.Errorf("moving cursor: %w", err)
	}

	return nil
}
