// Package sampler converts decoded video frames into glyph grids.
package sampler

import (
	"image"

	"golang.org/x/image/draw"

	"go.jacobcolvin.com/textreel/glyph"
	"go.jacobcolvin.com/textreel/luma"
	"go.jacobcolvin.com/textreel/surface"
)

// Sampler downsamples frames onto a [surface.Grid], mapping every cell to a
// glyph and color tier through a shared [luma.Table].
//
// A Sampler keeps a scratch image sized to the last target grid, so it must
// not be used from more than one goroutine at a time.
//
// Create instances with [New].
type Sampler struct {
	table   *luma.Table
	scratch *image.RGBA
	ramp    glyph.Ramp
}

// New creates a [Sampler] that reads brightness from table and picks glyphs
// from ramp.
func New(table *luma.Table, ramp glyph.Ramp) *Sampler {
	return &Sampler{
		table: table,
		ramp:  ramp,
	}
}

// Sample resizes frame to the grid's dimensions with nearest-neighbor
// interpolation and fills every cell. It reports false without touching the
// grid when the grid has no columns or no rows.
func (s *Sampler) Sample(frame image.Image, grid *surface.Grid) bool {
	w, h := grid.Width(), grid.Height()
	if w < 1 || h < 1 {
		return false
	}

	dst := s.target(w, h)
	draw.NearestNeighbor.Scale(dst, dst.Rect, frame, frame.Bounds(), draw.Src, nil)

	cells := grid.Cells()

	for y := range h {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]

		for x := range w {
			px := row[x*4 : x*4+3]
			b := s.table.Lookup(luma.Key(px[0], px[1], px[2]))
			cells[y*w+x] = s.ramp.Cell(b)
		}
	}

	return true
}

// target returns the scratch image, reallocating it when the size changes.
func (s *Sampler) target(w, h int) *image.RGBA {
	if s.scratch == nil || s.scratch.Rect.Dx() != w || s.scratch.Rect.Dy() != h {
		s.scratch = image.NewRGBA(image.Rect(0, 0, w, h))
	}

	return s.scratch
}
