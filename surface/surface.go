// Package surface holds the cell grid that a frame is sampled into before it
// is flushed to a display.
package surface

import "go.jacobcolvin.com/textreel/glyph"

// Grid is a width×height array of [glyph.Cell] values in row-major order.
//
// The grid mirrors the display's current viewport. When the viewport changes
// size the grid is reallocated with [Grid.Resize]; old contents are dropped,
// since the next sample overwrites every cell before anything is displayed.
//
// Create instances with [New].
type Grid struct {
	cells  []glyph.Cell
	width  int
	height int
}

// New allocates a grid of the given size.
func New(width, height int) *Grid {
	g := &Grid{}
	g.Resize(width, height)

	return g
}

// Resize discards the current cells and allocates a new grid of the given
// size. Prior contents are not preserved and the new cells are zero values.
// Negative dimensions are treated as zero.
func (g *Grid) Resize(width, height int) {
	width = max(width, 0)
	height = max(height, 0)

	g.width = width
	g.height = height
	g.cells = make([]glyph.Cell, width*height)
}

// Reconcile resizes the grid when its dimensions differ from width×height and
// reports whether it did.
func (g *Grid) Reconcile(width, height int) bool {
	if g.width == max(width, 0) && g.height == max(height, 0) {
		return false
	}

	g.Resize(width, height)

	return true
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Empty reports whether either dimension is zero.
func (g *Grid) Empty() bool {
	return g.width < 1 || g.height < 1
}

// At returns the cell at column x, row y.
func (g *Grid) At(x, y int) glyph.Cell {
	return g.cells[y*g.width+x]
}

// Set stores c at column x, row y.
func (g *Grid) Set(x, y int, c glyph.Cell) {
	g.cells[y*g.width+x] = c
}

// Row returns the cells of row y. The slice aliases the grid.
func (g *Grid) Row(y int) []glyph.Cell {
	start := y * g.width

	return g.cells[start : start+g.width]
}

// Cells returns every cell in row-major order. The slice aliases the grid.
func (g *Grid) Cells() []glyph.Cell {
	return g.cells
}
