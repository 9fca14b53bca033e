package render

import "github.com/lixenwraith/hand-sphere/constants"

// Cell is one terminal cell of the raster
type Cell struct {
	Color RGB
	Size  float64 // Largest circle radius drawn into the cell since it was cleared
	Lit   bool
}

// Canvas is an in-memory cell raster
// Each cell covers constants.CellWidth x constants.CellHeight raster units
type Canvas struct {
	cols, rows int
	cells      []Cell
}

// NewCanvas creates a canvas of cols x rows cells
func NewCanvas(cols, rows int) *Canvas {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	return &Canvas{
		cols:  cols,
		rows:  rows,
		cells: make([]Cell, cols*rows),
	}
}

// Resize discards content and reallocates
func (c *Canvas) Resize(cols, rows int) {
	*c = *NewCanvas(cols, rows)
}

// Grid returns the cell dimensions
func (c *Canvas) Grid() (cols, rows int) {
	return c.cols, c.rows
}

// Size implements Surface
func (c *Canvas) Size() (width, height float64) {
	return float64(c.cols * constants.CellWidth), float64(c.rows * constants.CellHeight)
}

// Fade implements Surface
func (c *Canvas) Fade(alpha float64) {
	for i := range c.cells {
		cell := &c.cells[i]
		if !cell.Lit {
			continue
		}
		cell.Color = Blend(cell.Color, RGBBlack, alpha)
		if cell.Color.Luma() < constants.FadeCutoff {
			*cell = Cell{}
		}
	}
}

// FillCircle implements Surface
// Circles are far smaller than a cell, so only the cell under the center is painted
func (c *Canvas) FillCircle(x, y, radius float64, color RGB) {
	col, row, ok := c.cellAt(x, y)
	if !ok {
		return
	}
	cell := &c.cells[row*c.cols+col]
	cell.Color = color
	cell.Lit = true
	if radius > cell.Size {
		cell.Size = radius
	}
}

// Present implements Surface
func (c *Canvas) Present() {}

// At returns the cell at col,row
func (c *Canvas) At(col, row int) (Cell, bool) {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return Cell{}, false
	}
	return c.cells[row*c.cols+col], true
}

// LitCount returns the number of painted cells
func (c *Canvas) LitCount() int {
	n := 0
	for i := range c.cells {
		if c.cells[i].Lit {
			n++
		}
	}
	return n
}

func (c *Canvas) cellAt(x, y float64) (col, row int, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col = int(x) / constants.CellWidth
	row = int(y) / constants.CellHeight
	if col >= c.cols || row >= c.rows {
		return 0, 0, false
	}
	return col, row, true
}

// glyphFor picks a particle glyph by drawn radius
func glyphFor(size float64) rune {
	glyphs := constants.ParticleGlyphs
	span := constants.ParticleSizeSpread / float64(len(glyphs))
	idx := int((size - constants.ParticleMinSize) / span)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(glyphs) {
		idx = len(glyphs) - 1
	}
	return glyphs[idx]
}
