package render

import (
	"github.com/gdamore/tcell/v2"
)

// TerminalSurface draws the raster onto a tcell screen
// The bottom row is reserved for the status bar
type TerminalSurface struct {
	screen tcell.Screen
	canvas *Canvas

	status string
	swatch RGB
}

// NewTerminalSurface creates a surface sized to the screen
func NewTerminalSurface(screen tcell.Screen) *TerminalSurface {
	ts := &TerminalSurface{
		screen: screen,
		canvas: NewCanvas(0, 0),
	}
	ts.Sync()
	return ts
}

// Sync re-reads the screen size, discarding the raster on change
// Returns true when the size changed
func (ts *TerminalSurface) Sync() bool {
	w, h := ts.screen.Size()
	h-- // status bar
	if h < 0 {
		h = 0
	}
	cols, rows := ts.canvas.Grid()
	if cols == w && rows == h {
		return false
	}
	ts.canvas.Resize(w, h)
	return true
}

// Size implements Surface
func (ts *TerminalSurface) Size() (width, height float64) {
	return ts.canvas.Size()
}

// Fade implements Surface
func (ts *TerminalSurface) Fade(alpha float64) {
	ts.canvas.Fade(alpha)
}

// FillCircle implements Surface
func (ts *TerminalSurface) FillCircle(x, y, radius float64, c RGB) {
	ts.canvas.FillCircle(x, y, radius, c)
}

// SetStatus implements StatusLine
func (ts *TerminalSurface) SetStatus(text string, swatch RGB) {
	ts.status = text
	ts.swatch = swatch
}

// Present implements Surface
func (ts *TerminalSurface) Present() {
	bg := tcell.StyleDefault.Background(tcell.ColorBlack)
	cols, rows := ts.canvas.Grid()

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			cell, _ := ts.canvas.At(col, row)
			if !cell.Lit {
				ts.screen.SetContent(col, row, ' ', nil, bg)
				continue
			}
			style := bg.Foreground(RGBToTcell(cell.Color))
			ts.screen.SetContent(col, row, glyphFor(cell.Size), nil, style)
		}
	}

	ts.drawStatusBar(cols, rows)
	ts.screen.Show()
}

func (ts *TerminalSurface) drawStatusBar(cols, row int) {
	style := tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	swatchStyle := tcell.StyleDefault.Background(RGBToTcell(ts.swatch))

	x := 0
	ts.screen.SetContent(x, row, ' ', nil, swatchStyle)
	x++
	ts.screen.SetContent(x, row, ' ', nil, style)
	x++
	for _, r := range ts.status {
		if x >= cols {
			break
		}
		ts.screen.SetContent(x, row, r, nil, style)
		x++
	}
	for ; x < cols; x++ {
		ts.screen.SetContent(x, row, ' ', nil, style)
	}
}
