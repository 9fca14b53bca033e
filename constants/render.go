package constants

import "time"

// Terminal Raster Mapping
// One terminal cell covers CellWidth x CellHeight raster units, so an 80x24
// terminal yields an 800x480 raster
const (
	CellWidth  = 10
	CellHeight = 20
)

// Frame Fade
const (
	// FadeAlpha is the opacity of the black fill applied before each frame
	FadeAlpha = 0.2

	// FadeCutoff is the intensity under which a cell is cleared
	FadeCutoff = 0.05
)

// Particle Glyphs by intensity, dimmest first
var ParticleGlyphs = []rune{'·', '•', '●'}

// Pointer Input
const (
	// MouseIdleTimeout is how long a still mouse keeps the local pointer
	MouseIdleTimeout = 3 * time.Second
)
