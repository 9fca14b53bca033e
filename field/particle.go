package field

import (
	"math"
	"math/rand"

	"github.com/lixenwraith/hand-sphere/constants"
	"github.com/lixenwraith/hand-sphere/render"
)

// Particle is one point of the cloud
// Base and Size are fixed at creation, position and color change every frame
type Particle struct {
	BaseX, BaseY float64
	X, Y         float64
	Size         float64
	Color        render.RGB
	Owner        int  // Identity of the point that colored the particle
	Active       bool // False means Color is the neutral color
}

// Palette is the per-participant color set, indexed by identity
var Palette = []render.RGB{
	render.MustParseHex("#FFD700"),
	render.MustParseHex("#00FFFF"),
	render.MustParseHex("#FF00FF"),
	render.MustParseHex("#7FFF00"),
	render.MustParseHex("#FF4500"),
	render.MustParseHex("#00BFFF"),
	render.MustParseHex("#FFFFFF"),
	render.MustParseHex("#FF1493"),
}

// ColorFor returns the palette color bound to an identity
func ColorFor(identity int) render.RGB {
	n := len(Palette)
	return Palette[((identity%n)+n)%n]
}

// InitScene lays out count particles on a sphere projected onto the plane,
// centered in a w x h viewport
// Positions depend only on count, radius and viewport; rng only picks sizes
func InitScene(w, h float64, count int, radius float64, rng *rand.Rand) []Particle {
	particles := make([]Particle, count)
	cx, cy := w/2, h/2
	spiral := math.Sqrt(float64(count) * math.Pi)

	for i := 0; i < count; i++ {
		phi := math.Acos(-1 + 2*float64(i)/float64(count))
		theta := spiral * phi

		x := cx + radius*math.Sin(phi)*math.Cos(theta)
		y := cy + radius*math.Sin(phi)*math.Sin(theta)

		particles[i] = Particle{
			BaseX: x,
			BaseY: y,
			X:     x,
			Y:     y,
			Size:  constants.ParticleMinSize + rng.Float64()*constants.ParticleSizeSpread,
			Color: render.RGBNeutral,
		}
	}
	return particles
}
