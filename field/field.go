// Package field runs the per-frame force-field simulation of the particle
// cloud: repulsion from interaction points, spring-back to rest, coloring,
// and probabilistic feedback triggers.
package field

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/lixenwraith/hand-sphere/constants"
	"github.com/lixenwraith/hand-sphere/point"
	"github.com/lixenwraith/hand-sphere/render"
	"github.com/lixenwraith/hand-sphere/vmath"
)

// ColorPolicy decides which in-range point colors a particle
type ColorPolicy uint8

const (
	// ColorNearest picks the closest in-range point; ties go to the later point
	ColorNearest ColorPolicy = iota
	// ColorLast picks the last in-range point in iteration order
	ColorLast
)

// ParseColorPolicy maps "nearest" and "last" to a policy
func ParseColorPolicy(s string) (ColorPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nearest":
		return ColorNearest, nil
	case "last":
		return ColorLast, nil
	default:
		return ColorNearest, fmt.Errorf("unknown color policy %q", s)
	}
}

// String implements fmt.Stringer
func (p ColorPolicy) String() string {
	if p == ColorLast {
		return "last"
	}
	return "nearest"
}

// FeedbackEvent fires when a particle is disturbed by a point
type FeedbackEvent struct {
	Identity int
	X, Y     float64 // Point position in raster units
}

// FeedbackSink receives feedback events; it must not block
type FeedbackSink interface {
	Feedback(FeedbackEvent)
}

// Config holds the field tuning
type Config struct {
	Count          int
	SphereRadius   float64
	Radius         float64 // Interaction radius, exclusive
	Strength       float64 // Peak repulsion per point
	Speed          float64 // Spring-back fraction per frame
	FeedbackChance float64
	Policy         ColorPolicy
}

// DefaultConfig returns the standard tuning
func DefaultConfig() *Config {
	return &Config{
		Count:          constants.ParticleCount,
		SphereRadius:   constants.SphereRadius,
		Radius:         constants.InteractionRadius,
		Strength:       constants.RepulsionStrength,
		Speed:          constants.SpringSpeed,
		FeedbackChance: constants.FeedbackChance,
		Policy:         ColorNearest,
	}
}

// Field owns the particle set
// Not safe for concurrent use; the loop goroutine is the only caller
type Field struct {
	config    *Config
	rng       *rand.Rand
	sink      FeedbackSink
	particles []Particle

	width, height float64
}

// New creates an empty field; call InitScene before Update
// A nil sink discards feedback events
func New(cfg *Config, rng *rand.Rand, sink FeedbackSink) *Field {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Field{
		config: cfg,
		rng:    rng,
		sink:   sink,
	}
}

// InitScene replaces the whole particle set for a w x h viewport
func (f *Field) InitScene(w, h float64) {
	f.width, f.height = w, h
	f.particles = InitScene(w, h, f.config.Count, f.config.SphereRadius, f.rng)
}

// SetParticles replaces the particle set directly
func (f *Field) SetParticles(ps []Particle) {
	f.particles = ps
}

// Particles returns the live particle slice
func (f *Field) Particles() []Particle {
	return f.particles
}

// Viewport returns the dimensions of the last InitScene
func (f *Field) Viewport() (w, h float64) {
	return f.width, f.height
}

// Update advances every particle one frame against the given points
func (f *Field) Update(points []point.Resolved) {
	for i := range f.particles {
		f.step(&f.particles[i], points)
	}
}

// step applies repulsion, spring-back and coloring to one particle
func (f *Field) step(p *Particle, points []point.Resolved) {
	cfg := f.config
	pos := vmath.Vec2{X: p.X, Y: p.Y}

	var push vmath.Vec2
	colored := false
	owner := 0
	best := 0.0

	for _, pt := range points {
		delta := pt.Pos.Sub(pos)
		unit, dist, ok := vmath.Normalize(delta, constants.DegenerateDistance)
		if dist >= cfg.Radius {
			continue
		}

		if ok {
			force := (cfg.Radius - dist) / cfg.Radius * cfg.Strength
			push = push.Sub(unit.Scale(force))
		}

		switch {
		case !colored, cfg.Policy == ColorLast, dist <= best:
			owner, best = pt.Identity, dist
		}
		colored = true

		if f.sink != nil && f.rng.Float64() < cfg.FeedbackChance {
			f.sink.Feedback(FeedbackEvent{Identity: pt.Identity, X: pt.Pos.X, Y: pt.Pos.Y})
		}
	}

	if colored {
		p.Color = ColorFor(owner)
		p.Owner = owner
		p.Active = true
	} else {
		p.Color = render.RGBNeutral
		p.Owner = 0
		p.Active = false
	}

	rest := vmath.Vec2{X: p.BaseX, Y: p.BaseY}
	next := pos.Add(push).Add(rest.Sub(pos).Scale(cfg.Speed))
	if !next.IsFinite() {
		return
	}
	p.X, p.Y = next.X, next.Y
}

// Draw paints every particle onto the surface
func (f *Field) Draw(s render.Surface) {
	for i := range f.particles {
		p := &f.particles[i]
		s.FillCircle(p.X, p.Y, p.Size, p.Color)
	}
}
