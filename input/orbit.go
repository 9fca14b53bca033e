package input

import (
	"context"
	"math"
	"time"

	"github.com/lixenwraith/hand-sphere/event"
)

// OrbitConfig shapes the synthetic pointer path
type OrbitConfig struct {
	CenterX, CenterY float64
	Radius           float64
	Period           time.Duration
	Interval         time.Duration
	// Gap is the fraction of each period during which no hand is reported
	Gap float64
	// Phase offsets the start position as a fraction of the period
	Phase float64
}

// DefaultOrbitConfig circles the middle of the viewport
func DefaultOrbitConfig() OrbitConfig {
	return OrbitConfig{
		CenterX:  0.5,
		CenterY:  0.5,
		Radius:   0.3,
		Period:   8 * time.Second,
		Interval: 33 * time.Millisecond,
		Gap:      0.2,
	}
}

// OrbitTracker moves the pointer around a circle, for demos and bots
type OrbitTracker struct {
	q      *event.EventQueue
	config OrbitConfig
	mirror bool
}

// NewOrbitTracker creates a synthetic tracker
func NewOrbitTracker(q *event.EventQueue, cfg OrbitConfig, mirror bool) *OrbitTracker {
	if cfg.Period <= 0 {
		cfg.Period = DefaultOrbitConfig().Period
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultOrbitConfig().Interval
	}
	return &OrbitTracker{q: q, config: cfg, mirror: mirror}
}

// Position returns the pointer at elapsed time, or ok=false inside the gap
func (o *OrbitTracker) Position(elapsed time.Duration) (nx, ny float64, ok bool) {
	phase := math.Mod(float64(elapsed)/float64(o.config.Period)+o.config.Phase, 1)
	if phase >= 1-o.config.Gap {
		return 0, 0, false
	}
	angle := 2 * math.Pi * phase
	nx = o.config.CenterX + o.config.Radius*math.Cos(angle)
	ny = o.config.CenterY + o.config.Radius*math.Sin(angle)
	return clampUnit(nx), clampUnit(ny), true
}

// Run emits one detection or loss per interval
func (o *OrbitTracker) Run(ctx context.Context) error {
	ticker := time.NewTicker(o.config.Interval)
	defer ticker.Stop()

	start := time.Now()
	present := false

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			nx, ny, ok := o.Position(now.Sub(start))
			switch {
			case ok:
				present = pushDetect(o.q, nx, ny, o.mirror)
			case present:
				present = false
				pushLost(o.q)
			}
		}
	}
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
