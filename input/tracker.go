// Package input provides trackers that stand in for the hand detector: each
// produces at most one normalized local pointer per step, or a loss signal,
// and pushes it onto the event queue.
package input

import (
	"context"
	"math"

	"github.com/lixenwraith/hand-sphere/event"
)

// Tracker produces local pointer detections onto the queue it was built
// with until ctx is cancelled or its source ends
type Tracker interface {
	Run(ctx context.Context) error
}

// Kind names a tracker implementation
type Kind string

const (
	KindMouse Kind = "mouse"
	KindStdin Kind = "stdin"
	KindOrbit Kind = "orbit"
)

// Valid reports whether k is a known tracker
func (k Kind) Valid() bool {
	switch k {
	case KindMouse, KindStdin, KindOrbit:
		return true
	}
	return false
}

// pushDetect queues a detection, mirrored horizontally if requested
// Out-of-range or non-finite coordinates are reported as a loss
func pushDetect(q *event.EventQueue, nx, ny float64, mirror bool) bool {
	if !inUnit(nx) || !inUnit(ny) {
		pushLost(q)
		return false
	}
	if mirror {
		nx = 1 - nx
	}
	q.Push(event.UpdateEvent{Type: event.EventLocalDetect, Payload: event.LocalDetectPayload{X: nx, Y: ny}})
	return true
}

func pushLost(q *event.EventQueue) {
	q.Push(event.UpdateEvent{Type: event.EventLocalLost})
}

func inUnit(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}
