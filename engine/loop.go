// Package engine drives the per-frame loop: it applies queued updates to the
// session, gathers interaction points, advances the field, and renders.
// The loop goroutine is the only writer of session and field state.
package engine

import (
	"context"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/hand-sphere/constants"
	"github.com/lixenwraith/hand-sphere/event"
	"github.com/lixenwraith/hand-sphere/field"
	"github.com/lixenwraith/hand-sphere/logger"
	"github.com/lixenwraith/hand-sphere/point"
	"github.com/lixenwraith/hand-sphere/render"
	"github.com/lixenwraith/hand-sphere/session"
)

// Sender publishes local pointer changes to peers
type Sender interface {
	SendMove(nx, ny float64) bool
	SendEnd() bool
}

// Feedback plays a tone per disturbed particle
type Feedback interface {
	Emit(identity int, y, height float64) bool
	Resume()
	Suspend()
	Suspended() bool
	Silent() bool
}

// Resizer is implemented by surfaces whose size follows an output device
type Resizer interface {
	// Sync re-reads the device size and reports whether it changed
	Sync() bool
}

// Config holds loop timing
type Config struct {
	FrameInterval time.Duration
	FadeAlpha     float64
}

// DefaultConfig returns loop defaults
func DefaultConfig() Config {
	return Config{
		FrameInterval: constants.FrameUpdateInterval,
		FadeAlpha:     constants.FadeAlpha,
	}
}

// Deps are the loop collaborators; Sender and Feedback may be nil
type Deps struct {
	Queue    *event.EventQueue
	Surface  render.Surface
	Sender   Sender
	Feedback Feedback
	Field    *field.Config
	Rand     *rand.Rand
	Log      logrus.FieldLogger
}

// Loop owns the simulation state
type Loop struct {
	config   Config
	queue    *event.EventQueue
	surface  render.Surface
	sender   Sender
	feedback Feedback
	log      logrus.FieldLogger

	field   *field.Field
	session *session.Session
	local   point.Local

	conn       event.ConnState
	generation uint64
	endSent    bool
	quit       bool
	frames     uint64
}

// NewLoop creates a loop and lays out the scene for the surface size
func NewLoop(cfg Config, deps Deps) *Loop {
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = constants.FrameUpdateInterval
	}
	if deps.Queue == nil {
		deps.Queue = event.NewEventQueue()
	}
	l := &Loop{
		config:   cfg,
		queue:    deps.Queue,
		surface:  deps.Surface,
		sender:   deps.Sender,
		feedback: deps.Feedback,
		log:      logger.OrDiscard(deps.Log).WithField("component", "loop"),
		session:  session.New(),
		endSent:  true,
	}
	l.field = field.New(deps.Field, deps.Rand, l)

	w, h := l.surface.Size()
	l.field.InitScene(w, h)
	return l
}

// Run steps one frame per interval until ctx is cancelled or a quit event
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.config.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !l.Frame() {
				return nil
			}
		}
	}
}

// Frame applies pending events and renders one frame
// Returns false once a quit event has been applied
func (l *Loop) Frame() bool {
	for _, ev := range l.queue.Consume() {
		l.apply(ev)
	}
	if l.quit {
		return false
	}

	w, h := l.field.Viewport()
	points := point.Collect(l.local, l.session.Remote(), w, h)
	l.field.Update(points)

	l.surface.Fade(l.config.FadeAlpha)
	l.field.Draw(l.surface)
	if sl, ok := l.surface.(render.StatusLine); ok {
		sl.SetStatus(l.statusText(), l.statusSwatch())
	}
	l.surface.Present()

	l.frames++
	return true
}

// apply routes one queued event
// Unexpected payloads are ignored so a bad producer cannot stop the loop
func (l *Loop) apply(ev event.UpdateEvent) {
	switch ev.Type {
	case event.EventConnState:
		if p, ok := ev.Payload.(event.ConnStatePayload); ok {
			l.applyConnState(p)
		}

	case event.EventIdentity:
		if p, ok := ev.Payload.(event.IdentityPayload); ok {
			l.applyIdentity(p.ID)
		}

	case event.EventParticipants:
		if p, ok := ev.Payload.(event.ParticipantsPayload); ok {
			l.session.SetParticipants(p.Count)
		}

	case event.EventRemoteMove:
		if p, ok := ev.Payload.(event.RemoteMovePayload); ok {
			l.session.ApplyMove(p.Sender, p.X, p.Y)
		}

	case event.EventRemoteEnd:
		if p, ok := ev.Payload.(event.RemoteEndPayload); ok {
			l.session.ApplyEnd(p.Sender)
		}

	case event.EventLocalDetect:
		if p, ok := ev.Payload.(event.LocalDetectPayload); ok {
			l.applyDetect(p.X, p.Y)
		}

	case event.EventLocalLost:
		l.applyLost()

	case event.EventResize:
		l.resize()

	case event.EventGesture:
		if l.feedback != nil {
			l.feedback.Resume()
		}

	case event.EventToggleMute:
		if l.feedback != nil {
			if l.feedback.Suspended() {
				l.feedback.Resume()
			} else {
				l.feedback.Suspend()
			}
		}

	case event.EventQuit:
		l.quit = true
	}
}

func (l *Loop) applyConnState(p event.ConnStatePayload) {
	prev := l.conn
	l.conn = p.State

	if p.State == event.ConnJoined && p.Generation != l.generation {
		// New connection: identities from the old one are meaningless
		l.generation = p.Generation
		l.session.Reset()
		l.local.Identity = 0
		l.log.WithField("generation", p.Generation).Debug("session reset for new connection")
	}

	if prev != p.State {
		entry := l.log.WithField("state", p.State.String())
		if p.Err != nil {
			entry = entry.WithError(p.Err)
		}
		entry.Info("relay state changed")
	}
}

func (l *Loop) applyIdentity(id int) {
	if !l.session.AssignIdentity(id) {
		return
	}
	l.local.Identity = id
	// Publish a pointer that was already present before the identity arrived
	if l.local.Valid && l.sender != nil {
		l.sender.SendMove(l.local.NX, l.local.NY)
	}
}

func (l *Loop) applyDetect(nx, ny float64) {
	w, h := l.field.Viewport()
	l.local.Detect(nx, ny, w, h)
	l.endSent = false
	if l.sender != nil {
		l.sender.SendMove(nx, ny)
	}
}

// applyLost hides the local pointer and tells peers once per loss
func (l *Loop) applyLost() {
	l.local.Lose()
	if l.endSent {
		return
	}
	l.endSent = true
	if l.sender != nil {
		l.sender.SendEnd()
	}
}

// resize relays out the scene when the surface size changed
func (l *Loop) resize() {
	if r, ok := l.surface.(Resizer); ok {
		r.Sync()
	}
	w, h := l.surface.Size()
	if fw, fh := l.field.Viewport(); fw == w && fh == h {
		return
	}
	l.field.InitScene(w, h)
	l.local.Rescale(w, h)
	l.log.WithFields(logrus.Fields{"width": w, "height": h}).Debug("scene reinitialized")
}

// Feedback implements field.FeedbackSink
func (l *Loop) Feedback(ev field.FeedbackEvent) {
	if l.feedback == nil {
		return
	}
	_, h := l.field.Viewport()
	l.feedback.Emit(ev.Identity, ev.Y, h)
}

// Session returns the loop's session; only safe on the loop goroutine
func (l *Loop) Session() *session.Session {
	return l.session
}

// Field returns the simulated field; only safe on the loop goroutine
func (l *Loop) Field() *field.Field {
	return l.field
}

// Local returns the local pointer state
func (l *Loop) Local() point.Local {
	return l.local
}

// Frames returns the number of rendered frames
func (l *Loop) Frames() uint64 {
	return l.frames
}
