// Package audio plays short feedback tones when particles are disturbed.
// The output backend is shared by the whole process, opened on the first
// tone, and may be suspended and resumed; each tone is an independent voice.
package audio

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/hand-sphere/constants"
	"github.com/lixenwraith/hand-sphere/logger"
)

// ErrNoAudioBackend wraps backend initialization failures
var ErrNoAudioBackend = errors.New("no audio backend")

type backendState uint8

const (
	stateIdle backendState = iota // Not opened yet
	stateReady
	stateSuspended
	stateSilent // Disabled, failed, or closed
)

// Emitter turns feedback events into tones
// Safe for concurrent use; a failed backend degrades to silence
type Emitter struct {
	config  *Config
	backend Backend
	log     logrus.FieldLogger
	rate    beep.SampleRate

	mu      sync.Mutex
	state   backendState
	initErr error

	active  atomic.Int32
	played  atomic.Uint64
	dropped atomic.Uint64
}

// NewEmitter creates an emitter; a nil backend selects the system speaker
// The backend is not opened until the first Emit
func NewEmitter(cfg *Config, backend Backend, log logrus.FieldLogger) *Emitter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.normalize()
	if backend == nil {
		backend = NewSpeakerBackend()
	}
	e := &Emitter{
		config:  cfg,
		backend: backend,
		log:     logger.OrDiscard(log).WithField("component", "audio"),
		rate:    beep.SampleRate(cfg.SampleRate),
	}
	if !cfg.Enabled {
		e.state = stateSilent
	}
	return e
}

// Emit starts one tone for identity at vertical position y of a viewport
// of the given height. Returns false if the tone was dropped
func (e *Emitter) Emit(identity int, y, height float64) bool {
	if !e.ready() {
		e.dropped.Add(1)
		return false
	}

	if limit := e.config.MaxVoices; limit > 0 {
		if int(e.active.Add(1)) > limit {
			e.active.Add(-1)
			e.dropped.Add(1)
			return false
		}
	} else {
		e.active.Add(1)
	}

	voice := NewTone(WaveFor(identity), FrequencyFor(identity, y, height), constants.ToneDuration, e.rate)
	done := beep.Callback(func() { e.active.Add(-1) })
	e.backend.Play(beep.Seq(newVolume(voice, e.config.Volume), done))
	e.played.Add(1)
	return true
}

// ready opens the backend on first use
func (e *Emitter) ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == stateIdle {
		buffer := e.rate.N(constants.SpeakerBufferDuration)
		if err := e.backend.Init(e.rate, buffer); err != nil {
			e.initErr = fmt.Errorf("%w: %v", ErrNoAudioBackend, err)
			e.state = stateSilent
			e.log.WithError(err).Warn("audio unavailable, continuing silently")
			return false
		}
		e.state = stateReady
		e.log.WithField("sample_rate", e.config.SampleRate).Info("audio backend opened")
	}
	return e.state == stateReady
}

// Resume restarts a suspended backend; bound to user gestures
func (e *Emitter) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != stateSuspended {
		return
	}
	if err := e.backend.Resume(); err != nil {
		e.log.WithError(err).Warn("audio resume failed")
		return
	}
	e.state = stateReady
}

// Suspend pauses output; tones emitted while suspended are dropped
func (e *Emitter) Suspend() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != stateReady {
		return
	}
	if err := e.backend.Suspend(); err != nil {
		e.log.WithError(err).Warn("audio suspend failed")
		return
	}
	e.state = stateSuspended
}

// Suspended reports whether output is paused
func (e *Emitter) Suspended() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == stateSuspended
}

// Silent reports whether the emitter has degraded to silence
func (e *Emitter) Silent() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == stateSilent
}

// Err returns the backend initialization error, if any
func (e *Emitter) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initErr
}

// Close releases the backend at shutdown
func (e *Emitter) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == stateReady || e.state == stateSuspended {
		e.backend.Close()
	}
	e.state = stateSilent
}

// Stats returns tones played and dropped, and voices currently sounding
func (e *Emitter) Stats() (played, dropped uint64, active int) {
	return e.played.Load(), e.dropped.Load(), int(e.active.Load())
}
