package audio

import (
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Backend is the process-wide audio output
type Backend interface {
	Init(rate beep.SampleRate, bufferSize int) error
	// Play mixes s into the output; each call is an independent voice
	Play(s beep.Streamer)
	Suspend() error
	Resume() error
	Close()
}

// speakerBackend drives the beep speaker
type speakerBackend struct{}

// NewSpeakerBackend returns the system speaker backend
func NewSpeakerBackend() Backend {
	return speakerBackend{}
}

func (speakerBackend) Init(rate beep.SampleRate, bufferSize int) error {
	return speaker.Init(rate, bufferSize)
}

func (speakerBackend) Play(s beep.Streamer) {
	speaker.Play(s)
}

func (speakerBackend) Suspend() error {
	return speaker.Suspend()
}

func (speakerBackend) Resume() error {
	return speaker.Resume()
}

func (speakerBackend) Close() {
	speaker.Clear()
	speaker.Close()
}
