package constants

import "time"

// Audio Backend
const (
	// DefaultSampleRate is the speaker sample rate in Hz
	DefaultSampleRate = 44100

	// SpeakerBufferDuration is the speaker buffer length passed to speaker.Init
	SpeakerBufferDuration = 100 * time.Millisecond

	// DefaultMaxVoices caps simultaneously sounding tones
	DefaultMaxVoices = 32
)

// Feedback Tone Shape
const (
	// ToneDuration is the lifetime of one feedback tone
	ToneDuration = 500 * time.Millisecond

	// ToneStartGain is the linear gain at tone onset
	ToneStartGain = 0.05

	// ToneEndGain is the linear gain reached at ToneDuration
	ToneEndGain = 0.0001

	// ToneEndFrequencyRatio is the fraction of the start frequency reached at ToneDuration
	ToneEndFrequencyRatio = 0.2
)

// Feedback Tone Pitch
const (
	// ToneBaseFrequency is the pitch floor for identity 0
	ToneBaseFrequency = 100.0

	// ToneIdentityStep is the pitch added per identity before wrapping
	ToneIdentityStep = 50

	// ToneIdentityWrap bounds the identity pitch term
	ToneIdentityWrap = 300

	// ToneVerticalRange is the pitch added at the top of the viewport
	ToneVerticalRange = 400.0
)
