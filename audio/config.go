package audio

import (
	"github.com/lixenwraith/hand-sphere/constants"
)

// Config holds feedback audio settings
type Config struct {
	Enabled    bool
	SampleRate int
	// MaxVoices caps concurrently sounding tones; 0 disables the cap
	MaxVoices int
	// Volume is a linear master gain applied on top of the tone envelope
	Volume float64
}

// DefaultConfig returns audio defaults
func DefaultConfig() *Config {
	return &Config{
		Enabled:    true,
		SampleRate: constants.DefaultSampleRate,
		MaxVoices:  constants.DefaultMaxVoices,
		Volume:     1.0,
	}
}

// normalize clamps out-of-range values to defaults
func (c *Config) normalize() {
	if c.SampleRate <= 0 {
		c.SampleRate = constants.DefaultSampleRate
	}
	if c.MaxVoices < 0 {
		c.MaxVoices = 0
	}
	if c.Volume < 0 {
		c.Volume = 0
	}
	if c.Volume > 1 {
		c.Volume = 1
	}
}
