package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/hand-sphere/constants"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveTriangle
	WaveSquare
	WaveSaw
	waveCount
)

var waveNames = [waveCount]string{"sine", "triangle", "square", "sawtooth"}

func (w WaveType) String() string {
	if w < 0 || w >= waveCount {
		return "unknown"
	}
	return waveNames[w]
}

// WaveFor returns the timbre bound to an identity
func WaveFor(identity int) WaveType {
	m := identity % int(waveCount)
	if m < 0 {
		m += int(waveCount)
	}
	return WaveType(m)
}

// FrequencyFor returns the starting pitch for a tone at vertical position y
// Higher on screen is higher in pitch; a non-positive height drops the
// vertical term
func FrequencyFor(identity int, y, height float64) float64 {
	step := (identity * constants.ToneIdentityStep) % constants.ToneIdentityWrap
	if step < 0 {
		step += constants.ToneIdentityWrap
	}
	f := constants.ToneBaseFrequency + float64(step)
	if height > 0 {
		f += (1 - y/height) * constants.ToneVerticalRange
	}
	return f
}

// tone is a single decaying voice: pitch and gain both fall exponentially
type tone struct {
	wave  WaveType
	phase float64
	rate  beep.SampleRate

	freq     float64
	freqStep float64 // per-sample multiplier
	gain     float64
	gainStep float64

	duration int
	position int
}

// NewTone creates a voice starting at freq that lasts duration
func NewTone(wave WaveType, freq float64, duration time.Duration, rate beep.SampleRate) beep.Streamer {
	n := rate.N(duration)
	if n < 1 {
		n = 1
	}
	return &tone{
		wave:     wave,
		rate:     rate,
		freq:     freq,
		freqStep: math.Pow(constants.ToneEndFrequencyRatio, 1/float64(n)),
		gain:     constants.ToneStartGain,
		gainStep: math.Pow(constants.ToneEndGain/constants.ToneStartGain, 1/float64(n)),
		duration: n,
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.position >= t.duration {
			return i, false
		}

		val := t.gain * sample(t.wave, t.phase)
		samples[i][0] = val
		samples[i][1] = val

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase) // Keep in [0, 1)
		t.freq *= t.freqStep
		t.gain *= t.gainStep
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// sample evaluates one period of the wave at phase p in [0, 1)
func sample(w WaveType, p float64) float64 {
	switch w {
	case WaveTriangle:
		return 1 - 4*math.Abs(p-0.5)
	case WaveSquare:
		if p < 0.5 {
			return 1
		}
		return -1
	case WaveSaw:
		return 2*p - 1
	default:
		return math.Sin(2 * math.Pi * p)
	}
}

// newVolume wraps s with a linear gain
// math.Log2(0) is -Inf, so zero volume is handled as silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
