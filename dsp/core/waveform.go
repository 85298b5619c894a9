package core

import (
	"errors"
	"fmt"
)

// ErrInvalidSampleRate is returned when a waveform is built with a
// non-positive sample rate.
var ErrInvalidSampleRate = errors.New("core: sample rate must be > 0")

// Waveform is a mono sequence of samples at a fixed sample rate.
//
// Analyzers treat a Waveform as read-only. Processing stages that change the
// signal return a new Waveform.
type Waveform struct {
	Samples    []float64
	SampleRate int
}

// NewWaveform validates sampleRate and returns a Waveform holding a copy of
// samples.
func NewWaveform(samples []float64, sampleRate int) (Waveform, error) {
	if sampleRate <= 0 {
		return Waveform{}, fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}

	return Waveform{
		Samples:    append([]float64(nil), samples...),
		SampleRate: sampleRate,
	}, nil
}

// Validate reports whether w satisfies the waveform invariants.
func (w Waveform) Validate() error {
	if w.SampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, w.SampleRate)
	}

	return nil
}

// Len returns the number of samples.
func (w Waveform) Len() int { return len(w.Samples) }

// Duration returns the length in seconds.
func (w Waveform) Duration() float64 {
	if w.SampleRate <= 0 {
		return 0
	}

	return float64(len(w.Samples)) / float64(w.SampleRate)
}

// Clone returns a deep copy of w.
func (w Waveform) Clone() Waveform {
	return Waveform{
		Samples:    append([]float64(nil), w.Samples...),
		SampleRate: w.SampleRate,
	}
}

// WithSamples returns a Waveform at the same rate holding samples.
// The slice is not copied.
func (w Waveform) WithSamples(samples []float64) Waveform {
	return Waveform{Samples: samples, SampleRate: w.SampleRate}
}
