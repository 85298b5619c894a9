package spectrum

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidFrequency indicates a frequency outside [0, sampleRate/2]
// or a non-positive sample rate.
var ErrInvalidFrequency = errors.New("spectrum: invalid frequency")

// PowerAt evaluates |X(f)|^2 of block at an arbitrary frequency with the
// Goertzel recurrence. The scale matches the bins of an unnormalized DFT of
// the same block, so the result compares directly with [PowerSpectrum].
func PowerAt(block []float64, freq, sampleRate float64) (float64, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return 0, fmt.Errorf("%w: sample rate %v", ErrInvalidFrequency, sampleRate)
	}

	if !(freq >= 0 && freq <= sampleRate/2) {
		return 0, fmt.Errorf("%w: %v Hz at %v Hz", ErrInvalidFrequency, freq, sampleRate)
	}

	c := 2 * math.Cos(2*math.Pi*freq/sampleRate)

	var s1, s2 float64
	for _, x := range block {
		s1, s2 = x+c*s1-s2, s1
	}

	return math.Max(0, s1*s1+s2*s2-c*s1*s2), nil
}

// PowersAt evaluates [PowerAt] for each frequency.
func PowersAt(block, freqs []float64, sampleRate float64) ([]float64, error) {
	out := make([]float64, len(freqs))

	for i, f := range freqs {
		p, err := PowerAt(block, f, sampleRate)
		if err != nil {
			return nil, err
		}

		out[i] = p
	}

	return out, nil
}
