package fir

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/algo-voice/dsp/window"
)

// DesignLowPass designs a linear-phase lowpass filter from an ideal sinc
// with cutoff in cycles per sample, tapered by win. The taps have the
// length of win and unity gain at DC.
func DesignLowPass(cutoff float64, win []float64) ([]float64, error) {
	if len(win) == 0 {
		return nil, fmt.Errorf("%w: empty window", ErrInvalidDesign)
	}

	if !(cutoff > 0 && cutoff < 0.5) {
		return nil, fmt.Errorf("%w: cutoff %v outside (0, 0.5)", ErrInvalidDesign, cutoff)
	}

	centre := 0.5 * float64(len(win)-1)

	h := make([]float64, len(win))
	for n, w := range win {
		h[n] = idealLowPass(cutoff, float64(n)-centre) * w
	}

	sum := vecmath.Sum(h)
	if sum == 0 || math.IsNaN(sum) {
		return nil, fmt.Errorf("%w: zero DC gain", ErrInvalidDesign)
	}

	vecmath.ScaleBlockInPlace(h, 1/sum)

	return h, nil
}

// DesignBandPass designs a linear-phase bandpass filter with numTaps taps
// passing [lowHz, highHz] at sampleRate.
//
// The ideal response is the difference of two lowpass sinc kernels,
// truncated with a symmetric Hamming window and scaled so the gain at the
// centre of the passband is exactly 1. numTaps must be odd so that the
// response is zero at both DC and Nyquist.
func DesignBandPass(numTaps int, lowHz, highHz, sampleRate float64) ([]float64, error) {
	if err := validateBandPass(numTaps, lowHz, highHz, sampleRate); err != nil {
		return nil, err
	}

	win, err := window.Hamming(numTaps)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDesign, err)
	}

	lo := lowHz / sampleRate
	hi := highHz / sampleRate
	centre := 0.5 * float64(numTaps-1)

	h := make([]float64, numTaps)
	for n := range h {
		m := float64(n) - centre
		h[n] = (idealLowPass(hi, m) - idealLowPass(lo, m)) * win[n]
	}

	gain := New(h).Gain(0.5*(lowHz+highHz), sampleRate)
	if gain == 0 || math.IsNaN(gain) {
		return nil, fmt.Errorf("%w: zero gain at band centre", ErrInvalidDesign)
	}

	vecmath.ScaleBlockInPlace(h, 1/gain)

	return h, nil
}

func validateBandPass(numTaps int, lowHz, highHz, sampleRate float64) error {
	switch {
	case !(sampleRate > 0) || math.IsInf(sampleRate, 0):
		return fmt.Errorf("%w: sample rate must be > 0: %v", ErrInvalidDesign, sampleRate)
	case numTaps < 3 || numTaps%2 == 0:
		return fmt.Errorf("%w: numTaps must be odd and >= 3: %d", ErrInvalidDesign, numTaps)
	case !(lowHz > 0):
		return fmt.Errorf("%w: low cutoff must be > 0: %v", ErrInvalidDesign, lowHz)
	case !(lowHz < highHz):
		return fmt.Errorf("%w: low cutoff %v must be below high cutoff %v", ErrInvalidDesign, lowHz, highHz)
	case !(highHz < sampleRate/2):
		return fmt.Errorf("%w: high cutoff %v must be below Nyquist %v", ErrInvalidDesign, highHz, sampleRate/2)
	}

	return nil
}

// idealLowPass is the impulse response of an ideal lowpass with cutoff fc
// (cycles per sample) at offset m from the centre tap.
func idealLowPass(fc, m float64) float64 {
	if m == 0 {
		return 2 * fc
	}

	x := 2 * math.Pi * fc * m

	return math.Sin(x) / (math.Pi * m)
}
