// Package time holds time-domain level statistics: RMS, peak and framed
// RMS envelopes.
package time

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// RMS returns the root-mean-square of the signal, or 0 if it is empty.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	return math.Sqrt(energy(signal) / float64(len(signal)))
}

// Peak returns the largest absolute sample value.
func Peak(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	return vecmath.MaxAbs(signal)
}

// energy is the sum of squared samples.
func energy(x []float64) float64 {
	return vecmath.DotProduct(x, x)
}

// WindowRMS returns the RMS of signal[start:end] after clamping both bounds
// to [0, len(signal)]. ok is false when the clamped window is empty.
func WindowRMS(signal []float64, start, end int) (rms float64, ok bool) {
	start = clampIndex(start, len(signal))
	end = clampIndex(end, len(signal))

	if end <= start {
		return 0, false
	}

	return RMS(signal[start:end]), true
}

// FrameRMS returns one RMS value per hop.
//
// Frames are centred: the signal is padded with frameLength/2 zeros on both
// sides, so frame k covers samples [k*hop - frameLength/2, k*hop +
// frameLength/2) and there are 1 + len(signal)/hop frames. Padding zeros
// count towards the mean. Returns nil for invalid frame parameters.
func FrameRMS(signal []float64, frameLength, hop int) []float64 {
	if frameLength <= 0 || hop <= 0 {
		return nil
	}

	n := len(signal)
	half := frameLength / 2
	out := make([]float64, 1+n/hop)

	for k := range out {
		start := k*hop - half
		lo := clampIndex(start, n)
		hi := clampIndex(start+frameLength, n)

		out[k] = math.Sqrt(energy(signal[lo:hi]) / float64(frameLength))
	}

	return out
}

func clampIndex(i, n int) int {
	return min(max(i, 0), n)
}
