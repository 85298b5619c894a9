package fir

import "fmt"

// PadLen returns the number of samples FiltFilt mirrors onto each edge of
// the input for a filter with numTaps taps.
func PadLen(numTaps int) int {
	return 3 * numTaps
}

// FiltFilt applies the FIR filter coeffs to x twice, once forward and once
// backward, and returns a new slice of the same length as x.
//
// The combined response has zero phase and the squared magnitude of the
// single-pass filter. Both edges are extended by PadLen(len(coeffs)) samples
// of odd reflection about the end samples and each pass starts from the
// steady state for its first input, which keeps edge transients small.
// x must be longer than the padding.
func FiltFilt(coeffs, x []float64) ([]float64, error) {
	if len(coeffs) == 0 {
		return nil, ErrEmptyCoefficients
	}

	padLen := PadLen(len(coeffs))
	if len(x) <= padLen {
		return nil, fmt.Errorf("%w: len=%d padlen=%d", ErrInputTooShort, len(x), padLen)
	}

	ext := oddExtend(x, padLen)
	f := New(coeffs)

	f.Prime(ext[0])
	y := f.Process(ext)

	reverse(y)
	f.Reset()
	f.Prime(y[0])
	f.ProcessBlock(y)
	reverse(y)

	out := make([]float64, len(x))
	copy(out, y[padLen:padLen+len(x)])

	return out, nil
}

// oddExtend mirrors n samples around each end point of x with odd symmetry.
func oddExtend(x []float64, n int) []float64 {
	last := len(x) - 1
	ext := make([]float64, len(x)+2*n)

	for i := range n {
		ext[i] = 2*x[0] - x[n-i]
		ext[n+len(x)+i] = 2*x[last] - x[last-1-i]
	}

	copy(ext[n:], x)

	return ext
}

func reverse(s []float64) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
