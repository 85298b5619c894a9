package spectrum

import "github.com/cwbudde/algo-vecmath"

// Power returns |X[k]|^2 for each bin.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	powerInto(out, in, make([]float64, 2*len(in)))

	return out
}

// powerInto writes |in[k]|^2 to dst. scratch holds at least 2*len(in)
// values and receives the split real and imaginary parts.
func powerInto(dst []float64, in []complex128, scratch []float64) {
	n := len(in)
	re, im := scratch[:n], scratch[n:2*n]

	for i, c := range in {
		re[i], im[i] = real(c), imag(c)
	}

	vecmath.Power(dst, re, im)
}

// NextPowerOfTwo returns the smallest power of two >= n.
func NextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
