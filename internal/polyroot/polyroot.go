// Package polyroot finds the roots of real polynomials such as the
// prediction-error filters produced by linear-prediction analysis.
package polyroot

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// ErrDegenerate is returned for polynomials without a defined root set: a
// zero leading coefficient, non-finite coefficients, or an eigenvalue
// iteration that fails to converge.
var ErrDegenerate = errors.New("polyroot: degenerate polynomial")

// Roots returns the roots of the real polynomial with coefficients in
// descending power order:
//
//	coeff[0]*z^n + coeff[1]*z^(n-1) + ... + coeff[n]
//
// The roots are the eigenvalues of the companion matrix. Complex roots come
// in exact conjugate pairs.
func Roots(coeff []float64) ([]complex128, error) {
	if len(coeff) < 2 {
		return nil, fmt.Errorf("%w: degree < 1", ErrDegenerate)
	}

	for _, c := range coeff {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("%w: non-finite coefficient", ErrDegenerate)
		}
	}

	lead := coeff[0]
	if lead == 0 {
		return nil, fmt.Errorf("%w: zero leading coefficient", ErrDegenerate)
	}

	n := len(coeff) - 1

	companion := mat.NewDense(n, n, nil)
	for j := range n {
		companion.Set(0, j, -coeff[j+1]/lead)
	}

	for i := 1; i < n; i++ {
		companion.Set(i, i-1, 1)
	}

	var eig mat.Eigen
	if !eig.Factorize(companion, mat.EigenNone) {
		return nil, fmt.Errorf("%w: eigenvalues did not converge", ErrDegenerate)
	}

	return eig.Values(nil), nil
}

// ReflectInside maps every root outside the unit circle to 1/conj(r), in
// place. The magnitude response is kept up to a gain and the result is
// minimum phase.
func ReflectInside(roots []complex128) {
	for i, r := range roots {
		if cmplx.Abs(r) > 1 {
			roots[i] = 1 / cmplx.Conj(r)
		}
	}
}
