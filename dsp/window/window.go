// Package window generates the tapering windows used for spectral
// framing, formant analysis and FIR design.
package window

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// ErrInvalid indicates a window that cannot be generated: a non-positive
// size, a bad shape parameter, or coefficients that do not fit a buffer.
var ErrInvalid = errors.New("window: invalid parameters")

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeGauss
	TypeKaiser
)

var typeNames = [...]string{"rectangular", "hann", "hamming", "gauss", "kaiser"}

// String returns the window name.
func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}

	return typeNames[t]
}

type config struct {
	param    float64
	periodic bool
}

// Option configures window generation.
type Option func(*config)

// WithAlpha sets the shape parameter: the edge factor of [TypeGauss] or the
// beta of [TypeKaiser]. Negative values are ignored.
func WithAlpha(v float64) Option {
	return func(c *config) {
		if v >= 0 {
			c.param = v
		}
	}
}

// WithPeriodic generates the periodic form used for FFT framing: the first
// size points of a size+1 symmetric window.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns size coefficients of window t, or nil for size <= 0.
func Generate(t Type, size int, opts ...Option) []float64 {
	if size <= 0 {
		return nil
	}

	cfg := config{param: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	span := float64(size - 1)
	if cfg.periodic {
		span = float64(size)
	}

	out := make([]float64, size)
	for i := range out {
		u := 0.0
		if size > 1 {
			u = 2*float64(i)/span - 1
		}

		out[i] = shape(t, cfg.param, u)
	}

	return out
}

// shape evaluates window t at u in [-1, 1], where u = 0 is the centre.
func shape(t Type, param, u float64) float64 {
	switch t {
	case TypeHann:
		return 0.5 + 0.5*math.Cos(math.Pi*u)
	case TypeHamming:
		return 0.54 + 0.46*math.Cos(math.Pi*u)
	case TypeGauss:
		v := u * param
		return math.Exp(-math.Ln2 * v * v)
	case TypeKaiser:
		return besselI0(param*math.Sqrt(math.Max(0, 1-u*u))) / besselI0(param)
	default:
		return 1
	}
}

// Hamming returns a symmetric Hamming window.
func Hamming(size int) ([]float64, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size %d", ErrInvalid, size)
	}

	return Generate(TypeHamming, size), nil
}

// Gaussian returns a symmetric Gaussian window whose edge value is
// exp(-ln2 * alpha^2).
func Gaussian(size int, alpha float64) ([]float64, error) {
	if size <= 0 || !(alpha > 0) {
		return nil, fmt.Errorf("%w: gauss size %d alpha %v", ErrInvalid, size, alpha)
	}

	return Generate(TypeGauss, size, WithAlpha(alpha)), nil
}

// Kaiser returns a symmetric Kaiser window. beta = 0 is rectangular.
func Kaiser(size int, beta float64) ([]float64, error) {
	if size <= 0 || beta < 0 || math.IsNaN(beta) || math.IsInf(beta, 0) {
		return nil, fmt.Errorf("%w: kaiser size %d beta %v", ErrInvalid, size, beta)
	}

	return Generate(TypeKaiser, size, WithAlpha(beta)), nil
}

// Apply multiplies buf by coeffs in place.
func Apply(buf, coeffs []float64) error {
	if len(buf) != len(coeffs) {
		return fmt.Errorf("%w: buffer %d, window %d", ErrInvalid, len(buf), len(coeffs))
	}

	vecmath.MulBlockInPlace(buf, coeffs)

	return nil
}

// besselI0 is the zeroth-order modified Bessel function of the first kind,
// summed from its power series.
func besselI0(x float64) float64 {
	q := x * x / 4
	sum, term := 1.0, 1.0

	for k := 1; k < 64; k++ {
		term *= q / float64(k*k)
		sum += term

		if term < 1e-16*sum {
			break
		}
	}

	return sum
}
