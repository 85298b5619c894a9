package mel

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// ErrInvalidFilterbank indicates invalid filterbank parameters.
var ErrInvalidFilterbank = errors.New("mel: invalid filterbank")

type config struct {
	scale     Scale
	normalize bool
}

// Option configures a [Filterbank].
type Option func(*config)

// WithScale selects the mel scale. The default is [ScaleSlaney].
func WithScale(s Scale) Option {
	return func(cfg *config) {
		cfg.scale = s
	}
}

// WithoutNormalization keeps unit-peak triangles instead of scaling each
// band to constant area.
func WithoutNormalization() Option {
	return func(cfg *config) {
		cfg.normalize = false
	}
}

// Filterbank maps nFFT/2+1 linear power bins onto mel bands.
type Filterbank struct {
	weights [][]float64
	centers []float64
	scale   Scale
}

// NewFilterbank builds nMels overlapping triangular filters covering
// [fmin, fmax] for an nFFT-point spectrum at sampleRate. fmax <= 0 selects
// sampleRate/2.
//
// By default each triangle is scaled by 2/(upper-lower) so bands carry
// approximately constant energy per channel.
func NewFilterbank(sampleRate float64, nFFT, nMels int, fmin, fmax float64, opts ...Option) (*Filterbank, error) {
	cfg := config{scale: ScaleSlaney, normalize: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if fmax <= 0 {
		fmax = sampleRate / 2
	}

	switch {
	case sampleRate <= 0 || math.IsNaN(sampleRate):
		return nil, fmt.Errorf("%w: sample rate %v", ErrInvalidFilterbank, sampleRate)
	case nFFT < 2:
		return nil, fmt.Errorf("%w: nFFT %d", ErrInvalidFilterbank, nFFT)
	case nMels < 1:
		return nil, fmt.Errorf("%w: nMels %d", ErrInvalidFilterbank, nMels)
	case fmin < 0 || fmin >= fmax || fmax > sampleRate/2:
		return nil, fmt.Errorf("%w: range [%v, %v] at %v Hz", ErrInvalidFilterbank, fmin, fmax, sampleRate)
	}

	bins := nFFT/2 + 1
	edges := Frequencies(nMels+2, fmin, fmax, cfg.scale)

	weights := make([][]float64, nMels)
	for m := range weights {
		lower, center, upper := edges[m], edges[m+1], edges[m+2]
		row := make([]float64, bins)

		for k := range row {
			f := float64(k) * sampleRate / float64(nFFT)
			up := (f - lower) / (center - lower)
			down := (upper - f) / (upper - center)
			row[k] = math.Max(0, math.Min(up, down))
		}

		if cfg.normalize {
			vecmath.ScaleBlockInPlace(row, 2/(upper-lower))
		}

		weights[m] = row
	}

	return &Filterbank{
		weights: weights,
		centers: append([]float64(nil), edges[1:nMels+1]...),
		scale:   cfg.scale,
	}, nil
}

// Bands returns the number of mel bands.
func (fb *Filterbank) Bands() int { return len(fb.weights) }

// Bins returns the expected spectrum length.
func (fb *Filterbank) Bins() int {
	if len(fb.weights) == 0 {
		return 0
	}

	return len(fb.weights[0])
}

// Centers returns the band centre frequencies in Hz.
func (fb *Filterbank) Centers() []float64 {
	return append([]float64(nil), fb.centers...)
}

// Apply projects one power spectrum onto the mel bands.
func (fb *Filterbank) Apply(power []float64) ([]float64, error) {
	if len(power) != fb.Bins() {
		return nil, fmt.Errorf("%w: spectrum has %d bins, want %d", ErrInvalidFilterbank, len(power), fb.Bins())
	}

	out := make([]float64, len(fb.weights))
	for m, row := range fb.weights {
		out[m] = vecmath.DotProduct(row, power)
	}

	return out, nil
}
