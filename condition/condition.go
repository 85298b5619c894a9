package condition

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/dsp/filter/fir"
	timestats "github.com/cwbudde/algo-voice/stats/time"
)

var (
	// ErrInvalidConfig indicates invalid conditioning parameters.
	ErrInvalidConfig = errors.New("condition: invalid config")
	// ErrFilterDesign indicates that the bandpass filter could not be
	// designed for the requested band and sample rate.
	ErrFilterDesign = errors.New("condition: filter design failed")
	// ErrNonFinite indicates a signal whose level is NaN or infinite and so
	// cannot be normalized.
	ErrNonFinite = errors.New("condition: non-finite signal level")
)

// Config holds conditioning parameters.
type Config struct {
	TargetRate int      // Hz
	LowCut     float64  // Hz
	HighCut    float64  // Hz
	NumTaps    int      // odd
	TargetRMS  float64  // linear
	Extensions []string // file extensions picked up by ProcessDataset
	Workers    int      // files processed concurrently; 1 is sequential
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		TargetRate: 16000,
		LowCut:     80,
		HighCut:    4000,
		NumTaps:    101,
		TargetRMS:  0.1,
		Extensions: []string{".wav"},
		Workers:    1,
	}
}

// Validate checks the parameters that do not depend on the filter design.
// Band limits are checked by the design itself and fail with
// ErrFilterDesign.
func (c Config) Validate() error {
	switch {
	case c.TargetRate <= 0:
		return fmt.Errorf("%w: target rate %d", ErrInvalidConfig, c.TargetRate)
	case c.TargetRMS < 0 || math.IsNaN(c.TargetRMS) || math.IsInf(c.TargetRMS, 0):
		return fmt.Errorf("%w: target rms %v", ErrInvalidConfig, c.TargetRMS)
	case len(c.Extensions) == 0:
		return fmt.Errorf("%w: no file extensions", ErrInvalidConfig)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Workers)
	}

	return nil
}

// matches reports whether name carries one of the configured extensions,
// ignoring case.
func (c Config) matches(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range c.Extensions {
		if ext != "" && strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}

	return false
}

// BandPass filters w with a numTaps Hamming-windowed bandpass over
// [lowHz, highHz] applied forward and backward, so the output has the input
// length and no phase shift.
func BandPass(w core.Waveform, lowHz, highHz float64, numTaps int) (core.Waveform, error) {
	if err := w.Validate(); err != nil {
		return core.Waveform{}, fmt.Errorf("condition: %w", err)
	}

	h, err := fir.DesignBandPass(numTaps, lowHz, highHz, float64(w.SampleRate))
	if err != nil {
		return core.Waveform{}, fmt.Errorf("%w: %w", ErrFilterDesign, err)
	}

	y, err := fir.FiltFilt(h, w.Samples)
	if err != nil {
		return core.Waveform{}, fmt.Errorf("condition: bandpass: %w", err)
	}

	return w.WithSamples(y), nil
}

// NormalizeRMS scales w so its RMS equals target. Silence is returned as an
// unchanged copy.
func NormalizeRMS(w core.Waveform, target float64) core.Waveform {
	rms := timestats.RMS(w.Samples)
	if rms == 0 {
		return w.Clone()
	}

	gain := target / rms

	out := make([]float64, len(w.Samples))
	vecmath.ScaleBlock(out, w.Samples, gain)

	return w.WithSamples(out)
}
