package pitch

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-voice/dsp/core"
)

var (
	// ErrUndefined indicates a measure that cannot be computed for the input,
	// e.g. fewer than two voiced frames.
	ErrUndefined = errors.New("pitch: undefined")
	// ErrInvalidConfig indicates invalid analysis parameters.
	ErrInvalidConfig = errors.New("pitch: invalid config")
)

const (
	defaultFramePeriodMs    = 5.0
	defaultFloorHz          = 71.0
	defaultCeilHz           = 800.0
	defaultThreshold        = 0.15
	defaultSilenceDB        = -50.0
	defaultShimmerThreshold = 0.001
)

// Config holds pitch analysis parameters.
type Config struct {
	FramePeriodMs    float64 // spacing between frames in milliseconds
	FloorHz          float64 // lowest F0 searched
	CeilHz           float64 // highest F0 searched
	Threshold        float64 // aperiodicity threshold of the default estimator
	SilenceDB        float64 // frames this far below the waveform peak are unvoiced
	ShimmerThreshold float64 // relative amplitude differences at or below this are ignored
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		FramePeriodMs:    defaultFramePeriodMs,
		FloorHz:          defaultFloorHz,
		CeilHz:           defaultCeilHz,
		Threshold:        defaultThreshold,
		SilenceDB:        defaultSilenceDB,
		ShimmerThreshold: defaultShimmerThreshold,
	}
}

// Validate reports whether the configuration is usable.
func (c Config) Validate() error {
	switch {
	case !(c.FramePeriodMs > 0) || math.IsInf(c.FramePeriodMs, 0):
		return fmt.Errorf("%w: frame period %v ms", ErrInvalidConfig, c.FramePeriodMs)
	case !(c.FloorHz > 0) || !(c.CeilHz > c.FloorHz):
		return fmt.Errorf("%w: F0 range [%v, %v] Hz", ErrInvalidConfig, c.FloorHz, c.CeilHz)
	case !(c.Threshold > 0) || c.Threshold >= 1:
		return fmt.Errorf("%w: threshold %v", ErrInvalidConfig, c.Threshold)
	case c.ShimmerThreshold < 0 || math.IsNaN(c.ShimmerThreshold):
		return fmt.Errorf("%w: shimmer threshold %v", ErrInvalidConfig, c.ShimmerThreshold)
	}

	return nil
}

// Track is an F0 contour with one entry per analysis frame. Times are in
// seconds; F0 <= 0 marks an unvoiced frame.
type Track struct {
	Times []float64 `json:"times"`
	F0    []float64 `json:"f0"`
}

// Len returns the number of frames.
func (t Track) Len() int { return len(t.F0) }

// Frame returns the time and F0 of frame i.
func (t Track) Frame(i int) (time, f0 float64) { return t.Times[i], t.F0[i] }

// VoicedCount returns the number of frames with F0 > 0.
func (t Track) VoicedCount() int {
	n := 0
	for _, f := range t.F0 {
		if f > 0 {
			n++
		}
	}

	return n
}

// Voiced returns the F0 values of voiced frames in order.
func (t Track) Voiced() []float64 {
	out := make([]float64, 0, len(t.F0))
	for _, f := range t.F0 {
		if f > 0 {
			out = append(out, f)
		}
	}

	return out
}

// Clone returns a deep copy of t.
func (t Track) Clone() Track {
	return Track{
		Times: append([]float64(nil), t.Times...),
		F0:    append([]float64(nil), t.F0...),
	}
}

// Estimator produces a coarse F0 track with frames spaced framePeriodMs apart.
type Estimator interface {
	Estimate(w core.Waveform, framePeriodMs float64) (Track, error)
}

// Refiner corrects a coarse track using the waveform it was estimated from.
type Refiner interface {
	Refine(w core.Waveform, t Track) (Track, error)
}

// FrameTimes returns the frame time stamps used for a waveform of n samples:
// floor(1000*n/sampleRate/framePeriodMs) + 1 frames at k*framePeriodMs.
func FrameTimes(n, sampleRate int, framePeriodMs float64) []float64 {
	if sampleRate <= 0 || !(framePeriodMs > 0) {
		return nil
	}

	count := int(1000*float64(n)/float64(sampleRate)/framePeriodMs) + 1
	step := framePeriodMs / 1000

	times := make([]float64, count)
	for k := range times {
		times[k] = float64(k) * step
	}

	return times
}

// Analyzer runs F0 extraction and the perturbation measures.
type Analyzer struct {
	cfg       Config
	estimator Estimator
	refiner   Refiner
}

// Option configures an [Analyzer].
type Option func(*Analyzer)

// WithEstimator replaces the default [YIN] estimator.
func WithEstimator(e Estimator) Option {
	return func(a *Analyzer) {
		if e != nil {
			a.estimator = e
		}
	}
}

// WithRefiner replaces the default [Stabilizer] refiner.
func WithRefiner(r Refiner) Option {
	return func(a *Analyzer) {
		if r != nil {
			a.refiner = r
		}
	}
}

// NewAnalyzer validates cfg and builds an analyzer.
func NewAnalyzer(cfg Config, opts ...Option) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Analyzer{
		cfg:       cfg,
		estimator: NewYIN(cfg),
		refiner:   NewStabilizer(cfg),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	return a, nil
}

// Config returns the analyzer configuration.
func (a *Analyzer) Config() Config { return a.cfg }

// ExtractF0 estimates and refines the F0 track of w.
func (a *Analyzer) ExtractF0(w core.Waveform) (Track, error) {
	if err := w.Validate(); err != nil {
		return Track{}, fmt.Errorf("pitch: %w", err)
	}

	coarse, err := a.estimator.Estimate(w, a.cfg.FramePeriodMs)
	if err != nil {
		return Track{}, fmt.Errorf("pitch: estimate: %w", err)
	}

	refined, err := a.refiner.Refine(w, coarse)
	if err != nil {
		return Track{}, fmt.Errorf("pitch: refine: %w", err)
	}

	return refined, nil
}

// CalculateShimmer computes shimmer of w over the voiced frames of t using
// the analyzer's frame period and threshold.
func (a *Analyzer) CalculateShimmer(w core.Waveform, t Track) (float64, error) {
	return Shimmer(w, t, a.cfg.FramePeriodMs, a.cfg.ShimmerThreshold)
}
