package pitch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-voice/dsp/core"
	timestats "github.com/cwbudde/algo-voice/stats/time"
	"gonum.org/v1/gonum/stat"
)

// Jitter is the cycle-to-cycle variation of the pitch period.
type Jitter struct {
	Absolute float64 `json:"absolute"` // mean |T[i+1] - T[i]| in seconds
	Relative float64 `json:"relative"` // Absolute / mean(T) in percent
}

// ExtractJitter computes jitter from the voiced frames of t. Periods are
// 1/F0 of consecutive voiced frames, skipping unvoiced ones.
func ExtractJitter(t Track) (Jitter, error) {
	voiced := t.Voiced()
	if len(voiced) < 2 {
		return Jitter{}, fmt.Errorf("%w: jitter needs 2 voiced frames, have %d", ErrUndefined, len(voiced))
	}

	periods := make([]float64, len(voiced))
	for i, f := range voiced {
		periods[i] = 1 / f
	}

	diffs := make([]float64, len(periods)-1)
	for i := range diffs {
		diffs[i] = math.Abs(periods[i+1] - periods[i])
	}

	abs := stat.Mean(diffs, nil)
	rel := abs / stat.Mean(periods, nil) * 100

	if !core.IsFinite(abs) || !core.IsFinite(rel) {
		return Jitter{}, fmt.Errorf("%w: non-finite jitter", ErrUndefined)
	}

	return Jitter{Absolute: abs, Relative: rel}, nil
}

// Shimmer computes the mean relative amplitude perturbation of w over the
// voiced frames of t.
//
// For each voiced frame at time t the RMS is taken over samples
// [(t - fp/2)*sr, (t + fp/2)*sr), clamped to the waveform, where fp is
// framePeriodMs in seconds. Relative differences |RMS[i+1] - RMS[i]| /
// RMS[i] above threshold are averaged; if none exceed it the result is 0.
func Shimmer(w core.Waveform, t Track, framePeriodMs, threshold float64) (float64, error) {
	if err := w.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUndefined, err)
	}

	if !(framePeriodMs > 0) {
		return 0, fmt.Errorf("%w: frame period %v ms", ErrInvalidConfig, framePeriodMs)
	}

	if len(t.Times) != len(t.F0) {
		return 0, fmt.Errorf("%w: track has %d times for %d frames", ErrUndefined, len(t.Times), len(t.F0))
	}

	half := framePeriodMs / 1000 / 2
	sr := float64(w.SampleRate)

	amps := make([]float64, 0, len(t.F0))

	for i, f := range t.F0 {
		if f <= 0 {
			continue
		}

		start := int(math.Trunc((t.Times[i] - half) * sr))
		end := int(math.Trunc((t.Times[i] + half) * sr))

		rms, ok := timestats.WindowRMS(w.Samples, start, end)
		if !ok {
			return 0, fmt.Errorf("%w: empty amplitude window at %.4f s", ErrUndefined, t.Times[i])
		}

		amps = append(amps, rms)
	}

	if len(amps) < 2 {
		return 0, fmt.Errorf("%w: shimmer needs 2 voiced frames, have %d", ErrUndefined, len(amps))
	}

	kept := make([]float64, 0, len(amps)-1)

	for i := range len(amps) - 1 {
		if amps[i] == 0 {
			return 0, fmt.Errorf("%w: zero amplitude at voiced frame %d", ErrUndefined, i)
		}

		d := math.Abs(amps[i+1]-amps[i]) / amps[i]
		if d > threshold {
			kept = append(kept, d)
		}
	}

	if len(kept) == 0 {
		return 0, nil
	}

	s := stat.Mean(kept, nil)
	if !core.IsFinite(s) {
		return 0, fmt.Errorf("%w: non-finite shimmer", ErrUndefined)
	}

	return s, nil
}
