package pitch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-voice/dsp/core"
	timestats "github.com/cwbudde/algo-voice/stats/time"
)

// YIN is the default coarse F0 estimator.
//
// Each frame evaluates the cumulative-mean-normalized difference function
// over integer lags between sampleRate/CeilHz and sampleRate/FloorHz, picks
// the first local minimum below Threshold and refines it by parabolic
// interpolation. Frames with no such minimum, or whose level lies SilenceDB
// below the waveform peak, are unvoiced.
type YIN struct {
	FloorHz   float64
	CeilHz    float64
	Threshold float64
	SilenceDB float64
}

// NewYIN returns an estimator using the F0 range and thresholds of cfg.
func NewYIN(cfg Config) *YIN {
	return &YIN{
		FloorHz:   cfg.FloorHz,
		CeilHz:    cfg.CeilHz,
		Threshold: cfg.Threshold,
		SilenceDB: cfg.SilenceDB,
	}
}

// lagRange returns the searched lag interval for sampleRate.
func lagRange(floorHz, ceilHz float64, sampleRate int) (minLag, maxLag int) {
	sr := float64(sampleRate)
	minLag = max(2, int(math.Floor(sr/ceilHz)))
	maxLag = int(math.Ceil(sr / floorHz))

	return minLag, maxLag
}

// Estimate implements [Estimator].
func (y *YIN) Estimate(w core.Waveform, framePeriodMs float64) (Track, error) {
	if err := w.Validate(); err != nil {
		return Track{}, err
	}

	times := FrameTimes(w.Len(), w.SampleRate, framePeriodMs)
	if times == nil {
		return Track{}, fmt.Errorf("%w: frame period %v ms", ErrInvalidConfig, framePeriodMs)
	}

	minLag, maxLag := lagRange(y.FloorHz, y.CeilHz, w.SampleRate)
	if minLag+1 >= maxLag {
		return Track{}, fmt.Errorf("%w: F0 range [%v, %v] Hz at %d Hz", ErrInvalidConfig, y.FloorHz, y.CeilHz, w.SampleRate)
	}

	gate := timestats.Peak(w.Samples) * core.DBToLinear(y.SilenceDB)

	integration := maxLag
	seg := make([]float64, integration+maxLag+2)
	diff := make([]float64, maxLag+2)
	cmnd := make([]float64, maxLag+2)

	f0 := make([]float64, len(times))

	for k, t := range times {
		center := int(math.Round(t * float64(w.SampleRate)))
		fillSegment(seg, w.Samples, center-(integration+maxLag)/2)

		if timestats.RMS(seg) <= gate {
			continue
		}

		differenceFunction(diff, seg, integration)
		normalizeDifference(cmnd, diff)

		tau := firstDip(cmnd, minLag, maxLag, y.Threshold)
		if tau < 0 {
			continue
		}

		f0[k] = float64(w.SampleRate) / (float64(tau) + parabolicOffset(cmnd[tau-1], cmnd[tau], cmnd[tau+1]))
	}

	return Track{Times: times, F0: f0}, nil
}

// fillSegment copies src[start:start+len(dst)] into dst, zero padding
// samples outside src.
func fillSegment(dst, src []float64, start int) {
	for i := range dst {
		j := start + i
		if j >= 0 && j < len(src) {
			dst[i] = src[j]
		} else {
			dst[i] = 0
		}
	}
}

// differenceFunction computes d(tau) = sum_j (x[j] - x[j+tau])^2 over the
// first n samples of x for tau in [1, len(d)).
func differenceFunction(d, x []float64, n int) {
	d[0] = 0
	for tau := 1; tau < len(d); tau++ {
		var s float64
		for j := range n {
			e := x[j] - x[j+tau]
			s += e * e
		}

		d[tau] = s
	}
}

// normalizeDifference writes the cumulative-mean-normalized difference
// d'(tau) = d(tau) * tau / sum_{j<=tau} d(j), with d'(0) = 1.
func normalizeDifference(dst, d []float64) {
	dst[0] = 1

	var running float64
	for tau := 1; tau < len(d); tau++ {
		running += d[tau]
		if running > 0 {
			dst[tau] = d[tau] * float64(tau) / running
		} else {
			dst[tau] = 1
		}
	}
}

// firstDip returns the first lag in [minLag, maxLag] where d drops below
// threshold, advanced to the bottom of that dip, or -1.
func firstDip(d []float64, minLag, maxLag int, threshold float64) int {
	for tau := minLag; tau <= maxLag; tau++ {
		if d[tau] >= threshold {
			continue
		}

		for tau+1 <= maxLag && d[tau+1] < d[tau] {
			tau++
		}

		return tau
	}

	return -1
}

// parabolicOffset returns the vertex offset in (-1, 1) of the parabola
// through (-1, a), (0, b), (1, c), or 0 when it is degenerate.
func parabolicOffset(a, b, c float64) float64 {
	den := a - 2*b + c
	if den == 0 {
		return 0
	}

	off := 0.5 * (a - c) / den
	if math.Abs(off) >= 1 {
		return 0
	}

	return off
}
