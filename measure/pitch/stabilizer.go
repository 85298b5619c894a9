package pitch

import (
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-voice/dsp/core"
	"gonum.org/v1/gonum/stat"
)

const (
	defaultRadius          = 3
	defaultOctaveTolerance = 0.2
	defaultAcceptRatio     = 0.9
	refineSearch           = 2
)

// Stabilizer is the default F0 refiner. It runs three passes over a coarse
// track:
//
//  1. Voiced frames with no voiced neighbour are marked unvoiced.
//  2. Frames close to twice or half the median of the voiced frames within
//     Radius are moved by an octave when the waveform's normalized
//     autocorrelation at the new period is at least AcceptRatio times that at
//     the old one.
//  3. Each voiced period is re-located at the autocorrelation peak within two
//     samples and refined by parabolic interpolation.
type Stabilizer struct {
	FloorHz         float64
	CeilHz          float64
	Radius          int
	OctaveTolerance float64
	AcceptRatio     float64
}

// NewStabilizer returns a refiner using the F0 range of cfg.
func NewStabilizer(cfg Config) *Stabilizer {
	return &Stabilizer{
		FloorHz:         cfg.FloorHz,
		CeilHz:          cfg.CeilHz,
		Radius:          defaultRadius,
		OctaveTolerance: defaultOctaveTolerance,
		AcceptRatio:     defaultAcceptRatio,
	}
}

// Refine implements [Refiner].
func (s *Stabilizer) Refine(w core.Waveform, t Track) (Track, error) {
	if err := w.Validate(); err != nil {
		return Track{}, err
	}

	if len(t.Times) != len(t.F0) {
		return Track{}, fmt.Errorf("%w: track has %d times for %d frames", ErrInvalidConfig, len(t.Times), len(t.F0))
	}

	minLag, maxLag := lagRange(s.FloorHz, s.CeilHz, w.SampleRate)
	if minLag+1 >= maxLag {
		return Track{}, fmt.Errorf("%w: F0 range [%v, %v] Hz at %d Hz", ErrInvalidConfig, s.FloorHz, s.CeilHz, w.SampleRate)
	}

	out := t.Clone()
	removeIsolated(out.F0)

	c := &correlator{
		x:      w.Samples,
		sr:     float64(w.SampleRate),
		length: maxLag,
	}

	s.fixOctaves(out, c)

	for i, f := range out.F0 {
		if f <= 0 {
			continue
		}

		center := int(math.Round(out.Times[i] * c.sr))
		if lag, ok := c.peakNear(center, c.sr/f, minLag, maxLag); ok {
			out.F0[i] = c.sr / lag
		}
	}

	return out, nil
}

// removeIsolated unvoices frames whose neighbours are both unvoiced.
func removeIsolated(f0 []float64) {
	voiced := func(i int) bool { return i >= 0 && i < len(f0) && f0[i] > 0 }

	isolated := make([]int, 0)
	for i := range f0 {
		if voiced(i) && !voiced(i-1) && !voiced(i+1) {
			isolated = append(isolated, i)
		}
	}

	for _, i := range isolated {
		f0[i] = 0
	}
}

func (s *Stabilizer) fixOctaves(t Track, c *correlator) {
	src := append([]float64(nil), t.F0...)
	window := make([]float64, 0, 2*s.Radius+1)

	for i, f := range src {
		if f <= 0 {
			continue
		}

		window = window[:0]
		for j := max(0, i-s.Radius); j <= min(len(src)-1, i+s.Radius); j++ {
			if src[j] > 0 {
				window = append(window, src[j])
			}
		}

		if len(window) < 3 {
			continue
		}

		sort.Float64s(window)
		med := stat.Quantile(0.5, stat.Empirical, window, nil)

		var cand float64

		switch ratio := f / med; {
		case math.Abs(ratio-2) <= 2*s.OctaveTolerance:
			cand = f / 2
		case math.Abs(ratio-0.5) <= 0.5*s.OctaveTolerance:
			cand = f * 2
		default:
			continue
		}

		if cand < s.FloorHz || cand > s.CeilHz {
			continue
		}

		center := int(math.Round(t.Times[i] * c.sr))
		cur := c.at(center, c.sr/f)
		alt := c.at(center, c.sr/cand)

		if alt >= s.AcceptRatio*cur {
			t.F0[i] = cand
		}
	}
}

// correlator evaluates the normalized autocorrelation of x around a sample.
type correlator struct {
	x      []float64
	sr     float64
	length int
	seg    []float64
}

// at returns the normalized autocorrelation at the rounded lag over a window
// of c.length samples centred on center. Zero-energy windows return 0.
func (c *correlator) at(center int, lag float64) float64 {
	l := int(math.Round(lag))
	if l < 1 {
		return 0
	}

	n := c.length + l
	if cap(c.seg) < n {
		c.seg = make([]float64, n)
	}

	seg := c.seg[:n]
	fillSegment(seg, c.x, center-n/2)

	var xy, xx, yy float64
	for j := range c.length {
		a, b := seg[j], seg[j+l]
		xy += a * b
		xx += a * a
		yy += b * b
	}

	if xx == 0 || yy == 0 {
		return 0
	}

	return xy / math.Sqrt(xx*yy)
}

// peakNear returns the fractional lag of the autocorrelation peak within
// refineSearch samples of lag0. ok is false when no positive peak exists.
func (c *correlator) peakNear(center int, lag0 float64, minLag, maxLag int) (lag float64, ok bool) {
	lo := max(minLag, int(math.Round(lag0))-refineSearch)
	hi := min(maxLag, int(math.Round(lag0))+refineSearch)

	if lo > hi {
		return 0, false
	}

	best, bestVal := -1, 0.0
	for l := lo; l <= hi; l++ {
		if v := c.at(center, float64(l)); v > bestVal {
			best, bestVal = l, v
		}
	}

	if best < 0 {
		return 0, false
	}

	off := 0.0
	if best > lo && best < hi {
		prev := c.at(center, float64(best-1))
		next := c.at(center, float64(best+1))
		off = parabolicOffset(prev, bestVal, next)
	}

	return float64(best) + off, true
}
