package resample

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/algo-voice/dsp/filter/fir"
	"github.com/cwbudde/algo-voice/dsp/window"
)

var (
	// ErrInvalidRatio indicates an invalid up/down ratio.
	ErrInvalidRatio = errors.New("resample: invalid ratio")
	// ErrInvalidRate indicates an invalid input/output sample rate.
	ErrInvalidRate = errors.New("resample: invalid sample rate")
)

// Quality selects the anti-aliasing prototype.
type Quality int

const (
	// QualityFast uses short branches and a wide transition band.
	QualityFast Quality = iota
	// QualityBalanced is the default.
	QualityBalanced
	// QualityBest uses long branches and the highest stopband attenuation.
	QualityBest
)

// prototype describes the Kaiser-windowed sinc behind each polyphase bank.
type prototype struct {
	tapsPerPhase int
	cutoffScale  float64 // fraction of the lower Nyquist frequency
	beta         float64
}

var prototypes = map[Quality]prototype{
	QualityFast:     {tapsPerPhase: 16, cutoffScale: 0.88, beta: 5},
	QualityBalanced: {tapsPerPhase: 32, cutoffScale: 0.92, beta: 7.5},
	QualityBest:     {tapsPerPhase: 64, cutoffScale: 0.96, beta: 9},
}

// Option configures a [Resampler].
type Option func(*prototype)

// WithQuality selects a prototype preset. Unknown values are ignored.
func WithQuality(q Quality) Option {
	return func(p *prototype) {
		if preset, ok := prototypes[q]; ok {
			*p = preset
		}
	}
}

// WithTapsPerPhase overrides the branch length of the selected preset.
func WithTapsPerPhase(n int) Option {
	return func(p *prototype) {
		if n > 0 {
			p.tapsPerPhase = n
		}
	}
}

// Resampler converts a stream by the rational factor up/down with a
// polyphase FIR bank.
//
// Output sample j sits at position j*down of the virtual stream upsampled by
// up. That position is tracked as an input index plus a phase in [0, up).
type Resampler struct {
	up, down int
	banks    [][]float64 // banks[p][k] = up * prototype[p + k*up]
	delay    int         // prototype group delay on the upsampled grid

	next     int // input index of the next output
	phase    int
	consumed int // input samples seen so far
	history  []float64
}

// NewRational creates a resampler for the ratio up/down, reduced to lowest
// terms.
func NewRational(up, down int, opts ...Option) (*Resampler, error) {
	if up <= 0 || down <= 0 {
		return nil, fmt.Errorf("%w: %d/%d", ErrInvalidRatio, up, down)
	}

	g := gcd(up, down)
	up, down = up/g, down/g

	p := prototypes[QualityBalanced]
	for _, opt := range opts {
		if opt != nil {
			opt(&p)
		}
	}

	banks, n, err := design(up, down, p)
	if err != nil {
		return nil, err
	}

	return &Resampler{
		up:    up,
		down:  down,
		banks: banks,
		delay: n / 2,
	}, nil
}

// design builds the prototype lowpass and splits it into up branches.
func design(up, down int, p prototype) ([][]float64, int, error) {
	n := p.tapsPerPhase * up
	cutoff := p.cutoffScale * 0.5 / float64(max(up, down))

	win, err := window.Kaiser(n, p.beta)
	if err != nil {
		return nil, 0, fmt.Errorf("resample: %w", err)
	}

	h, err := fir.DesignLowPass(cutoff, win)
	if err != nil {
		return nil, 0, fmt.Errorf("resample: %w", err)
	}

	// Zero stuffing divides the passband level by up.
	vecmath.ScaleBlockInPlace(h, float64(up))

	banks := make([][]float64, up)
	for i, c := range h {
		banks[i%up] = append(banks[i%up], c)
	}

	return banks, n, nil
}

// Ratio returns the reduced up/down factors.
func (r *Resampler) Ratio() (up, down int) { return r.up, r.down }

// OutputLen returns the number of samples the next Process call emits for
// n input samples.
func (r *Resampler) OutputLen(n int) int {
	if n <= 0 {
		return 0
	}

	end := int64(r.consumed+n) * int64(r.up)
	pos := int64(r.next)*int64(r.up) + int64(r.phase)

	if pos >= end {
		return 0
	}

	return int((end - pos + int64(r.down) - 1) / int64(r.down))
}

// Process converts the next block of a stream. Samples before the first
// block are taken as zero.
func (r *Resampler) Process(in []float64) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, 0, r.OutputLen(len(in)))

	buf := make([]float64, len(r.history)+len(in))
	copy(buf, r.history)
	copy(buf[len(r.history):], in)

	base := r.consumed - len(r.history) // input index of buf[0]
	last := r.consumed + len(in) - 1

	for r.next <= last {
		var acc float64

		for k, c := range r.banks[r.phase] {
			i := r.next - k
			if i < base {
				break
			}

			acc += c * buf[i-base]
		}

		out = append(out, acc)
		r.advance(r.down)
	}

	r.consumed += len(in)

	keep := min(len(r.banks[0])-1, len(buf))
	r.history = append(r.history[:0], buf[len(buf)-keep:]...)

	return out
}

// advance moves the output position by n samples of the upsampled grid.
func (r *Resampler) advance(n int) {
	r.phase += n
	r.next += r.phase / r.up
	r.phase %= r.up
}

// Rates converts a complete signal from inRate to outRate.
//
// Unlike [Resampler.Process], the result is compensated for the prototype
// delay, so sample m of the output lines up with time m/outRate of the
// input, and its length is ceil(len(input)*outRate/inRate). Equal rates
// return a copy of input.
func Rates(input []float64, inRate, outRate int, opts ...Option) ([]float64, error) {
	if inRate <= 0 || outRate <= 0 {
		return nil, fmt.Errorf("%w: %d -> %d Hz", ErrInvalidRate, inRate, outRate)
	}

	if inRate == outRate {
		return append([]float64(nil), input...), nil
	}

	if len(input) == 0 {
		return nil, nil
	}

	r, err := NewRational(outRate, inRate, opts...)
	if err != nil {
		return nil, err
	}

	r.advance(r.delay)

	want := int((int64(len(input))*int64(r.up) + int64(r.down) - 1) / int64(r.down))

	out := r.Process(input)
	if len(out) < want {
		flush := make([]float64, r.delay/r.up+len(r.banks[0])+1)
		out = append(out, r.Process(flush)...)
	}

	return out[:min(len(out), want)], nil
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}

	return a
}
