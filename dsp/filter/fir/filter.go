package fir

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-vecmath"
)

// Filter runs a fixed set of taps over a sample stream.
//
// The delay line is stored twice back to back, so the most recent len(taps)
// inputs always form one contiguous slice and each output is a single dot
// product against the reversed taps.
type Filter struct {
	rev  []float64 // taps in reverse order
	line []float64 // 2*len(taps) samples
	pos  int
}

// New creates a filter from taps. The taps are copied.
func New(taps []float64) *Filter {
	n := len(taps)

	rev := make([]float64, n)
	for i, c := range taps {
		rev[n-1-i] = c
	}

	return &Filter{
		rev:  rev,
		line: make([]float64, 2*n),
	}
}

// Len returns the number of taps.
func (f *Filter) Len() int { return len(f.rev) }

// Taps returns a copy of the taps in their original order.
func (f *Filter) Taps() []float64 {
	n := len(f.rev)

	out := make([]float64, n)
	for i, c := range f.rev {
		out[n-1-i] = c
	}

	return out
}

// ProcessSample pushes x into the delay line and returns
// y[n] = sum_k h[k] * x[n-k].
func (f *Filter) ProcessSample(x float64) float64 {
	n := len(f.rev)
	if n == 0 {
		return 0
	}

	f.line[f.pos] = x
	f.line[f.pos+n] = x

	// line[pos+1 : pos+n+1] holds the last n inputs, oldest first.
	y := vecmath.DotProduct(f.rev, f.line[f.pos+1:f.pos+n+1])

	f.pos++
	if f.pos == n {
		f.pos = 0
	}

	return y
}

// Prime fills the delay line with x, as if the filter had seen the constant
// x forever. Feeding x next yields the steady-state output sum(h)*x.
func (f *Filter) Prime(x float64) {
	for i := range f.line {
		f.line[i] = x
	}

	f.pos = 0
}

// Reset clears the delay line.
func (f *Filter) Reset() { f.Prime(0) }

// Process filters src into a new slice.
func (f *Filter) Process(src []float64) []float64 {
	out := make([]float64, len(src))
	for i, x := range src {
		out[i] = f.ProcessSample(x)
	}

	return out
}

// ProcessBlock filters buf in place.
func (f *Filter) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = f.ProcessSample(x)
	}
}

// Response returns the complex frequency response at freqHz.
func (f *Filter) Response(freqHz, sampleRate float64) complex128 {
	w := 2 * math.Pi * freqHz / sampleRate
	n := len(f.rev)

	var h complex128
	for i, c := range f.rev {
		h += complex(c, 0) * cmplx.Exp(complex(0, -w*float64(n-1-i)))
	}

	return h
}

// Gain returns the magnitude response at freqHz.
func (f *Filter) Gain(freqHz, sampleRate float64) float64 {
	return cmplx.Abs(f.Response(freqHz, sampleRate))
}
