package fir

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-voice/dsp/window"
)

func TestDesignBandPass_Symmetric(t *testing.T) {
	h, err := DesignBandPass(101, 80, 4000, 16000)
	if err != nil {
		t.Fatalf("DesignBandPass: %v", err)
	}

	if len(h) != 101 {
		t.Fatalf("len = %d, want 101", len(h))
	}

	for i := range h {
		if !almostEqual(h[i], h[len(h)-1-i], 1e-15) {
			t.Fatalf("tap %d not symmetric: %v vs %v", i, h[i], h[len(h)-1-i])
		}
	}
}

func TestDesignBandPass_Response(t *testing.T) {
	h, err := DesignBandPass(101, 80, 4000, 16000)
	if err != nil {
		t.Fatalf("DesignBandPass: %v", err)
	}

	f := New(h)

	centre := f.Gain(2040, 16000)
	if !almostEqual(centre, 1, 1e-9) {
		t.Fatalf("gain at band centre = %v, want 1", centre)
	}

	tests := []struct {
		freq    float64
		min     float64
		max     float64
		comment string
	}{
		{freq: 1000, min: 0.99, max: 1.01, comment: "passband"},
		{freq: 3000, min: 0.99, max: 1.01, comment: "passband"},
		{freq: 0, min: 0, max: 0.6, comment: "DC inside the wide low transition band"},
		{freq: 6000, min: 0, max: 0.01, comment: "upper stopband"},
		{freq: 7000, min: 0, max: 0.01, comment: "upper stopband"},
	}

	for _, tt := range tests {
		g := f.Gain(tt.freq, 16000)
		if g < tt.min || g > tt.max {
			t.Errorf("%s: |H(%v Hz)| = %v, want in [%v, %v]", tt.comment, tt.freq, g, tt.min, tt.max)
		}
	}
}

func TestDesignBandPass_Invalid(t *testing.T) {
	tests := []struct {
		name string
		taps int
		low  float64
		high float64
		rate float64
	}{
		{name: "even taps", taps: 100, low: 80, high: 4000, rate: 16000},
		{name: "too few taps", taps: 1, low: 80, high: 4000, rate: 16000},
		{name: "low above high", taps: 101, low: 4000, high: 80, rate: 16000},
		{name: "equal cutoffs", taps: 101, low: 1000, high: 1000, rate: 16000},
		{name: "high at nyquist", taps: 101, low: 80, high: 8000, rate: 16000},
		{name: "zero low", taps: 101, low: 0, high: 4000, rate: 16000},
		{name: "zero rate", taps: 101, low: 80, high: 4000, rate: 0},
		{name: "nan cutoff", taps: 101, low: math.NaN(), high: 4000, rate: 16000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DesignBandPass(tt.taps, tt.low, tt.high, tt.rate)
			if !errors.Is(err, ErrInvalidDesign) {
				t.Fatalf("err = %v, want ErrInvalidDesign", err)
			}
		})
	}
}

func TestDesignLowPass_Response(t *testing.T) {
	win, err := window.Kaiser(61, 7.5)
	if err != nil {
		t.Fatal(err)
	}

	h, err := DesignLowPass(0.1, win)
	if err != nil {
		t.Fatalf("DesignLowPass: %v", err)
	}

	f := New(h)

	tests := []struct {
		freq     float64
		min, max float64
	}{
		{freq: 0, min: 1 - 1e-9, max: 1 + 1e-9},
		{freq: 0.05, min: 0.999, max: 1.001},
		{freq: 0.1, min: 0.45, max: 0.55},
		{freq: 0.15, min: 0, max: 1e-3},
		{freq: 0.3, min: 0, max: 1e-3},
	}

	for _, tt := range tests {
		if g := f.Gain(tt.freq, 1); g < tt.min || g > tt.max {
			t.Errorf("|H(%v)| = %v, want in [%v, %v]", tt.freq, g, tt.min, tt.max)
		}
	}
}

func TestDesignLowPass_Invalid(t *testing.T) {
	win := window.Generate(window.TypeHann, 31)

	for _, cutoff := range []float64{0, -0.1, 0.5, math.NaN()} {
		if _, err := DesignLowPass(cutoff, win); !errors.Is(err, ErrInvalidDesign) {
			t.Errorf("cutoff %v: err = %v, want ErrInvalidDesign", cutoff, err)
		}
	}

	if _, err := DesignLowPass(0.1, nil); !errors.Is(err, ErrInvalidDesign) {
		t.Errorf("empty window: err = %v, want ErrInvalidDesign", err)
	}
}
