package fir

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-voice/internal/testutil"
)

func TestFiltFilt_PreservesLength(t *testing.T) {
	h, err := DesignBandPass(101, 80, 4000, 16000)
	if err != nil {
		t.Fatal(err)
	}

	for _, n := range []int{304, 1000, 16000} {
		x := testutil.DeterministicNoise(int64(n), 0.5, n)

		y, err := FiltFilt(h, x)
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}

		if len(y) != n {
			t.Fatalf("n=%d: output length %d", n, len(y))
		}

		testutil.RequireFinite(t, y)
	}
}

func TestFiltFilt_BandSelectivity(t *testing.T) {
	const fs = 16000.0

	h, err := DesignBandPass(101, 80, 4000, fs)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		freq float64
		min  float64
		max  float64
	}{
		{freq: 1000, min: 0.99, max: 1.01},
		{freq: 2500, min: 0.99, max: 1.01},
		{freq: 20, min: 0, max: 0.35},
		{freq: 7000, min: 0, max: 0.01},
	}

	for _, tt := range tests {
		x := testutil.DeterministicSine(tt.freq, fs, 0.5, int(fs))

		y, err := FiltFilt(h, x)
		if err != nil {
			t.Fatal(err)
		}

		// Compare the middle half to avoid edge effects.
		lo, hi := len(x)/4, 3*len(x)/4
		ratio := testutil.RMS(y[lo:hi]) / testutil.RMS(x[lo:hi])
		if ratio < tt.min || ratio > tt.max {
			t.Errorf("%v Hz: rms ratio %v, want in [%v, %v]", tt.freq, ratio, tt.min, tt.max)
		}
	}
}

func TestFiltFilt_ZeroPhase(t *testing.T) {
	// A passband sine must come out aligned with the input, not delayed.
	const fs = 16000.0

	h, err := DesignBandPass(101, 80, 4000, fs)
	if err != nil {
		t.Fatal(err)
	}

	x := testutil.DeterministicSine(500, fs, 0.5, 8000)

	y, err := FiltFilt(h, x)
	if err != nil {
		t.Fatal(err)
	}

	diff, err := testutil.MaxAbsDiff(y[2000:6000], x[2000:6000])
	if err != nil {
		t.Fatal(err)
	}

	if diff > 0.01 {
		t.Fatalf("max deviation from input %v, want < 0.01", diff)
	}
}

func TestFiltFilt_Errors(t *testing.T) {
	if _, err := FiltFilt(nil, make([]float64, 10)); !errors.Is(err, ErrEmptyCoefficients) {
		t.Fatalf("err = %v, want ErrEmptyCoefficients", err)
	}

	h := []float64{0.25, 0.5, 0.25}
	if _, err := FiltFilt(h, make([]float64, PadLen(len(h)))); !errors.Is(err, ErrInputTooShort) {
		t.Fatalf("err = %v, want ErrInputTooShort", err)
	}
}

func TestOddExtend(t *testing.T) {
	got := oddExtend([]float64{1, 2, 4, 7}, 2)
	want := []float64{-2, 0, 1, 2, 4, 7, 10, 12}
	testutil.RequireSliceNearlyEqual(t, got, want, 0)
}
