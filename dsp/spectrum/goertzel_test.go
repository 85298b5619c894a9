package spectrum

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-voice/internal/testutil"
)

func TestPowerAtExactBin(t *testing.T) {
	const n = 80

	// 1000 Hz at 8 kHz completes 10 cycles in 80 samples.
	block := testutil.DeterministicSine(1000, 8000, 1, n)

	got, err := PowerAt(block, 1000, 8000)
	if err != nil {
		t.Fatalf("PowerAt: %v", err)
	}

	// A unit sine on an exact bin has |X|^2 = (N/2)^2.
	if want := float64(n*n) / 4; math.Abs(got-want) > 1e-6*want {
		t.Fatalf("power = %f, want %f", got, want)
	}

	if p, _ := PowerAt(nil, 1000, 8000); p != 0 {
		t.Fatalf("empty block power = %v", p)
	}
}

func TestPowersAtMatchesPowerSpectrum(t *testing.T) {
	const sampleRate = 16000.0

	block := make([]float64, 256)
	for i := range block {
		ti := float64(i) / sampleRate
		block[i] = math.Sin(2*math.Pi*750*ti) + 0.3*math.Cos(2*math.Pi*2500*ti)
	}

	spec, err := PowerSpectrum(block, 256)
	if err != nil {
		t.Fatalf("PowerSpectrum: %v", err)
	}

	bins := []int{0, 12, 40, 100, 128}

	freqs := make([]float64, len(bins))
	for i, k := range bins {
		freqs[i] = float64(k) * sampleRate / 256
	}

	got, err := PowersAt(block, freqs, sampleRate)
	if err != nil {
		t.Fatalf("PowersAt: %v", err)
	}

	for i, k := range bins {
		if math.Abs(got[i]-spec[k]) > 1e-6*(1+spec[k]) {
			t.Errorf("bin %d: goertzel %g, fft %g", k, got[i], spec[k])
		}
	}
}

func TestPowerAtInvalid(t *testing.T) {
	tests := []struct {
		name       string
		freq, rate float64
	}{
		{"zero rate", 100, 0},
		{"negative freq", -1, 8000},
		{"above nyquist", 4001, 8000},
		{"nan freq", math.NaN(), 8000},
	}

	for _, tc := range tests {
		if _, err := PowerAt([]float64{1}, tc.freq, tc.rate); !errors.Is(err, ErrInvalidFrequency) {
			t.Errorf("%s: err = %v", tc.name, err)
		}
	}

	if _, err := PowersAt([]float64{1, 2}, []float64{100, 9000}, 16000); !errors.Is(err, ErrInvalidFrequency) {
		t.Fatalf("PowersAt above nyquist: err = %v", err)
	}
}
