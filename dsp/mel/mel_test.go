package mel

import (
	"errors"
	"math"
	"testing"
)

func TestHzToMelKnownValues(t *testing.T) {
	tests := []struct {
		hz    float64
		scale Scale
		want  float64
	}{
		{0, ScaleSlaney, 0},
		{440, ScaleSlaney, 6.6},
		{1000, ScaleSlaney, 15},
		{8000, ScaleSlaney, 45.245640471924965},
		{700, ScaleHTK, 2595 * math.Log10(2)},
		{1000, ScaleHTK, 999.9855371396244},
	}

	for _, tc := range tests {
		if got := HzToMel(tc.hz, tc.scale); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("HzToMel(%v, %v) = %v, want %v", tc.hz, tc.scale, got, tc.want)
		}
	}
}

func TestMelRoundTrip(t *testing.T) {
	for _, s := range []Scale{ScaleSlaney, ScaleHTK} {
		for _, hz := range []float64{0, 50, 999, 1000, 1001, 4000, 11025} {
			got := MelToHz(HzToMel(hz, s), s)
			if math.Abs(got-hz) > 1e-9*(1+hz) {
				t.Errorf("%v: round trip %v -> %v", s, hz, got)
			}
		}
	}
}

func TestFrequenciesMonotonic(t *testing.T) {
	f := Frequencies(130, 0, 11025, ScaleSlaney)
	if len(f) != 130 || f[0] != 0 || f[129] != 11025 {
		t.Fatalf("endpoints = %v, %v (len %d)", f[0], f[len(f)-1], len(f))
	}

	for i := 1; i < len(f); i++ {
		if f[i] <= f[i-1] {
			t.Fatalf("not increasing at %d: %v <= %v", i, f[i], f[i-1])
		}
	}
}

func TestFilterbankShapeAndArea(t *testing.T) {
	const (
		sampleRate = 16000.0
		nFFT       = 2048
	)

	fb, err := NewFilterbank(sampleRate, nFFT, 40, 0, 0)
	if err != nil {
		t.Fatalf("NewFilterbank: %v", err)
	}

	if fb.Bands() != 40 || fb.Bins() != nFFT/2+1 {
		t.Fatalf("shape = %dx%d", fb.Bands(), fb.Bins())
	}

	df := sampleRate / nFFT
	for m := range fb.Bands() {
		var area float64
		for _, w := range fb.weights[m] {
			if w < 0 {
				t.Fatalf("band %d has negative weight %v", m, w)
			}
			area += w * df
		}

		if math.Abs(area-1) > 0.01 {
			t.Errorf("band %d area = %v, want ~1", m, area)
		}
	}
}

func TestFilterbankUnnormalizedPeak(t *testing.T) {
	fb, err := NewFilterbank(16000, 2048, 40, 0, 8000, WithoutNormalization(), WithScale(ScaleHTK))
	if err != nil {
		t.Fatalf("NewFilterbank: %v", err)
	}

	for m := range fb.Bands() {
		peak := 0.0
		for _, w := range fb.weights[m] {
			peak = math.Max(peak, w)
		}

		if peak > 1+1e-12 || peak < 0.5 {
			t.Errorf("band %d peak = %v", m, peak)
		}
	}

	centers := fb.Centers()
	if centers[0] <= 0 || centers[len(centers)-1] >= 8000 {
		t.Fatalf("centers out of range: %v .. %v", centers[0], centers[len(centers)-1])
	}
}

func TestFilterbankApply(t *testing.T) {
	fb, err := NewFilterbank(16000, 512, 20, 0, 0)
	if err != nil {
		t.Fatalf("NewFilterbank: %v", err)
	}

	power := make([]float64, fb.Bins())
	// Only bin 64 (2 kHz) carries energy.
	power[64] = 1

	out, err := fb.Apply(power)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	nonzero := 0
	for _, v := range out {
		if v > 0 {
			nonzero++
		}
	}

	if nonzero < 1 || nonzero > 2 {
		t.Fatalf("a single bin excited %d bands: %v", nonzero, out)
	}

	if _, err := fb.Apply(power[:10]); !errors.Is(err, ErrInvalidFilterbank) {
		t.Fatalf("short spectrum: err = %v", err)
	}
}

func TestFilterbankValidation(t *testing.T) {
	tests := []struct {
		name       string
		sr         float64
		nFFT, nMel int
		fmin, fmax float64
	}{
		{"zero rate", 0, 512, 10, 0, 0},
		{"tiny fft", 16000, 1, 10, 0, 0},
		{"no bands", 16000, 512, 0, 0, 0},
		{"inverted range", 16000, 512, 10, 4000, 1000},
		{"above nyquist", 16000, 512, 10, 0, 9000},
		{"negative fmin", 16000, 512, 10, -1, 0},
	}

	for _, tc := range tests {
		if _, err := NewFilterbank(tc.sr, tc.nFFT, tc.nMel, tc.fmin, tc.fmax); !errors.Is(err, ErrInvalidFilterbank) {
			t.Errorf("%s: err = %v", tc.name, err)
		}
	}
}
