package window

import (
	"errors"
	"math"
	"testing"
)

func TestGenerateFinite(t *testing.T) {
	for _, typ := range []Type{TypeRectangular, TypeHann, TypeHamming, TypeGauss, TypeKaiser} {
		t.Run(typ.String(), func(t *testing.T) {
			w := Generate(typ, 64)
			if len(w) != 64 {
				t.Fatalf("len=%d, want 64", len(w))
			}

			for i, v := range w {
				if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 1+1e-12 {
					t.Fatalf("coefficient[%d] = %v", i, v)
				}
			}
		})
	}
}

func TestSymmetric(t *testing.T) {
	for _, typ := range []Type{TypeHann, TypeHamming, TypeGauss, TypeKaiser} {
		w := Generate(typ, 33, WithAlpha(3))
		for i := range w {
			if d := math.Abs(w[i] - w[len(w)-1-i]); d > 1e-12 {
				t.Fatalf("%s: w[%d]=%v w[%d]=%v", typ, i, w[i], len(w)-1-i, w[len(w)-1-i])
			}
		}

		if !almostEqual(w[16], 1, 1e-12) {
			t.Fatalf("%s: centre=%v, want 1", typ, w[16])
		}
	}
}

func TestGoldenVectors(t *testing.T) {
	hann := []float64{
		0.0, 0.1882550990706332, 0.6112604669781572, 0.9504844339512095,
		0.9504844339512095, 0.6112604669781573, 0.1882550990706333, 0.0,
	}
	hamming := []float64{
		0.08, 0.25319469114498255, 0.6423596296199047, 0.9544456792351128,
		0.9544456792351128, 0.6423596296199048, 0.25319469114498266, 0.08,
	}

	checkGolden(t, Generate(TypeHann, 8), hann, 1e-10)
	checkGolden(t, Generate(TypeHamming, 8), hamming, 1e-10)
	checkGolden(t, Generate(TypeHann, 4, WithPeriodic()), []float64{0, 0.5, 1, 0.5}, 1e-12)
}

func TestGaussianEdges(t *testing.T) {
	w, err := Gaussian(101, math.Sqrt(12/math.Ln2))
	if err != nil {
		t.Fatal(err)
	}

	if !almostEqual(w[0], math.Exp(-12), 1e-12) || !almostEqual(w[100], w[0], 1e-15) {
		t.Fatalf("edges=%v/%v, want exp(-12)", w[0], w[100])
	}
}

func TestKaiser(t *testing.T) {
	const beta = 8.6

	w, err := Kaiser(5, beta)
	if err != nil {
		t.Fatal(err)
	}

	if !almostEqual(w[0], 1/besselI0(beta), 1e-15) {
		t.Fatalf("edge=%v, want 1/I0(beta)=%v", w[0], 1/besselI0(beta))
	}

	if w[1] <= w[0] || w[2] <= w[1] {
		t.Fatalf("not increasing toward centre: %v", w)
	}

	flat, err := Kaiser(7, 0)
	if err != nil {
		t.Fatal(err)
	}

	checkGolden(t, flat, Generate(TypeRectangular, 7), 0)
}

func TestBesselI0(t *testing.T) {
	// Reference values of I0.
	for x, want := range map[float64]float64{
		0: 1,
		1: 1.2660658777520082,
		5: 27.239871823604442,
	} {
		if got := besselI0(x); math.Abs(got-want) > 1e-12*want {
			t.Errorf("I0(%v) = %.16f, want %.16f", x, got, want)
		}
	}
}

func TestApply(t *testing.T) {
	buf := []float64{2, 2, 2, 2}
	if err := Apply(buf, Generate(TypeHann, 4, WithPeriodic())); err != nil {
		t.Fatal(err)
	}

	checkGolden(t, buf, []float64{0, 1, 2, 1}, 1e-12)

	if err := Apply(buf, []float64{1}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("mismatch: err = %v", err)
	}
}

func TestInvalid(t *testing.T) {
	if got := Generate(TypeHann, 0); got != nil {
		t.Fatalf("expected nil for zero length, got %v", got)
	}

	if _, err := Hamming(-1); !errors.Is(err, ErrInvalid) {
		t.Fatalf("Hamming(-1): err = %v", err)
	}

	if _, err := Gaussian(16, 0); !errors.Is(err, ErrInvalid) {
		t.Fatalf("Gaussian alpha 0: err = %v", err)
	}

	if _, err := Kaiser(16, -1); !errors.Is(err, ErrInvalid) {
		t.Fatalf("Kaiser beta -1: err = %v", err)
	}

	if got := Type(42).String(); got != "unknown" {
		t.Fatalf("String() = %q", got)
	}
}

func checkGolden(t *testing.T, got, want []float64, tol float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("len mismatch got=%d want=%d", len(got), len(want))
	}

	for i := range got {
		if !almostEqual(got[i], want[i], tol) {
			t.Fatalf("index %d: got=%.16f want=%.16f", i, got[i], want[i])
		}
	}
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
