package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name          string
		value, lo, hi float64
		want          float64
	}{
		{name: "inside", value: 0.5, lo: 0, hi: 1, want: 0.5},
		{name: "below", value: -1, lo: 0, hi: 1, want: 0},
		{name: "above", value: 2, lo: 0, hi: 1, want: 1},
		{name: "swapped", value: 2, lo: 1, hi: 0, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.value, tt.lo, tt.hi); got != tt.want {
				t.Fatalf("Clamp() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDBToLinear(t *testing.T) {
	for db, want := range map[float64]float64{0: 1, -20: 0.1, -50: math.Sqrt(1e-5), 6.0206: 2} {
		if got := DBToLinear(db); math.Abs(got-want) > 1e-4*want {
			t.Errorf("DBToLinear(%v) = %v, want %v", db, got, want)
		}
	}
}

func TestPowerToDB(t *testing.T) {
	tests := []struct {
		name       string
		power, ref float64
		want       float64
	}{
		{name: "at reference", power: 4, ref: 4, want: 0},
		{name: "10 dB down", power: 0.1, ref: 1, want: -10},
		{name: "zero floored", power: 0, ref: 1, want: -100},
		{name: "silent reference", power: 0, ref: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PowerToDB(tt.power, tt.ref, 1e-10); math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("PowerToDB() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(1) || IsFinite(math.NaN()) || IsFinite(math.Inf(1)) {
		t.Fatal("IsFinite misclassified a value")
	}
}
