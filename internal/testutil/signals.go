// Package testutil holds deterministic signal generators and tolerance
// helpers shared by the package tests.
package testutil

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// DeterministicSine returns amplitude*sin(2*pi*freqHz*i/sampleRate).
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)

	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// DeterministicNoise returns uniform white noise in [-amplitude, amplitude)
// drawn from a fixed seed.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	rng := rand.New(rand.NewSource(seed))

	out := make([]float64, length)
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

// DC returns a constant signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	floats.AddConst(value, out)

	return out
}

// Mix returns the element-wise sum of equally long signals.
func Mix(signals ...[]float64) []float64 {
	if len(signals) == 0 {
		return nil
	}

	out := make([]float64, len(signals[0]))
	for _, s := range signals {
		floats.Add(out, s)
	}

	return out
}

// SyntheticVowel excites a cascade of two-pole resonators, one per formant
// frequency and bandwidth, with an impulse train at f0Hz. The result peaks
// at 0.5.
func SyntheticVowel(f0Hz, sampleRate float64, formants, bandwidths []float64, length int) []float64 {
	out := make([]float64, length)

	period := sampleRate / f0Hz
	for next := 0.0; math.Ceil(next) < float64(length); next += period {
		out[int(math.Ceil(next))] = 1
	}

	for k, f := range formants {
		r := math.Exp(-math.Pi * bandwidths[k] / sampleRate)
		a1 := 2 * r * math.Cos(2*math.Pi*f/sampleRate)
		a2 := -r * r

		var y1, y2 float64
		for i, x := range out {
			y := x + a1*y1 + a2*y2
			y2, y1 = y1, y
			out[i] = y
		}
	}

	if peak := floats.Norm(out, math.Inf(1)); peak > 0 {
		floats.Scale(0.5/peak, out)
	}

	return out
}
