package core

import "math"

// Clamp limits value to [lo, hi]. Swapped bounds are reordered.
func Clamp(value, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}

	return math.Min(math.Max(value, lo), hi)
}

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// DBToLinear converts an amplitude level in dB to a linear factor.
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// PowerToDB converts power to dB relative to ref, flooring both at amin:
//
//	10*log10(max(amin, power)) - 10*log10(max(amin, ref))
//
// The result is always finite for amin > 0.
func PowerToDB(power, ref, amin float64) float64 {
	return 10*math.Log10(math.Max(amin, power)) - 10*math.Log10(math.Max(amin, ref))
}
