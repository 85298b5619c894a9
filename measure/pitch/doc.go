// Package pitch estimates fundamental-frequency (F0) tracks and derives the
// cycle-to-cycle perturbation measures jitter and shimmer from them.
//
// Tracking is split into two pluggable capabilities: an [Estimator] produces a
// coarse per-frame track, and a [Refiner] stabilizes it against the waveform.
// The defaults are [YIN] and [Stabilizer].
//
// Unvoiced frames carry F0 <= 0 and are excluded from every derived measure.
// Measures that cannot be computed return an error wrapping [ErrUndefined];
// callers must not treat that case as a zero value.
package pitch
