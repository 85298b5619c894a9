// Package formant estimates vocal-tract resonance (formant) trajectories with
// the Burg linear-prediction procedure.
//
// The waveform is downsampled to twice the highest formant frequency,
// pre-emphasized and cut into overlapping Gaussian-windowed frames. Each
// frame's all-pole model is factored into resonances; those inside the
// analysis band and above the frame's energy floor become formant candidates.
// The trajectory of F1..F3 is then sampled at a fixed time step by linear
// interpolation between frames. A formant that cannot be resolved at a time
// point is reported as 0.
package formant
