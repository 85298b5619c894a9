// Package fir provides a direct-form FIR filter runtime, windowed-sinc
// design and zero-phase forward-backward filtering.
//
// [DesignBandPass] produces the Hamming-windowed bandpass used to condition
// speech recordings; [DesignLowPass] builds anti-aliasing prototypes from
// any caller-supplied window. [FiltFilt] runs a filter over a whole signal
// forward and backward so the output stays time-aligned with the input.
package fir
