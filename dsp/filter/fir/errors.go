package fir

import "errors"

var (
	// ErrInvalidDesign indicates filter design parameters that cannot
	// produce a bandpass filter.
	ErrInvalidDesign = errors.New("fir: invalid filter design")
	// ErrInputTooShort indicates an input not longer than the filtfilt
	// edge padding.
	ErrInputTooShort = errors.New("fir: input shorter than edge padding")
	// ErrEmptyCoefficients indicates an empty coefficient slice.
	ErrEmptyCoefficients = errors.New("fir: empty coefficients")
)
