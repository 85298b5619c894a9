// Package spectrum provides short-time Fourier analysis and power-spectrum
// helpers.
//
// FFTs are computed with algo-fft plans and the power kernel comes from
// algo-vecmath. [PowerAt] evaluates single frequencies off the bin grid on the
// same scale as [PowerSpectrum].
package spectrum
