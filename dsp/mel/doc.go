// Package mel provides mel-scale conversions and triangular mel filterbanks
// for projecting linear power spectra onto perceptual frequency bands.
//
// Two scales are supported: the Slaney auditory toolbox scale (linear below
// 1 kHz, logarithmic above) and the HTK formula 2595*log10(1 + f/700).
package mel
