// Package spectral computes log mel-spectrograms and short-term RMS energy
// tracks of a waveform.
//
// The mel-spectrogram is the centred, periodic-Hann STFT power projected onto
// a Slaney-normalized triangular filterbank and converted to decibels
// relative to its own maximum, so the loudest cell is always 0 dB. Energy is
// the RMS of centred, zero-padded frames, one value per hop.
package spectral
