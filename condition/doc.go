// Package condition prepares raw speech recordings for analysis.
//
// A conditioning pass loads a waveform, resamples it to a target rate,
// removes out-of-band energy with a zero-phase FIR bandpass and scales it to
// a target RMS level. [Pipeline.ProcessDataset] runs the pass over every
// audio file of a folder; failures are reported per file and never abort the
// batch.
package condition
