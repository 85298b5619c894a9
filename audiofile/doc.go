// Package audiofile reads and writes PCM WAV files as [core.Waveform] values.
//
// Decoded audio keeps its native sample rate, is scaled to [-1, 1) and is
// downmixed to mono by averaging channels. Written files are 16-bit PCM mono.
package audiofile
