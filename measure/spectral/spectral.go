package spectral

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/dsp/mel"
	"github.com/cwbudde/algo-voice/dsp/spectrum"
	timestats "github.com/cwbudde/algo-voice/stats/time"
	"gonum.org/v1/gonum/floats"
)

// ErrInvalidConfig indicates invalid spectral analysis parameters.
var ErrInvalidConfig = errors.New("spectral: invalid config")

// amin floors power before the log conversion.
const amin = 1e-10

// Config holds mel-spectrogram and energy parameters.
type Config struct {
	NFFT        int     // FFT size of the STFT
	HopLength   int     // samples between frames, shared by spectrogram and energy
	NMels       int     // mel bands
	FMin        float64 // Hz
	FMax        float64 // Hz; <= 0 selects sampleRate/2
	TopDB       float64 // dynamic range below the maximum; <= 0 disables the floor
	FrameLength int     // RMS frame length in samples
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		NFFT:        2048,
		HopLength:   512,
		NMels:       128,
		FMin:        0,
		FMax:        0,
		TopDB:       80,
		FrameLength: 2048,
	}
}

// Validate reports whether the configuration is usable.
func (c Config) Validate() error {
	switch {
	case c.NFFT < 2:
		return fmt.Errorf("%w: n_fft %d", ErrInvalidConfig, c.NFFT)
	case c.HopLength < 1:
		return fmt.Errorf("%w: hop length %d", ErrInvalidConfig, c.HopLength)
	case c.NMels < 1:
		return fmt.Errorf("%w: n_mels %d", ErrInvalidConfig, c.NMels)
	case c.FMin < 0 || math.IsNaN(c.FMin):
		return fmt.Errorf("%w: f_min %v", ErrInvalidConfig, c.FMin)
	case math.IsNaN(c.FMax) || math.IsNaN(c.TopDB):
		return fmt.Errorf("%w: f_max %v top_db %v", ErrInvalidConfig, c.FMax, c.TopDB)
	case c.FrameLength < 1:
		return fmt.Errorf("%w: frame length %d", ErrInvalidConfig, c.FrameLength)
	}

	return nil
}

// Spectrogram is a log-power mel spectrogram.
type Spectrogram struct {
	// Data is indexed [mel band][frame] in dB relative to the maximum.
	Data [][]float64 `json:"data"`
	// Frequencies holds the centre frequency of each band in Hz.
	Frequencies []float64 `json:"frequencies"`
}

// Bands returns the number of mel bands.
func (s Spectrogram) Bands() int { return len(s.Data) }

// Frames returns the number of frames.
func (s Spectrogram) Frames() int {
	if len(s.Data) == 0 {
		return 0
	}

	return len(s.Data[0])
}

// Max returns the largest value, 0 for any spectrogram built by
// [MelSpectrogram].
func (s Spectrogram) Max() float64 {
	m := math.Inf(-1)
	for _, row := range s.Data {
		if len(row) > 0 {
			m = math.Max(m, floats.Max(row))
		}
	}

	return m
}

// MelSpectrogram returns the log mel-spectrogram of w.
func MelSpectrogram(w core.Waveform, cfg Config) (Spectrogram, error) {
	if err := cfg.Validate(); err != nil {
		return Spectrogram{}, err
	}

	if err := w.Validate(); err != nil {
		return Spectrogram{}, fmt.Errorf("spectral: %w", err)
	}

	stft, err := spectrum.NewSTFT(cfg.NFFT, cfg.HopLength)
	if err != nil {
		return Spectrogram{}, fmt.Errorf("spectral: %w", err)
	}

	fb, err := mel.NewFilterbank(float64(w.SampleRate), cfg.NFFT, cfg.NMels, cfg.FMin, cfg.FMax)
	if err != nil {
		return Spectrogram{}, fmt.Errorf("spectral: %w", err)
	}

	power, err := stft.Power(w.Samples)
	if err != nil {
		return Spectrogram{}, fmt.Errorf("spectral: %w", err)
	}

	data := make([][]float64, cfg.NMels)
	for m := range data {
		data[m] = make([]float64, len(power))
	}

	for k, frame := range power {
		energies, err := fb.Apply(frame)
		if err != nil {
			return Spectrogram{}, fmt.Errorf("spectral: %w", err)
		}

		for m, e := range energies {
			data[m][k] = e
		}
	}

	PowerToDB(data, cfg.TopDB)

	return Spectrogram{Data: data, Frequencies: fb.Centers()}, nil
}

// PowerToDB converts power values in place to dB relative to their maximum,
// flooring power at 1e-10. With topDB > 0 values are clipped to
// max - topDB.
func PowerToDB(data [][]float64, topDB float64) {
	ref := 0.0
	for _, row := range data {
		if len(row) > 0 {
			ref = math.Max(ref, floats.Max(row))
		}
	}

	top := math.Inf(-1)

	for _, row := range data {
		for i, p := range row {
			row[i] = core.PowerToDB(p, ref, amin)
			top = math.Max(top, row[i])
		}
	}

	if topDB <= 0 {
		return
	}

	floor := top - topDB

	for _, row := range data {
		for i, v := range row {
			row[i] = math.Max(v, floor)
		}
	}
}

// Energy returns the RMS of centred frames of cfg.FrameLength samples every
// cfg.HopLength samples.
func Energy(w core.Waveform, cfg Config) ([]float64, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("spectral: %w", err)
	}

	return timestats.FrameRMS(w.Samples, cfg.FrameLength, cfg.HopLength), nil
}
