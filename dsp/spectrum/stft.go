package spectrum

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-voice/dsp/window"
)

var (
	// ErrInvalidFrame indicates an invalid FFT size or hop length.
	ErrInvalidFrame = errors.New("spectrum: invalid frame configuration")
	// ErrShortInput indicates an input too short for a single frame.
	ErrShortInput = errors.New("spectrum: input shorter than one frame")
)

// STFT computes short-time power spectra with a periodic Hann window.
//
// With centering enabled (the default) the signal is padded with size/2
// zeros on both sides so frame k is centred on sample k*hop, giving
// 1 + len/hop frames.
type STFT struct {
	size   int
	hop    int
	center bool
	window []float64
	plan   *algofft.Plan[complex128]
}

// STFTOption configures an [STFT].
type STFTOption func(*STFT)

// WithoutCentering frames the signal from sample 0 without padding.
func WithoutCentering() STFTOption {
	return func(s *STFT) {
		s.center = false
	}
}

// WithWindow replaces the periodic Hann window. coeffs must have the FFT size.
func WithWindow(coeffs []float64) STFTOption {
	return func(s *STFT) {
		s.window = append([]float64(nil), coeffs...)
	}
}

// NewSTFT creates an analyzer with FFT size and hop length in samples.
func NewSTFT(size, hop int, opts ...STFTOption) (*STFT, error) {
	if size < 2 || hop < 1 {
		return nil, fmt.Errorf("%w: size=%d hop=%d", ErrInvalidFrame, size, hop)
	}

	s := &STFT{
		size:   size,
		hop:    hop,
		center: true,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if s.window == nil {
		s.window = window.Generate(window.TypeHann, size, window.WithPeriodic())
	}

	if len(s.window) != size {
		return nil, fmt.Errorf("%w: window length %d != size %d", ErrInvalidFrame, len(s.window), size)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("spectrum: fft plan: %w", err)
	}

	s.plan = plan

	return s, nil
}

// Size returns the FFT size.
func (s *STFT) Size() int { return s.size }

// Hop returns the hop length.
func (s *STFT) Hop() int { return s.hop }

// Bins returns the number of non-negative frequency bins, size/2+1.
func (s *STFT) Bins() int { return s.size/2 + 1 }

// Frames returns the number of frames produced for an input of length n.
func (s *STFT) Frames(n int) int {
	if s.center {
		return 1 + n/s.hop
	}

	if n < s.size {
		return 0
	}

	return 1 + (n-s.size)/s.hop
}

// Power returns the power spectrogram of x indexed [frame][bin].
func (s *STFT) Power(x []float64) ([][]float64, error) {
	frames := s.Frames(len(x))
	if frames == 0 {
		return nil, fmt.Errorf("%w: %d < %d", ErrShortInput, len(x), s.size)
	}

	offset := 0
	if s.center {
		offset = s.size / 2
	}

	bins := s.Bins()
	frame := make([]float64, s.size)
	in := make([]complex128, s.size)
	out := make([]complex128, s.size)
	scratch := make([]float64, 2*bins)

	result := make([][]float64, frames)

	for k := range frames {
		start := k*s.hop - offset
		lo, hi := max(start, 0), min(start+s.size, len(x))

		clear(frame)

		if lo < hi {
			copy(frame[lo-start:], x[lo:hi])
		}

		if err := window.Apply(frame, s.window); err != nil {
			return nil, fmt.Errorf("spectrum: %w", err)
		}

		for i, v := range frame {
			in[i] = complex(v, 0)
		}

		if err := s.plan.Forward(out, in); err != nil {
			return nil, fmt.Errorf("spectrum: fft: %w", err)
		}

		row := make([]float64, bins)
		powerInto(row, out[:bins], scratch)
		result[k] = row
	}

	return result, nil
}

// PowerSpectrum returns |X[k]|^2 for k = 0..n/2 of frame zero-padded to n.
func PowerSpectrum(frame []float64, n int) ([]float64, error) {
	if n < 2 || len(frame) > n {
		return nil, fmt.Errorf("%w: frame=%d size=%d", ErrInvalidFrame, len(frame), n)
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("spectrum: fft plan: %w", err)
	}

	in := make([]complex128, n)
	for i, v := range frame {
		in[i] = complex(v, 0)
	}

	out := make([]complex128, n)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("spectrum: fft: %w", err)
	}

	return Power(out[:n/2+1]), nil
}
