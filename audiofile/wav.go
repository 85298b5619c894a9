package audiofile

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ErrLoad indicates that a source could not be decoded into a waveform.
var ErrLoad = errors.New("audiofile: load failed")

// WAV format tags accepted by the decoder.
const (
	formatPCM        = 1
	formatFloat      = 3
	formatExtensible = 0xFFFE
)

// WriteBitDepth is the sample width used by [Write] and [Encode].
const WriteBitDepth = 16

// Load decodes the WAV file at path. On failure it returns a zero Waveform
// and an error wrapping [ErrLoad].
func Load(path string) (core.Waveform, error) {
	f, err := os.Open(path)
	if err != nil {
		return core.Waveform{}, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer f.Close()

	w, err := Decode(f)
	if err != nil {
		return core.Waveform{}, fmt.Errorf("%w (%s)", err, path)
	}

	return w, nil
}

// Decode reads a PCM WAV stream.
func Decode(r io.ReadSeeker) (core.Waveform, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return core.Waveform{}, fmt.Errorf("%w: not a valid WAV file", ErrLoad)
	}

	switch dec.WavAudioFormat {
	case formatPCM, formatExtensible:
	case formatFloat:
		// The decoder only reads 32-bit float samples, as raw int32 bits.
		if dec.BitDepth != 32 {
			return core.Waveform{}, fmt.Errorf("%w: unsupported %d-bit float WAV", ErrLoad, dec.BitDepth)
		}
	default:
		return core.Waveform{}, fmt.Errorf("%w: unsupported WAV format tag %d", ErrLoad, dec.WavAudioFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return core.Waveform{}, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	if buf.Format == nil || buf.Format.NumChannels < 1 {
		return core.Waveform{}, fmt.Errorf("%w: missing channel layout", ErrLoad)
	}

	depth := int(dec.BitDepth)
	if depth <= 0 {
		depth = buf.SourceBitDepth
	}

	samples, err := toMono(buf, depth, dec.WavAudioFormat == formatFloat)
	if err != nil {
		return core.Waveform{}, err
	}

	w := core.Waveform{Samples: samples, SampleRate: buf.Format.SampleRate}
	if err := w.Validate(); err != nil {
		return core.Waveform{}, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	return w, nil
}

func toMono(buf *audio.IntBuffer, depth int, float bool) ([]float64, error) {
	if depth < 8 || depth > 32 {
		return nil, fmt.Errorf("%w: unsupported bit depth %d", ErrLoad, depth)
	}

	sample := pcmSample(depth)
	if float {
		sample = floatSample
	}

	ch := buf.Format.NumChannels
	frames := len(buf.Data) / ch
	out := make([]float64, frames)

	for i := range out {
		var sum float64
		for c := range ch {
			sum += sample(buf.Data[i*ch+c])
		}

		out[i] = sum / float64(ch)
	}

	return out, nil
}

// pcmSample returns the scaling of integer samples of depth bits to [-1, 1).
func pcmSample(depth int) func(int) float64 {
	scale := float64(int64(1) << (depth - 1))

	offset := 0.0
	if depth == 8 {
		// 8-bit WAV samples are unsigned.
		offset = 128
	}

	return func(v int) float64 { return (float64(v) - offset) / scale }
}

// floatSample reinterprets a decoded 32-bit sample as IEEE float.
func floatSample(v int) float64 {
	return float64(math.Float32frombits(uint32(int32(v))))
}

// Write encodes w as a 16-bit PCM mono WAV file at path.
func Write(path string, w core.Waveform) error {
	if err := w.Validate(); err != nil {
		return fmt.Errorf("audiofile: write %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("audiofile: write: %w", err)
	}

	if err := Encode(f, w); err != nil {
		f.Close()
		return fmt.Errorf("audiofile: write %s: %w", path, err)
	}

	return f.Close()
}

// Encode writes w to ws as a 16-bit PCM mono WAV stream. Samples are clipped
// to [-1, 1].
func Encode(ws io.WriteSeeker, w core.Waveform) error {
	enc := wav.NewEncoder(ws, w.SampleRate, WriteBitDepth, 1, formatPCM)

	const full = 1<<(WriteBitDepth-1) - 1

	data := make([]int, len(w.Samples))
	for i, v := range w.Samples {
		v = core.Clamp(v, -1, 1)
		data[i] = int(math.Round(v * full))
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: w.SampleRate},
		Data:           data,
		SourceBitDepth: WriteBitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	return nil
}
