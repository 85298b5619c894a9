package formant

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"github.com/cwbudde/algo-voice/audiofile"
	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/dsp/resample"
	"github.com/cwbudde/algo-voice/dsp/spectrum"
	"github.com/cwbudde/algo-voice/dsp/window"
	"github.com/cwbudde/algo-voice/internal/polyroot"
)

var (
	// ErrUndefined indicates that no formant trajectory could be built for
	// the input. Callers should treat it as an absence of data.
	ErrUndefined = errors.New("formant: undefined")
	// ErrInvalidConfig indicates invalid analysis parameters.
	ErrInvalidConfig = errors.New("formant: invalid config")
)

const (
	defaultTimeStep        = 0.01
	defaultMaxFormants     = 5
	defaultMaxFrequency    = 5500.0
	defaultWindowLength    = 0.025
	defaultPreEmphasisFrom = 50.0
	defaultEnergyFloorDB   = -60.0

	// bandMarginHz excludes resonances this close to DC or the band edge.
	bandMarginHz = 50.0
)

// gaussAlpha makes window.TypeGauss match exp(-12) at the frame edges.
var gaussAlpha = math.Sqrt(12 / math.Ln2)

// Config holds formant analysis parameters.
type Config struct {
	TimeStep        float64 // seconds between frames and between output points
	MaxFormants     int     // resonances per frame; the LPC order is twice this
	MaxFrequency    float64 // Hz; the analysis band is [0, MaxFrequency]
	WindowLength    float64 // seconds; frames span twice this
	PreEmphasisFrom float64 // Hz; 6 dB/octave boost above this frequency
	EnergyFloorDB   float64 // candidates this far below the frame peak are dropped; 0 disables
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		TimeStep:        defaultTimeStep,
		MaxFormants:     defaultMaxFormants,
		MaxFrequency:    defaultMaxFrequency,
		WindowLength:    defaultWindowLength,
		PreEmphasisFrom: defaultPreEmphasisFrom,
		EnergyFloorDB:   defaultEnergyFloorDB,
	}
}

// Validate reports whether the configuration is usable.
func (c Config) Validate() error {
	switch {
	case !(c.TimeStep > 0) || math.IsInf(c.TimeStep, 0):
		return fmt.Errorf("%w: time step %v", ErrInvalidConfig, c.TimeStep)
	case c.MaxFormants < 1:
		return fmt.Errorf("%w: max formants %d", ErrInvalidConfig, c.MaxFormants)
	case !(c.MaxFrequency > 2*bandMarginHz):
		return fmt.Errorf("%w: max frequency %v", ErrInvalidConfig, c.MaxFrequency)
	case !(c.WindowLength > 0):
		return fmt.Errorf("%w: window length %v", ErrInvalidConfig, c.WindowLength)
	case c.PreEmphasisFrom < 0 || math.IsNaN(c.PreEmphasisFrom):
		return fmt.Errorf("%w: pre-emphasis %v", ErrInvalidConfig, c.PreEmphasisFrom)
	case c.EnergyFloorDB > 0 || math.IsNaN(c.EnergyFloorDB):
		return fmt.Errorf("%w: energy floor %v dB", ErrInvalidConfig, c.EnergyFloorDB)
	}

	return nil
}

// Point is one sample of a formant trajectory. Unresolved formants are 0.
type Point struct {
	Time float64 `json:"time"`
	F1   float64 `json:"f1"`
	F2   float64 `json:"f2"`
	F3   float64 `json:"f3"`
}

// Track is a formant trajectory sampled at a fixed time step.
type Track []Point

// Formant is a single resonance of an analysis frame.
type Formant struct {
	Frequency float64
	Bandwidth float64
}

// Frame holds the resonances of one analysis frame sorted by frequency.
type Frame struct {
	Time     float64
	Formants []Formant
}

// frequency returns the n-th (1-based) formant frequency or false.
func (f Frame) frequency(n int) (float64, bool) {
	if n < 1 || n > len(f.Formants) {
		return 0, false
	}

	return f.Formants[n-1].Frequency, true
}

// Analyzer runs Burg formant analysis.
type Analyzer struct {
	cfg Config
}

// NewAnalyzer validates cfg and builds an analyzer.
func NewAnalyzer(cfg Config) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Analyzer{cfg: cfg}, nil
}

// Config returns the analyzer configuration.
func (a *Analyzer) Config() Config { return a.cfg }

// ExtractFile loads the WAV file at path and extracts its formant track.
func ExtractFile(path string, cfg Config) (Track, error) {
	a, err := NewAnalyzer(cfg)
	if err != nil {
		return nil, err
	}

	w, err := audiofile.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUndefined, err)
	}

	return a.Extract(w)
}

// Extract samples F1..F3 of w at times linspace(0, duration, n) with
// n = int(duration/TimeStep) + 1.
func (a *Analyzer) Extract(w core.Waveform) (Track, error) {
	frames, err := a.Frames(w)
	if err != nil {
		return nil, err
	}

	dur := w.Duration()
	n := int(dur/a.cfg.TimeStep) + 1

	track := make(Track, n)
	for i := range track {
		t := 0.0
		if n > 1 {
			t = float64(i) * dur / float64(n-1)
		}

		track[i] = Point{
			Time: t,
			F1:   valueAt(frames, a.cfg.TimeStep, 1, t),
			F2:   valueAt(frames, a.cfg.TimeStep, 2, t),
			F3:   valueAt(frames, a.cfg.TimeStep, 3, t),
		}
	}

	return track, nil
}

// Frames runs the frame-level analysis. Frame times refer to the time axis
// of w, centred so the frames cover the signal symmetrically.
func (a *Analyzer) Frames(w core.Waveform) ([]Frame, error) {
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUndefined, err)
	}

	cfg := a.cfg
	x := w.Samples
	sr := w.SampleRate

	target := int(math.Round(2 * cfg.MaxFrequency))
	if sr > target {
		y, err := resample.Rates(x, sr, target)
		if err != nil {
			return nil, fmt.Errorf("%w: resample: %w", ErrUndefined, err)
		}

		x, sr = y, target
	}

	fs := float64(sr)
	upper := math.Min(cfg.MaxFrequency, fs/2) - bandMarginHz

	physical := 2 * cfg.WindowLength
	dur := w.Duration()

	nFrames := int(math.Floor((dur-physical)/cfg.TimeStep)) + 1
	if nFrames < 1 {
		return nil, fmt.Errorf("%w: %.4f s is shorter than the %.4f s window", ErrUndefined, dur, physical)
	}

	nw := int(math.Round(physical * fs))
	if nw < 2*cfg.MaxFormants+1 {
		return nil, fmt.Errorf("%w: window of %d samples is too short", ErrUndefined, nw)
	}

	coeffs, err := window.Gaussian(nw, gaussAlpha)
	if err != nil {
		return nil, fmt.Errorf("%w: window: %w", ErrUndefined, err)
	}

	emphasized := preEmphasize(x, cfg.PreEmphasisFrom, fs)
	t1 := 0.5*dur - 0.5*float64(nFrames)*cfg.TimeStep + 0.5*cfg.TimeStep

	frames := make([]Frame, nFrames)
	buf := make([]float64, nw)
	nfft := spectrum.NextPowerOfTwo(2 * nw)

	for k := range frames {
		t := t1 + float64(k)*cfg.TimeStep
		start := int(math.Round(t*fs - float64(nw)/2))

		clear(buf)

		if lo, hi := max(start, 0), min(start+nw, len(emphasized)); lo < hi {
			copy(buf[lo-start:], emphasized[lo:hi])
		}

		if err := window.Apply(buf, coeffs); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUndefined, err)
		}

		formants, err := a.frameFormants(buf, fs, upper, nfft)
		if err != nil {
			return nil, err
		}

		frames[k] = Frame{Time: t, Formants: formants}
	}

	return frames, nil
}

// frameFormants returns the resonances of one windowed frame. A frame whose
// prediction polynomial cannot be factored has no formants.
func (a *Analyzer) frameFormants(frame []float64, fs, upper float64, nfft int) ([]Formant, error) {
	d := burg(frame, 2*a.cfg.MaxFormants)
	if len(d) < 2 {
		return nil, nil
	}

	poly := make([]float64, len(d)+1)
	poly[0] = 1

	for i, c := range d {
		poly[i+1] = -c
	}

	roots, err := polyroot.Roots(poly)
	if err != nil {
		return nil, nil
	}

	polyroot.ReflectInside(roots)

	out := make([]Formant, 0, len(roots)/2)

	for _, r := range roots {
		if imag(r) <= 0 {
			continue
		}

		f := cmplx.Phase(r) * fs / (2 * math.Pi)
		if f <= bandMarginHz || f >= upper {
			continue
		}

		out = append(out, Formant{
			Frequency: f,
			Bandwidth: -math.Log(cmplx.Abs(r)) * fs / math.Pi,
		})
	}

	if a.cfg.EnergyFloorDB < 0 && len(out) > 0 {
		var err error
		if out, err = gateByEnergy(out, frame, fs, nfft, a.cfg.EnergyFloorDB); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUndefined, err)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Frequency < out[j].Frequency })

	return out, nil
}

// gateByEnergy drops candidates whose frame power lies more than floorDB
// below the frame's spectral peak.
func gateByEnergy(cands []Formant, frame []float64, fs float64, nfft int, floorDB float64) ([]Formant, error) {
	power, err := spectrum.PowerSpectrum(frame, nfft)
	if err != nil {
		return nil, err
	}

	peak := 0.0
	for _, p := range power {
		peak = math.Max(peak, p)
	}

	if peak == 0 {
		return nil, nil
	}

	freqs := make([]float64, len(cands))
	for i, c := range cands {
		freqs[i] = c.Frequency
	}

	at, err := spectrum.PowersAt(frame, freqs, fs)
	if err != nil {
		return nil, err
	}

	kept := cands[:0]
	for i, c := range cands {
		if core.PowerToDB(at[i], peak, 1e-300) >= floorDB {
			kept = append(kept, c)
		}
	}

	return kept, nil
}

// preEmphasize applies y[i] = x[i] - a*x[i-1] with a = exp(-2*pi*from/fs).
func preEmphasize(x []float64, from, fs float64) []float64 {
	out := make([]float64, len(x))
	if len(x) == 0 {
		return out
	}

	alpha := math.Exp(-2 * math.Pi * from / fs)

	out[0] = x[0]
	for i := 1; i < len(x); i++ {
		out[i] = x[i] - alpha*x[i-1]
	}

	return out
}

// valueAt interpolates the n-th formant linearly between the two frames
// around t. A t within eps frames of a frame time reads that frame alone.
// Times outside the frame span, or a neighbour lacking the formant, give 0.
func valueAt(frames []Frame, step float64, n int, t float64) float64 {
	if len(frames) == 0 {
		return 0
	}

	const eps = 1e-9

	pos := (t - frames[0].Time) / step
	if r := math.Round(pos); math.Abs(pos-r) < eps {
		pos = r
	}

	if pos < 0 || pos > float64(len(frames)-1) {
		return 0
	}

	i := int(math.Floor(pos))
	frac := pos - float64(i)

	left, ok := frames[i].frequency(n)
	if !ok {
		return 0
	}

	if frac == 0 || i+1 >= len(frames) {
		return left
	}

	right, ok := frames[i+1].frequency(n)
	if !ok {
		return 0
	}

	return left + frac*(right-left)
}
