package voice

import (
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-voice/audiofile"
	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/measure/formant"
	"github.com/cwbudde/algo-voice/measure/pitch"
	"github.com/cwbudde/algo-voice/measure/spectral"
)

// Feature names used in [FeatureError].
const (
	FeatureF0       = "f0"
	FeatureJitter   = "jitter"
	FeatureShimmer  = "shimmer"
	FeatureFormants = "formants"
	FeatureMel      = "mel_spectrogram"
	FeatureEnergy   = "energy"
)

// Config groups the per-extractor configurations.
type Config struct {
	Pitch    pitch.Config
	Formant  formant.Config
	Spectral spectral.Config
}

// DefaultConfig returns the defaults of every extractor.
func DefaultConfig() Config {
	return Config{
		Pitch:    pitch.DefaultConfig(),
		Formant:  formant.DefaultConfig(),
		Spectral: spectral.DefaultConfig(),
	}
}

// FeatureError records why one feature could not be extracted.
type FeatureError struct {
	Feature string
	Err     error
}

func (e *FeatureError) Error() string { return fmt.Sprintf("voice: %s: %v", e.Feature, e.Err) }

func (e *FeatureError) Unwrap() error { return e.Err }

// MarshalJSON renders the error as {"feature": ..., "error": ...}.
func (e *FeatureError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Feature string `json:"feature"`
		Error   string `json:"error"`
	}{e.Feature, e.Err.Error()})
}

// Report holds the features of one waveform. A nil field means the feature
// could not be computed; the matching entry in Errors says why.
type Report struct {
	Source     string  `json:"source,omitempty"`
	Duration   float64 `json:"duration"`
	SampleRate int     `json:"sample_rate"`

	F0             *pitch.Track `json:"f0"`
	VoicedFrames   *int         `json:"voiced_frames"`
	MeanF0         *float64     `json:"mean_f0"`
	JitterAbsolute *float64     `json:"jitter_absolute"`
	JitterRelative *float64     `json:"jitter_relative"`
	Shimmer        *float64     `json:"shimmer"`

	Formants formant.Track `json:"formants"`

	Mel      *spectral.Spectrogram `json:"-"`
	MelShape []int                 `json:"mel_shape"`
	Energy   []float64             `json:"energy"`

	Errors []*FeatureError `json:"errors,omitempty"`
}

func (r *Report) fail(feature string, err error) {
	r.Errors = append(r.Errors, &FeatureError{Feature: feature, Err: err})
}

// Analyze extracts every feature of w. It never fails as a whole; see
// [Report.Errors].
func Analyze(w core.Waveform, cfg Config) Report {
	r := Report{
		Duration:   w.Duration(),
		SampleRate: w.SampleRate,
	}

	analyzePitch(&r, w, cfg.Pitch)
	analyzeFormants(&r, w, cfg.Formant)
	analyzeSpectral(&r, w, cfg.Spectral)

	return r
}

// AnalyzeFile loads the WAV file at path and analyzes it.
func AnalyzeFile(path string, cfg Config) (Report, error) {
	w, err := audiofile.Load(path)
	if err != nil {
		return Report{Source: path}, err
	}

	r := Analyze(w, cfg)
	r.Source = path

	return r, nil
}

func analyzePitch(r *Report, w core.Waveform, cfg pitch.Config) {
	a, err := pitch.NewAnalyzer(cfg)
	if err != nil {
		r.fail(FeatureF0, err)
		r.fail(FeatureJitter, err)
		r.fail(FeatureShimmer, err)

		return
	}

	track, err := a.ExtractF0(w)
	if err != nil {
		r.fail(FeatureF0, err)
		r.fail(FeatureJitter, err)
		r.fail(FeatureShimmer, err)

		return
	}

	r.F0 = &track

	voiced := track.Voiced()
	n := len(voiced)
	r.VoicedFrames = &n

	if n > 0 {
		mean := stat.Mean(voiced, nil)
		r.MeanF0 = &mean
	}

	if j, err := pitch.ExtractJitter(track); err != nil {
		r.fail(FeatureJitter, err)
	} else {
		r.JitterAbsolute = &j.Absolute
		r.JitterRelative = &j.Relative
	}

	if s, err := a.CalculateShimmer(w, track); err != nil {
		r.fail(FeatureShimmer, err)
	} else {
		r.Shimmer = &s
	}
}

func analyzeFormants(r *Report, w core.Waveform, cfg formant.Config) {
	a, err := formant.NewAnalyzer(cfg)
	if err != nil {
		r.fail(FeatureFormants, err)
		return
	}

	track, err := a.Extract(w)
	if err != nil {
		r.fail(FeatureFormants, err)
		return
	}

	r.Formants = track
}

func analyzeSpectral(r *Report, w core.Waveform, cfg spectral.Config) {
	if mel, err := spectral.MelSpectrogram(w, cfg); err != nil {
		r.fail(FeatureMel, err)
	} else {
		r.Mel = &mel
		r.MelShape = []int{mel.Bands(), mel.Frames()}
	}

	if e, err := spectral.Energy(w, cfg); err != nil {
		r.fail(FeatureEnergy, err)
	} else {
		r.Energy = e
	}
}
