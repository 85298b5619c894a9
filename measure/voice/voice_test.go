package voice

import (
	"encoding/json"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-voice/audiofile"
	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/internal/testutil"
	"github.com/cwbudde/algo-voice/measure/pitch"
)

func vowel() core.Waveform {
	return core.Waveform{
		Samples:    testutil.SyntheticVowel(120, 16000, []float64{700, 1220, 2600}, []float64{80, 90, 120}, 16000),
		SampleRate: 16000,
	}
}

func hasFeatureError(r Report, feature string) *FeatureError {
	for _, e := range r.Errors {
		if e.Feature == feature {
			return e
		}
	}

	return nil
}

func TestAnalyzeVowel(t *testing.T) {
	r := Analyze(vowel(), DefaultConfig())

	if len(r.Errors) != 0 {
		t.Fatalf("errors = %v", r.Errors)
	}

	if r.Duration != 1 || r.SampleRate != 16000 {
		t.Fatalf("duration=%v rate=%d", r.Duration, r.SampleRate)
	}

	if r.F0 == nil || r.F0.Len() != 201 {
		t.Fatalf("F0 track = %+v", r.F0)
	}

	if r.VoicedFrames == nil || *r.VoicedFrames < 150 {
		t.Fatalf("voiced frames = %v", r.VoicedFrames)
	}

	if r.MeanF0 == nil || math.Abs(*r.MeanF0-120) > 5 {
		t.Fatalf("mean F0 = %v", r.MeanF0)
	}

	if r.JitterAbsolute == nil || r.JitterRelative == nil || r.Shimmer == nil {
		t.Fatal("perturbation measures missing")
	}

	if len(r.Formants) == 0 {
		t.Fatal("formant track missing")
	}

	if len(r.MelShape) != 2 || r.MelShape[0] != 128 || r.MelShape[1] != 32 {
		t.Fatalf("mel shape = %v", r.MelShape)
	}

	if r.Mel == nil || r.Mel.Max() != 0 {
		t.Fatal("mel spectrogram missing or not referenced to its maximum")
	}

	if len(r.Energy) != 32 {
		t.Fatalf("energy frames = %d", len(r.Energy))
	}
}

func TestAnalyzeSilenceIsBestEffort(t *testing.T) {
	r := Analyze(core.Waveform{Samples: make([]float64, 8000), SampleRate: 16000}, DefaultConfig())

	if r.F0 == nil || *r.VoicedFrames != 0 || r.MeanF0 != nil {
		t.Fatalf("F0=%v voiced=%v mean=%v", r.F0, r.VoicedFrames, r.MeanF0)
	}

	for _, feature := range []string{FeatureJitter, FeatureShimmer} {
		e := hasFeatureError(r, feature)
		if e == nil || !errors.Is(e, pitch.ErrUndefined) {
			t.Fatalf("%s error = %v, want ErrUndefined", feature, e)
		}
	}

	if r.JitterAbsolute != nil || r.Shimmer != nil {
		t.Fatal("undefined measures reported as values")
	}

	if r.Formants == nil || r.MelShape == nil || r.Energy == nil {
		t.Fatal("independent features were skipped")
	}
}

func TestAnalyzeInvalidWaveform(t *testing.T) {
	r := Analyze(core.Waveform{Samples: []float64{0.1, 0.2}}, DefaultConfig())

	for _, feature := range []string{FeatureF0, FeatureJitter, FeatureShimmer, FeatureFormants, FeatureMel, FeatureEnergy} {
		if hasFeatureError(r, feature) == nil {
			t.Errorf("missing error for %s", feature)
		}
	}
}

func TestAnalyzeInvalidConfigIsolated(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Formant.MaxFormants = 0

	r := Analyze(vowel(), cfg)

	if len(r.Errors) != 1 || r.Errors[0].Feature != FeatureFormants {
		t.Fatalf("errors = %v, want only formants", r.Errors)
	}

	if r.F0 == nil || r.Energy == nil {
		t.Fatal("other features missing")
	}
}

func TestReportJSON(t *testing.T) {
	r := Analyze(core.Waveform{Samples: make([]float64, 8000), SampleRate: 16000}, DefaultConfig())

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}

	if v, ok := decoded["shimmer"]; !ok || v != nil {
		t.Fatalf("shimmer = %v, want null", v)
	}

	if _, ok := decoded["mel"]; ok {
		t.Fatal("full spectrogram serialized")
	}

	errs, ok := decoded["errors"].([]any)
	if !ok || len(errs) != 2 {
		t.Fatalf("errors = %v", decoded["errors"])
	}

	first := errs[0].(map[string]any)
	if first["feature"] != FeatureJitter || first["error"] == "" {
		t.Fatalf("first error = %v", first)
	}
}

func TestAnalyzeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vowel.wav")
	if err := audiofile.Write(path, vowel()); err != nil {
		t.Fatal(err)
	}

	r, err := AnalyzeFile(path, DefaultConfig())
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}

	if r.Source != path || r.MeanF0 == nil {
		t.Fatalf("report = %+v", r)
	}

	if _, err := AnalyzeFile(filepath.Join(t.TempDir(), "missing.wav"), DefaultConfig()); !errors.Is(err, audiofile.ErrLoad) {
		t.Fatalf("missing file err = %v", err)
	}
}
