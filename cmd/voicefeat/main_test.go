package main

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/algo-voice/audiofile"
	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/internal/testutil"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--log-level", "error"}, args...))

	err := root.Execute()

	return out.String(), err
}

func writeVowel(t *testing.T, path string) {
	t.Helper()

	w := core.Waveform{
		Samples:    testutil.SyntheticVowel(120, 16000, []float64{700, 1220, 2600}, []float64{80, 90, 120}, 16000),
		SampleRate: 16000,
	}

	if err := audiofile.Write(path, w); err != nil {
		t.Fatal(err)
	}
}

func TestConfigCommand(t *testing.T) {
	out, err := run(t, "config")
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	for _, want := range []string{"frame_period_ms: 5", "n_mels: 128", "target_rate: 16000", "level: error"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestConfigCommandWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("spectral:\n  n_mels: 40\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "--config", path, "config")
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	if !strings.Contains(out, "n_mels: 40") {
		t.Fatalf("file override missing:\n%s", out)
	}
}

func TestInvalidConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("pitch:\n  frame_period_ms: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, "--config", path, "config"); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestFeaturesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vowel.wav")
	writeVowel(t, path)

	out, err := run(t, "features", "--format", "json", path)
	if err != nil {
		t.Fatalf("features: %v", err)
	}

	var reports []map[string]any
	if err := json.Unmarshal([]byte(out), &reports); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}

	if len(reports) != 1 {
		t.Fatalf("reports = %d", len(reports))
	}

	f0, ok := reports[0]["mean_f0"].(float64)
	if !ok || math.Abs(f0-120) > 5 {
		t.Fatalf("mean_f0 = %v", reports[0]["mean_f0"])
	}

	if reports[0]["source"] != path {
		t.Fatalf("source = %v", reports[0]["source"])
	}
}

func TestFeaturesTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vowel.wav")
	writeVowel(t, path)

	out, err := run(t, "features", path)
	if err != nil {
		t.Fatalf("features: %v", err)
	}

	if !strings.Contains(out, "Mean F0 [Hz]") || !strings.Contains(out, "vowel.wav") || !strings.Contains(out, "128x32") {
		t.Fatalf("unexpected table:\n%s", out)
	}
}

func TestFeaturesMissingFile(t *testing.T) {
	if _, err := run(t, "features", filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Fatal("expected error for missing file")
	}

	if _, err := run(t, "features", "--format", "xml", "a.wav"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestConditionCommand(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "clean")

	writeVowel(t, filepath.Join(in, "good.wav"))

	if err := os.WriteFile(filepath.Join(in, "bad.wav"), []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	stdout, err := run(t, "condition", "--in", in, "--out", out, "--workers", "2", "--target-rate", "22050")
	if err != nil {
		t.Fatalf("condition: %v", err)
	}

	if !strings.Contains(stdout, "1 written, 1 failed") || !strings.Contains(stdout, "bad.wav") {
		t.Fatalf("unexpected output:\n%s", stdout)
	}

	w, err := audiofile.Load(filepath.Join(out, "good.wav"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if w.SampleRate != 22050 || len(w.Samples) != 22050 {
		t.Fatalf("output = %d samples at %d Hz", len(w.Samples), w.SampleRate)
	}
}

func TestConditionRequiresFolders(t *testing.T) {
	if _, err := run(t, "condition", "--in", t.TempDir()); err == nil {
		t.Fatal("expected error for missing --out")
	}
}
