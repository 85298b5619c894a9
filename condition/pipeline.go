package condition

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-voice/audiofile"
	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/dsp/resample"
	timestats "github.com/cwbudde/algo-voice/stats/time"
)

// Pipeline runs the conditioning pass with a fixed configuration.
// It is safe for concurrent use.
type Pipeline struct {
	cfg    Config
	logger *zap.Logger
}

// Option configures a [Pipeline].
type Option func(*Pipeline)

// WithLogger sets the logger used for batch progress and failures.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPipeline validates cfg and builds a pipeline. Logging is disabled
// unless [WithLogger] is given.
func NewPipeline(cfg Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:    cfg,
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	return p, nil
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// Process resamples w to the target rate if needed, bandpass filters and
// normalizes it. A filtered signal with a non-finite level fails at the
// normalize stage. Failures are *StageError values with an empty Path.
func (p *Pipeline) Process(w core.Waveform) (core.Waveform, error) {
	return p.process("", w)
}

// ProcessAudio loads the file at path and conditions it.
func (p *Pipeline) ProcessAudio(path string) (core.Waveform, error) {
	w, err := audiofile.Load(path)
	if err != nil {
		return core.Waveform{}, stageError(StageLoad, path, err)
	}

	return p.process(path, w)
}

func (p *Pipeline) process(path string, w core.Waveform) (core.Waveform, error) {
	if err := w.Validate(); err != nil {
		return core.Waveform{}, stageError(StageLoad, path, err)
	}

	if w.SampleRate != p.cfg.TargetRate {
		y, err := resample.Rates(w.Samples, w.SampleRate, p.cfg.TargetRate)
		if err != nil {
			return core.Waveform{}, stageError(StageResample, path, err)
		}

		w = core.Waveform{Samples: y, SampleRate: p.cfg.TargetRate}
	}

	filtered, err := BandPass(w, p.cfg.LowCut, p.cfg.HighCut, p.cfg.NumTaps)
	if err != nil {
		return core.Waveform{}, stageError(StageFilter, path, err)
	}

	if rms := timestats.RMS(filtered.Samples); !core.IsFinite(rms) {
		return core.Waveform{}, stageError(StageNormalize, path, fmt.Errorf("%w: rms %v", ErrNonFinite, rms))
	}

	return NormalizeRMS(filtered, p.cfg.TargetRMS), nil
}

// Report summarizes a batch run. Both lists follow directory order.
type Report struct {
	Written []string      `json:"written"`
	Failed  []*StageError `json:"-"`
}

// Errors joins all per-file failures, or returns nil.
func (r Report) Errors() error {
	errs := make([]error, len(r.Failed))
	for i, e := range r.Failed {
		errs[i] = e
	}

	return errors.Join(errs...)
}

// ProcessDataset conditions every matching file of inDir and writes the
// result under the same name into outDir, which is created if missing.
//
// A failing file is logged and recorded in the report; the remaining files
// are still processed. The returned error is reserved for failures that
// stop the whole batch: an unreadable input folder, an uncreatable output
// folder or cancellation of ctx, after which no new files are started.
func (p *Pipeline) ProcessDataset(ctx context.Context, inDir, outDir string) (Report, error) {
	names, err := p.listInputs(inDir)
	if err != nil {
		return Report{}, err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Report{}, fmt.Errorf("condition: create output folder: %w", err)
	}

	p.logger.Info("conditioning dataset",
		zap.String("input", inDir),
		zap.String("output", outDir),
		zap.Int("files", len(names)),
		zap.Int("workers", p.cfg.Workers),
	)

	results := make([]error, len(names))
	done := make([]bool, len(names))

	var g errgroup.Group
	g.SetLimit(p.cfg.Workers)

	for i, name := range names {
		if ctx.Err() != nil {
			break
		}

		g.Go(func() error {
			results[i] = p.processFile(filepath.Join(inDir, name), filepath.Join(outDir, name))
			done[i] = true

			return nil
		})
	}

	_ = g.Wait()

	var report Report

	for i, name := range names {
		if !done[i] {
			continue
		}

		var se *StageError
		if errors.As(results[i], &se) {
			report.Failed = append(report.Failed, se)
			continue
		}

		report.Written = append(report.Written, filepath.Join(outDir, name))
	}

	p.logger.Info("dataset conditioned",
		zap.Int("written", len(report.Written)),
		zap.Int("failed", len(report.Failed)),
	)

	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("condition: dataset: %w", err)
	}

	return report, nil
}

// listInputs returns the matching regular files of dir in lexical order.
func (p *Pipeline) listInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("condition: read input folder: %w", err)
	}

	var names []string

	for _, e := range entries {
		if e.Type().IsRegular() && p.cfg.matches(e.Name()) {
			names = append(names, e.Name())
		}
	}

	sort.Strings(names)

	return names, nil
}

// processFile conditions one file. The returned error is always a
// *StageError.
func (p *Pipeline) processFile(in, out string) error {
	w, err := p.ProcessAudio(in)
	if err == nil {
		if werr := audiofile.Write(out, w); werr != nil {
			err = stageError(StageWrite, in, werr)
		}
	}

	if err != nil {
		var se *StageError
		if !errors.As(err, &se) {
			se = &StageError{Stage: StageLoad, Path: in, Err: err}
			err = se
		}

		p.logger.Error("conditioning failed",
			zap.String("file", in),
			zap.String("stage", string(se.Stage)),
			zap.Error(se.Err),
		)

		return err
	}

	p.logger.Debug("conditioned",
		zap.String("file", in),
		zap.String("output", out),
		zap.Int("samples", len(w.Samples)),
	)

	return nil
}
