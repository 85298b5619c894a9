package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-voice/measure/formant"
	"github.com/cwbudde/algo-voice/measure/voice"
)

func newFeaturesCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "features [flags] file.wav ...",
		Short: "Extract pitch, perturbation, formant and spectral features",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "table" && format != "json" {
				return fmt.Errorf("unknown output format %q (use table or json)", format)
			}

			cfg := a.cfg.VoiceConfig()
			reports := make([]voice.Report, 0, len(args))

			var failed []error

			for _, path := range args {
				r, err := voice.AnalyzeFile(path, cfg)
				if err != nil {
					a.logger.Error("analysis failed", zap.String("file", path), zap.Error(err))
					failed = append(failed, err)

					continue
				}

				for _, fe := range r.Errors {
					a.logger.Warn("feature unavailable",
						zap.String("file", path),
						zap.String("feature", fe.Feature),
						zap.Error(fe.Err),
					)
				}

				reports = append(reports, r)
			}

			var err error
			if format == "json" {
				err = writeJSON(cmd.OutOrStdout(), reports)
			} else {
				err = writeTable(cmd.OutOrStdout(), reports)
			}

			if err != nil {
				return err
			}

			return errors.Join(failed...)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format (table, json)")

	return cmd
}

func writeJSON(w io.Writer, reports []voice.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(reports); err != nil {
		return fmt.Errorf("failed to write json: %w", err)
	}

	return nil
}

func writeTable(w io.Writer, reports []voice.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintf(tw, "File\tDuration [s]\tRate\tVoiced\tMean F0 [Hz]\tJitter [%%]\tShimmer\tF1 [Hz]\tF2 [Hz]\tF3 [Hz]\tMel\n"); err != nil {
		return fmt.Errorf("failed to write output header: %w", err)
	}

	if _, err := fmt.Fprintf(tw, "----\t------------\t----\t------\t------------\t----------\t-------\t-------\t-------\t-------\t---\n"); err != nil {
		return fmt.Errorf("failed to write output header: %w", err)
	}

	for _, r := range reports {
		f1, f2, f3 := formantMeans(r.Formants)

		mel := "n/a"
		if len(r.MelShape) == 2 {
			mel = fmt.Sprintf("%dx%d", r.MelShape[0], r.MelShape[1])
		}

		if _, err := fmt.Fprintf(tw, "%s\t%.3f\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Source,
			r.Duration,
			r.SampleRate,
			optInt(r.VoicedFrames),
			opt(r.MeanF0, "%.1f"),
			opt(r.JitterRelative, "%.3f"),
			opt(r.Shimmer, "%.4f"),
			opt(f1, "%.0f"),
			opt(f2, "%.0f"),
			opt(f3, "%.0f"),
			mel,
		); err != nil {
			return fmt.Errorf("failed to write output row: %w", err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	return nil
}

// formantMeans averages the resolved (non-zero) values of each formant.
func formantMeans(track formant.Track) (f1, f2, f3 *float64) {
	var a, b, c []float64

	for _, p := range track {
		if p.F1 > 0 {
			a = append(a, p.F1)
		}

		if p.F2 > 0 {
			b = append(b, p.F2)
		}

		if p.F3 > 0 {
			c = append(c, p.F3)
		}
	}

	return mean(a), mean(b), mean(c)
}

func mean(x []float64) *float64 {
	if len(x) == 0 {
		return nil
	}

	m := stat.Mean(x, nil)

	return &m
}

func opt(v *float64, format string) string {
	if v == nil {
		return "n/a"
	}

	return fmt.Sprintf(format, *v)
}

func optInt(v *int) string {
	if v == nil {
		return "n/a"
	}

	return fmt.Sprintf("%d", *v)
}
