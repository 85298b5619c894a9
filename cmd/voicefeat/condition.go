package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-voice/condition"
)

func newConditionCmd(a *app) *cobra.Command {
	var in, out string

	cmd := &cobra.Command{
		Use:   "condition --in DIR --out DIR",
		Short: "Resample, bandpass filter and RMS-normalize every file of a folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := condition.NewPipeline(a.cfg.ConditionConfig(), condition.WithLogger(a.logger))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			report, err := p.ProcessDataset(ctx, in, out)

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%d written, %d failed\n", len(report.Written), len(report.Failed))

			for _, f := range report.Failed {
				fmt.Fprintf(w, "  %s: %s: %v\n", f.Path, f.Stage, f.Err)
			}

			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&in, "in", "", "input folder")
	f.StringVar(&out, "out", "", "output folder")
	f.Int("workers", 1, "files processed concurrently")
	f.Int("target-rate", 16000, "output sample rate in Hz")
	f.Float64("low-cut", 80, "bandpass low cutoff in Hz")
	f.Float64("high-cut", 4000, "bandpass high cutoff in Hz")
	f.Float64("target-rms", 0.1, "output RMS level")

	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")

	a.bind(f.Lookup("workers"), "condition.workers")
	a.bind(f.Lookup("target-rate"), "condition.target_rate")
	a.bind(f.Lookup("low-cut"), "condition.low_cut")
	a.bind(f.Lookup("high-cut"), "condition.high_cut")
	a.bind(f.Lookup("target-rms"), "condition.target_rms")

	return cmd
}
