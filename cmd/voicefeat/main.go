// Command voicefeat extracts voice features from WAV files and conditions
// recordings for analysis.
//
// Usage:
//
//	voicefeat [--config file] <command> [flags]
//
// Examples:
//
//	voicefeat features speech.wav
//	voicefeat features --format json a.wav b.wav
//	voicefeat condition --in raw/ --out clean/ --workers 4
//	voicefeat config
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-voice/internal/config"
	"github.com/cwbudde/algo-voice/internal/logging"
)

// app carries the state shared by all subcommands.
type app struct {
	configFile string
	loader     *config.Loader
	cfg        config.Config
	logger     *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{loader: config.NewLoader()}

	root := &cobra.Command{
		Use:           "voicefeat",
		Short:         "Voice feature extraction and waveform conditioning",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default ./voicefeat.yaml if present)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", logging.FormatConsole, "log format (console, json)")

	a.bind(pf.Lookup("log-level"), "log.level")
	a.bind(pf.Lookup("log-format"), "log.format")

	root.AddCommand(
		newFeaturesCmd(a),
		newConditionCmd(a),
		newConfigCmd(a),
	)

	return root
}

// bind ties a flag to a configuration key. Binding only fails for a missing
// flag, which is a programming error.
func (a *app) bind(f *pflag.Flag, key string) {
	if err := a.loader.BindFlag(key, f); err != nil {
		panic(err)
	}
}

func (a *app) init() error {
	cfg, err := a.loader.Load(a.configFile)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger

	if used := a.loader.Used(); used != "" {
		logger.Debug("configuration loaded", zap.String("file", used))
	}

	return nil
}
