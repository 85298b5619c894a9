// Package config loads the voicefeat configuration tree.
//
// Values are resolved in the order defaults, configuration file, environment
// (prefix VOICEFEAT_, dots replaced by underscores) and bound command-line
// flags, the last one winning.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-voice/condition"
	"github.com/cwbudde/algo-voice/internal/logging"
	"github.com/cwbudde/algo-voice/measure/formant"
	"github.com/cwbudde/algo-voice/measure/pitch"
	"github.com/cwbudde/algo-voice/measure/spectral"
	"github.com/cwbudde/algo-voice/measure/voice"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "VOICEFEAT"

// ErrInvalid indicates a configuration that fails validation.
var ErrInvalid = errors.New("config: invalid")

// Config is the complete configuration tree.
type Config struct {
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Pitch     PitchConfig     `mapstructure:"pitch" yaml:"pitch"`
	Formant   FormantConfig   `mapstructure:"formant" yaml:"formant"`
	Spectral  SpectralConfig  `mapstructure:"spectral" yaml:"spectral"`
	Condition ConditionConfig `mapstructure:"condition" yaml:"condition"`
}

// LogConfig selects the logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// PitchConfig mirrors pitch.Config.
type PitchConfig struct {
	FramePeriodMs    float64 `mapstructure:"frame_period_ms" yaml:"frame_period_ms"`
	FloorHz          float64 `mapstructure:"floor_hz" yaml:"floor_hz"`
	CeilHz           float64 `mapstructure:"ceil_hz" yaml:"ceil_hz"`
	Threshold        float64 `mapstructure:"threshold" yaml:"threshold"`
	SilenceDB        float64 `mapstructure:"silence_db" yaml:"silence_db"`
	ShimmerThreshold float64 `mapstructure:"shimmer_threshold" yaml:"shimmer_threshold"`
}

// FormantConfig mirrors formant.Config.
type FormantConfig struct {
	TimeStep        float64 `mapstructure:"time_step" yaml:"time_step"`
	MaxFormants     int     `mapstructure:"max_formants" yaml:"max_formants"`
	MaxFrequency    float64 `mapstructure:"max_frequency" yaml:"max_frequency"`
	WindowLength    float64 `mapstructure:"window_length" yaml:"window_length"`
	PreEmphasisFrom float64 `mapstructure:"pre_emphasis_from" yaml:"pre_emphasis_from"`
	EnergyFloorDB   float64 `mapstructure:"energy_floor_db" yaml:"energy_floor_db"`
}

// SpectralConfig mirrors spectral.Config.
type SpectralConfig struct {
	NFFT        int     `mapstructure:"n_fft" yaml:"n_fft"`
	HopLength   int     `mapstructure:"hop_length" yaml:"hop_length"`
	NMels       int     `mapstructure:"n_mels" yaml:"n_mels"`
	FMin        float64 `mapstructure:"f_min" yaml:"f_min"`
	FMax        float64 `mapstructure:"f_max" yaml:"f_max"`
	TopDB       float64 `mapstructure:"top_db" yaml:"top_db"`
	FrameLength int     `mapstructure:"frame_length" yaml:"frame_length"`
}

// ConditionConfig mirrors condition.Config.
type ConditionConfig struct {
	TargetRate int      `mapstructure:"target_rate" yaml:"target_rate"`
	LowCut     float64  `mapstructure:"low_cut" yaml:"low_cut"`
	HighCut    float64  `mapstructure:"high_cut" yaml:"high_cut"`
	NumTaps    int      `mapstructure:"num_taps" yaml:"num_taps"`
	TargetRMS  float64  `mapstructure:"target_rms" yaml:"target_rms"`
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`
	Workers    int      `mapstructure:"workers" yaml:"workers"`
}

// Default returns the configuration built from every package default.
func Default() Config {
	p := pitch.DefaultConfig()
	f := formant.DefaultConfig()
	s := spectral.DefaultConfig()
	c := condition.DefaultConfig()

	return Config{
		Log: LogConfig{Level: "info", Format: logging.FormatConsole},
		Pitch: PitchConfig{
			FramePeriodMs:    p.FramePeriodMs,
			FloorHz:          p.FloorHz,
			CeilHz:           p.CeilHz,
			Threshold:        p.Threshold,
			SilenceDB:        p.SilenceDB,
			ShimmerThreshold: p.ShimmerThreshold,
		},
		Formant: FormantConfig{
			TimeStep:        f.TimeStep,
			MaxFormants:     f.MaxFormants,
			MaxFrequency:    f.MaxFrequency,
			WindowLength:    f.WindowLength,
			PreEmphasisFrom: f.PreEmphasisFrom,
			EnergyFloorDB:   f.EnergyFloorDB,
		},
		Spectral: SpectralConfig{
			NFFT:        s.NFFT,
			HopLength:   s.HopLength,
			NMels:       s.NMels,
			FMin:        s.FMin,
			FMax:        s.FMax,
			TopDB:       s.TopDB,
			FrameLength: s.FrameLength,
		},
		Condition: ConditionConfig{
			TargetRate: c.TargetRate,
			LowCut:     c.LowCut,
			HighCut:    c.HighCut,
			NumTaps:    c.NumTaps,
			TargetRMS:  c.TargetRMS,
			Extensions: c.Extensions,
			Workers:    c.Workers,
		},
	}
}

// PitchConfig converts to the analyzer configuration.
func (c Config) PitchConfig() pitch.Config {
	return pitch.Config{
		FramePeriodMs:    c.Pitch.FramePeriodMs,
		FloorHz:          c.Pitch.FloorHz,
		CeilHz:           c.Pitch.CeilHz,
		Threshold:        c.Pitch.Threshold,
		SilenceDB:        c.Pitch.SilenceDB,
		ShimmerThreshold: c.Pitch.ShimmerThreshold,
	}
}

// FormantConfig converts to the analyzer configuration.
func (c Config) FormantConfig() formant.Config {
	return formant.Config{
		TimeStep:        c.Formant.TimeStep,
		MaxFormants:     c.Formant.MaxFormants,
		MaxFrequency:    c.Formant.MaxFrequency,
		WindowLength:    c.Formant.WindowLength,
		PreEmphasisFrom: c.Formant.PreEmphasisFrom,
		EnergyFloorDB:   c.Formant.EnergyFloorDB,
	}
}

// SpectralConfig converts to the analyzer configuration.
func (c Config) SpectralConfig() spectral.Config {
	return spectral.Config{
		NFFT:        c.Spectral.NFFT,
		HopLength:   c.Spectral.HopLength,
		NMels:       c.Spectral.NMels,
		FMin:        c.Spectral.FMin,
		FMax:        c.Spectral.FMax,
		TopDB:       c.Spectral.TopDB,
		FrameLength: c.Spectral.FrameLength,
	}
}

// ConditionConfig converts to the pipeline configuration.
func (c Config) ConditionConfig() condition.Config {
	return condition.Config{
		TargetRate: c.Condition.TargetRate,
		LowCut:     c.Condition.LowCut,
		HighCut:    c.Condition.HighCut,
		NumTaps:    c.Condition.NumTaps,
		TargetRMS:  c.Condition.TargetRMS,
		Extensions: append([]string(nil), c.Condition.Extensions...),
		Workers:    c.Condition.Workers,
	}
}

// VoiceConfig returns the configuration of the aggregate report.
func (c Config) VoiceConfig() voice.Config {
	return voice.Config{
		Pitch:    c.PitchConfig(),
		Formant:  c.FormantConfig(),
		Spectral: c.SpectralConfig(),
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := logging.ValidateLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log: %w", ErrInvalid, err)
	}

	if err := logging.ValidateFormat(c.Log.Format); err != nil {
		return fmt.Errorf("%w: log: %w", ErrInvalid, err)
	}

	checks := []struct {
		section string
		err     error
	}{
		{"pitch", c.PitchConfig().Validate()},
		{"formant", c.FormantConfig().Validate()},
		{"spectral", c.SpectralConfig().Validate()},
		{"condition", c.ConditionConfig().Validate()},
	}

	for _, ch := range checks {
		if ch.err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalid, ch.section, ch.err)
		}
	}

	return nil
}

// YAML renders c as a YAML document.
func (c Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("config: marshal: %w", err)
	}

	return out, nil
}

// Loader resolves a Config from defaults, a file, the environment and flags.
type Loader struct {
	v *viper.Viper
}

// NewLoader returns a loader primed with the defaults and the environment.
func NewLoader() *Loader {
	v := viper.New()

	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

// BindFlag makes flag f override key when it is set on the command line.
func (l *Loader) BindFlag(key string, f *pflag.Flag) error {
	if f == nil {
		return fmt.Errorf("config: no flag for %q", key)
	}

	if err := l.v.BindPFlag(key, f); err != nil {
		return fmt.Errorf("config: bind %q: %w", key, err)
	}

	return nil
}

// Load reads the file at path, or voicefeat.yaml from the working directory
// when path is empty and such a file exists, and returns the validated
// configuration.
func (l *Loader) Load(path string) (Config, error) {
	if path != "" {
		l.v.SetConfigFile(path)

		if err := l.v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else {
		l.v.SetConfigName("voicefeat")
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(".")

		if err := l.v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config: read: %w", err)
			}
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Used returns the configuration file that was read, if any.
func (l *Loader) Used() string { return l.v.ConfigFileUsed() }

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetDefault("pitch.frame_period_ms", d.Pitch.FramePeriodMs)
	v.SetDefault("pitch.floor_hz", d.Pitch.FloorHz)
	v.SetDefault("pitch.ceil_hz", d.Pitch.CeilHz)
	v.SetDefault("pitch.threshold", d.Pitch.Threshold)
	v.SetDefault("pitch.silence_db", d.Pitch.SilenceDB)
	v.SetDefault("pitch.shimmer_threshold", d.Pitch.ShimmerThreshold)

	v.SetDefault("formant.time_step", d.Formant.TimeStep)
	v.SetDefault("formant.max_formants", d.Formant.MaxFormants)
	v.SetDefault("formant.max_frequency", d.Formant.MaxFrequency)
	v.SetDefault("formant.window_length", d.Formant.WindowLength)
	v.SetDefault("formant.pre_emphasis_from", d.Formant.PreEmphasisFrom)
	v.SetDefault("formant.energy_floor_db", d.Formant.EnergyFloorDB)

	v.SetDefault("spectral.n_fft", d.Spectral.NFFT)
	v.SetDefault("spectral.hop_length", d.Spectral.HopLength)
	v.SetDefault("spectral.n_mels", d.Spectral.NMels)
	v.SetDefault("spectral.f_min", d.Spectral.FMin)
	v.SetDefault("spectral.f_max", d.Spectral.FMax)
	v.SetDefault("spectral.top_db", d.Spectral.TopDB)
	v.SetDefault("spectral.frame_length", d.Spectral.FrameLength)

	v.SetDefault("condition.target_rate", d.Condition.TargetRate)
	v.SetDefault("condition.low_cut", d.Condition.LowCut)
	v.SetDefault("condition.high_cut", d.Condition.HighCut)
	v.SetDefault("condition.num_taps", d.Condition.NumTaps)
	v.SetDefault("condition.target_rms", d.Condition.TargetRMS)
	v.SetDefault("condition.extensions", d.Condition.Extensions)
	v.SetDefault("condition.workers", d.Condition.Workers)
}
