// Package config loads tool settings from defaults, an optional
// raceline.yaml and RACELINE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/viper"

	"github.com/alvinye9/global-racetrajectory-optimization/pkg/geo"
	"github.com/alvinye9/global-racetrajectory-optimization/pkg/smooth"
	"github.com/alvinye9/global-racetrajectory-optimization/pkg/trackio"
)

// Config holds all tool configuration.
type Config struct {
	Paths     PathsConfig     `mapstructure:"paths"`
	Smoothing SmoothingConfig `mapstructure:"smoothing"`
	Track     TrackConfig     `mapstructure:"track"`
}

type PathsConfig struct {
	InputDir  string `mapstructure:"input_dir"`
	OutputDir string `mapstructure:"output_dir"`
}

type SmoothingConfig struct {
	Factor              float64 `mapstructure:"factor"`
	MaxLateralDeviation float64 `mapstructure:"max_lateral_deviation"`
}

// Smooth returns the smoother settings.
func (s SmoothingConfig) Smooth() smooth.Config {
	return smooth.Config{SmoothingFactor: s.Factor, MaxLateralDeviation: s.MaxLateralDeviation}
}

type TrackConfig struct {
	WidthRight float64 `mapstructure:"width_right"`
	WidthLeft  float64 `mapstructure:"width_left"`
}

// Widths returns the track widths written next to converted points.
func (t TrackConfig) Widths() trackio.TrackWidths {
	return trackio.TrackWidths{Right: t.WidthRight, Left: t.WidthLeft}
}

// Load reads configuration from defaults, the first raceline.yaml found in
// searchPaths (default "." and "./configs") and the environment.
func Load(searchPaths ...string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("paths.input_dir", "./inputs/tracks")
	v.SetDefault("paths.output_dir", "./outputs")
	v.SetDefault("smoothing.factor", smooth.DefaultSmoothingFactor)
	v.SetDefault("smoothing.max_lateral_deviation", smooth.DefaultMaxLateralDeviation)
	v.SetDefault("track.width_right", trackio.DefaultTrackWidth)
	v.SetDefault("track.width_left", trackio.DefaultTrackWidth)

	// Config file (optional)
	if len(searchPaths) == 0 {
		searchPaths = []string{".", "./configs"}
	}
	v.SetConfigName("raceline")
	v.SetConfigType("yaml")
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// Environment variables: RACELINE_SMOOTHING_FACTOR → smoothing.factor
	v.SetEnvPrefix("RACELINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Paths.InputDir == "" {
		errs = append(errs, "paths.input_dir is required")
	}
	if c.Paths.OutputDir == "" {
		errs = append(errs, "paths.output_dir is required")
	}
	if !nonNegative(c.Smoothing.Factor) {
		errs = append(errs, fmt.Sprintf("smoothing.factor must be >= 0, got %g", c.Smoothing.Factor))
	}
	if !nonNegative(c.Smoothing.MaxLateralDeviation) {
		errs = append(errs, fmt.Sprintf("smoothing.max_lateral_deviation must be >= 0, got %g", c.Smoothing.MaxLateralDeviation))
	}
	if !nonNegative(c.Track.WidthRight) {
		errs = append(errs, fmt.Sprintf("track.width_right must be >= 0, got %g", c.Track.WidthRight))
	}
	if !nonNegative(c.Track.WidthLeft) {
		errs = append(errs, fmt.Sprintf("track.width_left must be >= 0, got %g", c.Track.WidthLeft))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: config validation failed:\n  - %s", geo.ErrValidation, strings.Join(errs, "\n  - "))
	}
	return nil
}

func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}
