// Package config loads freebuilder.yaml and FREEBUILDER_* environment
// overrides.
package config

import (
	"errors"
	"fmt"

	"github.com/dhamidi/freebuilder/diag"
	"github.com/spf13/viper"
)

type Config struct {
	Output              string   `mapstructure:"output"`
	Jobs                int      `mapstructure:"jobs"`
	Color               string   `mapstructure:"color"`
	Verbosity           int      `mapstructure:"verbosity"`
	LogFile             string   `mapstructure:"log_file"`
	GeneratedAnnotation bool     `mapstructure:"generated_annotation"`
	SourceRoots         []string `mapstructure:"source_roots"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Output:              "generated",
		Jobs:                4,
		Color:               string(diag.ColorAuto),
		GeneratedAnnotation: true,
		SourceRoots:         []string{"."},
	}
}

// Load reads freebuilder.yaml from dir if it exists. A missing file is not
// an error.
func Load(dir string) (*Config, error) {
	v := viper.New()

	d := Default()
	v.SetDefault("output", d.Output)
	v.SetDefault("jobs", d.Jobs)
	v.SetDefault("color", d.Color)
	v.SetDefault("verbosity", d.Verbosity)
	v.SetDefault("log_file", "")
	v.SetDefault("generated_annotation", d.GeneratedAnnotation)
	v.SetDefault("source_roots", d.SourceRoots)

	v.SetConfigName("freebuilder")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("FREEBUILDER")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	if !diag.ColorMode(c.Color).Valid() {
		return fmt.Errorf("color must be auto, always or never, got %q", c.Color)
	}
	if c.Output == "" {
		return errors.New("output must not be empty")
	}
	return nil
}
