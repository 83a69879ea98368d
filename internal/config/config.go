// Package config provides Viper-based configuration loading for rolly.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// RollConfig holds the batch limits applied before dice reach the evaluator.
type RollConfig struct {
	// MaxRequests is the number of rolls evaluated per command; extras are dropped.
	MaxRequests int `mapstructure:"max_requests"`
	// MaxDice caps the dice count of a single roll.
	MaxDice int `mapstructure:"max_dice"`
	// Parallel evaluates the rolls of one command concurrently.
	Parallel bool `mapstructure:"parallel"`
	// Seed selects a deterministic source when non-zero; zero means crypto/rand.
	Seed uint64 `mapstructure:"seed"`
}

// OutputConfig holds rendering settings.
type OutputConfig struct {
	// Format is one of "auto", "markdown", "pretty", "json", "yaml".
	Format string `mapstructure:"format"`
	// User is the display name used in "<user> throws the dice…".
	User string `mapstructure:"user"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Roll    RollConfig    `mapstructure:"roll"`
	Output  OutputConfig  `mapstructure:"output"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateRoll(c.Roll); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateOutput(c.Output); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateRoll(r RollConfig) error {
	var errs []string
	if r.MaxRequests < 1 {
		errs = append(errs, fmt.Sprintf("roll.max_requests must be >= 1, got %d", r.MaxRequests))
	}
	if r.MaxDice < 1 {
		errs = append(errs, fmt.Sprintf("roll.max_dice must be >= 1, got %d", r.MaxDice))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateOutput(o OutputConfig) error {
	validFormats := map[string]bool{"auto": true, "markdown": true, "pretty": true, "json": true, "yaml": true}
	if !validFormats[o.Format] {
		return fmt.Errorf("output.format must be one of [auto, markdown, pretty, json, yaml], got %q", o.Format)
	}
	return nil
}

// Load builds the configuration from defaults, the optional YAML file at path,
// and ROLLY_-prefixed environment variables, then validates it.
//
// An empty path skips the file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with ROLLY_ prefix, e.g. ROLLY_ROLL_MAX_DICE.
	v.SetEnvPrefix("ROLLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := LoadFromViper(v)
	if err != nil {
		panic("config: defaults are invalid: " + err.Error())
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")

	v.SetDefault("roll.max_requests", 10)
	v.SetDefault("roll.max_dice", 100)
	v.SetDefault("roll.parallel", true)
	v.SetDefault("roll.seed", 0)

	v.SetDefault("output.format", "auto")
	v.SetDefault("output.user", "Someone")
}
