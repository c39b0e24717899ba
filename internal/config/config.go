// Package config loads generator settings from FEATGEN_* environment
// variables.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/espressomd/featuregen/pkg/featureconfig"
)

// Config holds every environment-controlled setting.
type Config struct {
	BuildPrefix       string `env:"FEATGEN_BUILD_PREFIX" envDefault:"ESPRESSO_BUILD_WITH_"`
	IncludeGuard      string `env:"FEATGEN_INCLUDE_GUARD" envDefault:"ESPRESSO_SRC_CONFIG_CONFIG_FEATURES_HPP"`
	BuildConfigHeader string `env:"FEATGEN_BUILD_CONFIG_HEADER" envDefault:"config/cmake_config.hpp"`
	MyConfigHeader    string `env:"FEATGEN_MYCONFIG_HEADER" envDefault:"config/myconfig-final.hpp"`
	FeaturesHeader    string `env:"FEATGEN_FEATURES_HEADER" envDefault:"config/config-features.hpp"`
	ConfigHeader      string `env:"FEATGEN_CONFIG_HEADER" envDefault:"config/config.hpp"`
	SourceName        string `env:"FEATGEN_SOURCE_NAME" envDefault:"features.def"`
	RejectCycles      bool   `env:"FEATGEN_REJECT_CYCLES" envDefault:"false"`

	LogLevel  string `env:"FEATGEN_LOG_LEVEL" envDefault:"warn"`
	LogFormat string `env:"FEATGEN_LOG_FORMAT" envDefault:"auto"`

	WatchDebounce time.Duration `env:"FEATGEN_WATCH_DEBOUNCE" envDefault:"200ms"`
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg.validate()
}

// LoadFrom reads the configuration from vars instead of the process
// environment. Unset variables take their defaults.
func LoadFrom(vars map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg.validate()
}

func (c Config) validate() (Config, error) {
	if c.WatchDebounce < 0 {
		return Config{}, fmt.Errorf("FEATGEN_WATCH_DEBOUNCE must not be negative, got %s", c.WatchDebounce)
	}
	return c, nil
}

// GeneratorOptions converts the configuration into plan options.
func (c Config) GeneratorOptions(logger *slog.Logger) featureconfig.Options {
	return featureconfig.Options{
		BuildPrefix:       c.BuildPrefix,
		IncludeGuard:      c.IncludeGuard,
		BuildConfigHeader: c.BuildConfigHeader,
		MyConfigHeader:    c.MyConfigHeader,
		FeaturesHeader:    c.FeaturesHeader,
		ConfigHeader:      c.ConfigHeader,
		SourceName:        c.SourceName,
		RejectCycles:      c.RejectCycles,
		Logger:            logger,
	}
}
