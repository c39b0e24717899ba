package config

import (
	"strings"
	"testing"
	"time"

	"github.com/espressomd/featuregen/pkg/featureconfig"
)

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	opts := cfg.GeneratorOptions(nil)
	want := featureconfig.DefaultOptions()
	if opts != want {
		t.Fatalf("default options = %+v, want %+v", opts, want)
	}
	if cfg.LogLevel != "warn" || cfg.LogFormat != "auto" {
		t.Fatalf("log settings = %q/%q, want warn/auto", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.WatchDebounce != 200*time.Millisecond {
		t.Fatalf("debounce = %s, want 200ms", cfg.WatchDebounce)
	}
}

func TestLoadFromOverrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"FEATGEN_BUILD_PREFIX":   "MYPROJ_WITH_",
		"FEATGEN_SOURCE_NAME":    "features.yaml",
		"FEATGEN_REJECT_CYCLES":  "true",
		"FEATGEN_WATCH_DEBOUNCE": "1s",
		"FEATGEN_LOG_LEVEL":      "debug",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	opts := cfg.GeneratorOptions(nil)
	if opts.BuildPrefix != "MYPROJ_WITH_" || opts.SourceName != "features.yaml" || !opts.RejectCycles {
		t.Fatalf("unexpected options %+v", opts)
	}
	if opts.IncludeGuard != featureconfig.DefaultIncludeGuard {
		t.Fatalf("include guard = %q, want default", opts.IncludeGuard)
	}
	if cfg.WatchDebounce != time.Second {
		t.Fatalf("debounce = %s, want 1s", cfg.WatchDebounce)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log level = %q, want debug", cfg.LogLevel)
	}
}

func TestLoadFromErrors(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
		want string
	}{
		{"bad bool", map[string]string{"FEATGEN_REJECT_CYCLES": "maybe"}, "parse env:"},
		{"bad duration", map[string]string{"FEATGEN_WATCH_DEBOUNCE": "soon"}, "parse env:"},
		{"negative duration", map[string]string{"FEATGEN_WATCH_DEBOUNCE": "-1s"}, "must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.vars)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestLoadFromProcessEnv(t *testing.T) {
	t.Setenv("FEATGEN_INCLUDE_GUARD", "MY_GUARD_H")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.IncludeGuard != "MY_GUARD_H" {
		t.Fatalf("include guard = %q, want MY_GUARD_H", cfg.IncludeGuard)
	}
}
