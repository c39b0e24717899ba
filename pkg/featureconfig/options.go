package featureconfig

import "log/slog"

// Default values of the emitted symbols and include paths.
const (
	DefaultBuildPrefix       = "ESPRESSO_BUILD_WITH_"
	DefaultIncludeGuard      = "ESPRESSO_SRC_CONFIG_CONFIG_FEATURES_HPP"
	DefaultBuildConfigHeader = "config/cmake_config.hpp"
	DefaultMyConfigHeader    = "config/myconfig-final.hpp"
	DefaultFeaturesHeader    = "config/config-features.hpp"
	DefaultConfigHeader      = "config/config.hpp"
	DefaultSourceName        = "features.def"
)

// Options configures plan construction and the emitted text.
type Options struct {
	// BuildPrefix is prepended to an external feature name to form the
	// build-system symbol.
	BuildPrefix string

	// IncludeGuard is the header's include-guard macro.
	IncludeGuard string

	// BuildConfigHeader is included before the external renames.
	BuildConfigHeader string

	// MyConfigHeader is the user-editable configuration header, included
	// after the renames and before implications.
	MyConfigHeader string

	// FeaturesHeader is how the translation unit includes the generated header.
	FeaturesHeader string

	// ConfigHeader is the second include of the translation unit.
	ConfigHeader string

	// SourceName is the definition file named in the banner.
	SourceName string

	// RejectCycles makes NewPlan fail on cyclic implications.
	// Cycles converge under the preprocessor and are accepted by default.
	RejectCycles bool

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger
}

// DefaultOptions returns the options matching the ESPResSo build layout.
func DefaultOptions() Options {
	return Options{
		BuildPrefix:       DefaultBuildPrefix,
		IncludeGuard:      DefaultIncludeGuard,
		BuildConfigHeader: DefaultBuildConfigHeader,
		MyConfigHeader:    DefaultMyConfigHeader,
		FeaturesHeader:    DefaultFeaturesHeader,
		ConfigHeader:      DefaultConfigHeader,
		SourceName:        DefaultSourceName,
	}
}

// withDefaults fills empty fields from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.BuildPrefix == "" {
		o.BuildPrefix = d.BuildPrefix
	}
	if o.IncludeGuard == "" {
		o.IncludeGuard = d.IncludeGuard
	}
	if o.BuildConfigHeader == "" {
		o.BuildConfigHeader = d.BuildConfigHeader
	}
	if o.MyConfigHeader == "" {
		o.MyConfigHeader = d.MyConfigHeader
	}
	if o.FeaturesHeader == "" {
		o.FeaturesHeader = d.FeaturesHeader
	}
	if o.ConfigHeader == "" {
		o.ConfigHeader = d.ConfigHeader
	}
	if o.SourceName == "" {
		o.SourceName = d.SourceName
	}
	return o
}
