// Package meta selects and builds the engine that evaluates a pattern.
//
// A pattern is compiled to a tagged NFA, which reports the features it
// requires. Each engine style advertises its capabilities, and the first
// style in preference order whose capabilities cover the requirements, and
// whose construction succeeds, is used:
//   - DFA: a subset-construction table; no capture groups, no dynamic
//     boundary checks, leftmost-longest only
//   - NFA: the strand simulator; everything except possessive quantifiers
//
// When every match must begin with one of a few literals, a prefilter is
// built as well, and Find skips to the positions where one occurs.
package meta

import (
	"log/slog"
)

// Config controls engine selection and construction.
//
// Example:
//
//	config := meta.DefaultConfig()
//	config.Style = meta.StyleNFA // force the strand simulator
//	prog, err := meta.Compile(tree, config)
type Config struct {
	// Style forces an engine style. StyleDynamic tries every style in
	// preference order.
	// Default: StyleDynamic
	Style Style

	// LeftmostLongest selects leftmost-longest instead of leftmost-first
	// matching. Only leftmost-longest patterns can use the DFA.
	// Default: false
	LeftmostLongest bool

	// MaxDFAStates caps subset construction. A pattern needing more states
	// falls back to the next style.
	// Default: 10000
	MaxDFAStates int

	// EnablePrefilter enables literal-based prefiltering.
	// Default: true
	EnablePrefilter bool

	// MaxLiterals limits the number of required prefixes. A pattern with
	// more gets no prefilter.
	// Default: 64
	MaxLiterals int

	// Logger receives Debug records about selection. Nil discards them.
	Logger *slog.Logger
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Style:           StyleDynamic,
		MaxDFAStates:    10_000,
		EnablePrefilter: true,
		MaxLiterals:     64,
	}
}

// Validate checks if the configuration is valid.
//
// Valid ranges:
//   - Style: one of the declared styles
//   - MaxDFAStates: 1 to 1,000,000
//   - MaxLiterals: 1 to 1,000 (when the prefilter is enabled)
func (c Config) Validate() error {
	if c.Style > StyleNFA {
		return &ConfigError{
			Field:   "Style",
			Message: "unknown style " + c.Style.String(),
		}
	}
	if c.MaxDFAStates < 1 || c.MaxDFAStates > 1_000_000 {
		return &ConfigError{
			Field:   "MaxDFAStates",
			Message: "must be between 1 and 1,000,000",
		}
	}
	if c.EnablePrefilter && (c.MaxLiterals < 1 || c.MaxLiterals > 1_000) {
		return &ConfigError{
			Field:   "MaxLiterals",
			Message: "must be between 1 and 1,000",
		}
	}
	return nil
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "xtrms: invalid config: " + e.Field + ": " + e.Message
}
