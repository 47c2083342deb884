package dfa

// Config configures subset construction.
type Config struct {
	// MaxStates is the maximum number of DFA states construction may create.
	// Beyond it New fails with ErrStateLimitExceeded and the caller falls
	// back to NFA evaluation.
	//
	// Default: 10,000 states
	//
	// Patterns such as (a|b)*a(a|b){n} need 2^n states; the limit keeps
	// construction time and memory bounded for them.
	MaxStates int
}

// DefaultConfig returns a configuration with a ceiling of 10,000 states.
func DefaultConfig() Config {
	return Config{
		MaxStates: 10_000,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.MaxStates <= 0 {
		return &Error{
			Kind:    InvalidConfig,
			Message: "MaxStates must be > 0",
		}
	}
	return nil
}

// WithMaxStates returns a new config with the specified max states
func (c Config) WithMaxStates(maxStates int) Config {
	c.MaxStates = maxStates
	return c
}
