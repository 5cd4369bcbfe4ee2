package config

import "fmt"

// Validate checks the loaded settings for values the rest of the system
// would reject later anyway, so bad config fails fast at startup.
func (c *Config) Validate() error {
	switch c.Sandbox.Mode {
	case "full", "strict":
	default:
		return fmt.Errorf("sandbox.mode must be one of: full, strict (got %q)", c.Sandbox.Mode)
	}

	switch c.Defaults.Runner {
	case RunnerAuto, RunnerWine, RunnerProton:
	default:
		return fmt.Errorf("defaults.runner must be one of: auto, wine, proton (got %q)", c.Defaults.Runner)
	}

	return nil
}
