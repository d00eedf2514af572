package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv overlays SIGNKEEPER_* environment variables. Unset variables keep
// the values from the previous layers.
func parseEnv(config *Config) error {
	if err := env.Parse(config); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
