package config

import (
	"errors"

	"github.com/joeshaw/envdecode"
)

// parseEnv overlays Config with REWEAR_* environment variables. Unset
// variables leave the current value alone; list values are separated by ";".
// Malformed values panic, like the other configuration layers.
func parseEnv(config *Config) {
	err := envdecode.StrictDecode(config)
	if err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		panic(err)
	}
}
