package config

import "github.com/kelseyhightower/envconfig"

// parseEnv overlays COLLECTADMIN_* variables. Unset variables keep the
// current value; unparsable ones panic.
func parseEnv(config *Config) {
	if err := envconfig.Process(EnvPrefix, config); err != nil {
		panic(err)
	}
}
