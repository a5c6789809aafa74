package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// parseEnv overlays environment variables onto config. Unset variables leave
// the current value untouched. PORT is accepted as a bare port number for
// compatibility with PaaS environments, and NODE_ENV=production switches on
// production mode.
func parseEnv(config *Config) error {
	if err := env.Parse(config); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if config.Port != "" {
		port := strings.TrimPrefix(config.Port, ":")
		config.HTTPAddr = ":" + port
		config.Port = ""
	}
	if config.NodeEnv != "" {
		config.Production = strings.EqualFold(config.NodeEnv, "production")
		config.NodeEnv = ""
	}
	return nil
}
