// Package config loads palletd settings from the environment and
// ledger inputs (genesis and blocks) from TOML files.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the daemon settings.
type Config struct {
	ListenAddr  string `env:"PALLETD_LISTEN_ADDR" envDefault:"127.0.0.1:26658"`
	MetricsAddr string `env:"PALLETD_METRICS_ADDR" envDefault:"127.0.0.1:9464"`
	GenesisFile string `env:"PALLETD_GENESIS_FILE"`
	LogLevel    string `env:"PALLETD_LOG_LEVEL" envDefault:"info"`
	Env         string `env:"PALLETD_ENV"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns the daemon configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
