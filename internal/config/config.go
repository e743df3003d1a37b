// Package config loads server configuration from the environment.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the server configuration. Every field has a development
// default; JWT_SECRET must be set to a strong random value in production.
type Config struct {
	Port      int           `env:"PORT" envDefault:"3000"`
	DBPath    string        `env:"DB_PATH" envDefault:"./data/credresolve.db"`
	JWTSecret string        `env:"JWT_SECRET" envDefault:"dev-secret"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
}

// Load parses the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
