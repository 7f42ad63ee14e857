package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the server settings read from the environment.
type Config struct {
	DatabaseURL    string        `env:"DATABASE_URL,required,notEmpty"`
	JWTSecret      string        `env:"JWT_SECRET,required,notEmpty"`
	Port           string        `env:"SERVER_PORT" envDefault:"8080"`
	AllowedOrigins string        `env:"ALLOWED_ORIGINS"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"12h"`
	ShellIdleTTL   time.Duration `env:"SHELL_IDLE_TTL" envDefault:"2h"`
	CookieSecure   bool          `env:"COOKIE_SECURE" envDefault:"true"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	LogDev         bool          `env:"LOG_DEV" envDefault:"false"`
}

// Load reads an optional .env file and parses the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
