package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"order-admin/internal/domain"
)

type DisplayOrder string

const (
	DisplayInsertion DisplayOrder = "insertion"
	DisplayReverse   DisplayOrder = "reverse"
)

type Config struct {
	ServerURL     string `env:"SERVER_URL"`
	ViteServerURL string `env:"VITE_SERVER_URL"`

	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	RedisHost        string `env:"REDIS_HOST"`
	RabbitMQURL      string `env:"RABBITMQ_URL"`
	RabbitMQExchange string `env:"RABBITMQ_EXCHANGE" envDefault:"order.exchange"`
	OTLPEndpoint     string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	SessionTTL     time.Duration         `env:"SESSION_TTL" envDefault:"30m"`
	SecureCookies  bool                  `env:"SECURE_COOKIES" envDefault:"false"`
	DisplayOrder   DisplayOrder          `env:"ORDER_DISPLAY" envDefault:"insertion"`
	SelectionScope domain.SelectionScope `env:"STATUS_SELECTION_SCOPE" envDefault:"shared"`
}

var ErrMissingServerURL = errors.New("SERVER_URL (or VITE_SERVER_URL) is required")

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = cfg.ViteServerURL
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.ServerURL == "" {
		return ErrMissingServerURL
	}
	switch c.DisplayOrder {
	case DisplayInsertion, DisplayReverse:
	default:
		return fmt.Errorf("ORDER_DISPLAY: unsupported value %q", c.DisplayOrder)
	}
	switch c.SelectionScope {
	case domain.ScopeShared, domain.ScopeRow:
	default:
		return fmt.Errorf("STATUS_SELECTION_SCOPE: unsupported value %q", c.SelectionScope)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	return nil
}
