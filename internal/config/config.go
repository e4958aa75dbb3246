package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
)

type Config struct {
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`
	ServiceID  string `env:"SERVICE_ID"`

	SpreadsheetID    string `env:"SHEET_ID"`
	PrimaryWorksheet string `env:"PRIMARY_WORKSHEET" envDefault:"Orders"`

	// Credentials come either from a JSON blob in the environment or a
	// local service-account file.
	CredentialsJSON string `env:"GOOGLE_CREDENTIALS_JSON"`
	CredentialsFile string `env:"GOOGLE_CREDENTIALS_FILE" envDefault:"credentials.json"`

	CacheTTL  time.Duration `env:"CACHE_TTL" envDefault:"30s"`
	StaticDir string        `env:"STATIC_DIR" envDefault:"frontend/build"`

	// Kafka is optional; events are published only when brokers are set.
	KafkaBrokers []string `env:"KAFKA_BROKERS"`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"order-events"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.ServiceID == "" {
		cfg.ServiceID = uuid.New().String()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}
	if c.SpreadsheetID == "" {
		return fmt.Errorf("SHEET_ID is required")
	}
	if c.PrimaryWorksheet == "" {
		return fmt.Errorf("PRIMARY_WORKSHEET is required")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	return nil
}
