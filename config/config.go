package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/andyle182810/tensorci/validator"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL         = "https://api.tensorci.com"
	DefaultAuthHeaderName = "TensorCI-Api-Token"
	sessionDir            = ".tensorci"
	sessionFileName       = "session.json"
)

type Config struct {
	// Application
	LogLevel string `env:"TENSORCI_LOG_LEVEL" envDefault:"info" validate:"oneof=trace debug info warn error fatal panic"`

	// API
	APIURL         string        `env:"TENSORCI_API_URL"          envDefault:"https://api.tensorci.com" validate:"required,url"`
	AuthHeaderName string        `env:"TENSORCI_AUTH_HEADER_NAME" envDefault:"TensorCI-Api-Token"       validate:"required"`
	HTTPTimeout    time.Duration `env:"TENSORCI_HTTP_TIMEOUT"     envDefault:"0s"                       validate:"gte=0"`

	// Session
	SessionFile string `env:"TENSORCI_SESSION_FILE"`
	Token       string `env:"TENSORCI_TOKEN"`

	// Service account (client credentials)
	ClientID     string `env:"TENSORCI_CLIENT_ID"`
	ClientSecret string `env:"TENSORCI_CLIENT_SECRET" validate:"required_with=ClientID"`
	TokenURL     string `env:"TENSORCI_TOKEN_URL"     validate:"required_with=ClientID,omitempty,url"`
}

// Load reads an optional .env file from the working directory, then the
// environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	return New()
}

func New() (*Config, error) {
	var cfg Config

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.SessionFile == "" {
		cfg.SessionFile = DefaultSessionFile()
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.Default().Validate(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

func (c *Config) UsesServiceAccount() bool {
	return c.ClientID != ""
}

func DefaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(sessionDir, sessionFileName)
	}

	return filepath.Join(home, sessionDir, sessionFileName)
}
