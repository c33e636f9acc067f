// Package config reads the client settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultServerURL is used when neither the environment nor the command
// line name a server.
const DefaultServerURL = "http://localhost:8080"

// Config holds the client settings.
type Config struct {
	ServerURL      string        `env:"ONIRIM_SERVER_URL" envDefault:"http://localhost:8080"`
	RequestTimeout time.Duration `env:"ONIRIM_REQUEST_TIMEOUT" envDefault:"0s"`
	PollRate       float64       `env:"ONIRIM_POLL_RATE" envDefault:"0"`
	PollRetries    uint          `env:"ONIRIM_POLL_RETRIES" envDefault:"0"`
	CAFile         string        `env:"ONIRIM_CA_FILE"`
	LogLevel       string        `env:"ONIRIM_LOG_LEVEL" envDefault:"info"`
	OTelEndpoint   string        `env:"ONIRIM_OTEL_ENDPOINT"`
}

// Load reads an optional .env file from the working directory, then the
// environment. A missing .env file is not an error.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads the environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WithArgs applies the command line: a single positional argument
// overrides the server URL.
func (c Config) WithArgs(args []string) (Config, error) {
	switch len(args) {
	case 0:
		return c, nil
	case 1:
		c.ServerURL = args[0]
		return c, c.Validate()
	default:
		return c, fmt.Errorf("expected at most one argument (server url), got %d", len(args))
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		errs = append(errs, fmt.Errorf("ONIRIM_SERVER_URL: %w", err))
	} else if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		errs = append(errs, fmt.Errorf("ONIRIM_SERVER_URL: %q is not an http(s) url", c.ServerURL))
	}
	if c.RequestTimeout < 0 {
		errs = append(errs, errors.New("ONIRIM_REQUEST_TIMEOUT: must not be negative"))
	}
	if c.PollRate < 0 {
		errs = append(errs, errors.New("ONIRIM_POLL_RATE: must not be negative"))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level returns the slog level named by LogLevel.
func (c Config) Level() slog.Level {
	l, _ := parseLevel(c.LogLevel)
	return l
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("ONIRIM_LOG_LEVEL: %w", err)
	}
	return l, nil
}
