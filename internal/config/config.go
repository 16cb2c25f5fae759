// Package config contiene la lectura de configuración del servicio de ventas.
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	defaultRunAddress   = "localhost:8080"
	defaultWatermark    = "2026/02/18"
	defaultPollInterval = 5 * time.Minute

	watermarkLayout = "2006/01/02"
)

// Config contiene los parámetros de configuración del servicio de ventas.
type Config struct {
	RunAddress      string        `env:"RUN_ADDRESS"`
	DatabaseURI     string        `env:"DATABASE_URI"`
	CredentialsFile string        `env:"GOOGLE_CREDENTIALS_FILE"`
	SpreadsheetID   string        `env:"SPREADSHEET_ID"`
	Watermark       string        `env:"WATERMARK"`
	PollInterval    time.Duration `env:"POLL_INTERVAL"`
	RateAPIAddress  string        `env:"RATE_API_ADDRESS"`
	AuthToken       string        `env:"AUTH_TOKEN"`
}

// Parse lee la configuración de flags de línea de comandos y variables de
// entorno. Las variables de entorno tienen prioridad sobre los flags.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURI := cfg.DatabaseURI
	envCredentialsFile := cfg.CredentialsFile
	envSpreadsheetID := cfg.SpreadsheetID
	envWatermark := cfg.Watermark
	envPollInterval := cfg.PollInterval
	envRateAPIAddress := cfg.RateAPIAddress
	envAuthToken := cfg.AuthToken

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.CredentialsFile, "c", "", "Google service account credentials file")
	flag.StringVar(&cfg.SpreadsheetID, "s", "", "spreadsheet ID")
	flag.StringVar(&cfg.Watermark, "w", defaultWatermark, "ignore emails before this date (yyyy/mm/dd)")
	flag.DurationVar(&cfg.PollInterval, "i", defaultPollInterval, "mailbox polling interval")
	flag.StringVar(&cfg.RateAPIAddress, "r", "", "dollar rate API address")
	flag.StringVar(&cfg.AuthToken, "t", "", "bearer token for admin endpoints")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}
	if envCredentialsFile != "" {
		cfg.CredentialsFile = envCredentialsFile
	}
	if envSpreadsheetID != "" {
		cfg.SpreadsheetID = envSpreadsheetID
	}
	if envWatermark != "" {
		cfg.Watermark = envWatermark
	}
	if envPollInterval != 0 {
		cfg.PollInterval = envPollInterval
	}
	if envRateAPIAddress != "" {
		cfg.RateAPIAddress = envRateAPIAddress
	}
	if envAuthToken != "" {
		cfg.AuthToken = envAuthToken
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}
	if cfg.Watermark == "" {
		cfg.Watermark = defaultWatermark
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}

	if _, err := time.Parse(watermarkLayout, cfg.Watermark); err != nil {
		return nil, fmt.Errorf("invalid watermark %q: %w", cfg.Watermark, err)
	}

	return cfg, nil
}
