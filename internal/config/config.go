package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment variable, e.g. STOCKTAX_PORT.
const Prefix = "STOCKTAX"

type Config struct {
	Port string `envconfig:"PORT" default:"8090"`

	// Auth for /api routes
	APIKey string `envconfig:"API_KEY"`

	// Report defaults
	TaxYear           int  `envconfig:"TAX_YEAR" default:"2024"`
	NormalizeDateKeys bool `envconfig:"NORMALIZE_DATE_KEYS" default:"false"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Worker pool
	WorkerCount  int `envconfig:"WORKER_COUNT" default:"4"`
	MaxQueueSize int `envconfig:"MAX_QUEUE_SIZE" default:"100"`

	// Upload limits
	MaxUploadBytes int64 `envconfig:"MAX_UPLOAD_BYTES" default:"52428800"` // 50MB

	// Job state
	JobTTL time.Duration `envconfig:"JOB_TTL" default:"1h"`

	// PDF
	PDFFallbackPdftotext bool `envconfig:"PDF_FALLBACK_PDFTOTEXT" default:"true"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg, nil
}

// Validate checks the settings every command needs.
func (c Config) Validate() error {
	if c.TaxYear < 1900 || c.TaxYear > 9999 {
		return fmt.Errorf("%s_TAX_YEAR must be a four-digit year, got %d", Prefix, c.TaxYear)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// ValidateServer additionally checks what the HTTP server needs.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.APIKey == "" {
		return fmt.Errorf("%s_API_KEY is required", Prefix)
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level.
func (c Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("%s_LOG_LEVEL: %w", Prefix, err)
	}
	return lvl, nil
}
