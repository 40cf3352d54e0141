package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.TaxYear != 2024 {
		t.Errorf("expected tax year 2024, got %d", cfg.TaxYear)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("expected 1h TTL, got %v", cfg.JobTTL)
	}
	if !cfg.PDFFallbackPdftotext {
		t.Error("expected pdftotext fallback on by default")
	}
	if cfg.NormalizeDateKeys {
		t.Error("expected date key normalization off by default")
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("STOCKTAX_PORT", "9000")
	t.Setenv("STOCKTAX_TAX_YEAR", "2023")
	t.Setenv("STOCKTAX_WORKER_COUNT", "0")
	t.Setenv("STOCKTAX_JOB_TTL", "15m")
	t.Setenv("STOCKTAX_NORMALIZE_DATE_KEYS", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9000" || cfg.TaxYear != 2023 {
		t.Errorf("expected port 9000 and year 2023, got %q %d", cfg.Port, cfg.TaxYear)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("expected non-positive worker count to fall back to 4, got %d", cfg.WorkerCount)
	}
	if cfg.JobTTL != 15*time.Minute {
		t.Errorf("expected 15m TTL, got %v", cfg.JobTTL)
	}
	if !cfg.NormalizeDateKeys {
		t.Error("expected normalization enabled")
	}
}

func TestLoad_BadValue(t *testing.T) {
	t.Setenv("STOCKTAX_TAX_YEAR", "twenty")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric tax year")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantErr   bool
		serverErr bool
	}{
		{"ok", Config{TaxYear: 2024, LogLevel: "info", APIKey: "k"}, false, false},
		{"no api key", Config{TaxYear: 2024, LogLevel: "info"}, false, true},
		{"bad year", Config{TaxYear: 24, LogLevel: "info", APIKey: "k"}, true, true},
		{"bad level", Config{TaxYear: 2024, LogLevel: "loud", APIKey: "k"}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate: expected error=%v, got %v", tt.wantErr, err)
			}
			if err := tt.cfg.ValidateServer(); (err != nil) != tt.serverErr {
				t.Errorf("ValidateServer: expected error=%v, got %v", tt.serverErr, err)
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	lvl, err := Config{LogLevel: "DEBUG"}.SlogLevel()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lvl != slog.LevelDebug {
		t.Errorf("expected debug, got %v", lvl)
	}
}
