package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tcc?sslmode=disable")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DatabaseDriver != "postgres" {
		t.Errorf("DatabaseDriver = %q, want %q", cfg.DatabaseDriver, "postgres")
	}
	if cfg.HTTPAddr != ":8050" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":8050")
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Errorf("RequestTimeout = %v, want 15s", cfg.RequestTimeout)
	}
	if cfg.LogLevel != "info" || cfg.Environment != "development" {
		t.Errorf("LogLevel/Environment = %q/%q", cfg.LogLevel, cfg.Environment)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v, want [*]", cfg.CORSOrigins)
	}
	if cfg.TelegramEnabled() {
		t.Error("telegram should be disabled without a token")
	}
}

func TestLoadNormalizesValues(t *testing.T) {
	t.Setenv("DATABASE_URL", "root@tcp(localhost:3306)/tcc")
	t.Setenv("DATABASE_DRIVER", " MySQL ")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("ENVIRONMENT", "Production")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DatabaseDriver != "mysql" {
		t.Errorf("DatabaseDriver = %q, want mysql", cfg.DatabaseDriver)
	}
	if cfg.LogLevel != "debug" || cfg.Environment != "production" {
		t.Errorf("LogLevel/Environment = %q/%q", cfg.LogLevel, cfg.Environment)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v, want 2 entries", cfg.CORSOrigins)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing database url",
			env:     map[string]string{"DATABASE_URL": ""},
			wantErr: "DATABASE_URL",
		},
		{
			name:    "unsupported driver",
			env:     map[string]string{"DATABASE_URL": "x", "DATABASE_DRIVER": "oracle"},
			wantErr: "DATABASE_DRIVER",
		},
		{
			name:    "token without chat",
			env:     map[string]string{"DATABASE_URL": "x", "TELEGRAM_TOKEN": "123:abc"},
			wantErr: "TELEGRAM_CHAT_ID",
		},
		{
			name:    "bad timeout",
			env:     map[string]string{"DATABASE_URL": "x", "REQUEST_TIMEOUT": "soon"},
			wantErr: "parse env",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}
