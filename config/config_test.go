package config

import (
	"strings"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name: "empty listen address",
			mutate: func(cfg *Config) {
				cfg.ListenAddr = ""
			},
			wantErr: "listen address",
		},
		{
			name: "empty base url",
			mutate: func(cfg *Config) {
				cfg.BaseURL = ""
			},
			wantErr: "base URL",
		},
		{
			name: "base url without host",
			mutate: func(cfg *Config) {
				cfg.BaseURL = "http://"
			},
			wantErr: "base URL",
		},
		{
			name: "empty api base url",
			mutate: func(cfg *Config) {
				cfg.APIBaseURL = ""
			},
			wantErr: "API base URL",
		},
		{
			name: "unknown source variant",
			mutate: func(cfg *Config) {
				cfg.Source = "browser"
			},
			wantErr: "source",
		},
		{
			name: "empty user agent",
			mutate: func(cfg *Config) {
				cfg.UserAgent = ""
			},
			wantErr: "user agent",
		},
		{
			name: "zero search timeout",
			mutate: func(cfg *Config) {
				cfg.SearchTimeout = 0
			},
			wantErr: "search timeout",
		},
		{
			name: "negative selector wait",
			mutate: func(cfg *Config) {
				cfg.SelectorWait = -time.Second
			},
			wantErr: "selector wait",
		},
		{
			name: "zero poll interval",
			mutate: func(cfg *Config) {
				cfg.PollInterval = 0
			},
			wantErr: "poll interval",
		},
		{
			name: "negative detail timeout",
			mutate: func(cfg *Config) {
				cfg.DetailTimeout = -time.Second
			},
			wantErr: "detail timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
	for _, variant := range []string{SourceAPI, SourceScrape} {
		cfg.Source = variant
		if err := cfg.Validate(); err != nil {
			t.Fatalf("source %q should validate, got %v", variant, err)
		}
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("TRACKMETA_TEST_STR", "hello")
	if value, ok := EnvString("TRACKMETA_TEST_STR"); !ok || value != "hello" {
		t.Fatalf("EnvString = %q, %v", value, ok)
	}
	if _, ok := EnvString("TRACKMETA_TEST_MISSING"); ok {
		t.Fatalf("EnvString should report absence")
	}

	t.Setenv("TRACKMETA_TEST_INT", "8081")
	if value, ok, err := EnvInt("TRACKMETA_TEST_INT"); err != nil || !ok || value != 8081 {
		t.Fatalf("EnvInt = %d, %v, %v", value, ok, err)
	}
	t.Setenv("TRACKMETA_TEST_INT", "not-a-number")
	if _, _, err := EnvInt("TRACKMETA_TEST_INT"); err == nil {
		t.Fatalf("EnvInt should fail on garbage")
	}

	t.Setenv("TRACKMETA_TEST_DUR", "2s")
	if value, ok, err := EnvDuration("TRACKMETA_TEST_DUR"); err != nil || !ok || value != 2*time.Second {
		t.Fatalf("EnvDuration = %v, %v, %v", value, ok, err)
	}
	t.Setenv("TRACKMETA_TEST_DUR", "soon")
	if _, _, err := EnvDuration("TRACKMETA_TEST_DUR"); err == nil {
		t.Fatalf("EnvDuration should fail on garbage")
	}
}
