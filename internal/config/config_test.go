package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := Load("/nonexistent/config.yaml"); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeConfig(t, "server: [not a map")
		if _, err := Load(path); err == nil {
			t.Error("expected error for invalid yaml")
		}
	})

	t.Run("env expansion", func(t *testing.T) {
		t.Setenv("TEST_CG_KEY", "secret-key")
		path := writeConfig(t, "market:\n  api_key: ${TEST_CG_KEY}\n")
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Market.APIKey != "secret-key" {
			t.Errorf("APIKey = %q, want %q", cfg.Market.APIKey, "secret-key")
		}
	})
}

func TestLoadWithDefaults(t *testing.T) {
	path := writeConfig(t, "market:\n  vs_currency: eur\n")
	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults() error = %v", err)
	}

	if cfg.Market.VsCurrency != "eur" {
		t.Errorf("VsCurrency = %q, want %q (explicit value kept)", cfg.Market.VsCurrency, "eur")
	}
	if cfg.Market.RestURL != DefaultRestURL {
		t.Errorf("RestURL = %q, want default %q", cfg.Market.RestURL, DefaultRestURL)
	}
	if cfg.Market.TTL != DefaultTTL {
		t.Errorf("TTL = %v, want default %v", cfg.Market.TTL, DefaultTTL)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("Port = %d, want default %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Layout.Width != DefaultLayoutWidth {
		t.Errorf("Width = %v, want default %v", cfg.Layout.Width, float64(DefaultLayoutWidth))
	}
	if cfg.Favorites.LocalPath != DefaultLocalPath {
		t.Errorf("LocalPath = %q, want default %q", cfg.Favorites.LocalPath, DefaultLocalPath)
	}
}

func TestDBDefaults(t *testing.T) {
	path := writeConfig(t, `
favorites:
  postgres:
    host: db.example.com
    name: bubbles
    user: app
`)
	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults() error = %v", err)
	}

	pg := cfg.Favorites.Postgres
	if !pg.Enabled() {
		t.Fatal("postgres should be enabled when host is set")
	}
	if pg.Port != DefaultDBPort {
		t.Errorf("Port = %d, want %d", pg.Port, DefaultDBPort)
	}
	if pg.SSLMode != DefaultDBSSLMode {
		t.Errorf("SSLMode = %q, want %q", pg.SSLMode, DefaultDBSSLMode)
	}
	if pg.MaxConns != DefaultMaxConns {
		t.Errorf("MaxConns = %d, want %d", pg.MaxConns, DefaultMaxConns)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *ServiceConfig {
		cfg := Default()
		return cfg
	}

	t.Run("defaults are valid", func(t *testing.T) {
		if err := valid().Validate(); err != nil {
			t.Errorf("Validate() error = %v, want nil", err)
		}
	})

	tests := []struct {
		name    string
		mutate  func(*ServiceConfig)
		wantSub string
	}{
		{
			name:    "bad port",
			mutate:  func(c *ServiceConfig) { c.Server.Port = 70000 },
			wantSub: "server.port",
		},
		{
			name:    "missing rest url",
			mutate:  func(c *ServiceConfig) { c.Market.RestURL = "" },
			wantSub: "market.rest_url",
		},
		{
			name:    "per_page too large",
			mutate:  func(c *ServiceConfig) { c.Market.PerPage = 500 },
			wantSub: "market.per_page",
		},
		{
			name:    "non-positive ttl",
			mutate:  func(c *ServiceConfig) { c.Market.TTL = -time.Second },
			wantSub: "market.ttl",
		},
		{
			name:    "zero layout width",
			mutate:  func(c *ServiceConfig) { c.Layout.Width = 0 },
			wantSub: "layout.width",
		},
		{
			name:    "negative padding",
			mutate:  func(c *ServiceConfig) { c.Layout.Padding = -1 },
			wantSub: "layout.padding",
		},
		{
			name: "postgres missing user",
			mutate: func(c *ServiceConfig) {
				c.Favorites.Postgres = DBConfig{Host: "h", Name: "n", MaxConns: 1}
			},
			wantSub: "favorites.postgres.user",
		},
		{
			name: "postgres min exceeds max",
			mutate: func(c *ServiceConfig) {
				c.Favorites.Postgres = DBConfig{Host: "h", Name: "n", User: "u", MaxConns: 2, MinConns: 5}
			},
			wantSub: "min_conns",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error = %q, want substring %q", err, tt.wantSub)
			}
		})
	}
}
