package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: "0.0.0.0:8080"
cache:
  result_ttl: 15m
  cleanup: "0 * * * *"
wcl:
  rate_limit: 5
`)

	t.Setenv("WCL_CLIENT_ID", "id")
	t.Setenv("WCL_CLIENT_SECRET", "secret")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Addr != "0.0.0.0:8080" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.PublicDir != "./frontend/public/" {
		t.Errorf("public dir default lost: %q", cfg.Server.PublicDir)
	}
	if cfg.Cache.ResultTTL != 15*time.Minute {
		t.Errorf("result ttl = %v", cfg.Cache.ResultTTL)
	}
	if cfg.Cache.EventTTL != 7*24*time.Hour {
		t.Errorf("event ttl = %v", cfg.Cache.EventTTL)
	}
	if cfg.WCL.RateLimit != 5 || cfg.WCL.Burst != 4 {
		t.Errorf("wcl = %+v", cfg.WCL)
	}
	if cfg.WCL.ClientID != "id" || cfg.WCL.ClientSecret != "secret" {
		t.Errorf("secrets not read from env: %+v", cfg.WCL)
	}
	if cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("redis addr = %q", cfg.Cache.RedisAddr)
	}
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != Default().Server.Addr {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "server: [\n"},
		{"bad cron", "cache:\n  cleanup: \"every now and then\"\n"},
		{"negative ttl", "cache:\n  result_ttl: -1m\n"},
		{"empty addr", "server:\n  addr: \"\"\n"},
		{"no uploads", "server:\n  max_uploads: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
