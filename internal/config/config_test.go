package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
app:
  id: app1
  room_uuid: main1
  room_name: Algebra
  user_uuid: u1
  user_name: Ada
provider:
  url: ws://localhost:9090/realtime
allocation:
  base_url: http://localhost:8080
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	cfg, err := Load(validFile(t))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.App.RoomUUID != "main1" || cfg.App.UserName != "Ada" {
		t.Errorf("app config = %+v, want file values", cfg.App)
	}
	if cfg.Provider.JoinTimeout != 15*time.Second {
		t.Errorf("join timeout = %v, want the 15s default", cfg.Provider.JoinTimeout)
	}
	if cfg.Chat.RateLimitPerMinute != 60 {
		t.Errorf("chat rate limit = %d, want the default 60", cfg.Chat.RateLimitPerMinute)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load() should fail on a missing config file")
	}
}

func TestValidateRejectsIncomplete(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing app id", func(c *Config) { c.App.ID = "" }, "app id"},
		{"missing room uuid", func(c *Config) { c.App.RoomUUID = "" }, "room uuid"},
		{"missing user uuid", func(c *Config) { c.App.UserUUID = "" }, "user uuid"},
		{"missing provider url", func(c *Config) { c.Provider.URL = "" }, "provider url"},
		{"missing allocation url", func(c *Config) { c.Allocation.BaseURL = "" }, "allocation base url"},
		{"zero rate limit", func(c *Config) { c.Chat.RateLimitPerMinute = 0 }, "rate limit"},
		{"zero join timeout", func(c *Config) { c.Provider.JoinTimeout = 0 }, "join timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(validFile(t))
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("BREAKOUT_APP_USER_NAME", "Lin")
	cfg, err := Load(validFile(t))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.App.UserName != "Lin" {
		t.Errorf("user name = %q, want the env override Lin", cfg.App.UserName)
	}
}
