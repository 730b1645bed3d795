// Package config loads runtime settings with defaults, an optional
// config file, and environment overrides. Precedence: env > file >
// defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full runtime configuration for one classroom entry.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Provider   ProviderConfig   `mapstructure:"provider"`
	Allocation AllocationConfig `mapstructure:"allocation"`
	Transcript TranscriptConfig `mapstructure:"transcript"`
	Chat       ChatConfig       `mapstructure:"chat"`
}

// AppConfig identifies the classroom and the joining user.
type AppConfig struct {
	ID       string `mapstructure:"id"`
	RoomUUID string `mapstructure:"room_uuid"`
	RoomName string `mapstructure:"room_name"`
	UserUUID string `mapstructure:"user_uuid"`
	UserName string `mapstructure:"user_name"`
}

// ProviderConfig tunes the realtime session layer.
type ProviderConfig struct {
	URL         string        `mapstructure:"url"`
	JoinTimeout time.Duration `mapstructure:"join_timeout"`
	EventBuffer int           `mapstructure:"event_buffer"`
}

// AllocationConfig points at the classroom REST service.
type AllocationConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// TranscriptConfig locates the local transcript database.
type TranscriptConfig struct {
	Path string `mapstructure:"path"`
}

// ChatConfig bounds outbound chat.
type ChatConfig struct {
	RateLimitPerMinute int `mapstructure:"rate_limit_per_minute"`
}

func setDefaults(v *viper.Viper) {
	// Every key needs a default so AutomaticEnv can resolve it during
	// Unmarshal.
	v.SetDefault("app.id", "")
	v.SetDefault("app.room_uuid", "")
	v.SetDefault("app.room_name", "")
	v.SetDefault("app.user_uuid", "")
	v.SetDefault("app.user_name", "")
	v.SetDefault("provider.url", "")
	v.SetDefault("allocation.base_url", "")
	v.SetDefault("provider.join_timeout", 15*time.Second)
	v.SetDefault("provider.event_buffer", 256)
	v.SetDefault("allocation.timeout", 10*time.Second)
	v.SetDefault("transcript.path", "./breakout.db")
	v.SetDefault("chat.rate_limit_per_minute", 60)
}

// Load reads configuration. path may be ""; environment variables use
// the BREAKOUT prefix (BREAKOUT_APP_ROOM_UUID and so on).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BREAKOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations that cannot produce a working join.
func (c *Config) Validate() error {
	if c.App.ID == "" {
		return fmt.Errorf("app id is required")
	}
	if c.App.RoomUUID == "" {
		return fmt.Errorf("main room uuid is required")
	}
	if c.App.RoomName == "" {
		return fmt.Errorf("main room name is required")
	}
	if c.App.UserUUID == "" {
		return fmt.Errorf("user uuid is required")
	}
	if c.App.UserName == "" {
		return fmt.Errorf("user name is required")
	}
	if c.Provider.URL == "" {
		return fmt.Errorf("provider url is required")
	}
	if c.Provider.JoinTimeout <= 0 {
		return fmt.Errorf("provider join timeout must be positive")
	}
	if c.Provider.EventBuffer <= 0 {
		return fmt.Errorf("provider event buffer must be positive")
	}
	if c.Allocation.BaseURL == "" {
		return fmt.Errorf("allocation base url is required")
	}
	if c.Allocation.Timeout <= 0 {
		return fmt.Errorf("allocation timeout must be positive")
	}
	if c.Transcript.Path == "" {
		return fmt.Errorf("transcript path is required")
	}
	if c.Chat.RateLimitPerMinute <= 0 {
		return fmt.Errorf("chat rate limit must be positive")
	}
	return nil
}
