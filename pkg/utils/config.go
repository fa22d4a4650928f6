package utils

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config carries every tunable of the gateway. Values come from an
// optional config file plus ANIMEVERSE_* environment variables; anything
// unset falls back to the defaults below.
type Config struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	StaticDir string `mapstructure:"static_dir"`
	DBPath    string `mapstructure:"db_path"`

	ConsumetBaseURL string   `mapstructure:"consumet_base_url"`
	JikanBaseURL    string   `mapstructure:"jikan_base_url"`
	DefaultProvider string   `mapstructure:"default_provider"`
	BackupProviders []string `mapstructure:"backup_providers"`

	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	RateLimitInterval time.Duration `mapstructure:"rate_limit_interval"`

	InfoTTL      time.Duration `mapstructure:"info_ttl"`
	SearchTTL    time.Duration `mapstructure:"search_ttl"`
	StreamingTTL time.Duration `mapstructure:"streaming_ttl"`
}

// Load reads configuration from config.toml (searched in the working
// directory, optional) and ANIMEVERSE_* environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("port", 8000)
	v.SetDefault("static_dir", "")
	v.SetDefault("db_path", "animeverse.db")

	v.SetDefault("consumet_base_url", "https://api.consumet.org")
	v.SetDefault("jikan_base_url", "https://api.jikan.moe/v4")
	v.SetDefault("default_provider", "gogoanime")
	v.SetDefault("backup_providers", []string{"zoro", "9anime", "animepahe"})

	v.SetDefault("request_timeout", 30*time.Second)
	v.SetDefault("rate_limit_interval", 500*time.Millisecond)

	v.SetDefault("info_ttl", time.Hour)
	v.SetDefault("search_ttl", 30*time.Minute)
	v.SetDefault("streaming_ttl", 30*time.Minute)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("ANIMEVERSE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// config file is optional, env/defaults are enough
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.RateLimitInterval <= 0 {
		return nil, fmt.Errorf("rate_limit_interval must be positive, got %s", cfg.RateLimitInterval)
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("request_timeout must be positive, got %s", cfg.RequestTimeout)
	}

	return cfg, nil
}
