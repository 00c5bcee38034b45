package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	APIKey             string        `mapstructure:"backtype_api_key"`
	APIBase            string        `mapstructure:"backtype_api_base"`
	ImageBase          string        `mapstructure:"backtype_image_base"`
	UserAgent          string        `mapstructure:"user_agent"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPDebug          bool          `mapstructure:"http_debug"`
	HTTPTimeout        time.Duration `mapstructure:"-"`

	JournalType            string        `mapstructure:"journal_type"`
	JournalPath            string        `mapstructure:"journal_path"`
	JournalTTLSeconds      int64         `mapstructure:"journal_ttl_seconds"`
	JournalCleanupSeconds  int64         `mapstructure:"journal_cleanup_interval_seconds"`
	JournalTTL             time.Duration `mapstructure:"-"`
	JournalCleanupInterval time.Duration `mapstructure:"-"`

	PublishersFile string `mapstructure:"publishers_file"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "backtype")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("backtype_api_key", "")
	v.SetDefault("backtype_api_base", "http://api.backtype.com")
	v.SetDefault("backtype_image_base", "http://www.backtype.com/go/image/p/")
	v.SetDefault("user_agent", "backtype-go/1.0")
	v.SetDefault("http_timeout_seconds", 30)
	v.SetDefault("http_debug", false)
	v.SetDefault("journal_type", "bbolt")
	v.SetDefault("journal_path", "./data/journal.db")
	v.SetDefault("journal_ttl_seconds", int64((7*24*time.Hour)/time.Second))
	v.SetDefault("journal_cleanup_interval_seconds", int64((6*time.Hour)/time.Second))
	v.SetDefault("publishers_file", "")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// finalize trims string settings and derives durations; it is re-run after CLI overrides.
func (cfg *Config) finalize() error {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.APIBase = strings.TrimRight(strings.TrimSpace(cfg.APIBase), "/")
	cfg.ImageBase = strings.TrimSpace(cfg.ImageBase)
	cfg.PublishersFile = strings.TrimSpace(cfg.PublishersFile)

	if cfg.APIBase == "" {
		return fmt.Errorf("invalid backtype_api_base (must not be empty)")
	}
	if cfg.ImageBase == "" {
		return fmt.Errorf("invalid backtype_image_base (must not be empty)")
	}

	if cfg.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	if cfg.JournalTTLSeconds <= 0 {
		return fmt.Errorf("invalid journal_ttl_seconds (must be positive seconds)")
	}
	if cfg.JournalCleanupSeconds <= 0 {
		return fmt.Errorf("invalid journal_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.JournalTTL = time.Duration(cfg.JournalTTLSeconds) * time.Second
	cfg.JournalCleanupInterval = time.Duration(cfg.JournalCleanupSeconds) * time.Second

	return nil
}

// Override applies non-empty command line values on top of the loaded config. A positive
// timeout is kept at full precision; HTTPTimeoutSeconds is rounded up for display.
func (cfg *Config) Override(apiKey, logLevel string, timeout time.Duration) error {
	if strings.TrimSpace(apiKey) != "" {
		cfg.APIKey = apiKey
	}
	if strings.TrimSpace(logLevel) != "" {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(logLevel))
	}
	if timeout > 0 {
		cfg.HTTPTimeoutSeconds = int64((timeout + time.Second - 1) / time.Second)
	}
	if err := cfg.finalize(); err != nil {
		return err
	}
	if timeout > 0 {
		cfg.HTTPTimeout = timeout
	}
	return nil
}

// Redacted returns a copy safe to log.
func (cfg Config) Redacted() Config {
	if cfg.APIKey != "" {
		cfg.APIKey = "REDACTED"
	}
	return cfg
}
