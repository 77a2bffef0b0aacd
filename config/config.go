package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Load reads configuration from an optional file and the environment.
// Without an explicit path a missing file is fine; everything can come
// from URL, CDN_URL and MORKATO_* variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("error binding environment: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".morkato"))
		}
		v.AddConfigPath("/etc/morkato/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("api.url", "http://localhost:5500")
	v.SetDefault("api.cdn_url", "http://localhost:5050")

	v.SetDefault("http.timeout", 30*time.Second)
	v.SetDefault("http.max_attempts", 5)

	v.SetDefault("filter.cache_size", 64)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)

	v.SetDefault("update.repository", "morkato/morkato-bot")
}

// bindEnv maps the historical URL and CDN_URL variables and enables
// MORKATO_-prefixed overrides for every key (MORKATO_HTTP_TIMEOUT, ...).
func bindEnv(v *viper.Viper) error {
	v.SetEnvPrefix("morkato")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// the first name found wins
	if err := v.BindEnv("api.url", "MORKATO_API_URL", "URL"); err != nil {
		return err
	}
	return v.BindEnv("api.cdn_url", "MORKATO_API_CDN_URL", "CDN_URL")
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if err := validateURL("api.url", cfg.API.URL); err != nil {
		return err
	}
	if err := validateURL("api.cdn_url", cfg.API.CDNURL); err != nil {
		return err
	}

	if cfg.HTTP.Timeout < 0 {
		return fmt.Errorf("http.timeout must not be negative")
	}
	if cfg.HTTP.MaxAttempts < 1 {
		return fmt.Errorf("http.max_attempts must be at least 1, got %d", cfg.HTTP.MaxAttempts)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	for name, expr := range cfg.Filter.Presets {
		if strings.TrimSpace(expr) == "" {
			return fmt.Errorf("filter preset %q has an empty expression", name)
		}
	}

	return nil
}

func validateURL(key, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", key)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid %s: %q must include scheme and host", key, raw)
	}
	return nil
}
