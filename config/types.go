package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Logging LoggingConfig `mapstructure:"logging"`
	Update  UpdateConfig  `mapstructure:"update"`
}

// APIConfig holds the backend and CDN hosts
type APIConfig struct {
	URL    string `mapstructure:"url"`
	CDNURL string `mapstructure:"cdn_url"`
}

// HTTPConfig tunes the shared HTTP session
type HTTPConfig struct {
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAttempts int           `mapstructure:"max_attempts"`
}

// FilterConfig holds named filter expressions usable with --preset
type FilterConfig struct {
	CacheSize int               `mapstructure:"cache_size"`
	Presets   map[string]string `mapstructure:"presets"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// UpdateConfig points the self-updater at a GitHub repository
type UpdateConfig struct {
	Repository string `mapstructure:"repository"`
}
