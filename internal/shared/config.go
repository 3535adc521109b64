package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
//
// Values from the file can be overridden by VILLAGEDEX_* environment variables, see [ApplyEnv].
type Config struct {
	Database DatabaseConfig `toml:"database" envPrefix:"DATABASE_"`
	Server   ServerConfig   `toml:"server" envPrefix:"SERVER_"`
	Data     DataConfig     `toml:"data" envPrefix:"DATA_"`
	Search   SearchConfig   `toml:"search" envPrefix:"SEARCH_"`
	Images   ImagesConfig   `toml:"images" envPrefix:"IMAGES_"`
	Log      LogConfig      `toml:"log" envPrefix:"LOG_"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path" env:"PATH"`
	MaxOpenConns int    `toml:"max_open_conns" env:"MAX_OPEN_CONNS"`
	MaxIdleConns int    `toml:"max_idle_conns" env:"MAX_IDLE_CONNS"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host" env:"HOST"`
	Port int    `toml:"port" env:"PORT"`
}

// Addr joins host and port into a listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DataConfig controls where villager records are loaded from.
type DataConfig struct {
	BundledPath       string `toml:"bundled_path" env:"BUNDLED_PATH"`
	APIURL            string `toml:"api_url" env:"API_URL"`
	APITimeoutSeconds int    `toml:"api_timeout_seconds" env:"API_TIMEOUT_SECONDS"`
	DisableAPI        bool   `toml:"disable_api" env:"DISABLE_API"`
}

// APITimeout returns the remote API timeout, falling back to 10 seconds.
func (d DataConfig) APITimeout() time.Duration {
	if d.APITimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(d.APITimeoutSeconds) * time.Second
}

// SearchConfig tunes suggestions and debouncing.
type SearchConfig struct {
	DebounceMS     int `toml:"debounce_ms" env:"DEBOUNCE_MS"`
	MaxSuggestions int `toml:"max_suggestions" env:"MAX_SUGGESTIONS"`
	MaxResults     int `toml:"max_results" env:"MAX_RESULTS"`
}

// Debounce returns the debounce delay, falling back to 300ms.
func (s SearchConfig) Debounce() time.Duration {
	if s.DebounceMS <= 0 {
		return 300 * time.Millisecond
	}
	return time.Duration(s.DebounceMS) * time.Millisecond
}

// ImagesConfig controls the poster availability check.
type ImagesConfig struct {
	Workers        int     `toml:"workers" env:"WORKERS"`
	RateLimit      float64 `toml:"rate_limit" env:"RATE_LIMIT"`
	TimeoutSeconds int     `toml:"timeout_seconds" env:"TIMEOUT_SECONDS"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level" env:"LEVEL"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ResolveConfig loads path when it exists, otherwise the defaults, then applies environment overrides.
func ResolveConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		}
	}

	if err := ApplyEnv(config); err != nil {
		return nil, err
	}
	return config, nil
}
