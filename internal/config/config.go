// Package config loads and saves the companion's TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// HTTP API configuration
	Server ServerConfig `toml:"server"`

	// Local database configuration
	Database DatabaseConfig `toml:"database"`

	// Remote card catalog API configuration
	CardAPI CardAPIConfig `toml:"card_api"`

	// Bundled card data configuration
	Data DataConfig `toml:"data"`

	// Chart/CSV export configuration
	Export ExportConfig `toml:"export"`

	// Application configuration
	App AppConfig `toml:"app"`
}

// ServerConfig contains the REST API server settings.
type ServerConfig struct {
	Port           int      `toml:"port"`            // Port the API listens on
	AllowedOrigins []string `toml:"allowed_origins"` // CORS origins for the browser UI
}

// DatabaseConfig contains SQLite settings.
type DatabaseConfig struct {
	Path string `toml:"path"` // Path to the companion database
}

// CardAPIConfig contains Pokémon TCG API settings.
type CardAPIConfig struct {
	BaseURL string `toml:"base_url"` // API base URL
	APIKey  string `toml:"api_key"`  // X-Api-Key value (optional, raises rate limits)
}

// DataConfig contains bundled card data settings.
type DataConfig struct {
	Dir   string `toml:"dir"`   // Directory with bundled set/card JSON
	Watch bool   `toml:"watch"` // Watch the data dir and refresh the cache
}

// ExportConfig contains export output settings.
type ExportConfig struct {
	OutputDir string `toml:"output_dir"` // Directory for chart HTML and CSV files
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode"` // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8474,
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Database: DatabaseConfig{
			Path: "", // resolved to <config dir>/companion.db when empty
		},
		CardAPI: CardAPIConfig{
			BaseURL: "https://api.pokemontcg.io/v2",
			APIKey:  "",
		},
		Data: DataConfig{
			Dir:   "",
			Watch: true,
		},
		Export: ExportConfig{
			OutputDir: "",
		},
		App: AppConfig{
			DebugMode: false,
		},
	}
}

// Dir returns the companion's configuration directory, creating it if
// needed.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".ptcg-companion")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return configDir, nil
}

func configPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads the configuration from disk. Returns default config if the
// file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &config, nil
}

// Save writes the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// DatabasePath resolves the database path, defaulting to companion.db in
// the config directory.
func (c *Config) DatabasePath() (string, error) {
	if c.Database.Path != "" {
		return c.Database.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "companion.db"), nil
}
