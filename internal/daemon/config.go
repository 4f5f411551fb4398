// Package daemon manages the Ember daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/emberfocus/ember/internal/domain"
)

// Config holds all daemon configuration.
type Config struct {
	API       APIConfig          `toml:"api"`
	Storage   StorageConfig      `toml:"storage"`
	Telemetry TelemetryConfig    `toml:"telemetry"`
	Rules     domain.RuleCatalog `toml:"rules"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// StorageConfig controls where state lives.
type StorageConfig struct {
	Dir string `toml:"dir"`
}

// TelemetryConfig controls observability endpoints.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host:        "127.0.0.1",
			Port:        8411,
			CORSOrigins: []string{"*"},
		},
		Storage: StorageConfig{
			Dir: emberHome(),
		},
		Telemetry: TelemetryConfig{
			Prometheus: true,
		},
		Rules: domain.DefaultRuleCatalog(),
	}
}

// LoadConfig reads config from ~/.ember/config.toml, falling back to
// defaults. The `[rules]` table overrides the stock rule catalog.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(emberHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet — use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes the config to ~/.ember/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(emberHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// emberHome returns the Ember data directory.
func emberHome() string {
	if env := os.Getenv("EMBER_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".ember")
}

// EmberHome is exported for use by other packages.
func EmberHome() string {
	return emberHome()
}
