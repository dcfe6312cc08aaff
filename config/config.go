package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the complete service configuration.
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server"`
	Storage StorageConfig `json:"storage" yaml:"storage"`
	Account AccountConfig `json:"account" yaml:"account"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

type ServerConfig struct {
	Listen      string   `json:"listen" yaml:"listen"`
	CORSOrigins []string `json:"cors_origins,omitempty" yaml:"cors_origins,omitempty"`
}

type StorageConfig struct {
	DBPath string `json:"db_path" yaml:"db_path"`
}

// AccountConfig holds account-wide settings. Currency is the single
// reporting currency every balance is denominated in; multi-currency
// conversion is not supported.
type AccountConfig struct {
	Currency string `json:"currency" yaml:"currency"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"` // "debug", "info", "warn", "error"
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Listen: ":8080"},
		Storage: StorageConfig{DBPath: "./brokerd.sqlite"},
		Account: AccountConfig{Currency: "ARS"},
		Log:     LogConfig{Level: "info"},
	}
}

// LoadFromFile loads configuration from a file (YAML or JSON). Missing
// fields fall back to defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	if c.Storage.DBPath == "" {
		return fmt.Errorf("storage.db_path is required")
	}
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}
