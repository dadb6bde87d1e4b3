// Package config provides configuration loading and validation for tgstat.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultPath is the config file looked up when --config is not given.
	DefaultPath = "tgstat.yaml"

	envAddress  = "TGSTAT_ADDRESS"
	envUsername = "TGSTAT_USERNAME"
	envPassword = "TGSTAT_PASSWORD"
)

// Config holds the modem connection settings.
type Config struct {
	Address  string `yaml:"address"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Load loads configuration from the given YAML file and applies environment
// variable overrides. Precedence order (highest to lowest):
// 1. Environment variables
// 2. Config file
// A missing file is not an error when the explicit path equals DefaultPath;
// a path the user asked for must exist.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if err := cfg.loadFromFile(path); err != nil {
		if !os.IsNotExist(err) || path != DefaultPath {
			return nil, err
		}
	}

	cfg.loadFromEnv()

	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path) // #nosec G304 - path is user-provided config
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

func (c *Config) loadFromEnv() {
	if address := os.Getenv(envAddress); address != "" {
		c.Address = address
	}
	if username := os.Getenv(envUsername); username != "" {
		c.Username = username
	}
	if password := os.Getenv(envPassword); password != "" {
		c.Password = password
	}
}

// RequireConnection validates that the settings needed for a network fetch
// are present. The password may still be absent; callers can prompt for it.
func (c *Config) RequireConnection() error {
	if c.Address == "" {
		return fmt.Errorf("modem address not specified\n"+
			"Use the %s environment variable or add 'address:' to the config file\n"+
			"  Example: address: 192.168.1.1", envAddress)
	}
	if c.Username == "" {
		return fmt.Errorf("modem username not specified\n"+
			"Use the %s environment variable or add 'username:' to the config file", envUsername)
	}
	return nil
}
