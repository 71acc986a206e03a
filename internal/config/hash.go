package config

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"
)

// Fingerprint returns a BLAKE3 hash of the effective configuration.
// Two processes with the same fingerprint serve identical routes and
// settings. The secret value is never part of the input.
func (c *Config) Fingerprint() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}

	hash := blake3.Sum256(data)
	return "blake3:" + hex.EncodeToString(hash[:]), nil
}

// Render returns the effective configuration as YAML.
func (c *Config) Render() ([]byte, error) {
	return yaml.Marshal(c)
}
