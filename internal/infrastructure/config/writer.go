package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// defaultConfigHeader is written above the generated defaults.
const defaultConfigHeader = `# famitree configuration
#
# storage.backend: sqlite keeps every saved version and an audit log;
#                  file keeps a single JSON file and reloads it when it changes.
# user.id:         who the CLI acts as (or set FAMITREE_USER).
# embedder.api_key and qdrant.api_key may be set via OPENAI_API_KEY and
# QDRANT_API_KEY.

`

// WriteDefault creates the .famitree directory and writes a default config
// file for the named family.
func WriteDefault(basePath, family string) error {
	if Exists(basePath) {
		return fmt.Errorf("config file already exists: %s", ConfigFilePath(basePath))
	}

	cfg := Default()
	cfg.Family = family
	cfg.Qdrant.Collection = GenerateCollectionName(family)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return writeConfigFile(basePath, append([]byte(defaultConfigHeader), data...))
}

// Write writes the given config to the config file.
func Write(basePath string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return writeConfigFile(basePath, data)
}

func writeConfigFile(basePath string, data []byte) error {
	if err := os.MkdirAll(ConfigDir(basePath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(ConfigFilePath(basePath), data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
