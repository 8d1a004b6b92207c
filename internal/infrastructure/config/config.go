// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for famitree configuration.
	DefaultConfigDir = ".famitree"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultUsersFile is the default users file name.
	DefaultUsersFile = "users.yaml"
	// DefaultFilePath is the data file used by the file backend.
	DefaultFilePath = DefaultConfigDir + "/famitree.json"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

var (
	// reNonAlphanumeric matches characters that aren't alphanumeric or underscore.
	reNonAlphanumeric = regexp.MustCompile(`[^a-z0-9_]`)
	// reMultipleUnderscores matches consecutive underscores.
	reMultipleUnderscores = regexp.MustCompile(`_+`)
)

// Config holds static infrastructure configuration (read-only after init).
type Config struct {
	Family    string          `yaml:"family,omitempty"`
	Storage   StorageConfig   `yaml:"storage,omitempty"`
	User      UserConfig      `yaml:"user,omitempty"`
	Server    ServerConfig    `yaml:"server,omitempty"`
	Embedder  EmbedderConfig  `yaml:"embedder,omitempty"`
	Qdrant    QdrantConfig    `yaml:"qdrant,omitempty"`
	Reminders RemindersConfig `yaml:"reminders,omitempty"`
}

// StorageConfig selects where the family tree is persisted.
type StorageConfig struct {
	// Backend is "sqlite" (versioned snapshots plus audit log) or "file"
	// (single JSON file, reloaded when changed on disk).
	Backend string `yaml:"backend,omitempty"`
	// Path is relative to the directory holding .famitree unless absolute.
	Path string `yaml:"path,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite relational database.
type SQLiteConfig struct {
	// Path is the file path to the SQLite database, or ":memory:".
	Path string `yaml:"path,omitempty"`
}

// UserConfig names the user the CLI acts as. Privileges come from users.yaml.
type UserConfig struct {
	ID string `yaml:"id,omitempty"`
	// Admin grants write access regardless of users.yaml.
	Admin bool `yaml:"admin,omitempty"`
}

// ServerConfig holds configuration for the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// EmbedderConfig holds configuration for the embedding provider.
type EmbedderConfig struct {
	Provider string `yaml:"provider,omitempty"`
	Model    string `yaml:"model,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`
	// BaseURL points at an OpenAI-compatible endpoint instead of api.openai.com.
	BaseURL string `yaml:"base_url,omitempty"`
}

// QdrantConfig holds configuration for the Qdrant vector database.
type QdrantConfig struct {
	Host       string `yaml:"host,omitempty"`
	Port       int    `yaml:"port,omitempty"`
	Collection string `yaml:"collection,omitempty"`
	APIKey     string `yaml:"api_key,omitempty"`
}

// RemindersConfig holds defaults for the reminders command and endpoint.
type RemindersConfig struct {
	Limit int `yaml:"limit,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: BackendSQLite,
			Path:    filepath.Join(DefaultConfigDir, "famitree.db"),
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Embedder: EmbedderConfig{
			Provider: "openai",
			Model:    "text-embedding-3-small",
		},
		Qdrant: QdrantConfig{
			Host:       "localhost",
			Port:       6334,
			Collection: GenerateCollectionName(""),
		},
		Reminders: RemindersConfig{
			Limit: 10,
		},
	}
}

// Load loads configuration from the .famitree directory in the given path.
func Load(basePath string) (*Config, error) {
	configFile := ConfigFilePath(basePath)

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s (run 'famitree init' first)", configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Start with defaults
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if id := os.Getenv("FAMITREE_USER"); id != "" {
		c.User.ID = id
	}
	if v := os.Getenv("FAMITREE_ADMIN"); v != "" {
		if admin, err := strconv.ParseBool(v); err == nil {
			c.User.Admin = admin
		}
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if c.Embedder.APIKey == "" {
			c.Embedder.APIKey = key
		}
	}
	if key := os.Getenv("QDRANT_API_KEY"); key != "" {
		if c.Qdrant.APIKey == "" {
			c.Qdrant.APIKey = key
		}
	}
}

// Validate checks values that would otherwise fail later in confusing ways.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendFile:
	default:
		return fmt.Errorf("invalid storage backend %q (valid: %s, %s)", c.Storage.Backend, BackendSQLite, BackendFile)
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		return fmt.Errorf("storage path is required")
	}
	return nil
}

// StoragePath resolves the storage path against basePath.
func (c *Config) StoragePath(basePath string) string {
	if c.Storage.Path == ":memory:" || filepath.IsAbs(c.Storage.Path) {
		return c.Storage.Path
	}
	return filepath.Join(basePath, c.Storage.Path)
}

// SQLite returns the SQLite settings for the configured storage path.
func (c *Config) SQLite(basePath string) SQLiteConfig {
	return SQLiteConfig{Path: c.StoragePath(basePath)}
}

// ConfigDir returns the path to the .famitree config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// UsersFilePath returns the path to the users file.
func UsersFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultUsersFile)
}

// Exists checks if a famitree config exists in the given path.
func Exists(basePath string) bool {
	_, err := os.Stat(ConfigFilePath(basePath))
	return err == nil
}

// SanitizeName converts a family name to a valid collection suffix.
func SanitizeName(name string) string {
	// Convert to lowercase
	name = strings.ToLower(name)

	// Replace spaces and hyphens with underscores
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")

	// Remove any characters that aren't alphanumeric or underscore
	name = reNonAlphanumeric.ReplaceAllString(name, "")

	// Remove consecutive underscores
	name = reMultipleUnderscores.ReplaceAllString(name, "_")

	// Trim leading/trailing underscores
	name = strings.Trim(name, "_")

	if name == "" {
		return "default"
	}

	return name
}

// GenerateCollectionName creates the person collection name for a family.
func GenerateCollectionName(family string) string {
	return "famitree_" + SanitizeName(family)
}
