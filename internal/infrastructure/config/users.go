package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// User roles.
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// UsersConfig holds the known users (read/write).
type UsersConfig struct {
	Users map[string]UserEntry `yaml:"users,omitempty"`
}

// UserEntry holds configuration for a specific user.
type UserEntry struct {
	Name string `yaml:"name"`
	Role string `yaml:"role"`
	// DefaultBranch is the person id used as the initial branch filter.
	DefaultBranch string `yaml:"default_branch,omitempty"`
}

// IsAdmin reports whether the user may edit the tree.
func (e UserEntry) IsAdmin() bool {
	return e.Role == RoleAdmin
}

// LoadUsers loads user configuration from the .famitree directory.
func LoadUsers(basePath string) (*UsersConfig, error) {
	data, err := os.ReadFile(UsersFilePath(basePath))
	if os.IsNotExist(err) {
		// Return empty config if file doesn't exist
		return &UsersConfig{
			Users: make(map[string]UserEntry),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading users file: %w", err)
	}

	var cfg UsersConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing users file: %w", err)
	}

	if cfg.Users == nil {
		cfg.Users = make(map[string]UserEntry)
	}

	return &cfg, nil
}

// Save writes the users configuration to the users file.
func (u *UsersConfig) Save(basePath string) error {
	if err := os.MkdirAll(ConfigDir(basePath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshaling users config: %w", err)
	}

	if err := os.WriteFile(UsersFilePath(basePath), data, 0600); err != nil {
		return fmt.Errorf("writing users file: %w", err)
	}

	return nil
}

// Add adds or replaces a user. Role must be admin or viewer.
func (u *UsersConfig) Add(id string, entry UserEntry) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("user id is required")
	}
	if entry.Role != RoleAdmin && entry.Role != RoleViewer {
		return fmt.Errorf("invalid role %q (valid: %s, %s)", entry.Role, RoleAdmin, RoleViewer)
	}
	if u.Users == nil {
		u.Users = make(map[string]UserEntry)
	}
	u.Users[id] = entry
	return nil
}

// Remove removes a user from the configuration.
func (u *UsersConfig) Remove(id string) {
	if u.Users != nil {
		delete(u.Users, id)
	}
}

// Get returns the configuration for a specific user.
func (u *UsersConfig) Get(id string) (*UserEntry, error) {
	if len(u.Users) == 0 {
		return nil, errors.New("no users configured")
	}

	entry, ok := u.Users[id]
	if !ok {
		return nil, fmt.Errorf("user %q not found (available: %s)", id, u.summary())
	}

	return &entry, nil
}

// IDs returns the user ids in sorted order.
func (u *UsersConfig) IDs() []string {
	ids := make([]string, 0, len(u.Users))
	for id := range u.Users {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// summary lists at most five user ids.
func (u *UsersConfig) summary() string {
	ids := u.IDs()
	if len(ids) > 5 {
		return strings.Join(ids[:5], ", ") + ", ..."
	}
	return strings.Join(ids, ", ")
}
