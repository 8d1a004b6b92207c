// Package handlers contains application use case handlers.
package handlers

import (
	"fmt"

	"github.com/ersonp/famitree/internal/infrastructure/config"
)

// InitHandler handles workspace initialization.
type InitHandler struct{}

// NewInitHandler creates a new init handler.
func NewInitHandler() *InitHandler {
	return &InitHandler{}
}

// InitOptions configures a new workspace.
type InitOptions struct {
	Family  string
	Backend string // sqlite or file; empty keeps the default
	AdminID string // added to users.yaml as admin when set
}

// InitResult contains the result of initialization.
type InitResult struct {
	ConfigPath     string
	StoragePath    string
	CollectionName string
}

// Handle writes the default configuration under basePath. The storage itself
// is created on first use.
func (h *InitHandler) Handle(basePath string, opts InitOptions) (*InitResult, error) {
	if config.Exists(basePath) {
		return nil, fmt.Errorf("famitree already initialized in %s", basePath)
	}

	if err := config.WriteDefault(basePath, opts.Family); err != nil {
		return nil, fmt.Errorf("writing default config: %w", err)
	}

	cfg, err := config.Load(basePath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if opts.Backend != "" && opts.Backend != cfg.Storage.Backend {
		cfg.Storage.Backend = opts.Backend
		if opts.Backend == config.BackendFile {
			cfg.Storage.Path = config.DefaultFilePath
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	if opts.AdminID != "" {
		cfg.User.ID = opts.AdminID
		users, err := config.LoadUsers(basePath)
		if err != nil {
			return nil, err
		}
		if err := users.Add(opts.AdminID, config.UserEntry{Name: opts.AdminID, Role: config.RoleAdmin}); err != nil {
			return nil, err
		}
		if err := users.Save(basePath); err != nil {
			return nil, err
		}
	}

	if opts.Backend != "" || opts.AdminID != "" {
		if err := config.Write(basePath, cfg); err != nil {
			return nil, err
		}
	}

	return &InitResult{
		ConfigPath:     config.ConfigFilePath(basePath),
		StoragePath:    cfg.StoragePath(basePath),
		CollectionName: cfg.Qdrant.Collection,
	}, nil
}
