package main

import "time"

// Default limits for CLI commands.
const (
	DefaultSearchLimit   = 10
	DefaultVersionsLimit = 20
	DefaultAuditLimit    = 50
	DefaultPruneKeep     = 100
)

// storeCloseTimeout bounds the final save when a command exits.
const storeCloseTimeout = 10 * time.Second

// Valid backup formats.
var validFormats = []string{"json", "csv"}
