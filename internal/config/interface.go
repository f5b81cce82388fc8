package config

import (
	"context"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads the configuration document at path and returns the raw tree
	// of the component it configures.
	Load(ctx context.Context, path string) (*Document, error)

	// Parse does the same as Load for an in-memory document; filename is
	// only used in diagnostics.
	Parse(ctx context.Context, src []byte, filename string) (*Document, error)
}
