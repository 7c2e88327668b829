package config

import (
	"context"

	"github.com/vk/substationc/internal/command"
)

// Loader is the interface for a format-specific document loader.
type Loader interface {
	// Extension is the file suffix, with the dot, the loader handles.
	Extension() string

	// Load parses src, read from filename, into the ordered command
	// sequence of the document. Parse failures are returned as
	// *diag.ParseError.
	Load(ctx context.Context, filename string, src []byte) ([]command.Command, error)
}
