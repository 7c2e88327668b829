package dsl

import (
	"context"

	"github.com/vk/substationc/internal/command"
	"github.com/vk/substationc/internal/ctxlog"
)

// Extension is the file suffix of line-syntax documents.
const Extension = ".sub"

// Loader reads line-syntax documents.
type Loader struct{}

// NewLoader creates a new line-syntax loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Extension implements config.Loader.
func (*Loader) Extension() string { return Extension }

// Load implements config.Loader.
func (*Loader) Load(ctx context.Context, filename string, src []byte) ([]command.Command, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing line-syntax document.", "file", filename, "bytes", len(src))

	cmds, err := Parse(filename, src)
	if err != nil {
		return nil, err
	}
	logger.Debug("Parsed document.", "file", filename, "commands", len(cmds))
	return cmds, nil
}
