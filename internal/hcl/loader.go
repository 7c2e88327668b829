package hcl

import (
	"context"

	"github.com/vk/substationc/internal/command"
	"github.com/vk/substationc/internal/ctxlog"
)

// Extension is the file suffix of HCL documents.
const Extension = ".hcl"

// Loader is the HCL implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new HCL loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Extension implements config.Loader.
func (*Loader) Extension() string { return Extension }

// Load parses an HCL document into commands.
func (*Loader) Load(ctx context.Context, filename string, src []byte) ([]command.Command, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing HCL document.", "file", filename, "bytes", len(src))

	cmds, err := Parse(filename, src)
	if err != nil {
		return nil, err
	}
	logger.Debug("Translated HCL blocks into commands.", "file", filename, "commands", len(cmds))
	return cmds, nil
}
