package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/substationc/internal/ctxlog"
	"github.com/vk/substationc/internal/diag"
	"github.com/vk/substationc/internal/dsl"
	"github.com/vk/substationc/internal/emit"
	"github.com/vk/substationc/internal/hcl"
)

// ErrFailed is returned when at least one document did not compile.
var ErrFailed = errors.New("compilation failed")

// Compile compiles every input document and writes the emitted documents.
func (a *App) Compile(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Compile method started.", "inputs", a.config.Inputs, "workers", a.config.Workers)

	files, err := a.discover(a.extensions()...)
	if err != nil {
		return err
	}
	results, err := a.compileAll(ctx, files, nil)
	if err != nil {
		return err
	}
	if err := a.writeDocuments(results); err != nil {
		return err
	}
	return a.report(results)
}

// Check parses, builds and validates every input document without writing
// any output document.
func (a *App) Check(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Check method started.", "inputs", a.config.Inputs)

	files, err := a.discover(a.extensions()...)
	if err != nil {
		return err
	}
	results, err := a.compileAll(ctx, files, forCheck)
	if err != nil {
		return err
	}
	return a.report(results)
}

// Convert rewrites line-syntax documents in HCL block syntax. Documents are
// parsed but not compiled.
func (a *App) Convert(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	files, err := a.discover(dsl.Extension)
	if err != nil {
		return err
	}

	loader := dsl.NewLoader()
	for i, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		cmds, err := loader.Load(ctxlog.With(ctx, "file", path), path, src)
		if err != nil {
			res := &FileResult{Path: path, Source: src, Err: err}
			res.Diagnostics = diag.Diagnostics{diag.AsDiagnostic(err)}
			return errors.Join(a.report([]*FileResult{res}), err)
		}

		err = a.output(path, hcl.Extension, i, func(w io.Writer) error {
			return hcl.Write(w, cmds)
		})
		if err != nil {
			return err
		}
		a.logger.Info("Document converted.", "file", path, "commands", len(cmds))
	}
	return nil
}

// WriteSchema writes the JSON Schema of emitted documents to w.
func WriteSchema(w io.Writer) error {
	out, err := json.MarshalIndent(emit.Schema(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render schema: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", out)
	return err
}

// writeDocuments writes each emitted document, in input order.
func (a *App) writeDocuments(results []*FileResult) error {
	format := a.config.Format
	n := 0
	for _, r := range results {
		if r.Document == nil || r.Failed() {
			continue
		}
		err := a.output(r.Path, format.Extension(), n, func(w io.Writer) error {
			return emit.Encode(w, r.Document, format)
		})
		if err != nil {
			return err
		}
		n++
	}
	return nil
}

// output writes one document produced from input. With an output directory
// the document goes to a file named after input with ext; otherwise it is
// appended to outW, YAML documents separated by "---".
func (a *App) output(input, ext string, index int, write func(io.Writer) error) error {
	if a.config.OutDir == "" {
		if index > 0 && ext == emit.FormatYAML.Extension() {
			if _, err := io.WriteString(a.outW, "---\n"); err != nil {
				return err
			}
		}
		return write(a.outW)
	}

	if err := os.MkdirAll(a.config.OutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	path := filepath.Join(a.config.OutDir, base+ext)
	if prev, ok := a.written[path]; ok {
		return fmt.Errorf("%s and %s would both be written to %s", prev, input, path)
	}
	a.written[path] = input

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	a.logger.Debug("Output written.", "input", input, "output", path)
	return nil
}
