package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/vk/substationc/internal/command"
	"github.com/vk/substationc/internal/compiler"
	"github.com/vk/substationc/internal/config"
	"github.com/vk/substationc/internal/ctxlog"
	"github.com/vk/substationc/internal/diag"
	"github.com/vk/substationc/internal/dsl"
	"github.com/vk/substationc/internal/fsutil"
	"github.com/vk/substationc/internal/hcl"
	"golang.org/x/sync/errgroup"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	errW    io.Writer
	logger  *slog.Logger
	config  *Config
	loaders map[string]config.Loader
	// written maps output files to the input they were produced from.
	written map[string]string
}

// NewApp is the constructor for the main application. Documents go to outW;
// logs and diagnostics go to errW. Without loaders, both document syntaxes
// are registered.
func NewApp(outW, errW io.Writer, appConfig *Config, loaders ...config.Loader) *App {
	runID := uuid.NewString()
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, errW).With("run_id", runID)
	logger.Debug("Logger configured successfully.")

	if len(loaders) == 0 {
		loaders = []config.Loader{dsl.NewLoader(), hcl.NewLoader()}
	}
	byExt := make(map[string]config.Loader, len(loaders))
	for _, l := range loaders {
		byExt[l.Extension()] = l
	}
	logger.Debug("Document loaders registered.", "extensions", slices.Sorted(maps.Keys(byExt)))

	return &App{
		outW:    outW,
		errW:    errW,
		logger:  logger,
		config:  appConfig,
		loaders: byExt,
		written: make(map[string]string),
	}
}

// FileResult is the outcome of compiling one input document.
type FileResult struct {
	Path   string
	Source []byte
	compiler.Result
	// Err is the error that failed the document, if any.
	Err error
}

// Failed reports whether the document did not compile.
func (r *FileResult) Failed() bool {
	return r.Err != nil
}

func (a *App) extensions() []string {
	return slices.Sorted(maps.Keys(a.loaders))
}

// discover resolves the configured inputs into document files.
func (a *App) discover(extensions ...string) ([]string, error) {
	files, err := fsutil.ExpandInputs(a.config.Inputs, extensions...)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve inputs: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s documents found in %s", strings.Join(extensions, " or "), strings.Join(a.config.Inputs, ", "))
	}
	return files, nil
}

// compileAll compiles every file on a pool of config.Workers goroutines.
// Results are returned in input order whatever order the workers finish in.
// Only cancellation of ctx fails the batch; per-file failures are recorded
// in the results.
func (a *App) compileAll(ctx context.Context, files []string, prepare func([]command.Command) []command.Command) ([]*FileResult, error) {
	results := make([]*FileResult, len(files))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.Workers)
	for i, path := range files {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = a.compileFile(ctxlog.With(gCtx, "file", path), path, prepare)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (a *App) compileFile(ctx context.Context, path string, prepare func([]command.Command) []command.Command) *FileResult {
	logger := ctxlog.FromContext(ctx)
	res := &FileResult{Path: path}

	loader, ok := a.loaders[filepath.Ext(path)]
	if !ok {
		res.Err = fmt.Errorf("%s: unsupported document type (want %s)", path, strings.Join(a.extensions(), " or "))
		return res
	}

	src, err := os.ReadFile(path)
	if err != nil {
		res.Err = err
		return res
	}
	res.Source = src

	cmds, err := loader.Load(ctx, path, src)
	if err != nil {
		res.Err = err
		res.Diagnostics = diag.Diagnostics{diag.AsDiagnostic(err)}
		return res
	}
	if prepare != nil {
		cmds = prepare(cmds)
	}

	res.Result, res.Err = compiler.Compile(ctx, cmds)
	logger.Info("Document compiled.",
		"commands", len(cmds),
		"errors", len(res.Diagnostics.Errors()),
		"warnings", len(res.Diagnostics.Warnings()),
		"emitted", res.Document != nil,
	)
	return res
}

// forCheck drops EMIT_SPEC commands and makes sure the final state of the
// document is validated.
func forCheck(cmds []command.Command) []command.Command {
	out := make([]command.Command, 0, len(cmds)+1)
	for _, c := range cmds {
		if c.Kind != command.EmitSpec {
			out = append(out, c)
		}
	}
	if n := len(out); n == 0 || out[n-1].Kind != command.Validate {
		final := command.Command{Kind: command.Validate}
		if n > 0 {
			final.Range = out[n-1].Range
		}
		out = append(out, final)
	}
	return out
}
