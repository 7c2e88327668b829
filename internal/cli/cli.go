package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vk/substationc/internal/app"
	"github.com/vk/substationc/internal/config"
	"github.com/vk/substationc/internal/emit"
)

// Version is reported by --version. It is set at build time.
var Version = "dev"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// usageError marks mistakes in how the command line was written.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// options collects the flag values shared by all commands.
type options struct {
	configFile string
	envFile    string
	logLevel   string
	logFormat  string
	noColor    bool

	format  string
	outDir  string
	workers int

	// lookup replaces os.LookupEnv in tests.
	lookup func(string) (string, bool)
}

// Execute runs the command line given by args. Help and version output go
// to outW, as do documents; logs and diagnostics go to errW. Every failure
// is returned as an *ExitError: code 2 for usage and settings mistakes,
// code 1 for documents that failed to compile and other runtime errors.
func Execute(ctx context.Context, outW, errW io.Writer, args []string) error {
	return execute(ctx, outW, errW, args, nil)
}

func execute(ctx context.Context, outW, errW io.Writer, args []string, lookup func(string) (string, bool)) error {
	slog.Debug("CLI parser started.", "args", args)

	opts := &options{lookup: lookup}
	root := newRootCmd(opts, outW, errW)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	var ue *usageError
	switch {
	case errors.As(err, &ue), strings.HasPrefix(err.Error(), "unknown command"):
		return &ExitError{Code: 2, Message: fmt.Sprintf("%v\nRun '%s --help' for usage.", err, root.Name())}
	default:
		return &ExitError{Code: 1, Message: err.Error()}
	}
}

func newRootCmd(opts *options, outW, errW io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "substationc",
		Short: "Compile substation descriptions into validated topology documents",
		Long: `substationc compiles substation descriptions into validated topology documents.

A description is a sequence of commands that declare buses, bays, breakers,
disconnectors, transformers, lines and couplers, connect them in series and
group them into bays. Documents ending in .sub use the line syntax:

  ADD_BUS id=main-138, kv=138
  CONNECT series=[main-138, line-iso-1, line-brk-1]

Documents ending in .hcl use the equivalent HCL block syntax.

Settings are read from .substationc.yaml (or --config), then SUBSTATIONC_*
environment variables (also from .env), then flags.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configFile, "config", "c", "", "Settings file (default ./"+config.DefaultFile+" if present).")
	pf.StringVar(&opts.envFile, "env-file", "", "Environment file to load (default ./.env if present).")
	pf.StringVar(&opts.logLevel, "log-level", "", "Logging level: 'debug', 'info', 'warn' or 'error'.")
	pf.StringVar(&opts.logFormat, "log-format", "", "Log output format: 'text' or 'json'.")
	pf.BoolVar(&opts.noColor, "no-color", false, "Disable coloured diagnostics.")

	root.AddCommand(
		compileCmd(opts, outW, errW),
		checkCmd(opts, outW, errW),
		convertCmd(opts, outW, errW),
		schemaCmd(outW),
	)
	return root
}

// requireInputs rejects a command line without input paths.
func requireInputs(_ *cobra.Command, args []string) error {
	if len(args) == 0 {
		return usagef("at least one input file, directory or glob is required")
	}
	return nil
}

func compileCmd(opts *options, outW, errW io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [flags] PATH...",
		Short: "Compile documents and write the emitted topology",
		Long: `Compile each document and write the topology produced by its EMIT_SPEC.

PATH is a document, a directory searched recursively for documents, or a
glob such as 'sites/**/*.sub'. Without --out, emitted documents are written
to stdout; with --out, one file per input is written to that directory.`,
		Args: requireInputs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolve(cmd, opts, args)
			if err != nil {
				return err
			}
			return app.NewApp(outW, errW, cfg).Compile(cmd.Context())
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.format, "format", "f", "", "Output format: "+strings.Join(formatNames(), " or ")+".")
	f.StringVarP(&opts.outDir, "out", "o", "", "Directory receiving one output file per input.")
	f.IntVarP(&opts.workers, "workers", "w", 0, "Number of documents compiled concurrently.")
	return cmd
}

func checkCmd(opts *options, outW, errW io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] PATH...",
		Short: "Validate documents without writing output",
		Long: `Build and validate each document and report its diagnostics.

EMIT_SPEC commands are ignored and the final state of every document is
validated even when it does not end with VALIDATE.`,
		Args: requireInputs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolve(cmd, opts, args)
			if err != nil {
				return err
			}
			return app.NewApp(outW, errW, cfg).Check(cmd.Context())
		},
	}
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "Number of documents checked concurrently.")
	return cmd
}

func convertCmd(opts *options, outW, errW io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [flags] PATH...",
		Short: "Rewrite line-syntax documents as HCL",
		Args:  requireInputs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolve(cmd, opts, args)
			if err != nil {
				return err
			}
			return app.NewApp(outW, errW, cfg).Convert(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "Directory receiving one .hcl file per input.")
	return cmd
}

func schemaCmd(outW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of emitted documents",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usagef("schema takes no arguments, got %q", args)
			}
			return nil
		},
		RunE: func(*cobra.Command, []string) error {
			return app.WriteSchema(outW)
		},
	}
}

// resolve layers settings: defaults, settings file, environment, then the
// flags set on the command line.
func resolve(cmd *cobra.Command, opts *options, inputs []string) (*app.Config, error) {
	s, err := config.Load(config.LoadOptions{
		File:   opts.configFile,
		DotEnv: opts.envFile,
		Lookup: opts.lookup,
	})
	if err != nil {
		return nil, &usageError{err: err}
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		s.LogLevel = opts.logLevel
	}
	if flags.Changed("log-format") {
		s.LogFormat = opts.logFormat
	}
	if flags.Changed("no-color") {
		s.NoColor = opts.noColor
	}
	if flags.Changed("format") {
		s.Format = opts.format
	}
	if flags.Changed("out") {
		s.OutDir = opts.outDir
	}
	if flags.Changed("workers") {
		s.Workers = opts.workers
	}

	s.LogLevel = strings.ToLower(s.LogLevel)
	s.LogFormat = strings.ToLower(s.LogFormat)
	if f, err := emit.ParseFormat(s.Format); err == nil {
		s.Format = string(f)
	}
	if err := s.Validate(); err != nil {
		return nil, &usageError{err: err}
	}
	slog.Debug("CLI parameter validation complete.", "settings", s)

	cfg, err := app.NewConfig(app.Config{
		Inputs:    inputs,
		Format:    emit.Format(s.Format),
		OutDir:    s.OutDir,
		LogFormat: s.LogFormat,
		LogLevel:  s.LogLevel,
		Workers:   s.Workers,
		NoColor:   s.NoColor,
	})
	if err != nil {
		return nil, &usageError{err: err}
	}
	return cfg, nil
}

func formatNames() []string {
	var names []string
	for _, f := range emit.Formats() {
		names = append(names, "'"+string(f)+"'")
	}
	return names
}
