package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultFile is the settings file looked up in the working directory.
	DefaultFile = ".substationc.yaml"
	// EnvPrefix prefixes every environment variable read by Settings.
	EnvPrefix = "SUBSTATIONC_"
)

// Settings holds the tunables of a run.
type Settings struct {
	LogLevel  string `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `yaml:"log_format" validate:"oneof=text json"`
	// Format is the serialisation of emitted documents.
	Format  string `yaml:"format" validate:"oneof=json yaml"`
	OutDir  string `yaml:"out_dir"`
	Workers int    `yaml:"workers" validate:"min=1,max=256"`
	NoColor bool   `yaml:"no_color"`
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		LogLevel:  "warn",
		LogFormat: "text",
		Format:    "json",
		Workers:   4,
	}
}

// LoadOptions controls where Load looks for settings.
type LoadOptions struct {
	// File is the YAML settings file. When empty, DefaultFile is used if
	// it exists.
	File string
	// DotEnv is the .env file merged into the environment; empty means
	// ".env" in the working directory, if present.
	DotEnv string
	// Lookup reads environment variables. Defaults to os.LookupEnv.
	Lookup func(string) (string, bool)
}

// Load resolves settings from defaults, the settings file and the
// environment. The result is not validated; callers apply their flags
// first and then call Validate.
func Load(opts LoadOptions) (Settings, error) {
	s := Defaults()

	file, required := opts.File, true
	if file == "" {
		file, required = DefaultFile, false
	}
	if err := s.mergeFile(file, required); err != nil {
		return s, err
	}

	lookup := opts.Lookup
	if lookup == nil {
		if err := loadDotEnv(opts.DotEnv); err != nil {
			return s, err
		}
		lookup = os.LookupEnv
	}
	if err := s.mergeEnv(lookup); err != nil {
		return s, err
	}
	return s, nil
}

func (s *Settings) mergeFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read settings file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	return nil
}

// loadDotEnv adds the variables of a .env file to the process environment
// without overriding variables already set.
func loadDotEnv(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func (s *Settings) mergeEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	str("LOG_LEVEL", &s.LogLevel)
	str("LOG_FORMAT", &s.LogFormat)
	str("FORMAT", &s.Format)
	str("OUT", &s.OutDir)

	if v, ok := lookup(EnvPrefix + "WORKERS"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %sWORKERS %q: %w", EnvPrefix, v, err)
		}
		s.Workers = n
	}
	if v, ok := lookup(EnvPrefix + "NO_COLOR"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %sNO_COLOR %q: %w", EnvPrefix, v, err)
		}
		s.NoColor = b
	}
	return nil
}

var settingsValidator = validator.New()

// Validate checks every field and reports all problems at once.
func (s Settings) Validate() error {
	err := settingsValidator.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, fmt.Sprintf("%s: invalid value %v (%s=%s)", fe.Field(), fe.Value(), fe.Tag(), fe.Param()))
	}
	return fmt.Errorf("invalid settings: %s", strings.Join(problems, "; "))
}
