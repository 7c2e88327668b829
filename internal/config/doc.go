// Package config defines the Loader interface implemented by the document
// syntaxes and the Settings that control a substationc run.
//
// Settings are resolved in layers: built-in defaults, then an optional YAML
// file, then SUBSTATIONC_* environment variables (a .env file is read
// first when present). Command-line flags are applied last by package cli.
package config
