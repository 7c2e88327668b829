package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/substationc/internal/testutil"
)

// env returns a lookup over a fixed environment.
func env(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func run(t *testing.T, vars map[string]string, args ...string) (string, string, error) {
	t.Helper()
	outW, errW := &testutil.SafeBuffer{}, &testutil.SafeBuffer{}
	err := execute(context.Background(), outW, errW, args, env(vars))
	return outW.String(), errW.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	return exitErr.Code
}

func TestExecute_ExitCodes(t *testing.T) {
	t.Parallel()

	root := testutil.WriteFiles(t, map[string]string{
		"good.sub": testutil.Substation,
		"bad.sub":  testutil.Mismatched,
	})
	good, bad := filepath.Join(root, "good.sub"), filepath.Join(root, "bad.sub")

	testCases := []struct {
		name     string
		args     []string
		wantCode int
		wantMsg  string
	}{
		{name: "help", args: []string{"--help"}},
		{name: "compile", args: []string{"compile", "--no-color", good}},
		{name: "check", args: []string{"check", "--no-color", good}},
		{name: "failed document", args: []string{"compile", "--no-color", bad}, wantCode: 1, wantMsg: "compilation failed"},
		{name: "missing input", args: []string{"compile", filepath.Join(root, "missing.sub")}, wantCode: 1, wantMsg: "no such file"},
		{name: "no inputs", args: []string{"compile"}, wantCode: 2, wantMsg: "at least one input"},
		{name: "unknown flag", args: []string{"compile", "--frobnicate", good}, wantCode: 2, wantMsg: "unknown flag"},
		{name: "unknown command", args: []string{"explode"}, wantCode: 2, wantMsg: "unknown command"},
		{name: "bad format", args: []string{"compile", "--format", "xml", good}, wantCode: 2, wantMsg: "Format"},
		{name: "bad workers", args: []string{"compile", "--workers", "0", good}, wantCode: 2, wantMsg: "Workers"},
		{name: "bad log level", args: []string{"compile", "--log-level", "loud", good}, wantCode: 2, wantMsg: "LogLevel"},
		{name: "schema with args", args: []string{"schema", "extra"}, wantCode: 2, wantMsg: "no arguments"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Act ---
			_, _, err := run(t, nil, tc.args...)

			// --- Assert ---
			assert.Equal(t, tc.wantCode, exitCode(t, err), "error: %v", err)
			if tc.wantMsg != "" {
				assert.Contains(t, err.Error(), tc.wantMsg)
			}
		})
	}
}

func TestExecute_Help(t *testing.T) {
	t.Parallel()

	out, _, err := run(t, nil, "--help")

	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "compile")
	assert.Contains(t, out, "convert")
}

func TestExecute_CompileWritesJSON(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	root := testutil.WriteFiles(t, map[string]string{"site.sub": testutil.Substation})

	// --- Act ---
	out, errOut, err := run(t, nil, "compile", "--no-color", filepath.Join(root, "site.sub"))

	// --- Assert ---
	require.NoError(t, err, errOut)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Contains(t, doc, "entities")
	assert.Contains(t, errOut, "1 of 1 document(s) compiled")
}

func TestExecute_SettingsPrecedence(t *testing.T) {
	t.Parallel()

	root := testutil.WriteFiles(t, map[string]string{
		"site.sub":          testutil.Substation,
		"settings.yaml":     "format: yaml\nworkers: 2\n",
		"bad-settings.yaml": "format: yaml\ncolour: always\n",
	})
	site := filepath.Join(root, "site.sub")
	settings := filepath.Join(root, "settings.yaml")

	testCases := []struct {
		name     string
		vars     map[string]string
		args     []string
		wantYAML bool
	}{
		{name: "default", args: []string{site}},
		{name: "settings file", args: []string{"--config", settings, site}, wantYAML: true},
		{name: "environment over file", vars: map[string]string{"SUBSTATIONC_FORMAT": "json"}, args: []string{"--config", settings, site}},
		{name: "environment", vars: map[string]string{"SUBSTATIONC_FORMAT": "yml"}, args: []string{site}, wantYAML: true},
		{name: "flag over environment", vars: map[string]string{"SUBSTATIONC_FORMAT": "yaml"}, args: []string{"--format", "JSON", site}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Act ---
			out, errOut, err := run(t, tc.vars, append([]string{"compile", "--no-color"}, tc.args...)...)

			// --- Assert ---
			require.NoError(t, err, errOut)
			if tc.wantYAML {
				assert.Contains(t, out, "entities:\n")
			} else {
				assert.Contains(t, out, `"entities": [`)
			}
		})
	}

	t.Run("unknown settings key", func(t *testing.T) {
		t.Parallel()

		_, _, err := run(t, nil, "compile", "--config", filepath.Join(root, "bad-settings.yaml"), site)

		assert.Equal(t, 2, exitCode(t, err))
		assert.Contains(t, err.Error(), "colour")
	})

	t.Run("invalid environment", func(t *testing.T) {
		t.Parallel()

		_, _, err := run(t, map[string]string{"SUBSTATIONC_WORKERS": "many"}, "compile", site)

		assert.Equal(t, 2, exitCode(t, err))
		assert.Contains(t, err.Error(), "SUBSTATIONC_WORKERS")
	})
}

func TestExecute_Convert(t *testing.T) {
	t.Parallel()

	root := testutil.WriteFiles(t, map[string]string{"site.sub": testutil.Substation})

	out, errOut, err := run(t, nil, "convert", filepath.Join(root, "site.sub"))

	require.NoError(t, err, errOut)
	assert.Contains(t, out, `bus "main" {`)
	assert.Contains(t, out, `append_to_bay {`)
}

func TestExecute_Schema(t *testing.T) {
	t.Parallel()

	out, _, err := run(t, nil, "schema")

	require.NoError(t, err)
	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	assert.Equal(t, "object", schema["type"])
}

func TestExecute_Version(t *testing.T) {
	t.Parallel()

	out, _, err := run(t, nil, "--version")

	require.NoError(t, err)
	assert.Contains(t, out, Version)
}
