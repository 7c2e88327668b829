package emit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/substationc/internal/diag"
	"github.com/vk/substationc/internal/entity"
	"github.com/vk/substationc/internal/registry"
	"github.com/vk/substationc/internal/topology"
	"github.com/vk/substationc/internal/validate"
	"gopkg.in/yaml.v3"
)

type build struct {
	reg  *registry.Registry
	b    *topology.Builder
	defs []entity.Entity
}

func at(line int) hcl.Range {
	return hcl.Range{Filename: "t.sub", Start: hcl.Pos{Line: line, Column: 1}}
}

func newBuild(t *testing.T) *build {
	t.Helper()
	reg := registry.New()
	defs := []entity.Entity{
		&entity.Bus{Base: entity.At("main", at(1)), KV: 138},
		&entity.Bay{Base: entity.At("bay-1", at(2)), Function: entity.BayLine, KV: 138, Bus: "main"},
		&entity.Breaker{Base: entity.At("brk", at(3)), KV: 138, InterruptingKA: 40, Type: entity.BreakerSF6, ContinuousA: 2000},
	}
	for _, e := range defs {
		require.NoError(t, reg.Define(e))
	}
	b := topology.NewBuilder(reg)
	require.NoError(t, b.Connect([]string{"main", "brk"}, at(5)))
	require.NoError(t, b.Connect([]string{"brk", "main"}, at(6)))
	require.NoError(t, b.AppendToBay("bay-1", "brk", at(7)))
	return &build{reg: reg, b: b, defs: defs}
}

func (b *build) report() *diag.Report {
	return validate.Report(context.Background(), &validate.Model{
		Registry: b.reg,
		Graph:    b.b.Graph(),
		Bays:     b.b.Bays(),
	})
}

func (b *build) emit(report *diag.Report) (*Document, error) {
	return Emit(report, b.reg, b.b.Graph(), b.b.Bays())
}

const wantJSON = `{
  "entities": [
    {"id": "main", "kind": "BUS", "attributes": {"kv": 138}},
    {"id": "bay-1", "kind": "BAY", "attributes": {"kind": "LINE", "kv": 138, "bus": "main"}},
    {"id": "brk", "kind": "BREAKER", "attributes": {"kv": 138, "interrupting_kA": 40, "type": "SF6", "continuous_A": 2000}}
  ],
  "connections": [
    {"from": "main", "to": "brk", "series": 0, "line": 5},
    {"from": "brk", "to": "main", "series": 1, "line": 6}
  ],
  "bay_assignments": [
    {"bay": "bay-1", "members": ["brk"]}
  ]
}`

func TestEmit_JSON(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	b := newBuild(t)
	report := b.report()
	require.False(t, report.HasErrors(), "%v", report.Diagnostics)

	// --- Act ---
	doc, err := b.emit(report)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc, FormatJSON))

	// --- Assert ---
	assert.JSONEq(t, wantJSON, buf.String())
	assert.Contains(t, buf.String(), "\n  \"entities\"", "output is indented")
}

func TestEmit_YAML(t *testing.T) {
	t.Parallel()

	b := newBuild(t)
	doc, err := b.emit(b.report())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc, FormatYAML))

	var decoded struct {
		Entities []struct {
			ID         string         `yaml:"id"`
			Kind       string         `yaml:"kind"`
			Attributes map[string]any `yaml:"attributes"`
		} `yaml:"entities"`
		Connections    []Connection    `yaml:"connections"`
		BayAssignments []BayAssignment `yaml:"bay_assignments"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))

	require.Len(t, decoded.Entities, 3)
	assert.Equal(t, "BREAKER", decoded.Entities[2].Kind)
	assert.Equal(t, "SF6", decoded.Entities[2].Attributes["type"])
	assert.Equal(t, doc.Connections, decoded.Connections)
	assert.Equal(t, doc.BayAssignments, decoded.BayAssignments)
}

func TestEmit_RequiresCleanValidation(t *testing.T) {
	t.Parallel()

	b := newBuild(t)
	failing := &diag.Report{Diagnostics: diag.Diagnostics{
		{Severity: diag.SeverityWarning, Code: validate.CodeIsolated},
		{Severity: diag.SeverityError, Code: validate.CodeVoltageMismatch},
		{Severity: diag.SeverityError, Code: validate.CodeCouplerSelf},
	}}

	testCases := []struct {
		name       string
		report     *diag.Report
		wantErrors int
	}{
		{"never validated", nil, 0},
		{"validation failed", failing, 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			doc, err := b.emit(tc.report)

			assert.Nil(t, doc)
			var target *diag.EmitWithoutValidationError
			require.True(t, errors.As(err, &target), "got %v", err)
			assert.Equal(t, tc.wantErrors, target.Errors)
		})
	}
}

func TestEmit_WarningsDoNotBlock(t *testing.T) {
	t.Parallel()

	b := newBuild(t)
	report := &diag.Report{Diagnostics: diag.Diagnostics{{Severity: diag.SeverityWarning, Code: validate.CodeEmptyBay}}}

	doc, err := b.emit(report)

	require.NoError(t, err)
	assert.Equal(t, 1, doc.CountKind(entity.KindBus))
	rec, ok := doc.Entity("brk")
	require.True(t, ok)
	assert.Same(t, b.defs[2], rec.Attributes)
}

func TestEmit_EmptyBuildHasEmptySections(t *testing.T) {
	t.Parallel()

	doc, err := Emit(&diag.Report{}, registry.New(), topology.NewGraph(), topology.NewBayMap())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc, FormatJSON))
	assert.JSONEq(t, `{"entities": [], "connections": [], "bay_assignments": []}`, buf.String())
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "json", want: FormatJSON},
		{in: "YAML", want: FormatYAML},
		{in: "yml", want: FormatYAML},
		{in: "toml", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseFormat(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
	assert.Equal(t, ".yaml", FormatYAML.Extension())
	assert.Equal(t, ".json", FormatJSON.Extension())
}

func TestSchema(t *testing.T) {
	t.Parallel()

	s := Schema()

	entities, ok := s.Properties.Get("entities")
	require.True(t, ok)
	require.NotNil(t, entities.Items)
	attrs, ok := entities.Items.Properties.Get("attributes")
	require.True(t, ok)
	assert.Len(t, attrs.OneOf, 7)
	kind, ok := entities.Items.Properties.Get("kind")
	require.True(t, ok)
	assert.Contains(t, kind.Enum, "COUPLER")

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"bay_assignments"`)
	assert.Contains(t, string(out), `"interrupting_kA"`)
}
