package validate

import (
	"context"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/substationc/internal/diag"
	"github.com/vk/substationc/internal/entity"
	"github.com/vk/substationc/internal/registry"
	"github.com/vk/substationc/internal/topology"
)

// fixture describes a build to validate.
type fixture struct {
	defs   []entity.Entity
	series [][]string
	bays   [][2]string
}

func (f fixture) model(t *testing.T) *Model {
	t.Helper()
	reg := registry.New()
	for _, e := range f.defs {
		require.NoError(t, reg.Define(e))
	}
	b := topology.NewBuilder(reg)
	for i, s := range f.series {
		require.NoError(t, b.Connect(s, hcl.Range{Filename: "t.sub", Start: hcl.Pos{Line: 100 + i}}))
	}
	for _, m := range f.bays {
		require.NoError(t, b.AppendToBay(m[0], m[1], hcl.Range{}))
	}
	return &Model{Registry: reg, Graph: b.Graph(), Bays: b.Bays()}
}

func base(id string) entity.Base {
	return entity.At(id, hcl.Range{Filename: "t.sub", Start: hcl.Pos{Line: 1}})
}

func bus(id string, kv float64) *entity.Bus { return &entity.Bus{Base: base(id), KV: kv} }

func bay(id string, kv float64, busID string) *entity.Bay {
	return &entity.Bay{Base: base(id), Function: entity.BayLine, KV: kv, Bus: busID}
}

func breaker(id string, kv, amps float64) *entity.Breaker {
	return &entity.Breaker{Base: base(id), KV: kv, InterruptingKA: 40, Type: entity.BreakerSF6, ContinuousA: amps}
}

func disconnector(id string, kv, amps float64) *entity.Disconnector {
	return &entity.Disconnector{Base: base(id), KV: kv, Type: entity.DisconnectorCenterBreak, ContinuousA: amps}
}

func line(id string, kv, amps float64) *entity.Line {
	return &entity.Line{Base: base(id), KV: kv, Type: entity.LineOverhead, LengthKM: 10, ThermalA: amps}
}

func transformer(id string) *entity.Transformer {
	return &entity.Transformer{Base: base(id), Type: entity.WindingAuto, RatedMVA: 300, VectorGroup: "YNa0d11", PercentZ: 12}
}

func coupler(id string, kv float64, from, to string) *entity.Coupler {
	return &entity.Coupler{Base: base(id), KV: kv, FromBus: from, ToBus: to}
}

func run(t *testing.T, f fixture) diag.Diagnostics {
	t.Helper()
	return Validate(context.Background(), f.model(t))
}

func codes(ds diag.Diagnostics) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Code)
	}
	return out
}

func TestValidate_Simple138IsClean(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	f := fixture{
		defs: []entity.Entity{
			bus("main-138", 138),
			bay("line-bay-1", 138, "main-138"),
			breaker("line-brk-1", 138, 2000),
			disconnector("line-iso-1", 138, 2000),
			line("tx-line-1", 138, 1200),
		},
		series: [][]string{{"main-138", "line-iso-1", "line-brk-1", "tx-line-1"}},
		bays:   [][2]string{{"line-bay-1", "line-brk-1"}, {"line-bay-1", "line-iso-1"}},
	}

	// --- Act ---
	ds := run(t, f)

	// --- Assert ---
	assert.Empty(t, ds, "unexpected findings: %v", ds)
}

func TestValidate_VoltageMismatchReportedOncePerPair(t *testing.T) {
	t.Parallel()

	f := fixture{
		defs: []entity.Entity{
			bus("b-138", 138),
			line("l-230", 230, 1000),
		},
		series: [][]string{
			{"b-138", "l-230"},
			{"l-230", "b-138"},
			{"b-138", "l-230"},
		},
	}

	ds := run(t, f).WithCode(CodeVoltageMismatch)

	require.Len(t, ds, 1)
	d := ds[0]
	assert.Equal(t, diag.SeverityError, d.Severity)
	assert.ElementsMatch(t, []string{"b-138", "l-230"}, d.Subjects)
	require.NotNil(t, d.Range)
	assert.Equal(t, 100, d.Range.Start.Line, "points at the first joining series")
}

func TestValidate_TransformerExemption(t *testing.T) {
	t.Parallel()

	f := fixture{
		defs: []entity.Entity{
			bus("hv", 500),
			transformer("tx"),
			bus("lv", 230),
		},
		series: [][]string{{"hv", "tx", "lv"}},
	}

	ds := run(t, f)

	assert.Empty(t, ds.WithCode(CodeVoltageMismatch))
	assert.False(t, ds.HasErrors())
}

func TestValidate_VoltageToleranceAndSelfLoops(t *testing.T) {
	t.Parallel()

	f := fixture{
		defs: []entity.Entity{
			bus("a", 13.8),
			breaker("b", 13.800000000001, 1200),
			line("c", 13.8, 600),
		},
		series: [][]string{{"a", "b", "c"}, {"c", "c"}},
	}

	assert.Empty(t, run(t, f).WithCode(CodeVoltageMismatch))
}

func TestValidate_CurrentRating(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// line -> iso(800) -> brk(1000) -> bus -> far-brk(100)
	// The walk stops at the bus, so far-brk is not compared with the line.
	f := fixture{
		defs: []entity.Entity{
			bus("bus", 138),
			line("ln", 138, 1200),
			disconnector("iso", 138, 800),
			breaker("brk", 138, 1000),
			breaker("far-brk", 138, 100),
			breaker("ok-brk", 138, 1200),
		},
		series: [][]string{
			{"ln", "iso", "brk", "bus", "far-brk"},
			{"ln", "ok-brk"},
			{"ln", "iso"},
		},
	}

	// --- Act ---
	ds := run(t, f).WithCode(CodeCurrentRating)

	// --- Assert ---
	require.Len(t, ds, 2)
	assert.Equal(t, []string{"iso", "ln"}, ds[0].Subjects)
	assert.Equal(t, []string{"brk", "ln"}, ds[1].Subjects)
	for _, d := range ds {
		assert.Equal(t, diag.SeverityWarning, d.Severity)
	}
}

func TestValidate_IsolatedAndEmptyBay(t *testing.T) {
	t.Parallel()

	f := fixture{
		defs: []entity.Entity{
			bus("lonely-bus", 138),
			bus("bus-2", 138),
			bay("empty-bay", 138, "lonely-bus"),
			bay("used-bay", 138, "lonely-bus"),
			breaker("floating", 138, 2000),
			disconnector("bayed", 138, 2000),
			transformer("tx"),
			coupler("cpl", 138, "lonely-bus", "bus-2"),
		},
		bays: [][2]string{{"used-bay", "bayed"}},
	}

	ds := run(t, f)

	isolated := ds.WithCode(CodeIsolated)
	require.Len(t, isolated, 2)
	assert.Equal(t, []string{"floating"}, isolated[0].Subjects)
	assert.Equal(t, []string{"tx"}, isolated[1].Subjects)

	empty := ds.WithCode(CodeEmptyBay)
	require.Len(t, empty, 1)
	assert.Equal(t, []string{"empty-bay"}, empty[0].Subjects)

	assert.False(t, ds.HasErrors())
}

func TestValidate_CouplerSanity(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		coupler   *entity.Coupler
		wantCodes []string
	}{
		{"valid", coupler("c", 230, "bus-a", "bus-b"), nil},
		{"same bus", coupler("c", 230, "bus-a", "bus-a"), []string{CodeCouplerSelf}},
		{"to a line", coupler("c", 230, "bus-a", "ln"), []string{CodeCouplerBus}},
		{"both ends wrong", coupler("c", 230, "ln", "ln"), []string{CodeCouplerBus, CodeCouplerBus, CodeCouplerSelf}},
		{"voltage differs", coupler("c", 138, "bus-a", "bus-b"), []string{CodeCouplerVoltage, CodeCouplerVoltage}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := fixture{
				defs: []entity.Entity{
					bus("bus-a", 230),
					bus("bus-b", 230),
					line("ln", 230, 1000),
					tc.coupler,
				},
				series: [][]string{{"bus-a", "ln"}},
			}

			ds := run(t, f)

			assert.Equal(t, tc.wantCodes, nilIfEmpty(codes(ds)))
		})
	}
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

func TestValidate_BayReferences(t *testing.T) {
	t.Parallel()

	f := fixture{
		defs: []entity.Entity{
			bus("bus-138", 138),
			line("ln", 138, 1000),
			bay("bay-on-line", 138, "ln"),
			bay("bay-off-kv", 230, "bus-138"),
			breaker("brk", 138, 2000),
		},
		series: [][]string{{"bus-138", "ln"}},
		bays:   [][2]string{{"bay-on-line", "brk"}},
	}

	ds := run(t, f)

	kind := ds.WithCode(CodeReferenceKind)
	require.Len(t, kind, 1)
	assert.Equal(t, []string{"bay-on-line", "ln"}, kind[0].Subjects)

	kv := ds.WithCode(CodeBayVoltage)
	require.Len(t, kv, 1)
	assert.Equal(t, []string{"bay-off-kv", "bus-138"}, kv[0].Subjects)

	unused := ds.WithCode(CodeBreakerUnused)
	require.Len(t, unused, 1, "a bay breaker outside every series is flagged")
	assert.Equal(t, []string{"brk"}, unused[0].Subjects)
	assert.Empty(t, ds.WithCode(CodeIsolated), "bay membership is not isolation")
}

func TestValidate_Deterministic(t *testing.T) {
	t.Parallel()

	f := fixture{
		defs: []entity.Entity{
			bus("a", 138), bus("b", 230), line("l1", 69, 100), line("l2", 138, 5000),
			breaker("x", 138, 10), coupler("c", 138, "a", "a"), bay("e", 138, "a"),
		},
		series: [][]string{{"a", "l1", "b"}, {"l2", "x", "a"}},
	}
	m := f.model(t)

	first := Validate(context.Background(), m)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Validate(context.Background(), m))
	}
	assert.True(t, first.HasErrors())
}

func TestValidate_DanglingReferencesInModel(t *testing.T) {
	t.Parallel()

	// The builder never produces these; the sweep still catches them.
	reg := registry.New()
	require.NoError(t, reg.Define(bus("a", 138)))
	g := topology.NewGraph()
	g.AddSeries([]string{"a", "ghost", "ghost-2"}, hcl.Range{Filename: "t.sub", Start: hcl.Pos{Line: 9}})
	bays := topology.NewBayMap()
	bays.Assign("no-bay", "a")

	ds := Validate(context.Background(), &Model{Registry: reg, Graph: g, Bays: bays}).WithCode(CodeUnknownReference)

	require.Len(t, ds, 3)
	assert.Equal(t, []string{"ghost"}, ds[0].Subjects)
	assert.Equal(t, 9, ds[0].Line())
	assert.Equal(t, []string{"ghost-2"}, ds[1].Subjects)
	assert.Equal(t, []string{"no-bay"}, ds[2].Subjects)
}

func TestReport(t *testing.T) {
	t.Parallel()

	f := fixture{defs: []entity.Entity{bus("a", 138), bus("b", 230)}, series: [][]string{{"a", "b"}}}

	r := Report(context.Background(), f.model(t))

	require.NotNil(t, r)
	assert.True(t, r.HasErrors())
}
