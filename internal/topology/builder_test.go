package topology

import (
	"errors"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/substationc/internal/diag"
	"github.com/vk/substationc/internal/entity"
	"github.com/vk/substationc/internal/registry"
)

func newBuilder(t *testing.T) *Builder {
	t.Helper()
	reg := registry.New()
	defs := []entity.Entity{
		&entity.Bus{Base: entity.At("main", hcl.Range{}), KV: 138},
		&entity.Bay{Base: entity.At("bay-1", hcl.Range{}), Function: entity.BayLine, KV: 138, Bus: "main"},
		&entity.Bay{Base: entity.At("bay-2", hcl.Range{}), Function: entity.BayFeeder, KV: 138, Bus: "main"},
		&entity.Breaker{Base: entity.At("brk", hcl.Range{}), KV: 138, InterruptingKA: 40, Type: entity.BreakerSF6, ContinuousA: 2000},
		&entity.Disconnector{Base: entity.At("iso", hcl.Range{}), KV: 138, Type: entity.DisconnectorCenterBreak, ContinuousA: 2000},
		&entity.Line{Base: entity.At("ln", hcl.Range{}), KV: 138, Type: entity.LineOverhead, LengthKM: 5, ThermalA: 1200},
	}
	for _, e := range defs {
		require.NoError(t, reg.Define(e))
	}
	return NewBuilder(reg)
}

func TestConnect(t *testing.T) {
	t.Parallel()

	b := newBuilder(t)

	require.NoError(t, b.Connect([]string{"main", "iso", "brk", "ln"}, line(9)))

	assert.Len(t, b.Graph().Edges(), 3)
	assert.Equal(t, 0, b.Bays().Len(), "connections add no membership")
}

func TestConnect_UnknownIdentifierLeavesGraphUnchanged(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	b := newBuilder(t)

	// --- Act ---
	err := b.Connect([]string{"main", "iso", "ghost"}, line(12))

	// --- Assert ---
	var unknown *diag.UnknownIdentifierError
	require.True(t, errors.As(err, &unknown), "got %v", err)
	assert.Equal(t, "ghost", unknown.ID)
	assert.Equal(t, 12, unknown.Range.Start.Line)
	assert.Empty(t, b.Graph().Edges())
}

func TestAppendToBay(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		setup       [][2]string
		bay, obj    string
		wantErr     bool
		wantReason  string
		wantUnknown string
	}{
		{name: "assigns breaker", bay: "bay-1", obj: "brk"},
		{name: "same pair twice is idempotent", setup: [][2]string{{"bay-1", "brk"}}, bay: "bay-1", obj: "brk"},
		{name: "different bay", setup: [][2]string{{"bay-1", "brk"}}, bay: "bay-2", obj: "brk", wantErr: true, wantReason: `already a member of bay "bay-1"`},
		{name: "target is not a bay", bay: "main", obj: "brk", wantErr: true, wantReason: `"main" is a BUS, not a BAY`},
		{name: "bus cannot be a member", bay: "bay-1", obj: "main", wantErr: true, wantReason: "cannot contain a BUS"},
		{name: "bay cannot be a member", bay: "bay-1", obj: "bay-2", wantErr: true, wantReason: "cannot contain a BAY"},
		{name: "unknown bay", bay: "nope", obj: "brk", wantErr: true, wantUnknown: "nope"},
		{name: "unknown object", bay: "bay-1", obj: "nope", wantErr: true, wantUnknown: "nope"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			b := newBuilder(t)
			for _, s := range tc.setup {
				require.NoError(t, b.AppendToBay(s[0], s[1], line(1)))
			}

			// --- Act ---
			err := b.AppendToBay(tc.bay, tc.obj, line(5))

			// --- Assert ---
			if !tc.wantErr {
				require.NoError(t, err)
				bay, ok := b.Bays().BayOf(tc.obj)
				assert.True(t, ok)
				assert.Equal(t, tc.bay, bay)
				assert.Len(t, b.Bays().Members(tc.bay), 1)
				assert.Empty(t, b.Graph().Edges(), "membership adds no edges")
				return
			}

			require.Error(t, err)
			if tc.wantUnknown != "" {
				var unknown *diag.UnknownIdentifierError
				require.True(t, errors.As(err, &unknown), "got %v", err)
				assert.Equal(t, tc.wantUnknown, unknown.ID)
				return
			}
			var invalid *diag.InvalidBayAssignmentError
			require.True(t, errors.As(err, &invalid), "got %v", err)
			assert.Contains(t, invalid.Reason, tc.wantReason)
			assert.Equal(t, 5, invalid.Range.Start.Line)
		})
	}
}
