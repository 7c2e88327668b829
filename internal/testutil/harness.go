// Package testutil holds helpers shared by the package tests.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing output written by
// concurrent workers.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// WriteFiles creates files (slash-separated paths relative to a new temp
// dir) with the given contents and returns the temp dir.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600), "failed to write %s", name)
	}
	return root
}

// Substation is a small, clean document in line syntax.
const Substation = `ADD_BUS id=main, kv=138
ADD_BAY id=bay-1, kind=LINE, kv=138, bus=main
ADD_BREAKER id=brk, kv=138, interrupting_kA=40, type=SF6, continuous_A=2000
ADD_LINE id=ln, kv=138, type=OHL, length_km=12, thermal_A=1200
CONNECT series=[main, brk, ln]
APPEND_TO_BAY bay_id=bay-1, object_id=brk
VALIDATE
EMIT_SPEC
`

// SubstationHCL is Substation in HCL block syntax.
const SubstationHCL = `bus "main" { kv = 138 }

bay "bay-1" {
  kind = LINE
  kv   = 138
  bus  = "main"
}

breaker "brk" {
  kv              = 138
  interrupting_kA = 40
  type            = SF6
  continuous_A    = 2000
}

line "ln" {
  kv        = 138
  type      = OHL
  length_km = 12
  thermal_A = 1200
}

connect {
  series = ["main", "brk", "ln"]
}

append_to_bay {
  bay_id    = "bay-1"
  object_id = "brk"
}

validate {}
emit_spec {}
`

// Mismatched fails validation: the bus and the line disagree on kV.
const Mismatched = `ADD_BUS id=main, kv=138
ADD_LINE id=ln, kv=69, type=OHL, length_km=4, thermal_A=600
CONNECT series=[main, ln]
VALIDATE
EMIT_SPEC
`
