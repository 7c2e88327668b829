package diag

import (
	"bytes"
	"io"

	"github.com/hashicorp/hcl/v2"
)

// Write renders diagnostics with source snippets. sources maps each
// filename to its raw content; files missing from the map are rendered
// without a snippet.
func Write(w io.Writer, ds Diagnostics, sources map[string][]byte, width uint, color bool) error {
	files := make(map[string]*hcl.File, len(sources))
	for name, src := range sources {
		files[name] = &hcl.File{Bytes: src}
	}

	hds := make(hcl.Diagnostics, 0, len(ds))
	for _, d := range ds {
		hd := d.HCL()
		if hd.Subject != nil {
			if src, ok := sources[hd.Subject.Filename]; ok {
				r := withOffsets(*hd.Subject, src)
				hd.Subject = &r
			}
		}
		hds = append(hds, hd)
	}
	return hcl.NewDiagnosticTextWriter(w, files, width, color).WriteDiagnostics(hds)
}

// withOffsets fills in byte offsets for ranges that only carry line and
// column, as ranges built outside a parser do. Snippet rendering selects
// lines by byte offset.
func withOffsets(r hcl.Range, src []byte) hcl.Range {
	if r.Start.Byte != 0 || r.End.Byte != 0 {
		return r
	}
	r.Start.Byte = offsetOf(src, r.Start)
	if r.End.Line == 0 {
		r.End = r.Start
	}
	r.End.Byte = offsetOf(src, r.End)
	if r.End.Byte < r.Start.Byte {
		r.End.Byte = r.Start.Byte
	}
	return r
}

// offsetOf converts a line and column to a byte offset, clamped to the end
// of that line.
func offsetOf(src []byte, pos hcl.Pos) int {
	off := 0
	for line := 1; line < pos.Line; line++ {
		i := bytes.IndexByte(src[off:], '\n')
		if i < 0 {
			return len(src)
		}
		off += i + 1
	}
	lineEnd := len(src)
	if i := bytes.IndexByte(src[off:], '\n'); i >= 0 {
		lineEnd = off + i
	}
	col := pos.Column
	if col < 1 {
		col = 1
	}
	if off+col-1 > lineEnd {
		return lineEnd
	}
	return off + col - 1
}
