package hcl

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/substationc/internal/command"
	"github.com/vk/substationc/internal/diag"
	"github.com/zclconf/go-cty/cty"
)

// Parse reads a document written as HCL blocks, one block per command, and
// returns the commands in source order.
func Parse(filename string, src []byte) ([]command.Command, error) {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fromDiagnostics(diags, src)
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected HCL body type %T", filename, file.Body)
	}
	if len(body.Attributes) > 0 {
		attr := firstAttribute(body.Attributes)
		return nil, parseError(attr.SrcRange, src, fmt.Sprintf("unexpected top-level attribute %q; only command blocks are allowed", attr.Name))
	}

	cmds := make([]command.Command, 0, len(body.Blocks))
	for _, block := range body.Blocks {
		cmd, err := translateBlock(block, src)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

// translateBlock converts one HCL block into a bound command.
func translateBlock(block *hclsyntax.Block, src []byte) (command.Command, error) {
	kind, ok := blockTypes[block.Type]
	if !ok {
		return command.Command{}, parseError(block.TypeRange, src, fmt.Sprintf("unknown block type %q", block.Type))
	}

	wantLabels := 0
	if kind.IsDefinition() {
		wantLabels = 1
	}
	if len(block.Labels) != wantLabels {
		msg := fmt.Sprintf("%s blocks take no labels", block.Type)
		if wantLabels == 1 {
			msg = fmt.Sprintf("%s blocks take exactly one label, the identifier", block.Type)
		}
		return command.Command{}, parseError(block.DefRange(), src, msg)
	}
	if len(block.Body.Blocks) > 0 {
		nested := block.Body.Blocks[0]
		return command.Command{}, parseError(nested.TypeRange, src, fmt.Sprintf("unexpected nested block %q", nested.Type))
	}

	var raws []command.RawAttr
	if wantLabels == 1 {
		raws = append(raws, command.RawAttr{
			Name:  labelAttr,
			Value: cty.StringVal(block.Labels[0]),
			Text:  fmt.Sprintf("%q", block.Labels[0]),
			Range: block.LabelRanges[0],
		})
	}

	for _, attr := range sortedAttributes(block.Body.Attributes) {
		val, diags := attributeValue(attr.Expr)
		if diags.HasErrors() {
			return command.Command{}, fromDiagnostics(diags, src)
		}
		raws = append(raws, command.RawAttr{
			Name:  attr.Name,
			Value: val,
			Text:  string(attr.SrcRange.SliceBytes(src)),
			Range: attr.SrcRange,
		})
	}

	rng := block.Range()
	return command.Bind(kind, raws, rng, string(block.DefRange().SliceBytes(src)))
}

// attributeValue evaluates a constant expression. Bare keywords, alone or as
// list elements, are read as strings so that `kind = LINE` and
// `series = [bus_a, brk_1]` are accepted alongside their quoted forms.
func attributeValue(expr hcl.Expression) (cty.Value, hcl.Diagnostics) {
	if kw := hcl.ExprAsKeyword(expr); kw != "" {
		return cty.StringVal(kw), nil
	}
	if _, isTuple := expr.(*hclsyntax.TupleConsExpr); isTuple {
		items, diags := hcl.ExprList(expr)
		if diags.HasErrors() {
			return cty.NilVal, diags
		}
		if len(items) == 0 {
			return cty.EmptyTupleVal, nil
		}
		vals := make([]cty.Value, 0, len(items))
		for _, item := range items {
			v, diags := attributeValue(item)
			if diags.HasErrors() {
				return cty.NilVal, diags
			}
			vals = append(vals, v)
		}
		return cty.TupleVal(vals), nil
	}
	return expr.Value(nil)
}

func sortedAttributes(attrs hclsyntax.Attributes) []*hclsyntax.Attribute {
	out := make([]*hclsyntax.Attribute, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b *hclsyntax.Attribute) int {
		return a.SrcRange.Start.Byte - b.SrcRange.Start.Byte
	})
	return out
}

func firstAttribute(attrs hclsyntax.Attributes) *hclsyntax.Attribute {
	return sortedAttributes(attrs)[0]
}

// fromDiagnostics reports the first error of diags as a ParseError.
func fromDiagnostics(diags hcl.Diagnostics, src []byte) error {
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		msg := d.Summary
		if d.Detail != "" {
			msg = fmt.Sprintf("%s: %s", d.Summary, d.Detail)
		}
		if d.Subject == nil {
			return &diag.ParseError{Message: msg}
		}
		return parseError(*d.Subject, src, msg)
	}
	return diags
}

func parseError(rng hcl.Range, src []byte, msg string) *diag.ParseError {
	return &diag.ParseError{
		Filename: rng.Filename,
		Line:     rng.Start.Line,
		Column:   rng.Start.Column,
		Text:     sourceLine(src, rng.Start.Line),
		Message:  msg,
	}
}

func sourceLine(src []byte, line int) string {
	lines := strings.Split(string(src), "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[line-1])
}
