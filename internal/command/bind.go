package command

import (
	"fmt"
	"regexp"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/substationc/internal/diag"
	"github.com/vk/substationc/internal/entity"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// RawAttr is an attribute as read from source, before typing.
type RawAttr struct {
	Name  string
	Value cty.Value
	// Text is the source text of the value, for diagnostics.
	Text  string
	Range hcl.Range
}

// decimalRegex accepts finite decimal literals only, so that words such as
// "Inf" or "NaN" are never taken for numbers.
var decimalRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// Bind checks raw attributes against the schema of kind and returns the
// typed command. rng and text locate the whole statement.
func Bind(kind Kind, raws []RawAttr, rng hcl.Range, text string) (Command, error) {
	schema := SchemaOf(kind)
	cmd := Command{
		Kind:  kind,
		Attrs: make(map[string]cty.Value, len(raws)),
		Range: rng,
		Text:  text,
	}

	if len(schema.Attrs) == 0 && len(raws) > 0 {
		return Command{}, attrError(raws[0], fmt.Sprintf("%s takes no attributes", kind))
	}

	for _, raw := range raws {
		def, ok := schema.Attr(raw.Name)
		if !ok {
			return Command{}, attrError(raw, fmt.Sprintf("unknown attribute %q for %s", raw.Name, kind))
		}
		if _, dup := cmd.Attrs[raw.Name]; dup {
			return Command{}, attrError(raw, fmt.Sprintf("attribute %q given more than once", raw.Name))
		}
		val, err := bindValue(def, raw.Value)
		if err != nil {
			return Command{}, attrError(raw, fmt.Sprintf("attribute %q %s", raw.Name, err))
		}
		cmd.Attrs[raw.Name] = val
	}

	for _, def := range schema.Attrs {
		if _, ok := cmd.Attrs[def.Name]; !ok {
			return Command{}, &diag.ParseError{
				Filename: rng.Filename,
				Line:     rng.Start.Line,
				Column:   rng.Start.Column,
				Text:     text,
				Message:  fmt.Sprintf("%s is missing required attribute %q", kind, def.Name),
			}
		}
	}
	return cmd, nil
}

func attrError(raw RawAttr, msg string) *diag.ParseError {
	text := raw.Text
	if text == "" {
		text = raw.Name
	}
	return &diag.ParseError{
		Filename: raw.Range.Filename,
		Line:     raw.Range.Start.Line,
		Column:   raw.Range.Start.Column,
		Text:     text,
		Message:  msg,
	}
}

func bindValue(def Attr, v cty.Value) (cty.Value, error) {
	if v.IsNull() || !v.IsWhollyKnown() {
		return cty.NilVal, fmt.Errorf("must have a value")
	}

	switch def.Type {
	case TypeID:
		s, err := asString(v)
		if err != nil {
			return cty.NilVal, err
		}
		if err := entity.CheckID(s); err != nil {
			return cty.NilVal, err
		}
		return cty.StringVal(s), nil

	case TypeString:
		s, err := asString(v)
		if err != nil {
			return cty.NilVal, err
		}
		if s == "" {
			return cty.NilVal, fmt.Errorf("must not be empty")
		}
		return cty.StringVal(s), nil

	case TypePositive, TypeNonNegative:
		n, err := asNumber(v)
		if err != nil {
			return cty.NilVal, err
		}
		if def.Type == TypePositive && !n.GreaterThan(cty.Zero).True() {
			return cty.NilVal, fmt.Errorf("must be greater than zero")
		}
		if def.Type == TypeNonNegative && n.LessThan(cty.Zero).True() {
			return cty.NilVal, fmt.Errorf("must not be negative")
		}
		return n, nil

	case TypeClosedEnum:
		s, err := asString(v)
		if err != nil {
			return cty.NilVal, err
		}
		if _, err := entity.ParseClosed(s, def.Allowed); err != nil {
			return cty.NilVal, err
		}
		return cty.StringVal(s), nil

	case TypeOpenEnum:
		s, err := asString(v)
		if err != nil {
			return cty.NilVal, err
		}
		if _, err := entity.ParseOpen(s); err != nil {
			return cty.NilVal, err
		}
		return cty.StringVal(s), nil

	case TypeIDList:
		return asIDList(v)
	}
	return cty.NilVal, fmt.Errorf("has unsupported schema type %d", def.Type)
}

func asString(v cty.Value) (string, error) {
	if !v.Type().IsPrimitiveType() {
		return "", fmt.Errorf("must be a single value, got %s", v.Type().FriendlyName())
	}
	s, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", fmt.Errorf("must be a string: %w", err)
	}
	return s.AsString(), nil
}

func asNumber(v cty.Value) (cty.Value, error) {
	if v.Type() == cty.String && !decimalRegex.MatchString(v.AsString()) {
		return cty.NilVal, fmt.Errorf("must be a number, got %q", v.AsString())
	}
	if v.Type() == cty.Number {
		if bf := v.AsBigFloat(); bf.IsInf() {
			return cty.NilVal, fmt.Errorf("must be finite")
		}
	}
	n, err := convert.Convert(v, cty.Number)
	if err != nil {
		return cty.NilVal, fmt.Errorf("must be a number, got %s", v.Type().FriendlyName())
	}

	// Entities hold float64; reject what would overflow or flush to zero.
	var f float64
	if err := gocty.FromCtyValue(n, &f); err != nil {
		return cty.NilVal, fmt.Errorf("is out of range for a 64-bit float, got %s", n.AsBigFloat().Text('g', 6))
	}
	if f == 0 && !n.Equals(cty.Zero).True() {
		return cty.NilVal, fmt.Errorf("is out of range for a 64-bit float, got %s", n.AsBigFloat().Text('g', 6))
	}
	return n, nil
}

func asIDList(v cty.Value) (cty.Value, error) {
	ty := v.Type()
	if !ty.IsListType() && !ty.IsTupleType() {
		return cty.NilVal, fmt.Errorf("must be a list like [a, b], got %s", ty.FriendlyName())
	}
	l, err := convert.Convert(v, cty.List(cty.String))
	if err != nil {
		return cty.NilVal, fmt.Errorf("must be a list of identifiers: %w", err)
	}
	if l.LengthInt() < 2 {
		return cty.NilVal, fmt.Errorf("must name at least two identifiers")
	}
	for it := l.ElementIterator(); it.Next(); {
		_, el := it.Element()
		if err := entity.CheckID(el.AsString()); err != nil {
			return cty.NilVal, err
		}
	}
	return l, nil
}
