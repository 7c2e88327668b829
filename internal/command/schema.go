package command

import "github.com/vk/substationc/internal/entity"

// AttrType is the value type an attribute is bound to.
type AttrType int

const (
	// TypeID is a bare entity identifier.
	TypeID AttrType = iota
	// TypeString is free-form text; it may be quoted in source.
	TypeString
	// TypePositive is a finite number strictly greater than zero.
	TypePositive
	// TypeNonNegative is a finite number greater than or equal to zero.
	TypeNonNegative
	// TypeClosedEnum is one of Attr.Allowed.
	TypeClosedEnum
	// TypeOpenEnum is a well-known or custom classification identifier.
	TypeOpenEnum
	// TypeIDList is an ordered list of at least two identifiers.
	TypeIDList
)

// Attr describes one attribute accepted by a command.
type Attr struct {
	Name    string
	Type    AttrType
	Allowed []string
}

// Schema lists the attributes of a command in canonical order. Every
// attribute of the vocabulary is required.
type Schema struct {
	Attrs []Attr
}

// Attr returns the attribute definition for name.
func (s Schema) Attr(name string) (Attr, bool) {
	for _, a := range s.Attrs {
		if a.Name == name {
			return a, true
		}
	}
	return Attr{}, false
}

var (
	idAttr = Attr{Name: "id", Type: TypeID}
	kvAttr = Attr{Name: "kv", Type: TypePositive}
)

var schemas = map[Kind]Schema{
	AddBus: {Attrs: []Attr{idAttr, kvAttr}},
	AddBay: {Attrs: []Attr{
		idAttr,
		{Name: "kind", Type: TypeClosedEnum, Allowed: entity.BayFunctions()},
		kvAttr,
		{Name: "bus", Type: TypeID},
	}},
	AddBreaker: {Attrs: []Attr{
		idAttr,
		kvAttr,
		{Name: "interrupting_kA", Type: TypePositive},
		{Name: "type", Type: TypeOpenEnum},
		{Name: "continuous_A", Type: TypePositive},
	}},
	AddDisconnector: {Attrs: []Attr{
		idAttr,
		kvAttr,
		{Name: "type", Type: TypeOpenEnum},
		{Name: "continuous_A", Type: TypePositive},
	}},
	AddTransformer: {Attrs: []Attr{
		idAttr,
		{Name: "type", Type: TypeClosedEnum, Allowed: entity.WindingConfigs()},
		{Name: "rated_MVA", Type: TypePositive},
		{Name: "vector_group", Type: TypeString},
		{Name: "percentZ", Type: TypePositive},
	}},
	AddLine: {Attrs: []Attr{
		idAttr,
		kvAttr,
		{Name: "type", Type: TypeClosedEnum, Allowed: entity.LineConstructions()},
		{Name: "length_km", Type: TypeNonNegative},
		{Name: "thermal_A", Type: TypePositive},
	}},
	AddCoupler: {Attrs: []Attr{
		idAttr,
		kvAttr,
		{Name: "from_bus", Type: TypeID},
		{Name: "to_bus", Type: TypeID},
	}},
	Connect: {Attrs: []Attr{{Name: "series", Type: TypeIDList}}},
	AppendToBay: {Attrs: []Attr{
		{Name: "bay_id", Type: TypeID},
		{Name: "object_id", Type: TypeID},
	}},
	Validate: {},
	EmitSpec: {},
}

// SchemaOf returns the attribute schema of k.
func SchemaOf(k Kind) Schema {
	return schemas[k]
}
