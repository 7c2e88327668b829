package command

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Kind enumerates the closed command vocabulary.
type Kind int

const (
	AddBus Kind = iota + 1
	AddBay
	AddBreaker
	AddDisconnector
	AddTransformer
	AddLine
	AddCoupler
	Connect
	AppendToBay
	Validate
	EmitSpec
)

var kindNames = map[Kind]string{
	AddBus:          "ADD_BUS",
	AddBay:          "ADD_BAY",
	AddBreaker:      "ADD_BREAKER",
	AddDisconnector: "ADD_DISCONNECTOR",
	AddTransformer:  "ADD_TRANSFORMER",
	AddLine:         "ADD_LINE",
	AddCoupler:      "ADD_COUPLER",
	Connect:         "CONNECT",
	AppendToBay:     "APPEND_TO_BAY",
	Validate:        "VALIDATE",
	EmitSpec:        "EMIT_SPEC",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		m[name] = k
	}
	return m
}()

// String returns the command name as written in documents.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Lookup resolves a command name. Names are case-sensitive.
func Lookup(name string) (Kind, bool) {
	k, ok := kindsByName[name]
	return k, ok
}

// IsDefinition reports whether k declares an entity.
func (k Kind) IsDefinition() bool {
	return k >= AddBus && k <= AddCoupler
}

// Command is one typed statement of a document. Attrs holds values already
// bound to their schema types: cty.Number, cty.String or cty.List(cty.String).
type Command struct {
	Kind  Kind
	Attrs map[string]cty.Value
	Range hcl.Range
	// Text is the source text of the statement, for diagnostics.
	Text string
}

// Line returns the 1-based source line of the command.
func (c *Command) Line() int {
	return c.Range.Start.Line
}

// String returns a string attribute. Bound commands always carry every
// required attribute, so a missing one is a programming error.
func (c *Command) String(name string) string {
	v := c.attr(name)
	var s string
	if err := gocty.FromCtyValue(v, &s); err != nil {
		panic(fmt.Sprintf("command %s: attribute %q: %v", c.Kind, name, err))
	}
	return s
}

// Number returns a numeric attribute as float64.
func (c *Command) Number(name string) float64 {
	v := c.attr(name)
	var f float64
	if err := gocty.FromCtyValue(v, &f); err != nil {
		panic(fmt.Sprintf("command %s: attribute %q: %v", c.Kind, name, err))
	}
	return f
}

// IDs returns a list attribute as identifiers in source order.
func (c *Command) IDs(name string) []string {
	v := c.attr(name)
	var ids []string
	if err := gocty.FromCtyValue(v, &ids); err != nil {
		panic(fmt.Sprintf("command %s: attribute %q: %v", c.Kind, name, err))
	}
	return ids
}

func (c *Command) attr(name string) cty.Value {
	v, ok := c.Attrs[name]
	if !ok {
		panic(fmt.Sprintf("command %s has no attribute %q", c.Kind, name))
	}
	return v
}
