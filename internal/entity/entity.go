package entity

import "github.com/hashicorp/hcl/v2"

// Kind tags the variant of an Entity.
type Kind string

const (
	KindBus          Kind = "BUS"
	KindBay          Kind = "BAY"
	KindBreaker      Kind = "BREAKER"
	KindDisconnector Kind = "DISCONNECTOR"
	KindTransformer  Kind = "TRANSFORMER"
	KindLine         Kind = "LINE"
	KindCoupler      Kind = "COUPLER"
)

// Entity is any physical or administrative object declared in a document.
type Entity interface {
	// ID is unique across all kinds within one document.
	ID() string
	Kind() Kind
	// Source is the range of the command that declared the entity.
	Source() hcl.Range
}

// Voltaged is implemented by entities that carry a nominal voltage. The
// Transformer is deliberately absent: it is where voltage changes.
type Voltaged interface {
	Entity
	NominalKV() float64
}

// Switching is implemented by switching devices with a continuous rating.
type Switching interface {
	Entity
	ContinuousRating() float64
}

// Reference is an attribute of an entity that names another entity.
type Reference struct {
	Attribute string
	ID        string
}

// Referrer is implemented by entities whose attributes name other entities.
type Referrer interface {
	Entity
	References() []Reference
}

// Base holds the attributes common to every variant. It is embedded by
// each variant and excluded from serialised attribute sets, which carry the
// identifier separately.
type Base struct {
	Identifier string    `json:"-" yaml:"-" validate:"required,entityid"`
	Pos        hcl.Range `json:"-" yaml:"-" validate:"-"`
}

// At returns a Base for the given identifier declared at rng.
func At(id string, rng hcl.Range) Base {
	return Base{Identifier: id, Pos: rng}
}

func (b Base) ID() string        { return b.Identifier }
func (b Base) Source() hcl.Range { return b.Pos }

// IsElectrical reports whether entities of kind k take part in the
// connection graph. Bays are purely administrative.
func IsElectrical(k Kind) bool {
	return k != KindBay
}
