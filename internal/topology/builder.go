package topology

import (
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/substationc/internal/diag"
	"github.com/vk/substationc/internal/entity"
)

// Resolver looks up entities by identifier. *registry.Registry implements it.
type Resolver interface {
	Resolve(id string) (entity.Entity, error)
}

// Builder applies connection and bay-membership commands to a Graph and a
// BayMap, checking every identifier against a Resolver first.
type Builder struct {
	resolver Resolver
	graph    *Graph
	bays     *BayMap
}

// NewBuilder creates a Builder over an empty graph and bay map.
func NewBuilder(r Resolver) *Builder {
	return &Builder{resolver: r, graph: NewGraph(), bays: NewBayMap()}
}

// Graph returns the connection graph built so far.
func (b *Builder) Graph() *Graph { return b.graph }

// Bays returns the bay map built so far.
func (b *Builder) Bays() *BayMap { return b.bays }

// Connect adds the path edges of series. Every identifier is resolved before
// any edge is added, so a failing declaration leaves the graph unchanged.
func (b *Builder) Connect(series []string, rng hcl.Range) error {
	if len(series) < 2 {
		return fmt.Errorf("series needs at least two identifiers, got %d", len(series))
	}
	for _, id := range series {
		if _, err := b.resolve(id, rng); err != nil {
			return err
		}
	}
	b.graph.AddSeries(series, rng)
	return nil
}

// AppendToBay records objectID as a member of bayID. bayID must name a Bay
// and objectID an entity that is neither a Bus nor a Bay. Re-applying an
// existing membership is a no-op; moving an object to another bay fails.
func (b *Builder) AppendToBay(bayID, objectID string, rng hcl.Range) error {
	bay, err := b.resolve(bayID, rng)
	if err != nil {
		return err
	}
	if bay.Kind() != entity.KindBay {
		return &diag.InvalidBayAssignmentError{
			BayID:    bayID,
			ObjectID: objectID,
			Reason:   fmt.Sprintf("%q is a %s, not a BAY", bayID, bay.Kind()),
			Range:    rng,
		}
	}

	obj, err := b.resolve(objectID, rng)
	if err != nil {
		return err
	}
	switch obj.Kind() {
	case entity.KindBus, entity.KindBay:
		return &diag.InvalidBayAssignmentError{
			BayID:    bayID,
			ObjectID: objectID,
			Reason:   fmt.Sprintf("a bay cannot contain a %s", obj.Kind()),
			Range:    rng,
		}
	}

	if current, ok := b.bays.Assign(bayID, objectID); !ok {
		return &diag.InvalidBayAssignmentError{
			BayID:    bayID,
			ObjectID: objectID,
			Reason:   fmt.Sprintf("already a member of bay %q", current),
			Range:    rng,
		}
	}
	return nil
}

// resolve looks up id and attaches rng to an unknown-identifier error.
func (b *Builder) resolve(id string, rng hcl.Range) (entity.Entity, error) {
	e, err := b.resolver.Resolve(id)
	if err != nil {
		var unknown *diag.UnknownIdentifierError
		if errors.As(err, &unknown) {
			return nil, &diag.UnknownIdentifierError{ID: unknown.ID, Range: rng}
		}
		return nil, err
	}
	return e, nil
}
