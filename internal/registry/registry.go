package registry

import (
	"github.com/vk/substationc/internal/diag"
	"github.com/vk/substationc/internal/entity"
)

// Registry holds the entities of one document, indexed by identifier and
// kept in creation order. It is owned by a single compilation and is not
// safe for concurrent use.
type Registry struct {
	entities []entity.Entity
	index    map[string]int
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Define adds e to the registry. It fails if the identifier is taken by an
// entity of any kind, if an identifier referenced by e is not yet defined,
// or if e's attributes violate their constraints. Nothing is stored on
// failure.
func (r *Registry) Define(e entity.Entity) error {
	if prev, ok := r.Lookup(e.ID()); ok {
		return &diag.DuplicateIdentifierError{
			ID:       e.ID(),
			Kind:     string(prev.Kind()),
			Previous: prev.Source(),
			Range:    e.Source(),
		}
	}

	if problems := entity.Check(e); len(problems) > 0 {
		return &diag.InvalidAttributeError{ID: e.ID(), Problems: problems, Range: e.Source()}
	}

	if referrer, ok := e.(entity.Referrer); ok {
		for _, ref := range referrer.References() {
			if _, defined := r.index[ref.ID]; !defined {
				return &diag.ForwardReferenceError{
					From:      e.ID(),
					Attribute: ref.Attribute,
					ID:        ref.ID,
					Range:     e.Source(),
				}
			}
		}
	}

	r.index[e.ID()] = len(r.entities)
	r.entities = append(r.entities, e)
	return nil
}

// Resolve returns the entity named id.
func (r *Registry) Resolve(id string) (entity.Entity, error) {
	if e, ok := r.Lookup(id); ok {
		return e, nil
	}
	return nil, &diag.UnknownIdentifierError{ID: id}
}

// Lookup returns the entity named id and whether it exists.
func (r *Registry) Lookup(id string) (entity.Entity, bool) {
	i, ok := r.index[id]
	if !ok {
		return nil, false
	}
	return r.entities[i], true
}

// All returns the entities in creation order. The slice is a copy.
func (r *Registry) All() []entity.Entity {
	out := make([]entity.Entity, len(r.entities))
	copy(out, r.entities)
	return out
}

// OfKind returns the entities of kind k in creation order.
func (r *Registry) OfKind(k entity.Kind) []entity.Entity {
	var out []entity.Entity
	for _, e := range r.entities {
		if e.Kind() == k {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of defined entities.
func (r *Registry) Len() int {
	return len(r.entities)
}
