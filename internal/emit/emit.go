package emit

import (
	"github.com/vk/substationc/internal/diag"
	"github.com/vk/substationc/internal/entity"
	"github.com/vk/substationc/internal/registry"
	"github.com/vk/substationc/internal/topology"
)

// Document is the canonical, validated description of one substation.
type Document struct {
	Entities       []EntityRecord  `json:"entities" yaml:"entities"`
	Connections    []Connection    `json:"connections" yaml:"connections"`
	BayAssignments []BayAssignment `json:"bay_assignments" yaml:"bay_assignments"`
}

// EntityRecord is one declared entity with its typed attributes.
type EntityRecord struct {
	ID         string        `json:"id" yaml:"id"`
	Kind       entity.Kind   `json:"kind" yaml:"kind"`
	Attributes entity.Entity `json:"attributes" yaml:"attributes"`
}

// Connection is one undirected edge produced by a CONNECT series.
type Connection struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
	// Series is the zero-based index of the CONNECT command that added it.
	Series int `json:"series" yaml:"series"`
	Line   int `json:"line,omitempty" yaml:"line,omitempty"`
}

// BayAssignment lists the members of one bay in assignment order.
type BayAssignment struct {
	Bay     string   `json:"bay" yaml:"bay"`
	Members []string `json:"members" yaml:"members"`
}

// Emit projects the build into a Document. It refuses unless report is a
// current validation result with no errors; nothing is re-validated here.
func Emit(report *diag.Report, reg *registry.Registry, graph *topology.Graph, bays *topology.BayMap) (*Document, error) {
	if report == nil {
		return nil, &diag.EmitWithoutValidationError{}
	}
	if report.HasErrors() {
		return nil, &diag.EmitWithoutValidationError{Errors: len(report.Diagnostics.Errors())}
	}

	doc := &Document{
		Entities:       make([]EntityRecord, 0, reg.Len()),
		Connections:    make([]Connection, 0, len(graph.Edges())),
		BayAssignments: make([]BayAssignment, 0, len(bays.Bays())),
	}
	for _, e := range reg.All() {
		doc.Entities = append(doc.Entities, EntityRecord{ID: e.ID(), Kind: e.Kind(), Attributes: e})
	}
	for _, e := range graph.Edges() {
		doc.Connections = append(doc.Connections, Connection{
			From:   e.From,
			To:     e.To,
			Series: e.Series,
			Line:   e.Range.Start.Line,
		})
	}
	for _, bay := range bays.Bays() {
		doc.BayAssignments = append(doc.BayAssignments, BayAssignment{Bay: bay, Members: bays.Members(bay)})
	}
	return doc, nil
}

// Entity returns the record for id.
func (d *Document) Entity(id string) (EntityRecord, bool) {
	for _, r := range d.Entities {
		if r.ID == id {
			return r, true
		}
	}
	return EntityRecord{}, false
}

// CountKind returns how many entities of kind k the document holds.
func (d *Document) CountKind(k entity.Kind) int {
	n := 0
	for _, r := range d.Entities {
		if r.Kind == k {
			n++
		}
	}
	return n
}
