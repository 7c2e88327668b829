package topology

import "github.com/hashicorp/hcl/v2"

// Edge is one undirected connection between two entities. Series is the
// zero-based index of the CONNECT statement that declared it.
type Edge struct {
	From   string
	To     string
	Series int
	Range  hcl.Range
}

// Touches reports whether id is an end of e.
func (e Edge) Touches(id string) bool {
	return e.From == id || e.To == id
}

// Other returns the end of e opposite id.
func (e Edge) Other(id string) string {
	if e.From == id {
		return e.To
	}
	return e.From
}

// IsLoop reports whether both ends are the same entity.
func (e Edge) IsLoop() bool {
	return e.From == e.To
}

// Pair is an unordered pair of distinct entities, stored in the order of
// the edge that first joined them.
type Pair struct {
	A, B string
}

// Graph is an undirected multigraph keyed by entity identifier. Edges are
// kept in declaration order; duplicates and self-loops are stored as given.
type Graph struct {
	edges    []Edge
	incident map[string][]int
	series   int
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{incident: make(map[string][]int)}
}

// AddSeries appends the path edges of one series declaration and returns
// the series index assigned to it.
func (g *Graph) AddSeries(ids []string, rng hcl.Range) int {
	idx := g.series
	g.series++
	for i := 0; i+1 < len(ids); i++ {
		g.addEdge(Edge{From: ids[i], To: ids[i+1], Series: idx, Range: rng})
	}
	return idx
}

func (g *Graph) addEdge(e Edge) {
	n := len(g.edges)
	g.edges = append(g.edges, e)
	g.incident[e.From] = append(g.incident[e.From], n)
	if !e.IsLoop() {
		g.incident[e.To] = append(g.incident[e.To], n)
	}
}

// Edges returns all edges in declaration order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Incident returns the edges touching id, in declaration order.
func (g *Graph) Incident(id string) []Edge {
	idx := g.incident[id]
	out := make([]Edge, 0, len(idx))
	for _, i := range idx {
		out = append(out, g.edges[i])
	}
	return out
}

// Degree returns the number of edges touching id. A self-loop counts once.
func (g *Graph) Degree(id string) int {
	return len(g.incident[id])
}

// Neighbors returns the distinct entities adjacent to id, excluding id
// itself, in the order they were first connected.
func (g *Graph) Neighbors(id string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, i := range g.incident[id] {
		e := g.edges[i]
		if e.IsLoop() {
			continue
		}
		other := e.Other(id)
		if !seen[other] {
			seen[other] = true
			out = append(out, other)
		}
	}
	return out
}

// Pairs returns each unordered pair of distinct connected entities once, in
// order of first declaration. Duplicate edges and self-loops collapse.
func (g *Graph) Pairs() []Pair {
	seen := make(map[Pair]bool)
	var out []Pair
	for _, e := range g.edges {
		if e.IsLoop() {
			continue
		}
		key := Pair{A: e.From, B: e.To}
		if key.A > key.B {
			key.A, key.B = key.B, key.A
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, Pair{A: e.From, B: e.To})
	}
	return out
}

// EdgeBetween returns the first declared edge joining a and b.
func (g *Graph) EdgeBetween(a, b string) (Edge, bool) {
	for _, i := range g.incident[a] {
		e := g.edges[i]
		if e.Other(a) == b {
			return e, true
		}
	}
	return Edge{}, false
}
