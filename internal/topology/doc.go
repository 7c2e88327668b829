// Package topology holds the two relations built from a document's
// connection commands: the electrical connection graph and the
// administrative bay membership map.
//
// The graph is an undirected multigraph over entity identifiers. A series
// declaration [e1, e2, ..., en] contributes the path (e1,e2), (e2,e3), ...,
// (e(n-1),en), never a clique. Edges are identifier pairs kept in
// declaration order; duplicates and self-loops are stored so that emission
// can reproduce them, while Pairs and Neighbors collapse them for
// validation.
//
// Builder applies the commands, resolving every identifier against the
// entity registry before touching either structure.
package topology
