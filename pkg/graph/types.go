package graph

import "github.com/dd0wney/graphnet/pkg/matrix"

// Direction tags an edge as original or mirrored
type Direction uint8

const (
	// DirForward marks an edge as it appeared in the input
	DirForward Direction = 0
	// DirReverse marks the synthesized mirror of a forward edge
	DirReverse Direction = 1
)

// EdgeTriple is a raw directed weighted edge as read from an edge list
type EdgeTriple struct {
	Src    int
	Dst    int
	Weight float64
}

// Edge is a directed weighted edge inside a built graph, tagged with
// its direction flag. Mirrored edges carry the same weight as their
// forward counterpart.
type Edge struct {
	Src    int
	Dst    int
	Weight float64
	Dir    Direction
}

// Graph is an immutable directed weighted graph over node indices
// 0..NumNodes-1 with a dense per-node feature matrix. Edges holds the
// bidirectional edge set (forward + mirror); incoming adjacency is
// indexed CSR-style so per-node aggregation never scans the full edge
// set.
type Graph struct {
	NumNodes     int
	FeatureWidth int
	Features     *matrix.Matrix

	Edges []Edge

	// CSR incoming index: inEdges[inOffsets[v]:inOffsets[v+1]] are the
	// indices into Edges of all edges with Dst == v, sorted by Src.
	inOffsets []int
	inEdges   []int
}

// IncomingEdges returns the indices into g.Edges of all edges whose
// destination is v, sorted by source node
func (g *Graph) IncomingEdges(v int) []int {
	return g.inEdges[g.inOffsets[v]:g.inOffsets[v+1]]
}

// NumEdges returns the total number of directed edges including mirrors
func (g *Graph) NumEdges() int {
	return len(g.Edges)
}

// EdgeList re-extracts the original (forward) edge set, in input order
func (g *Graph) EdgeList() []EdgeTriple {
	out := make([]EdgeTriple, 0, len(g.Edges)/2)
	for _, e := range g.Edges {
		if e.Dir == DirForward {
			out = append(out, EdgeTriple{Src: e.Src, Dst: e.Dst, Weight: e.Weight})
		}
	}
	return out
}

// Span is a half-open node index range [Start, End) identifying one
// member graph inside a batch
type Span struct {
	Start int
	End   int
}

// Len returns the number of nodes in the span
func (s Span) Len() int {
	return s.End - s.Start
}

// Batch is a disjoint union of several graphs packed into one Graph
// with offset node indices. Spans records, per member graph, its node
// index range for un-batching at readout.
type Batch struct {
	Graph *Graph
	Spans []Span
}

// Size returns the number of member graphs
func (b *Batch) Size() int {
	return len(b.Spans)
}
