package graph

import (
	"fmt"
	"math"
	"sort"

	"github.com/dd0wney/graphnet/pkg/matrix"
)

// Build constructs a graph from a raw edge list.
//
// Node count is max observed id + 1; ids in that range that never
// appear in an edge become isolated nodes. Every input edge is emitted
// twice: once as-is with DirForward and once mirrored with DirReverse,
// both carrying the input weight. Node features are one-hot: node i for
// i < featureWidth gets column i, every later node shares the last
// column.
//
// Returns ErrEmptyGraph for an empty edge list, ErrBadNodeID or
// ErrBadWeight for invalid triples.
func Build(edges []EdgeTriple, featureWidth int) (*Graph, error) {
	if len(edges) == 0 {
		return nil, ErrEmptyGraph
	}
	if featureWidth < 1 {
		return nil, fmt.Errorf("%w: feature width %d", matrix.ErrDimensionMismatch, featureWidth)
	}

	maxID := 0
	for i, e := range edges {
		if e.Src < 0 || e.Dst < 0 {
			return nil, fmt.Errorf("%w: edge %d (%d -> %d)", ErrBadNodeID, i, e.Src, e.Dst)
		}
		if e.Weight < 0 || math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) {
			return nil, fmt.Errorf("%w: edge %d weight %v", ErrBadWeight, i, e.Weight)
		}
		if e.Src > maxID {
			maxID = e.Src
		}
		if e.Dst > maxID {
			maxID = e.Dst
		}
	}

	g := &Graph{
		NumNodes:     maxID + 1,
		FeatureWidth: featureWidth,
		Features:     matrix.New(maxID+1, featureWidth),
		Edges:        make([]Edge, 0, 2*len(edges)),
	}

	// One-hot identity block for the first featureWidth nodes, shared
	// last column for the remainder. Exactly one active entry per row.
	for v := 0; v < g.NumNodes; v++ {
		col := v
		if col >= featureWidth {
			col = featureWidth - 1
		}
		g.Features.Set(v, col, 1)
	}

	for _, e := range edges {
		g.Edges = append(g.Edges,
			Edge{Src: e.Src, Dst: e.Dst, Weight: e.Weight, Dir: DirForward},
			Edge{Src: e.Dst, Dst: e.Src, Weight: e.Weight, Dir: DirReverse},
		)
	}

	g.buildIncomingIndex()
	return g, nil
}

// buildIncomingIndex populates the CSR incoming-edge index
func (g *Graph) buildIncomingIndex() {
	g.inOffsets = make([]int, g.NumNodes+1)
	g.inEdges = make([]int, len(g.Edges))

	counts := make([]int, g.NumNodes)
	for _, e := range g.Edges {
		counts[e.Dst]++
	}
	for v := 0; v < g.NumNodes; v++ {
		g.inOffsets[v+1] = g.inOffsets[v] + counts[v]
	}

	next := make([]int, g.NumNodes)
	copy(next, g.inOffsets[:g.NumNodes])
	for i, e := range g.Edges {
		g.inEdges[next[e.Dst]] = i
		next[e.Dst]++
	}

	// Sort each node's bucket by source for deterministic iteration
	for v := 0; v < g.NumNodes; v++ {
		bucket := g.inEdges[g.inOffsets[v]:g.inOffsets[v+1]]
		sort.Slice(bucket, func(a, b int) bool {
			return g.Edges[bucket[a]].Src < g.Edges[bucket[b]].Src
		})
	}
}
