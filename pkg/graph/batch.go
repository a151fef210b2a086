package graph

import (
	"fmt"

	"github.com/dd0wney/graphnet/pkg/matrix"
)

// NewBatch packs several graphs into one disjoint-union graph with
// offset node indices. Member graphs must share a feature width.
// The batch records per-graph node spans so readout can separate the
// members again; forward passes over the union are equivalent to
// running each member individually because no edges cross spans.
func NewBatch(graphs []*Graph) (*Batch, error) {
	if len(graphs) == 0 {
		return nil, ErrEmptyGraph
	}

	width := graphs[0].FeatureWidth
	totalNodes := 0
	totalEdges := 0
	for i, g := range graphs {
		if g.FeatureWidth != width {
			return nil, fmt.Errorf("%w: graph %d has feature width %d, batch has %d",
				matrix.ErrDimensionMismatch, i, g.FeatureWidth, width)
		}
		totalNodes += g.NumNodes
		totalEdges += len(g.Edges)
	}

	union := &Graph{
		NumNodes:     totalNodes,
		FeatureWidth: width,
		Features:     matrix.New(totalNodes, width),
		Edges:        make([]Edge, 0, totalEdges),
	}
	spans := make([]Span, 0, len(graphs))

	offset := 0
	for _, g := range graphs {
		for v := 0; v < g.NumNodes; v++ {
			copy(union.Features.Row(offset+v), g.Features.Row(v))
		}
		for _, e := range g.Edges {
			union.Edges = append(union.Edges, Edge{
				Src:    e.Src + offset,
				Dst:    e.Dst + offset,
				Weight: e.Weight,
				Dir:    e.Dir,
			})
		}
		spans = append(spans, Span{Start: offset, End: offset + g.NumNodes})
		offset += g.NumNodes
	}

	union.buildIncomingIndex()
	return &Batch{Graph: union, Spans: spans}, nil
}
