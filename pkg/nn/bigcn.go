package nn

import (
	"fmt"
	"math/rand"

	"github.com/dd0wney/graphnet/pkg/graph"
	"github.com/dd0wney/graphnet/pkg/matrix"
)

// BiGCN is the bidirectional weighted aggregation layer.
//
// For each node v it sums incoming messages H[u]*weight(u->v),
// partitioned by the edge direction flag, then fuses them with the
// node's own embedding:
//
//	H'[v] = act( Linear( concat(H[v], sum_dir0, sum_dir1) ) )
//
// The sums run over the graph's bidirectional edge set, so "dir0"
// carries original in-edges and "dir1" carries mirrored out-edges.
// Summation is commutative: neighbor enumeration order never changes
// the output, and nodes with no neighbors of a direction contribute a
// zero vector for that slot.
type BiGCN struct {
	InDim  int
	OutDim int
	Act    Activation

	fuse *Linear // 3*InDim -> OutDim
}

// NewBiGCN creates a bidirectional GCN layer with Glorot-initialized
// weights drawn from rng
func NewBiGCN(inDim, outDim int, act Activation, rng *rand.Rand) *BiGCN {
	return &BiGCN{
		InDim:  inDim,
		OutDim: outDim,
		Act:    act,
		fuse:   NewLinear("bigcn.fuse", 3*inDim, outDim, true, rng),
	}
}

// BiGCNCache holds the intermediate values Backward needs
type BiGCNCache struct {
	concat *matrix.Matrix // N x 3*InDim: [H | sum_dir0 | sum_dir1]
	pre    *matrix.Matrix // N x OutDim pre-activation
}

// Forward computes updated node embeddings for every node in g.
// Returns ErrDimensionMismatch if h width disagrees with InDim and
// ErrNumericInstability if the output contains NaN or Inf.
func (l *BiGCN) Forward(g *graph.Graph, h *matrix.Matrix) (*matrix.Matrix, *BiGCNCache, error) {
	if h.Cols != l.InDim {
		return nil, nil, fmt.Errorf("%w: embeddings have width %d, BiGCN expects %d",
			matrix.ErrDimensionMismatch, h.Cols, l.InDim)
	}
	if h.Rows != g.NumNodes {
		return nil, nil, fmt.Errorf("%w: %d embedding rows for %d nodes",
			matrix.ErrDimensionMismatch, h.Rows, g.NumNodes)
	}

	// Column layout: [0,InDim) own embedding, [InDim,2*InDim) dir-0
	// message sum, [2*InDim,3*InDim) dir-1 message sum.
	concat := matrix.New(g.NumNodes, 3*l.InDim)
	for v := 0; v < g.NumNodes; v++ {
		copy(concat.Row(v)[:l.InDim], h.Row(v))
	}
	for _, e := range g.Edges {
		offset := l.InDim * (1 + int(e.Dir))
		dst := concat.Row(e.Dst)[offset : offset+l.InDim]
		matrix.Axpy(e.Weight, h.Row(e.Src), dst)
	}

	pre, err := l.fuse.Forward(concat)
	if err != nil {
		return nil, nil, err
	}

	out := matrix.New(pre.Rows, pre.Cols)
	for i, v := range pre.Data {
		out.Data[i] = l.Act.Apply(v)
	}
	if err := out.CheckFinite("bigcn"); err != nil {
		return nil, nil, err
	}

	return out, &BiGCNCache{concat: concat, pre: pre}, nil
}

// Backward accumulates parameter gradients and returns the gradient
// with respect to the input embeddings
func (l *BiGCN) Backward(g *graph.Graph, cache *BiGCNCache, dOut *matrix.Matrix) (*matrix.Matrix, error) {
	if dOut.Cols != l.OutDim || dOut.Rows != g.NumNodes {
		return nil, fmt.Errorf("%w: gradient is %dx%d, BiGCN expects %dx%d",
			matrix.ErrDimensionMismatch, dOut.Rows, dOut.Cols, g.NumNodes, l.OutDim)
	}

	dPre := matrix.New(dOut.Rows, dOut.Cols)
	for i, v := range dOut.Data {
		dPre.Data[i] = v * l.Act.Derivative(cache.pre.Data[i])
	}

	dConcat, err := l.fuse.Backward(cache.concat, dPre)
	if err != nil {
		return nil, err
	}

	dIn := matrix.New(g.NumNodes, l.InDim)
	for v := 0; v < g.NumNodes; v++ {
		matrix.Axpy(1, dConcat.Row(v)[:l.InDim], dIn.Row(v))
	}
	for _, e := range g.Edges {
		offset := l.InDim * (1 + int(e.Dir))
		src := dConcat.Row(e.Dst)[offset : offset+l.InDim]
		matrix.Axpy(e.Weight, src, dIn.Row(e.Src))
	}
	return dIn, nil
}

// Params returns the layer's learnable parameters
func (l *BiGCN) Params() []*Param {
	return l.fuse.Params()
}
