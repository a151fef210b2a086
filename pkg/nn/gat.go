package nn

import (
	"fmt"
	"math/rand"

	"github.com/dd0wney/graphnet/pkg/graph"
	"github.com/dd0wney/graphnet/pkg/matrix"
)

// GAT is the self-attentive aggregation layer with an explicit
// self-loop term.
//
// Neighbors are projected with Wproj, the node itself with a separate
// Wself (both bias-free). Attention logits
//
//	e[u->v]   = LeakyReLU( a . concat(z[u], z[v]) )
//	e_self[v] = LeakyReLU( a_self . z_self[v] )
//
// are normalized with one joint softmax per node over all incoming
// edges plus the self term, so attention weights always sum to 1 and a
// node with no incoming edges collapses to weight 1 on itself. The
// self term is parameterized independently instead of mutating the
// topology with a self-edge. Attention runs over the graph's stored
// edge set as-is, both direction flags included.
type GAT struct {
	InDim  int
	OutDim int
	Act    Activation

	proj *Linear // neighbor projection, no bias
	self *Linear // self projection, no bias

	attn     *Param // 1 x 2*OutDim edge attention vector
	attnSelf *Param // 1 x OutDim self attention vector
}

// NewGAT creates a self-attentive layer with Glorot-initialized
// weights drawn from rng
func NewGAT(inDim, outDim int, act Activation, rng *rand.Rand) *GAT {
	l := &GAT{
		InDim:    inDim,
		OutDim:   outDim,
		Act:      act,
		proj:     NewLinear("gat.proj", inDim, outDim, false, rng),
		self:     NewLinear("gat.self", inDim, outDim, false, rng),
		attn:     newParam("gat.attn", 1, 2*outDim),
		attnSelf: newParam("gat.attn_self", 1, outDim),
	}
	glorotInit(l.attn.Value, 2*outDim, 1, rng)
	glorotInit(l.attnSelf.Value, outDim, 1, rng)
	return l
}

// GATCache holds the intermediate values Backward needs
type GATCache struct {
	input *matrix.Matrix // layer input H
	z     *matrix.Matrix // neighbor projections
	zSelf *matrix.Matrix // self projections
	pre   *matrix.Matrix // pre-activation aggregate

	edgePre   []float64 // per edge: attention logit before LeakyReLU
	selfPre   []float64 // per node: self logit before LeakyReLU
	edgeAlpha []float64 // per edge: softmax attention weight
	selfAlpha []float64 // per node: softmax weight of the self term
}

// Forward computes attention-weighted embeddings for every node in g.
// Returns ErrDimensionMismatch on width disagreement and
// ErrNumericInstability if the output contains NaN or Inf.
func (l *GAT) Forward(g *graph.Graph, h *matrix.Matrix) (*matrix.Matrix, *GATCache, error) {
	if h.Cols != l.InDim {
		return nil, nil, fmt.Errorf("%w: embeddings have width %d, GAT expects %d",
			matrix.ErrDimensionMismatch, h.Cols, l.InDim)
	}
	if h.Rows != g.NumNodes {
		return nil, nil, fmt.Errorf("%w: %d embedding rows for %d nodes",
			matrix.ErrDimensionMismatch, h.Rows, g.NumNodes)
	}

	z, err := l.proj.Forward(h)
	if err != nil {
		return nil, nil, err
	}
	zSelf, err := l.self.Forward(h)
	if err != nil {
		return nil, nil, err
	}

	cache := &GATCache{
		input:     h,
		z:         z,
		zSelf:     zSelf,
		edgePre:   make([]float64, g.NumEdges()),
		selfPre:   make([]float64, g.NumNodes),
		edgeAlpha: make([]float64, g.NumEdges()),
		selfAlpha: make([]float64, g.NumNodes),
	}

	a := l.attn.Value.Row(0)
	aSrc, aDst := a[:l.OutDim], a[l.OutDim:]
	for i, e := range g.Edges {
		cache.edgePre[i] = matrix.Dot(aSrc, z.Row(e.Src)) + matrix.Dot(aDst, z.Row(e.Dst))
	}
	aSelf := l.attnSelf.Value.Row(0)
	for v := 0; v < g.NumNodes; v++ {
		cache.selfPre[v] = matrix.Dot(aSelf, zSelf.Row(v))
	}

	// Joint softmax per node over incoming-edge logits plus the self
	// logit. The self term is always present, so the distribution is
	// never empty.
	pre := matrix.New(g.NumNodes, l.OutDim)
	for v := 0; v < g.NumNodes; v++ {
		incoming := g.IncomingEdges(v)
		logits := make([]float64, len(incoming)+1)
		for i, idx := range incoming {
			logits[i] = leakyReLU(cache.edgePre[idx])
		}
		logits[len(incoming)] = leakyReLU(cache.selfPre[v])
		matrix.Softmax(logits)

		row := pre.Row(v)
		for i, idx := range incoming {
			cache.edgeAlpha[idx] = logits[i]
			matrix.Axpy(logits[i], z.Row(g.Edges[idx].Src), row)
		}
		cache.selfAlpha[v] = logits[len(incoming)]
		matrix.Axpy(cache.selfAlpha[v], zSelf.Row(v), row)
	}
	cache.pre = pre

	out := matrix.New(pre.Rows, pre.Cols)
	for i, v := range pre.Data {
		out.Data[i] = l.Act.Apply(v)
	}
	if err := out.CheckFinite("gat"); err != nil {
		return nil, nil, err
	}
	return out, cache, nil
}

// Backward accumulates parameter gradients and returns the gradient
// with respect to the input embeddings
func (l *GAT) Backward(g *graph.Graph, cache *GATCache, dOut *matrix.Matrix) (*matrix.Matrix, error) {
	if dOut.Cols != l.OutDim || dOut.Rows != g.NumNodes {
		return nil, fmt.Errorf("%w: gradient is %dx%d, GAT expects %dx%d",
			matrix.ErrDimensionMismatch, dOut.Rows, dOut.Cols, g.NumNodes, l.OutDim)
	}

	dPre := matrix.New(dOut.Rows, dOut.Cols)
	for i, v := range dOut.Data {
		dPre.Data[i] = v * l.Act.Derivative(cache.pre.Data[i])
	}

	dz := matrix.New(g.NumNodes, l.OutDim)
	dzSelf := matrix.New(g.NumNodes, l.OutDim)
	a := l.attn.Value.Row(0)
	aSrc, aDst := a[:l.OutDim], a[l.OutDim:]
	gradA := l.attn.Grad.Row(0)
	gradASrc, gradADst := gradA[:l.OutDim], gradA[l.OutDim:]
	aSelf := l.attnSelf.Value.Row(0)
	gradASelf := l.attnSelf.Grad.Row(0)

	for v := 0; v < g.NumNodes; v++ {
		incoming := g.IncomingEdges(v)
		ds := dPre.Row(v)

		// Gradients through the weighted sum: d(alpha) comes from the
		// aggregated value, d(z) from the weight.
		dAlpha := make([]float64, len(incoming)+1)
		alpha := make([]float64, len(incoming)+1)
		for i, idx := range incoming {
			u := g.Edges[idx].Src
			dAlpha[i] = matrix.Dot(ds, cache.z.Row(u))
			alpha[i] = cache.edgeAlpha[idx]
			matrix.Axpy(cache.edgeAlpha[idx], ds, dz.Row(u))
		}
		selfPos := len(incoming)
		dAlpha[selfPos] = matrix.Dot(ds, cache.zSelf.Row(v))
		alpha[selfPos] = cache.selfAlpha[v]
		matrix.Axpy(cache.selfAlpha[v], ds, dzSelf.Row(v))

		// Softmax backward over the joint distribution
		dot := 0.0
		for i := range alpha {
			dot += alpha[i] * dAlpha[i]
		}

		for i, idx := range incoming {
			de := alpha[i] * (dAlpha[i] - dot)
			dp := de * leakyReLUDeriv(cache.edgePre[idx])
			u := g.Edges[idx].Src
			matrix.Axpy(dp, cache.z.Row(u), gradASrc)
			matrix.Axpy(dp, cache.z.Row(v), gradADst)
			matrix.Axpy(dp, aSrc, dz.Row(u))
			matrix.Axpy(dp, aDst, dz.Row(v))
		}

		deSelf := alpha[selfPos] * (dAlpha[selfPos] - dot)
		dpSelf := deSelf * leakyReLUDeriv(cache.selfPre[v])
		matrix.Axpy(dpSelf, cache.zSelf.Row(v), gradASelf)
		matrix.Axpy(dpSelf, aSelf, dzSelf.Row(v))
	}

	dIn, err := l.proj.Backward(cache.input, dz)
	if err != nil {
		return nil, err
	}
	dInSelf, err := l.self.Backward(cache.input, dzSelf)
	if err != nil {
		return nil, err
	}
	for i, v := range dInSelf.Data {
		dIn.Data[i] += v
	}
	return dIn, nil
}

// Params returns the layer's learnable parameters
func (l *GAT) Params() []*Param {
	params := append(l.proj.Params(), l.self.Params()...)
	return append(params, l.attn, l.attnSelf)
}
