package model

import (
	"fmt"
	"math/rand"

	"github.com/dd0wney/graphnet/pkg/graph"
	"github.com/dd0wney/graphnet/pkg/matrix"
	"github.com/dd0wney/graphnet/pkg/nn"
)

// Classifier is the full graph classification model: a BiGCN layer,
// a GAT layer with explicit self-loop, the fixed-width readout, and a
// two-layer fully connected head producing one logit per graph.
//
// Forward is a pure function of (parameters, batch): it never mutates
// the batch and every call allocates fresh embedding matrices, so
// batches can be processed back to back without shared state.
type Classifier struct {
	cfg Config

	bigcn *nn.BiGCN
	gat   *nn.GAT
	fc1   *nn.Linear
	fc2   *nn.Linear
}

// headActivation sits between the two fully connected head layers
const headActivation = nn.ActivationReLU

// New builds a classifier with Glorot-initialized parameters drawn
// from rng. The configuration is validated first.
func New(cfg Config, rng *rand.Rand) (*Classifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	bigcnAct, err := nn.ParseActivation(cfg.BiGCN.Activation)
	if err != nil {
		return nil, err
	}
	gatAct, err := nn.ParseActivation(cfg.GAT.Activation)
	if err != nil {
		return nil, err
	}

	return &Classifier{
		cfg:   cfg,
		bigcn: nn.NewBiGCN(cfg.BiGCN.InDim, cfg.BiGCN.OutDim, bigcnAct, rng),
		gat:   nn.NewGAT(cfg.GAT.InDim, cfg.GAT.OutDim, gatAct, rng),
		fc1:   nn.NewLinear("head.fc1", cfg.ReadoutWidth(), cfg.Head.HiddenDim, true, rng),
		fc2:   nn.NewLinear("head.fc2", cfg.Head.HiddenDim, cfg.Head.NClasses, true, rng),
	}, nil
}

// Config returns the model configuration
func (c *Classifier) Config() Config {
	return c.cfg
}

// Cache holds all intermediate forward values one Backward consumes
type Cache struct {
	batch *graph.Batch

	bigcnCache *nn.BiGCNCache
	gatCache   *nn.GATCache

	flat     *matrix.Matrix // readout output
	rdCache  *readoutCache
	hidden   *matrix.Matrix // fc1 pre-activation
	hiddenAc *matrix.Matrix // fc1 activated
}

// Forward runs the stacked layers and readout over a batch, returning
// one row of logits per member graph, in batch order.
func (c *Classifier) Forward(b *graph.Batch) (*matrix.Matrix, *Cache, error) {
	h1, bigcnCache, err := c.bigcn.Forward(b.Graph, b.Graph.Features)
	if err != nil {
		return nil, nil, fmt.Errorf("bigcn layer: %w", err)
	}

	h2, gatCache, err := c.gat.Forward(b.Graph, h1)
	if err != nil {
		return nil, nil, fmt.Errorf("gat layer: %w", err)
	}

	flat, rdCache, err := readout(h2, b.Spans, c.cfg.FeatureWidth-1)
	if err != nil {
		return nil, nil, err
	}

	hidden, err := c.fc1.Forward(flat)
	if err != nil {
		return nil, nil, fmt.Errorf("head fc1: %w", err)
	}
	hiddenAc := matrix.New(hidden.Rows, hidden.Cols)
	for i, v := range hidden.Data {
		hiddenAc.Data[i] = headActivation.Apply(v)
	}

	logits, err := c.fc2.Forward(hiddenAc)
	if err != nil {
		return nil, nil, fmt.Errorf("head fc2: %w", err)
	}
	if err := logits.CheckFinite("classifier head"); err != nil {
		return nil, nil, err
	}

	cache := &Cache{
		batch:      b,
		bigcnCache: bigcnCache,
		gatCache:   gatCache,
		flat:       flat,
		rdCache:    rdCache,
		hidden:     hidden,
		hiddenAc:   hiddenAc,
	}
	return logits, cache, nil
}

// Backward accumulates parameter gradients for the given per-graph
// logit gradients. Input-feature gradients are discarded: the one-hot
// node features are not learnable.
func (c *Classifier) Backward(cache *Cache, dLogits *matrix.Matrix) error {
	dHiddenAc, err := c.fc2.Backward(cache.hiddenAc, dLogits)
	if err != nil {
		return fmt.Errorf("head fc2 backward: %w", err)
	}

	dHidden := matrix.New(dHiddenAc.Rows, dHiddenAc.Cols)
	for i, v := range dHiddenAc.Data {
		dHidden.Data[i] = v * headActivation.Derivative(cache.hidden.Data[i])
	}

	dFlat, err := c.fc1.Backward(cache.flat, dHidden)
	if err != nil {
		return fmt.Errorf("head fc1 backward: %w", err)
	}

	dh2 := readoutBackward(dFlat, cache.batch.Spans, c.cfg.FeatureWidth-1,
		cache.batch.Graph.NumNodes, cache.rdCache)

	dh1, err := c.gat.Backward(cache.batch.Graph, cache.gatCache, dh2)
	if err != nil {
		return fmt.Errorf("gat backward: %w", err)
	}

	if _, err := c.bigcn.Backward(cache.batch.Graph, cache.bigcnCache, dh1); err != nil {
		return fmt.Errorf("bigcn backward: %w", err)
	}
	return nil
}

// Probabilities maps binary logits to default probabilities with a
// deterministic sigmoid, in batch order
func Probabilities(logits *matrix.Matrix) []float64 {
	probs := make([]float64, logits.Rows)
	for i := range probs {
		probs[i] = matrix.Sigmoid(logits.At(i, 0))
	}
	return probs
}

// Params returns every learnable parameter of the model
func (c *Classifier) Params() []*nn.Param {
	var params []*nn.Param
	params = append(params, c.bigcn.Params()...)
	params = append(params, c.gat.Params()...)
	params = append(params, c.fc1.Params()...)
	params = append(params, c.fc2.Params()...)
	return params
}

// ZeroGrad resets all accumulated parameter gradients
func (c *Classifier) ZeroGrad() {
	for _, p := range c.Params() {
		p.ZeroGrad()
	}
}
