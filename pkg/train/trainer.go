package train

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/graphnet/pkg/graph"
	"github.com/dd0wney/graphnet/pkg/metrics"
	"github.com/dd0wney/graphnet/pkg/model"
)

// ErrBadOptions indicates a training configuration no run can proceed with
var ErrBadOptions = errors.New("invalid training options")

// Options configures a training run
type Options struct {
	Epochs       int
	BatchSize    int
	LearningRate float64
	Seed         int64
}

// Validate reports whether the options describe a runnable training
// configuration. Wraps ErrBadOptions.
func (o Options) Validate() error {
	if o.Epochs < 1 {
		return fmt.Errorf("%w: epochs must be at least 1, got %d", ErrBadOptions, o.Epochs)
	}
	if o.BatchSize < 1 {
		return fmt.Errorf("%w: batch size must be at least 1, got %d", ErrBadOptions, o.BatchSize)
	}
	if o.LearningRate <= 0 {
		return fmt.Errorf("%w: learning rate must be positive, got %v", ErrBadOptions, o.LearningRate)
	}
	return nil
}

// DefaultOptions returns the reference training configuration
func DefaultOptions() Options {
	return Options{
		Epochs:       20,
		BatchSize:    32,
		LearningRate: 1e-3,
		Seed:         1,
	}
}

// Result summarizes a completed training run
type Result struct {
	RunID       string
	Epochs      int
	FinalLoss   float64
	LossByEpoch []float64
	Duration    time.Duration
}

// Trainer drives minibatch training of a classifier. Shuffling uses
// an explicit seeded generator so runs are reproducible; the model,
// optimizer state and metrics registry are the only mutable state and
// none of it is shared across Run calls in flight (Run is not safe for
// concurrent use on the same Trainer).
type Trainer struct {
	model   *model.Classifier
	opts    Options
	opt     *Adam
	rng     *rand.Rand
	logger  *slog.Logger
	metrics *metrics.Registry
}

// New creates a trainer. logger must not be nil; reg may be nil to
// disable instrumentation.
func New(m *model.Classifier, opts Options, logger *slog.Logger, reg *metrics.Registry) *Trainer {
	return &Trainer{
		model:   m,
		opts:    opts,
		opt:     NewAdam(opts.LearningRate),
		rng:     rand.New(rand.NewSource(opts.Seed)),
		logger:  logger,
		metrics: reg,
	}
}

// Run trains the model on an ordered list of graphs with a parallel
// list of binary labels. Any graph or batch error aborts the run
// immediately; the trainer never skips a graph.
func (t *Trainer) Run(ctx context.Context, graphs []*graph.Graph, labels []float64) (*Result, error) {
	if err := t.opts.Validate(); err != nil {
		return nil, err
	}
	if len(graphs) != len(labels) {
		return nil, fmt.Errorf("got %d graphs for %d labels", len(graphs), len(labels))
	}
	if len(graphs) == 0 {
		return nil, graph.ErrEmptyGraph
	}

	runID := uuid.New().String()
	logger := t.logger.With("run_id", runID)
	logger.Info("training started",
		"graphs", len(graphs),
		"epochs", t.opts.Epochs,
		"batch_size", t.opts.BatchSize,
		"learning_rate", t.opts.LearningRate,
	)

	start := time.Now()
	indices := make([]int, len(graphs))
	for i := range indices {
		indices[i] = i
	}

	result := &Result{RunID: runID}
	for epoch := 1; epoch <= t.opts.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		t.rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})

		epochLoss, err := t.runEpoch(ctx, indices, graphs, labels)
		if err != nil {
			return nil, fmt.Errorf("epoch %d: %w", epoch, err)
		}
		result.LossByEpoch = append(result.LossByEpoch, epochLoss)

		if t.metrics != nil {
			t.metrics.TrainingEpochsTotal.Inc()
			t.metrics.TrainingLoss.Set(epochLoss)
		}
		logger.Info("epoch complete",
			"epoch", epoch,
			"loss", epochLoss,
			"elapsed_sec", time.Since(start).Seconds(),
		)
	}

	result.Epochs = t.opts.Epochs
	result.FinalLoss = result.LossByEpoch[len(result.LossByEpoch)-1]
	result.Duration = time.Since(start)
	logger.Info("training finished",
		"final_loss", result.FinalLoss,
		"duration_sec", result.Duration.Seconds(),
	)
	return result, nil
}

// runEpoch processes one shuffled pass over the data and returns the
// mean batch loss
func (t *Trainer) runEpoch(ctx context.Context, indices []int, graphs []*graph.Graph, labels []float64) (float64, error) {
	totalLoss := 0.0
	batches := 0

	for from := 0; from < len(indices); from += t.opts.BatchSize {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		to := from + t.opts.BatchSize
		if to > len(indices) {
			to = len(indices)
		}

		batchGraphs := make([]*graph.Graph, 0, to-from)
		batchLabels := make([]float64, 0, to-from)
		for _, idx := range indices[from:to] {
			batchGraphs = append(batchGraphs, graphs[idx])
			batchLabels = append(batchLabels, labels[idx])
		}

		batch, err := graph.NewBatch(batchGraphs)
		if err != nil {
			return 0, err
		}

		forwardStart := time.Now()
		logits, cache, err := t.model.Forward(batch)
		if err != nil {
			return 0, err
		}

		loss, grad, err := BCEWithLogits(logits, batchLabels)
		if err != nil {
			return 0, err
		}

		t.model.ZeroGrad()
		if err := t.model.Backward(cache, grad); err != nil {
			return 0, err
		}
		t.opt.Step(t.model.Params())

		totalLoss += loss
		batches++
		if t.metrics != nil {
			t.metrics.TrainingBatchesTotal.Inc()
			t.metrics.GraphsProcessedTotal.Add(float64(to - from))
			t.metrics.ForwardDuration.Observe(time.Since(forwardStart).Seconds())
		}
	}

	return totalLoss / float64(batches), nil
}

// Predict runs forward passes over graphs in order and returns one
// default probability per graph
func Predict(m *model.Classifier, graphs []*graph.Graph, batchSize int) ([]float64, error) {
	if batchSize < 1 {
		return nil, fmt.Errorf("%w: batch size must be at least 1, got %d", ErrBadOptions, batchSize)
	}
	probs := make([]float64, 0, len(graphs))
	for from := 0; from < len(graphs); from += batchSize {
		to := from + batchSize
		if to > len(graphs) {
			to = len(graphs)
		}

		batch, err := graph.NewBatch(graphs[from:to])
		if err != nil {
			return nil, err
		}
		logits, _, err := m.Forward(batch)
		if err != nil {
			return nil, err
		}
		probs = append(probs, model.Probabilities(logits)...)
	}
	return probs, nil
}

// Evaluate scores graphs in order and returns the ROC-AUC of the
// probabilities against labels, together with the probabilities
// themselves. reg may be nil to disable instrumentation.
func Evaluate(m *model.Classifier, graphs []*graph.Graph, labels []float64, batchSize int, reg *metrics.Registry) (float64, []float64, error) {
	probs, err := Predict(m, graphs, batchSize)
	if err != nil {
		return 0, nil, err
	}
	auc, err := AUC(labels, probs)
	if err != nil {
		return 0, nil, err
	}
	if reg != nil {
		reg.EvalAUC.Set(auc)
		reg.EvalRunsTotal.Inc()
	}
	return auc, probs, nil
}
