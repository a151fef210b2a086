package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initTrainingMetrics() {
	r.TrainingEpochsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "graphnet_training_epochs_total",
			Help: "Total number of completed training epochs",
		},
	)

	r.TrainingBatchesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "graphnet_training_batches_total",
			Help: "Total number of processed minibatches",
		},
	)

	r.TrainingLoss = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "graphnet_training_loss",
			Help: "Mean binary cross-entropy loss of the last epoch",
		},
	)

	r.GraphsProcessedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "graphnet_graphs_processed_total",
			Help: "Total number of graphs pushed through forward passes",
		},
	)

	r.ForwardDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "graphnet_forward_duration_seconds",
			Help:    "Forward pass duration per minibatch in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
	)
}
