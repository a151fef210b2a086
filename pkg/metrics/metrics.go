package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics for the engine
type Registry struct {
	// Training metrics
	TrainingEpochsTotal  prometheus.Counter
	TrainingBatchesTotal prometheus.Counter
	TrainingLoss         prometheus.Gauge
	GraphsProcessedTotal prometheus.Counter

	// Evaluation metrics
	EvalAUC       prometheus.Gauge
	EvalRunsTotal prometheus.Counter

	// Forward-pass metrics
	ForwardDuration prometheus.Histogram

	registry *prometheus.Registry
}

// NewRegistry creates a metrics registry with all metrics registered
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}
	r.initTrainingMetrics()
	r.initEvalMetrics()
	return r
}

// Handler returns an HTTP handler exposing the metrics in Prometheus
// text format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
