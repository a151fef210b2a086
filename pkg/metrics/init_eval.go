package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initEvalMetrics() {
	r.EvalAUC = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "graphnet_eval_auc",
			Help: "ROC-AUC of the most recent evaluation",
		},
	)

	r.EvalRunsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "graphnet_eval_runs_total",
			Help: "Total number of evaluation runs",
		},
	)
}
