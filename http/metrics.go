package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "urbanflux_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "urbanflux_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "route"},
	)

	predictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "urbanflux_predictions_total",
			Help: "Prediction calls by capability and outcome",
		},
		[]string{"capability", "outcome"},
	)

	modelLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "urbanflux_model_loaded",
			Help: "1 when the capability has a bound model",
		},
		[]string{"capability"},
	)
)

const (
	outcomeOK       = "ok"
	outcomeDegraded = "degraded"
	outcomeError    = "error"
)

// RecordModelState publishes which capabilities have a model.
func RecordModelState(loaded map[string]bool) {
	for capability, ok := range loaded {
		v := 0.0
		if ok {
			v = 1
		}
		modelLoaded.WithLabelValues(capability).Set(v)
	}
}
