package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.service.Metrics using Prometheus.
type Recorder struct {
	analysesTotal *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	signalsTotal  *prometheus.CounterVec
	lastSignals   *prometheus.GaugeVec
	latency       *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		analysesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowpulse_analyses_total",
				Help: "Total number of completed chart analyses",
			},
			[]string{"endpoint"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowpulse_errors_total",
				Help: "Total number of analysis errors by kind",
			},
			[]string{"type"},
		),
		signalsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowpulse_signals_total",
				Help: "Total number of detected signals",
			},
			[]string{"endpoint"},
		),
		lastSignals: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "flowpulse_last_signal_count",
				Help: "Signal count of the most recent analysis",
			},
			[]string{"endpoint"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flowpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordAnalysis records a completed analysis for an endpoint.
func (r *Recorder) RecordAnalysis(endpoint string) {
	r.analysesTotal.WithLabelValues(endpoint).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordSignals records the signal count of an analysis.
func (r *Recorder) RecordSignals(endpoint string, count int) {
	r.signalsTotal.WithLabelValues(endpoint).Add(float64(count))
	r.lastSignals.WithLabelValues(endpoint).Set(float64(count))
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
