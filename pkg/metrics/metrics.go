// Package metrics exports validation outcomes as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/braunma/buildcheck/pkg/models"
)

const namespace = "buildcheck"

// Recorder counts verdicts and times validation calls
type Recorder struct {
	registry    *prometheus.Registry
	validations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewRecorder registers the validation metrics on a fresh registry
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		// Labels: component_type, status (allowed, allowed_with_warnings, blocked)
		validations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Total component validations by verdict status",
		}, []string{"component_type", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "validation_duration_seconds",
			Help:      "Time spent validating one component addition",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"component_type"}),
	}
}

// ObserveValidation records one finished validation
func (r *Recorder) ObserveValidation(t models.ComponentType, status models.Status, elapsed time.Duration) {
	r.validations.WithLabelValues(string(t), string(status)).Inc()
	r.duration.WithLabelValues(string(t)).Observe(elapsed.Seconds())
}

// Gatherer exposes the registry for scraping or export
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes the metrics in text format for the node_exporter textfile collector
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
