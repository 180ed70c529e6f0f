// Package metrics records connector pipeline measurements with Prometheus.
// A one-shot CLI has nothing to scrape, so the registry is written to a
// node_exporter textfile at the end of the run.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/custodia-labs/memorybox-cli/internal/core/ports/driven"
)

// Ensure Recorder implements the interface.
var _ driven.MetricsRecorder = (*Recorder)(nil)

const namespace = "memorybox"

// Recorder exposes connector counters and fetch latencies.
type Recorder struct {
	registry      *prometheus.Registry
	authAttempts  *prometheus.CounterVec
	documents     *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
}

// NewRecorder constructs a recorder on a private registry.
func NewRecorder() (*Recorder, error) {
	registry := prometheus.NewRegistry()

	authAttempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "connector",
		Name:      "auth_attempts_total",
		Help:      "Connector authentication attempts by outcome.",
	}, []string{"connector", "outcome"})

	documents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "connector",
		Name:      "documents_fetched_total",
		Help:      "Normalised documents produced per connector.",
	}, []string{"connector"})

	fetchDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "connector",
		Name:      "fetch_duration_seconds",
		Help:      "Time spent fetching from each connector.",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	}, []string{"connector"})

	for _, c := range []prometheus.Collector{authAttempts, documents, fetchDuration} {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("register metric: %w", err)
		}
	}

	return &Recorder{
		registry:      registry,
		authAttempts:  authAttempts,
		documents:     documents,
		fetchDuration: fetchDuration,
	}, nil
}

// AuthAttempt counts one authentication outcome.
func (r *Recorder) AuthAttempt(connector, outcome string) {
	r.authAttempts.WithLabelValues(connector, outcome).Inc()
}

// DocumentsFetched adds count documents for connector.
func (r *Recorder) DocumentsFetched(connector string, count int) {
	r.documents.WithLabelValues(connector).Add(float64(count))
}

// FetchDuration observes how long a fetch took.
func (r *Recorder) FetchDuration(connector string, d time.Duration) {
	r.fetchDuration.WithLabelValues(connector).Observe(d.Seconds())
}

// WriteTextfile writes every metric to path in the text exposition format.
// The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
