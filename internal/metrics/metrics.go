// Package metrics holds the Prometheus collectors for the completions endpoint.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Request outcomes recorded on RequestsTotal.
const (
	OutcomeStreamed  = "streamed"
	OutcomeAborted   = "aborted"
	OutcomeRejected  = "rejected"
	OutcomeMalformed = "malformed"
)

// StreamBuckets covers a full paced stream, which lasts a little over a second.
var StreamBuckets = []float64{0.25, 0.5, 1, 1.25, 1.5, 2, 3, 5, 10}

var (
	// RequestsTotal counts completion requests by outcome.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamsim_requests_total",
			Help: "Completion requests by outcome",
		},
		[]string{"outcome"},
	)

	// ChunksEmittedTotal counts data events written to clients, excluding the sentinel.
	ChunksEmittedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "streamsim_chunks_emitted_total",
			Help: "Data chunks emitted",
		},
	)

	// ActiveStreams tracks responses currently being streamed.
	ActiveStreams = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "streamsim_streams_active",
			Help: "Active streaming responses",
		},
	)

	// StreamDuration records time from first header to last event.
	StreamDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "streamsim_stream_duration_seconds",
			Help:    "Stream delivery duration",
			Buckets: StreamBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		ChunksEmittedTotal,
		ActiveStreams,
		StreamDuration,
	)
}
