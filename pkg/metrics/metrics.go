package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Fleet metrics
	UniversesTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "multiverse_universes_total",
			Help: "Current number of live universes",
		},
	)

	UniversesCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "multiverse_universes_created_total",
			Help: "Total number of universes created",
		},
	)

	CollapsesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "multiverse_collapses_total",
			Help: "Total number of universe collapses",
		},
	)

	RelationshipRollsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "multiverse_relationship_rolls_total",
			Help: "Total number of birth-time relationship rolls by kind",
		},
		[]string{"kind"},
	)

	// Routing metrics
	IntentsProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "multiverse_intents_processed_total",
			Help: "Total number of intents processed by kind",
		},
		[]string{"kind"},
	)

	CommandsDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "multiverse_commands_dropped_total",
			Help: "Total number of commands dropped on full mailboxes or terminated actors",
		},
	)

	PumpDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "multiverse_pump_duration_seconds",
			Help:    "Time taken for one intent pump cycle in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// API metrics
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "multiverse_api_requests_total",
			Help: "Total number of API requests by method and status",
		},
		[]string{"method", "status"},
	)

	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "multiverse_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// Log bus metrics
	LogEntriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "multiverse_log_entries_total",
			Help: "Total number of log entries retained by the ring by level",
		},
		[]string{"level"},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(UniversesTotal)
	prometheus.MustRegister(UniversesCreatedTotal)
	prometheus.MustRegister(CollapsesTotal)
	prometheus.MustRegister(RelationshipRollsTotal)
	prometheus.MustRegister(IntentsProcessedTotal)
	prometheus.MustRegister(CommandsDroppedTotal)
	prometheus.MustRegister(PumpDuration)
	prometheus.MustRegister(APIRequestsTotal)
	prometheus.MustRegister(APIRequestDuration)
	prometheus.MustRegister(LogEntriesTotal)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	duration := time.Since(t.start).Seconds()
	histogram.Observe(duration)
}

// ObserveDurationVec records the duration to a histogram vec with labels
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	duration := time.Since(t.start).Seconds()
	histogram.WithLabelValues(labels...).Observe(duration)
}

// Duration returns the elapsed time since timer started
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
