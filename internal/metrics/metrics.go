package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder is what the fetch client and orchestrator report to.
type Recorder interface {
	ObserveFetch(endpoint string, status int, duration time.Duration)
	IncTransition(state string)
	IncPreferenceReads(hit bool)
}

// Metrics is the Prometheus-backed Recorder.
type Metrics struct {
	registry        *prometheus.Registry
	fetchTotal      *prometheus.CounterVec
	fetchDuration   *prometheus.HistogramVec
	transitions     *prometheus.CounterVec
	preferenceReads *prometheus.CounterVec
}

// New registers the widget collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		fetchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_widget_fetch_total",
			Help: "Weather API calls by endpoint and status class",
		}, []string{"endpoint", "status"}),
		fetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "weather_widget_fetch_duration_seconds",
			Help:    "Weather API call duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_widget_state_transitions_total",
			Help: "UI state transitions by target state",
		}, []string{"state"}),
		preferenceReads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_widget_preference_reads_total",
			Help: "Preference store reads by result",
		}, []string{"result"}),
	}
}

// Registry is served on /metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveFetch(endpoint string, status int, duration time.Duration) {
	m.fetchTotal.WithLabelValues(endpoint, statusBucket(status)).Inc()
	m.fetchDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *Metrics) IncTransition(state string) {
	m.transitions.WithLabelValues(state).Inc()
}

func (m *Metrics) IncPreferenceReads(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.preferenceReads.WithLabelValues(result).Inc()
}

// statusBucket groups HTTP codes; 0 means the request never got a response.
func statusBucket(code int) string {
	switch {
	case code == 0:
		return "error"
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

// Noop discards everything.
type Noop struct{}

func (Noop) ObserveFetch(string, int, time.Duration) {}
func (Noop) IncTransition(string)                    {}
func (Noop) IncPreferenceReads(bool)                 {}
