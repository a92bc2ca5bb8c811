package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusBucket(t *testing.T) {
	assert.Equal(t, "error", statusBucket(0))
	assert.Equal(t, "2xx", statusBucket(200))
	assert.Equal(t, "4xx", statusBucket(404))
	assert.Equal(t, "4xx", statusBucket(429))
	assert.Equal(t, "5xx", statusBucket(503))
}

func TestMetrics_ObserveFetch(t *testing.T) {
	m := New()
	m.ObserveFetch("weather", 200, 20*time.Millisecond)
	m.ObserveFetch("weather", 404, 10*time.Millisecond)
	m.ObserveFetch("forecast", 200, 10*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetchTotal.WithLabelValues("weather", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetchTotal.WithLabelValues("weather", "4xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetchTotal.WithLabelValues("forecast", "2xx")))
}

func TestMetrics_TransitionsAndPreferences(t *testing.T) {
	m := New()
	m.IncTransition("loading")
	m.IncTransition("loading")
	m.IncTransition("success")
	m.IncPreferenceReads(true)
	m.IncPreferenceReads(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("loading")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.preferenceReads.WithLabelValues("hit")))

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNoop_DoesNotPanic(t *testing.T) {
	var r Recorder = Noop{}
	r.ObserveFetch("weather", 500, time.Second)
	r.IncTransition("error")
	r.IncPreferenceReads(false)
}
