package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-widget/internal/weather"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
}

func TestPreferences_RoundTripWithinDuration(t *testing.T) {
	clock := newClock()
	p := NewPreferences(NewFileBackend(filepath.Join(t.TempDir(), "prefs.json")), 30*time.Minute, weather.UnitsMetric, WithClock(clock.Now))

	require.NoError(t, p.Save(Record{TemperatureUnit: weather.UnitsImperial, LastSearch: "Paris"}))
	clock.Advance(29 * time.Minute)

	rec, ok := p.Load()
	require.True(t, ok)
	assert.Equal(t, weather.UnitsImperial, rec.TemperatureUnit)
	assert.Equal(t, "Paris", rec.LastSearch)
}

func TestPreferences_ExpiredReturnsDefaults(t *testing.T) {
	clock := newClock()
	p := NewPreferences(NewFileBackend(filepath.Join(t.TempDir(), "prefs.json")), 30*time.Minute, weather.UnitsMetric, WithClock(clock.Now))

	require.NoError(t, p.Save(Record{TemperatureUnit: weather.UnitsImperial, LastSearch: "Paris"}))
	clock.Advance(31 * time.Minute)

	rec, ok := p.Load()
	assert.False(t, ok)
	assert.Equal(t, p.Defaults(), rec)
	assert.Equal(t, weather.UnitsMetric, rec.TemperatureUnit)
	assert.Empty(t, rec.LastSearch)
}

func TestPreferences_FutureTimestampReturnsDefaults(t *testing.T) {
	clock := newClock()
	p := NewPreferences(NewFileBackend(filepath.Join(t.TempDir(), "prefs.json")), 30*time.Minute, weather.UnitsMetric, WithClock(clock.Now))

	// Written by a clock running a day ahead.
	clock.Advance(24 * time.Hour)
	require.NoError(t, p.Save(Record{TemperatureUnit: weather.UnitsImperial, LastSearch: "Paris"}))
	clock.Advance(-24 * time.Hour)

	rec, ok := p.Load()
	assert.False(t, ok)
	assert.Equal(t, p.Defaults(), rec)
}

func TestPreferences_AbsentReturnsDefaults(t *testing.T) {
	p := NewPreferences(NewFileBackend(filepath.Join(t.TempDir(), "missing.json")), 0, weather.UnitsImperial)
	rec, ok := p.Load()
	assert.False(t, ok)
	assert.Equal(t, weather.UnitsImperial, rec.TemperatureUnit)
}

func TestPreferences_CorruptRecordReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"weatherAppPreferences": "nope"}`), 0o600))

	p := NewPreferences(NewFileBackend(path), time.Hour, weather.UnitsMetric)
	_, ok := p.Load()
	assert.False(t, ok)
}

func TestFileBackend_WritesFixedShape(t *testing.T) {
	clock := newClock()
	path := filepath.Join(t.TempDir(), "nested", "prefs.json")
	p := NewPreferences(NewFileBackend(path), time.Hour, weather.UnitsMetric, WithClock(clock.Now))
	require.NoError(t, p.Save(Record{TemperatureUnit: weather.UnitsMetric, LastSearch: "Oslo"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var file map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &file))
	rec := file[PreferencesKey]
	assert.Equal(t, "metric", rec["temperatureUnit"])
	assert.Equal(t, "Oslo", rec["lastSearch"])
	assert.EqualValues(t, clock.Now().UnixMilli(), rec["timestamp"])
}

func TestFileBackend_LastWriteWins(t *testing.T) {
	b := NewFileBackend(filepath.Join(t.TempDir(), "prefs.json"))
	require.NoError(t, b.Set("k", []byte(`"one"`)))
	require.NoError(t, b.Set("k", []byte(`"two"`)))

	got, err := b.Get("k")
	require.NoError(t, err)
	assert.JSONEq(t, `"two"`, string(got))

	_, err = b.Get("other")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryBackend_RoundTrip(t *testing.T) {
	b := NewMemoryBackend(1, time.Hour)
	p := NewPreferences(b, time.Hour, weather.UnitsMetric)

	_, ok := p.Load()
	assert.False(t, ok)

	require.NoError(t, p.Save(Record{TemperatureUnit: weather.UnitsImperial, LastSearch: "Rome"}))
	rec, ok := p.Load()
	require.True(t, ok)
	assert.Equal(t, "Rome", rec.LastSearch)
}

func TestMemoryBackend_Miss(t *testing.T) {
	_, err := NewMemoryBackend(0, 0).Get("absent")
	assert.ErrorIs(t, err, ErrNotFound)
}
