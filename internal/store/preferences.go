package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/i474232898/weather-widget/internal/metrics"
	"github.com/i474232898/weather-widget/internal/weather"
)

// PreferencesKey is the fixed key the record is stored under.
const PreferencesKey = "weatherAppPreferences"

// DefaultCacheDuration is how long a saved record stays valid.
const DefaultCacheDuration = 30 * time.Minute

// ErrNotFound is returned by a Backend holding nothing under the key.
var ErrNotFound = errors.New("no preferences stored")

// Record is the persisted preference blob.
type Record struct {
	TemperatureUnit weather.Units `json:"temperatureUnit"`
	LastSearch      string        `json:"lastSearch"`
	Timestamp       int64         `json:"timestamp"` // unix milliseconds
}

// Backend stores raw bytes under a key.
type Backend interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
}

// Preferences reads and writes the Record through a Backend, discarding
// records older than the cache duration.
type Preferences struct {
	backend  Backend
	duration time.Duration
	defaults Record
	metrics  metrics.Recorder
	now      func() time.Time
}

// Option customizes Preferences.
type Option func(*Preferences)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Preferences) { p.now = now }
}

// WithMetrics reports hit/miss on every Load.
func WithMetrics(m metrics.Recorder) Option {
	return func(p *Preferences) { p.metrics = m }
}

// NewPreferences builds a store. duration <= 0 selects DefaultCacheDuration.
func NewPreferences(backend Backend, duration time.Duration, defaultUnits weather.Units, opts ...Option) *Preferences {
	if duration <= 0 {
		duration = DefaultCacheDuration
	}
	if defaultUnits == "" {
		defaultUnits = weather.UnitsMetric
	}
	p := &Preferences{
		backend:  backend,
		duration: duration,
		defaults: Record{TemperatureUnit: defaultUnits},
		metrics:  metrics.Noop{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Defaults is what Load returns when nothing valid is stored.
func (p *Preferences) Defaults() Record {
	return p.defaults
}

// Load returns the stored record, or Defaults when absent, unreadable or expired.
// The boolean reports whether a valid record was found.
func (p *Preferences) Load() (Record, bool) {
	raw, err := p.backend.Get(PreferencesKey)
	if err != nil {
		p.metrics.IncPreferenceReads(false)
		return p.defaults, false
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		p.metrics.IncPreferenceReads(false)
		return p.defaults, false
	}

	age := p.now().Sub(time.UnixMilli(rec.Timestamp))
	// A timestamp from the future means clock skew; treat it as stale.
	if age < 0 || age > p.duration {
		p.metrics.IncPreferenceReads(false)
		return p.defaults, false
	}
	if _, err := weather.ParseUnits(string(rec.TemperatureUnit)); err != nil {
		rec.TemperatureUnit = p.defaults.TemperatureUnit
	}

	p.metrics.IncPreferenceReads(true)
	return rec, true
}

// Save stamps rec with the current time and writes it.
func (p *Preferences) Save(rec Record) error {
	rec.Timestamp = p.now().UnixMilli()
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := p.backend.Set(PreferencesKey, raw); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	return nil
}
