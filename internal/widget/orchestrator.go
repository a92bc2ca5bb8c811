package widget

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/i474232898/weather-widget/internal/geo"
	"github.com/i474232898/weather-widget/internal/metrics"
	"github.com/i474232898/weather-widget/internal/render"
	"github.com/i474232898/weather-widget/internal/store"
	"github.com/i474232898/weather-widget/internal/weather"
)

// MinAutoSearchLength is the input length that must be exceeded before typing triggers a search.
const MinAutoSearchLength = 2

// ErrSuperseded is returned by a search whose result was dropped because a newer one started.
var ErrSuperseded = errors.New("search superseded by a newer request")

// InputSource tells user typing apart from the app filling the input itself.
type InputSource int

const (
	SourceUser InputSource = iota
	SourceProgram
)

// Options configures an Orchestrator.
type Options struct {
	DefaultCity   string
	DebounceDelay time.Duration
	GeoTimeout    time.Duration
}

// request is what Retry and Refresh re-run.
type request struct {
	locate bool
	query  weather.Query
}

// Orchestrator wires user actions to validation, fetching, rendering and
// preference persistence, and owns the State.
type Orchestrator struct {
	client    weather.Client
	locator   geo.Locator
	prefs     *store.Preferences
	presenter Presenter
	metrics   metrics.Recorder
	log       zerolog.Logger
	opts      Options
	newID     func() string

	debouncer *Debouncer

	mu         sync.Mutex
	state      State
	baseCtx    context.Context
	generation uint64
	cancel     context.CancelFunc
	last       *request
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

func WithMetrics(m metrics.Recorder) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

func New(client weather.Client, locator geo.Locator, prefs *store.Preferences, presenter Presenter, opts Options, options ...Option) *Orchestrator {
	if opts.DebounceDelay <= 0 {
		opts.DebounceDelay = time.Second
	}
	if opts.GeoTimeout <= 0 {
		opts.GeoTimeout = geo.DefaultTimeout
	}
	if opts.DefaultCity == "" {
		opts.DefaultCity = "London"
	}
	if presenter == nil {
		presenter = nopPresenter{}
	}

	o := &Orchestrator{
		client:    client,
		locator:   locator,
		prefs:     prefs,
		presenter: presenter,
		metrics:   metrics.Noop{},
		log:       zerolog.Nop(),
		opts:      opts,
		newID:     uuid.NewString,
		debouncer: NewDebouncer(opts.DebounceDelay),
		baseCtx:   context.Background(),
		state: State{
			Status:       StatusIdle,
			Units:        prefs.Defaults().TemperatureUnit,
			Initializing: true,
		},
	}
	for _, opt := range options {
		opt(o)
	}
	return o
}

// State returns a copy of the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Start restores preferences and loads the initial city: the last
// successful search if one is remembered, else the default city.
func (o *Orchestrator) Start(ctx context.Context) error {
	rec, found := o.prefs.Load()

	o.mu.Lock()
	o.baseCtx = ctx
	o.state.Units = rec.TemperatureUnit
	city := o.opts.DefaultCity
	if found && weather.ValidateCityName(rec.LastSearch) {
		o.state.LastSearch = rec.LastSearch
		city = rec.LastSearch
	}
	o.mu.Unlock()

	o.log.Info().Str("city", city).Str("units", string(rec.TemperatureUnit)).Bool("restored", found).Msg("starting")
	err := o.Search(ctx, city)

	o.mu.Lock()
	o.state.Initializing = false
	o.mu.Unlock()
	return err
}

// Close drops any pending debounced search and cancels the in-flight one.
func (o *Orchestrator) Close() {
	o.debouncer.Cancel()
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}

// Search loads current conditions and forecast for city.
func (o *Orchestrator) Search(ctx context.Context, city string) error {
	// The caller may hand us a view into a reused buffer.
	city = strings.Clone(strings.TrimSpace(city))
	req := request{query: weather.CityQuery(city)}

	if !weather.ValidateCityName(city) {
		// Same loading step as any search, but nothing is fetched.
		_, gen, _, _ := o.begin(ctx, req)
		return o.finish(gen, req, weather.WeatherSnapshot{}, weather.Forecast{}, fmt.Errorf("%w: city %q", weather.ErrInvalidInput, city))
	}

	return o.run(ctx, req)
}

// Locate resolves the device position and loads weather for it.
func (o *Orchestrator) Locate(ctx context.Context) error {
	return o.run(ctx, request{locate: true})
}

// Retry re-attempts the last request, or the default city when there is none.
func (o *Orchestrator) Retry(ctx context.Context) error {
	o.mu.Lock()
	last := o.last
	o.mu.Unlock()

	if last == nil {
		return o.Search(ctx, o.opts.DefaultCity)
	}
	if !last.locate && last.query.Coords == nil {
		return o.Search(ctx, last.query.City)
	}
	return o.run(ctx, *last)
}

// Refresh re-runs the last request, but only while the widget shows content.
func (o *Orchestrator) Refresh(ctx context.Context) error {
	o.mu.Lock()
	last := o.last
	ok := o.state.Status == StatusSuccess && last != nil
	o.mu.Unlock()

	if !ok {
		return nil
	}
	return o.run(ctx, *last)
}

// SetUnits switches the display unit without fetching; existing content is re-rendered.
func (o *Orchestrator) SetUnits(units weather.Units) error {
	if _, err := weather.ParseUnits(string(units)); err != nil {
		return fmt.Errorf("%w: %v", weather.ErrInvalidInput, err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state.Units == units {
		return nil
	}
	o.state.Units = units
	o.savePreferencesLocked()

	if o.state.Status == StatusSuccess && o.state.Current != nil {
		o.renderLocked()
		o.presenter.Announce("Temperature unit changed to " + unitName(units))
	}
	return nil
}

// ToggleUnits flips between metric and imperial.
func (o *Orchestrator) ToggleUnits() weather.Units {
	next := o.State().Units.Toggle()
	_ = o.SetUnits(next)
	return next
}

// Focus records whether the search input holds focus.
func (o *Orchestrator) Focus(focused bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.Focused = focused
	if !focused {
		o.debouncer.Cancel()
	}
}

// Interact records a user gesture (click, key press) on the widget.
func (o *Orchestrator) Interact() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.Interacted = true
}

// InputChanged schedules a debounced search for text. It reports whether a
// search was scheduled: the text must be a valid city longer than
// MinAutoSearchLength, the input focused, initialization finished, and the
// user must have interacted.
func (o *Orchestrator) InputChanged(text string, source InputSource) bool {
	text = strings.Clone(strings.TrimSpace(text))

	o.mu.Lock()
	if source == SourceUser {
		o.state.Interacted = true
	}
	ready := o.state.Focused && !o.state.Initializing && o.state.Interacted
	ctx := o.baseCtx
	o.mu.Unlock()

	if !ready || utf8.RuneCountInString(text) <= MinAutoSearchLength || !weather.ValidateCityName(text) {
		o.debouncer.Cancel()
		return false
	}

	o.debouncer.Trigger(func() {
		if err := o.Search(ctx, text); err != nil && !errors.Is(err, ErrSuperseded) {
			o.log.Debug().Err(err).Str("city", text).Msg("debounced search failed")
		}
	})
	return true
}

func (o *Orchestrator) run(parent context.Context, req request) error {
	ctx, gen, requestID, units := o.begin(parent, req)
	log := o.log.With().Str("request_id", requestID).Logger()

	q := req.query
	if req.locate {
		coords, err := geo.Locate(ctx, o.locator, o.opts.GeoTimeout)
		if err != nil {
			log.Info().Err(err).Msg("geolocation failed")
			return o.finish(gen, req, weather.WeatherSnapshot{}, weather.Forecast{}, err)
		}
		if !weather.ValidateCoordinates(coords.Lat, coords.Lon) {
			return o.finish(gen, req, weather.WeatherSnapshot{}, weather.Forecast{}, fmt.Errorf("%w: coordinates %v", weather.ErrInvalidInput, coords))
		}
		q = weather.CoordsQuery(coords)
	}

	log.Info().Str("query", q.String()).Str("units", string(units)).Msg("fetching weather")
	started := time.Now()
	current, forecast, err := o.fetchPair(ctx, q, units)
	if err != nil {
		log.Warn().Err(err).Dur("took", time.Since(started)).Msg("fetch failed")
	} else {
		log.Info().Str("city", current.City).Int("days", len(forecast.Entries)).Dur("took", time.Since(started)).Msg("fetch succeeded")
	}

	return o.finish(gen, req, current, forecast, err)
}

// fetchPair issues both calls concurrently; the first failure cancels the other.
func (o *Orchestrator) fetchPair(ctx context.Context, q weather.Query, units weather.Units) (weather.WeatherSnapshot, weather.Forecast, error) {
	var (
		current  weather.WeatherSnapshot
		forecast weather.Forecast
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = o.client.CurrentWeather(gctx, q, units)
		return err
	})
	g.Go(func() error {
		var err error
		forecast, err = o.client.Forecast(gctx, q, units)
		return err
	})

	if err := g.Wait(); err != nil {
		return weather.WeatherSnapshot{}, weather.Forecast{}, err
	}
	return current, forecast, nil
}

// begin cancels any in-flight search, takes a new token and enters loading.
func (o *Orchestrator) begin(parent context.Context, req request) (context.Context, uint64, string, weather.Units) {
	o.mu.Lock()
	defer o.mu.Unlock()

	ctx, gen := o.supersedeLocked(parent)
	o.last = &req

	requestID := o.newID()
	o.state.beginLoading(requestID)
	o.metrics.IncTransition(string(StatusLoading))
	o.presenter.ShowLoading()
	o.presenter.Announce("Loading weather data")
	return ctx, gen, requestID, o.state.Units
}

func (o *Orchestrator) supersedeLocked(parent context.Context) (context.Context, uint64) {
	if o.cancel != nil {
		o.cancel()
	}
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	o.generation++
	o.cancel = cancel
	return ctx, o.generation
}

func (o *Orchestrator) finish(gen uint64, req request, current weather.WeatherSnapshot, forecast weather.Forecast, err error) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if gen != o.generation {
		o.log.Debug().Uint64("generation", gen).Msg("dropping superseded result")
		return ErrSuperseded
	}
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}

	if err != nil {
		ue := weather.NewUserError(err)
		o.failLocked(ue)
		return ue
	}

	searched := current.City
	if !req.locate && req.query.Coords == nil {
		searched = req.query.City
	}
	o.state.succeed(current, forecast, searched)
	o.metrics.IncTransition(string(StatusSuccess))
	o.savePreferencesLocked()
	o.renderLocked()
	o.presenter.Announce("Weather loaded for " + weather.SanitizeText(current.City))
	return nil
}

func (o *Orchestrator) failLocked(ue *weather.UserError) {
	o.state.fail(ue.Kind, ue.Message)
	o.metrics.IncTransition(string(StatusError))
	o.presenter.ShowError(ue.Message)
	o.presenter.Announce("Error: " + ue.Message)
}

func (o *Orchestrator) renderLocked() {
	if o.state.Current != nil {
		o.presenter.ShowWeather(render.Current(*o.state.Current, o.state.Units))
	}
	if o.state.Forecast != nil {
		o.presenter.ShowForecast(render.Forecast(*o.state.Forecast, o.state.Units))
	}
}

func (o *Orchestrator) savePreferencesLocked() {
	rec := store.Record{TemperatureUnit: o.state.Units, LastSearch: o.state.LastSearch}
	if err := o.prefs.Save(rec); err != nil {
		o.log.Warn().Err(err).Msg("could not save preferences")
	}
}

func unitName(u weather.Units) string {
	if u == weather.UnitsImperial {
		return "Fahrenheit"
	}
	return "Celsius"
}
