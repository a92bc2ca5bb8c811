package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/weather-widget/internal/geo"
	"github.com/i474232898/weather-widget/internal/store"
	"github.com/i474232898/weather-widget/internal/weather"
	"github.com/i474232898/weather-widget/internal/weather/providers"
)

type AppConfig struct {
	OpenWeatherAPIKey string        `validate:"required"`
	OpenWeatherURL    string        `validate:"required,url"`
	HTTPTimeout       time.Duration `validate:"gt=0"`

	DefaultCity  string        `validate:"required,city"`
	DefaultUnits weather.Units `validate:"oneof=metric imperial"`
	ForecastDays int           `validate:"min=1,max=5"`

	// DebounceDelay is the input quiet period before an auto-search.
	DebounceDelay time.Duration `validate:"gt=0"`

	// Preference store.
	PrefsBackend       string        `validate:"oneof=file memory"`
	PrefsPath          string        `validate:"required_if=PrefsBackend file"`
	PrefsCacheDuration time.Duration `validate:"gt=0"`
	PrefsMemoryMB      int           `validate:"min=1"`

	// Geolocation. Static coordinates win over the geocoded address.
	GeoTimeout     time.Duration        `validate:"gt=0"`
	GeoCoords      *weather.Coordinates
	GeocoderAPIKey string
	GeoAddress     geo.Address

	// RefreshInterval re-runs the last search periodically (0 = disabled).
	RefreshInterval time.Duration `validate:"gte=0"`

	Port      string `validate:"required,numeric"`
	LogLevel  string
	LogFormat string `validate:"oneof=console json"`
	Terminal  bool
}

// Load reads configuration from the environment (and .env) with sensible defaults.
func Load() (*AppConfig, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := &AppConfig{
		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		OpenWeatherURL:    getenvDefault("OPENWEATHER_BASE_URL", providers.DefaultBaseURL),
		DefaultCity:       getenvDefault("DEFAULT_CITY", "London"),
		DefaultUnits:      weather.Units(getenvDefault("DEFAULT_UNITS", string(weather.UnitsMetric))),
		ForecastDays:      getenvInt("FORECAST_DAYS", weather.MaxForecastDays),
		PrefsBackend:      getenvDefault("PREFS_BACKEND", "file"),
		PrefsPath:         getenvDefault("PREFS_PATH", store.DefaultFilePath()),
		PrefsMemoryMB:     getenvInt("PREFS_MEMORY_MB", 1),
		GeocoderAPIKey:    os.Getenv("GEOCODER_API_KEY"),
		GeoAddress: geo.Address{
			Street:     os.Getenv("GEO_STREET"),
			City:       os.Getenv("GEO_CITY"),
			State:      os.Getenv("GEO_STATE"),
			Country:    os.Getenv("GEO_COUNTRY"),
			PostalCode: os.Getenv("GEO_POSTAL_CODE"),
		},
		Port:      getenvDefault("PORT", "8080"),
		LogLevel:  getenvDefault("LOG_LEVEL", "info"),
		LogFormat: getenvDefault("LOG_FORMAT", "console"),
		Terminal:  getenvBool("TERMINAL", false),
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.DebounceDelay, err = getenvDuration("DEBOUNCE_DELAY", "1s"); err != nil {
		return nil, err
	}
	if cfg.PrefsCacheDuration, err = getenvDuration("PREFS_CACHE_DURATION", store.DefaultCacheDuration.String()); err != nil {
		return nil, err
	}
	if cfg.GeoTimeout, err = getenvDuration("GEO_TIMEOUT", geo.DefaultTimeout.String()); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "30m"); err != nil {
		return nil, err
	}

	coords, err := loadGeoCoords()
	if err != nil {
		return nil, err
	}
	cfg.GeoCoords = coords

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags.
func (c *AppConfig) Validate() error {
	if err := weather.Validator().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Locator picks the geolocation source from config.
func (c *AppConfig) Locator() geo.Locator {
	if c.GeoCoords != nil {
		return geo.StaticLocator{Coords: *c.GeoCoords, Enabled: true}
	}
	if c.GeocoderAPIKey != "" {
		return geo.NewAddressLocator(c.GeocoderAPIKey, c.GeoAddress)
	}
	return geo.StaticLocator{}
}

func loadGeoCoords() (*weather.Coordinates, error) {
	lat, lon := os.Getenv("GEO_LAT"), os.Getenv("GEO_LON")
	if lat == "" && lon == "" {
		return nil, nil
	}
	c, err := weather.ParseCoordinates(lat, lon)
	if err != nil {
		return nil, fmt.Errorf("invalid GEO_LAT/GEO_LON: %w", err)
	}
	return &c, nil
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
