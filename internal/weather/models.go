package weather

import (
	"fmt"
	"time"
)

// Units is the unit system values are requested and displayed in.
type Units string

const (
	UnitsMetric   Units = "metric"
	UnitsImperial Units = "imperial"
)

// ParseUnits accepts "metric" or "imperial".
func ParseUnits(s string) (Units, error) {
	switch Units(s) {
	case UnitsMetric, UnitsImperial:
		return Units(s), nil
	default:
		return "", fmt.Errorf("unknown unit system %q", s)
	}
}

// Toggle returns the other unit system.
func (u Units) Toggle() Units {
	if u == UnitsImperial {
		return UnitsMetric
	}
	return UnitsImperial
}

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

// Query identifies what to look up: a city name or, when Coords is set, a position.
type Query struct {
	City   string       `json:"city,omitempty"`
	Coords *Coordinates `json:"coords,omitempty"`
}

// CityQuery builds a query by city name.
func CityQuery(city string) Query {
	return Query{City: city}
}

// CoordsQuery builds a query by position.
func CoordsQuery(c Coordinates) Query {
	return Query{Coords: &c}
}

// String is used for logging.
func (q Query) String() string {
	if q.Coords != nil {
		return fmt.Sprintf("%.4f,%.4f", q.Coords.Lat, q.Coords.Lon)
	}
	return q.City
}

// WeatherSnapshot is a point-in-time reading of current conditions.
// Values are expressed in Units.
type WeatherSnapshot struct {
	City           string    `json:"city"`
	Country        string    `json:"country"`
	Timestamp      time.Time `json:"timestamp"`      // always UTC
	TimezoneOffset int       `json:"timezoneOffset"` // seconds east of UTC
	Temperature    float64   `json:"temperature"`
	FeelsLike      float64   `json:"feelsLike"`
	Humidity       float64   `json:"humidityPercent"`
	Pressure       float64   `json:"pressureHpa"`
	WindSpeed      float64   `json:"windSpeed"`
	ConditionCode  int       `json:"conditionCode"`
	Description    string    `json:"description"`
	Icon           string    `json:"icon"`
	Units          Units     `json:"units"`
}

// LocalTime returns the observation time in the city's own offset.
func (s WeatherSnapshot) LocalTime() time.Time {
	return s.Timestamp.In(time.FixedZone("", s.TimezoneOffset))
}

// ForecastEntry is one representative reading for a day.
type ForecastEntry struct {
	Timestamp     time.Time `json:"timestamp"`
	Temperature   float64   `json:"temperature"`
	FeelsLike     float64   `json:"feelsLike"`
	Humidity      float64   `json:"humidityPercent"`
	ConditionCode int       `json:"conditionCode"`
	Description   string    `json:"description"`
	Icon          string    `json:"icon"`
}

// Forecast holds up to MaxForecastDays daily entries ordered by Timestamp ascending.
type Forecast struct {
	City           string          `json:"city"`
	Country        string          `json:"country"`
	TimezoneOffset int             `json:"timezoneOffset"`
	Units          Units           `json:"units"`
	Entries        []ForecastEntry `json:"entries"`
}

// Location returns the fixed zone used to decide calendar days.
func (f Forecast) Location() *time.Location {
	return time.FixedZone("", f.TimezoneOffset)
}
