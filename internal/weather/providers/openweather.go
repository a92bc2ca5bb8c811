package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-widget/internal/metrics"
	"github.com/i474232898/weather-widget/internal/weather"
)

const (
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

	EndpointCurrent  = "weather"
	EndpointForecast = "forecast"
)

// OpenWeatherClient implements weather.Client for OpenWeatherMap.
type OpenWeatherClient struct {
	apiKey       string
	baseURL      string
	forecastDays int
	httpCfg      HTTPClientConfig
	circuit      *gobreaker.CircuitBreaker
}

// Options configures an OpenWeatherClient. Zero values fall back to defaults.
type Options struct {
	APIKey       string
	BaseURL      string
	ForecastDays int
	Metrics      metrics.Recorder
}

func NewOpenWeatherClient(client *http.Client, opts Options) *OpenWeatherClient {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	days := opts.ForecastDays
	if days <= 0 || days > weather.MaxForecastDays {
		days = weather.MaxForecastDays
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &OpenWeatherClient{
		apiKey:       opts.APIKey,
		baseURL:      base,
		forecastDays: days,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Metrics: opts.Metrics,
		},
		circuit: newCircuitBreaker("openweather"),
	}
}

// BuildURL joins the base URL, endpoint and the percent-encoded params,
// injecting the API credential.
func (c *OpenWeatherClient) BuildURL(endpoint string, params url.Values) string {
	values := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			values.Add(k, v)
		}
	}
	values.Set("appid", c.apiKey)
	return fmt.Sprintf("%s/%s?%s", c.baseURL, strings.TrimLeft(endpoint, "/"), values.Encode())
}

func queryParams(q weather.Query, units weather.Units) url.Values {
	values := url.Values{}
	if q.Coords != nil {
		values.Set("lat", strconv.FormatFloat(q.Coords.Lat, 'f', -1, 64))
		values.Set("lon", strconv.FormatFloat(q.Coords.Lon, 'f', -1, 64))
	} else {
		values.Set("q", strings.TrimSpace(q.City))
	}
	if units == "" {
		units = weather.UnitsMetric
	}
	values.Set("units", string(units))
	return values
}

type conditionPayload struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type mainPayload struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Humidity  float64 `json:"humidity"`
	Pressure  float64 `json:"pressure"`
}

type currentPayload struct {
	Dt       int64              `json:"dt"`
	Name     string             `json:"name"`
	Timezone int                `json:"timezone"`
	Main     mainPayload        `json:"main"`
	Weather  []conditionPayload `json:"weather"`
	Wind     struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
}

type forecastPayload struct {
	List []struct {
		Dt      int64              `json:"dt"`
		Main    mainPayload        `json:"main"`
		Weather []conditionPayload `json:"weather"`
	} `json:"list"`
	City struct {
		Name     string `json:"name"`
		Country  string `json:"country"`
		Timezone int    `json:"timezone"`
	} `json:"city"`
}

func (c *OpenWeatherClient) CurrentWeather(ctx context.Context, q weather.Query, units weather.Units) (weather.WeatherSnapshot, error) {
	if c.apiKey == "" {
		return weather.WeatherSnapshot{}, &weather.FetchError{StatusCode: http.StatusUnauthorized}
	}

	u := c.BuildURL(EndpointCurrent, queryParams(q, units))
	resp, err := doRequest(ctx, c.httpCfg, c.circuit, EndpointCurrent, u)
	if err != nil {
		return weather.WeatherSnapshot{}, err
	}
	defer resp.Body.Close()

	var payload currentPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.WeatherSnapshot{}, fmt.Errorf("decode current weather: %w", err)
	}

	ts := time.Unix(payload.Dt, 0).UTC()
	if payload.Dt == 0 {
		ts = time.Now().UTC()
	}
	cond := firstCondition(payload.Weather)

	return weather.WeatherSnapshot{
		City:           payload.Name,
		Country:        payload.Sys.Country,
		Timestamp:      ts,
		TimezoneOffset: payload.Timezone,
		Temperature:    payload.Main.Temp,
		FeelsLike:      payload.Main.FeelsLike,
		Humidity:       payload.Main.Humidity,
		Pressure:       payload.Main.Pressure,
		WindSpeed:      payload.Wind.Speed,
		ConditionCode:  cond.ID,
		Description:    cond.Description,
		Icon:           cond.Icon,
		Units:          unitsOrDefault(units),
	}, nil
}

func (c *OpenWeatherClient) Forecast(ctx context.Context, q weather.Query, units weather.Units) (weather.Forecast, error) {
	if c.apiKey == "" {
		return weather.Forecast{}, &weather.FetchError{StatusCode: http.StatusUnauthorized}
	}

	params := queryParams(q, units)
	params.Set("cnt", strconv.Itoa(c.forecastDays*weather.SamplesPerDay))

	u := c.BuildURL(EndpointForecast, params)
	resp, err := doRequest(ctx, c.httpCfg, c.circuit, EndpointForecast, u)
	if err != nil {
		return weather.Forecast{}, err
	}
	defer resp.Body.Close()

	var payload forecastPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Forecast{}, fmt.Errorf("decode forecast: %w", err)
	}

	readings := make([]weather.ForecastEntry, 0, len(payload.List))
	for _, item := range payload.List {
		cond := firstCondition(item.Weather)
		readings = append(readings, weather.ForecastEntry{
			Timestamp:     time.Unix(item.Dt, 0).UTC(),
			Temperature:   item.Main.Temp,
			FeelsLike:     item.Main.FeelsLike,
			Humidity:      item.Main.Humidity,
			ConditionCode: cond.ID,
			Description:   cond.Description,
			Icon:          cond.Icon,
		})
	}

	f := weather.Forecast{
		City:           payload.City.Name,
		Country:        payload.City.Country,
		TimezoneOffset: payload.City.Timezone,
		Units:          unitsOrDefault(units),
	}
	f.Entries = weather.GroupDaily(readings, f.Location(), c.forecastDays)
	return f, nil
}

func firstCondition(items []conditionPayload) conditionPayload {
	if len(items) == 0 {
		return conditionPayload{}
	}
	return items[0]
}

func unitsOrDefault(u weather.Units) weather.Units {
	if u == "" {
		return weather.UnitsMetric
	}
	return u
}
