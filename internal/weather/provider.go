package weather

import "context"

// Client abstracts the weather data source.
type Client interface {
	CurrentWeather(ctx context.Context, q Query, units Units) (WeatherSnapshot, error)
	Forecast(ctx context.Context, q Query, units Units) (Forecast, error)
}
