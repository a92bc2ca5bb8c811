package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-widget/internal/weather"
)

func TestFormatTemperature_Conversions(t *testing.T) {
	assert.Equal(t, "32°F", FormatTemperature(0, weather.UnitsMetric, weather.UnitsImperial))
	assert.Equal(t, "212°F", FormatTemperature(100, weather.UnitsMetric, weather.UnitsImperial))
	assert.Equal(t, "0°C", FormatTemperature(32, weather.UnitsImperial, weather.UnitsMetric))
	assert.Equal(t, "22°C", FormatTemperature(21.5, weather.UnitsMetric, weather.UnitsMetric))
	assert.Equal(t, "0°C", FormatTemperature(-0.4, weather.UnitsMetric, weather.UnitsMetric))
	assert.Equal(t, "-1°C", FormatTemperature(-0.6, weather.UnitsMetric, weather.UnitsMetric))
}

func TestFormatWind(t *testing.T) {
	assert.Equal(t, "4.0 m/s", FormatWind(4, weather.UnitsMetric, weather.UnitsMetric))
	assert.Equal(t, "22.4 mph", FormatWind(10, weather.UnitsMetric, weather.UnitsImperial))
	assert.Equal(t, "10.0 m/s", FormatWind(22.369362920544, weather.UnitsImperial, weather.UnitsMetric))
}

func TestThemeFor_Ranges(t *testing.T) {
	cases := map[int]string{
		200: ThemeThunderstorm,
		299: ThemeThunderstorm,
		300: ThemeRain,
		521: ThemeRain,
		599: ThemeRain,
		600: ThemeSnow,
		701: ThemeMist,
		799: ThemeMist,
		800: ThemeClear,
		801: ThemeClouds,
		804: ThemeClouds,
		0:   ThemeDefault,
	}
	for code, want := range cases {
		assert.Equal(t, want, ThemeFor(code, "01d").Name, "code %d", code)
	}
	assert.True(t, ThemeFor(800, "01n").Night)
	assert.False(t, ThemeFor(800, "01d").Night)
}

func TestIconFor(t *testing.T) {
	assert.Equal(t, "☀", IconFor(800, "01d"))
	assert.Equal(t, "🌙", IconFor(800, "01n"))
	assert.Equal(t, "⛈", IconFor(211, "11d"))
	assert.Equal(t, "❄", IconFor(601, "13d"))
}

func TestCurrent_SanitizesAndFormats(t *testing.T) {
	snap := weather.WeatherSnapshot{
		City:           "<b>London</b>",
		Country:        "GB",
		Timestamp:      time.Date(2024, 3, 4, 12, 30, 0, 0, time.UTC),
		TimezoneOffset: 3600,
		Temperature:    0,
		FeelsLike:      -2.4,
		Humidity:       80.6,
		Pressure:       1012.2,
		WindSpeed:      3.25,
		ConditionCode:  500,
		Description:    "light rain<script>alert(1)</script>",
		Icon:           "10n",
		Units:          weather.UnitsMetric,
	}

	v := Current(snap, weather.UnitsMetric)
	assert.Equal(t, "London", v.City)
	assert.Equal(t, "London, GB", v.Location)
	assert.Equal(t, "Mon, Mar 4 13:30", v.Time)
	assert.Equal(t, "0°C", v.Temperature)
	assert.Equal(t, "-2°C", v.FeelsLike)
	assert.Equal(t, "81%", v.Humidity)
	assert.Equal(t, "1012 hPa", v.Pressure)
	assert.Equal(t, "Light rain", v.Description)
	assert.Equal(t, Theme{Name: ThemeRain, Night: true}, v.Theme)

	imperial := Current(snap, weather.UnitsImperial)
	assert.Equal(t, "32°F", imperial.Temperature)
	assert.Contains(t, imperial.Wind, "mph")
}

func TestForecast_Cards(t *testing.T) {
	f := weather.Forecast{
		Units: weather.UnitsMetric,
		Entries: []weather.ForecastEntry{
			{Timestamp: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), Temperature: 100, ConditionCode: 800, Description: "clear sky", Icon: "01d"},
			{Timestamp: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), Temperature: 0, ConditionCode: 804, Description: "overcast clouds", Icon: "04d"},
		},
	}

	cards := Forecast(f, weather.UnitsImperial)
	require.Len(t, cards, 2)
	assert.Equal(t, "Mon", cards[0].Day)
	assert.Equal(t, "212°F", cards[0].Temperature)
	assert.Equal(t, "Clear sky", cards[0].Description)
	assert.Equal(t, "Tue", cards[1].Day)
	assert.Equal(t, "32°F", cards[1].Temperature)
}
