package render

import (
	"fmt"
	"math"

	"github.com/i474232898/weather-widget/internal/weather"
)

const mpsToMph = 2.2369362920544

// ConvertTemperature converts v from one unit system to another.
func ConvertTemperature(v float64, from, to weather.Units) float64 {
	if from == to || from == "" || to == "" {
		return v
	}
	if to == weather.UnitsImperial {
		return v*9/5 + 32
	}
	return (v - 32) * 5 / 9
}

// ConvertSpeed converts wind speed between m/s (metric) and mph (imperial).
func ConvertSpeed(v float64, from, to weather.Units) float64 {
	if from == to || from == "" || to == "" {
		return v
	}
	if to == weather.UnitsImperial {
		return v * mpsToMph
	}
	return v / mpsToMph
}

// TemperatureGlyph is the unit suffix for temperatures.
func TemperatureGlyph(u weather.Units) string {
	if u == weather.UnitsImperial {
		return "°F"
	}
	return "°C"
}

// SpeedUnit is the unit suffix for wind speed.
func SpeedUnit(u weather.Units) string {
	if u == weather.UnitsImperial {
		return "mph"
	}
	return "m/s"
}

// FormatTemperature renders v (given in from) in to, rounded to a whole degree.
func FormatTemperature(v float64, from, to weather.Units) string {
	rounded := int(math.Round(ConvertTemperature(v, from, to)))
	return fmt.Sprintf("%d%s", rounded, TemperatureGlyph(to))
}

// FormatWind renders v (given in from) in to with one decimal.
func FormatWind(v float64, from, to weather.Units) string {
	return fmt.Sprintf("%.1f %s", ConvertSpeed(v, from, to), SpeedUnit(to))
}
