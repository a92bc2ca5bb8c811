package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/i474232898/weather-widget/internal/weather"
)

// CurrentView is the current-conditions panel, fully formatted and sanitized.
type CurrentView struct {
	City        string `json:"city"`
	Country     string `json:"country"`
	Location    string `json:"location"`
	Time        string `json:"time"`
	Temperature string `json:"temperature"`
	FeelsLike   string `json:"feelsLike"`
	Humidity    string `json:"humidity"`
	Pressure    string `json:"pressure"`
	Wind        string `json:"wind"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	IconID      string `json:"iconId"`
	Theme       Theme  `json:"theme"`
}

// ForecastCard is one daily card.
type ForecastCard struct {
	Day         string `json:"day"`
	Date        string `json:"date"`
	Icon        string `json:"icon"`
	IconID      string `json:"iconId"`
	Temperature string `json:"temperature"`
	Description string `json:"description"`
}

// Current renders s in the display units.
func Current(s weather.WeatherSnapshot, units weather.Units) CurrentView {
	city := weather.SanitizeText(s.City)
	country := weather.SanitizeText(s.Country)
	location := city
	if country != "" {
		location = fmt.Sprintf("%s, %s", city, country)
	}

	return CurrentView{
		City:        city,
		Country:     country,
		Location:    location,
		Time:        s.LocalTime().Format("Mon, Jan 2 15:04"),
		Temperature: FormatTemperature(s.Temperature, s.Units, units),
		FeelsLike:   FormatTemperature(s.FeelsLike, s.Units, units),
		Humidity:    fmt.Sprintf("%d%%", int(math.Round(s.Humidity))),
		Pressure:    fmt.Sprintf("%d hPa", int(math.Round(s.Pressure))),
		Wind:        FormatWind(s.WindSpeed, s.Units, units),
		Description: capitalize(weather.SanitizeText(s.Description)),
		Icon:        IconFor(s.ConditionCode, s.Icon),
		IconID:      weather.SanitizeText(s.Icon),
		Theme:       ThemeFor(s.ConditionCode, s.Icon),
	}
}

// Forecast renders one card per daily entry.
func Forecast(f weather.Forecast, units weather.Units) []ForecastCard {
	loc := f.Location()
	cards := make([]ForecastCard, 0, len(f.Entries))
	for _, e := range f.Entries {
		local := e.Timestamp.In(loc)
		cards = append(cards, ForecastCard{
			Day:         local.Format("Mon"),
			Date:        local.Format("Jan 2"),
			Icon:        IconFor(e.ConditionCode, e.Icon),
			IconID:      weather.SanitizeText(e.Icon),
			Temperature: FormatTemperature(e.Temperature, f.Units, units),
			Description: capitalize(weather.SanitizeText(e.Description)),
		})
	}
	return cards
}

func capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
