package render

import "strings"

// Theme is the background selection for the current-conditions panel.
type Theme struct {
	Name  string `json:"name"`
	Night bool   `json:"night"`
}

const (
	ThemeThunderstorm = "thunderstorm"
	ThemeRain         = "rain"
	ThemeSnow         = "snow"
	ThemeMist         = "mist"
	ThemeClear        = "clear"
	ThemeClouds       = "clouds"
	ThemeDefault      = "default"
)

// ThemeFor picks the theme from the provider condition code; the icon
// suffix "n" marks night.
func ThemeFor(code int, icon string) Theme {
	return Theme{Name: themeName(code), Night: IsNight(icon)}
}

func themeName(code int) string {
	switch {
	case code >= 200 && code < 300:
		return ThemeThunderstorm
	case code >= 300 && code < 600:
		return ThemeRain
	case code >= 600 && code < 700:
		return ThemeSnow
	case code >= 700 && code < 800:
		return ThemeMist
	case code == 800:
		return ThemeClear
	case code > 800:
		return ThemeClouds
	default:
		return ThemeDefault
	}
}

// IsNight reports whether the icon id is a night variant (e.g. "01n").
func IsNight(icon string) bool {
	return strings.HasSuffix(icon, "n")
}

// IconFor returns a glyph for the condition.
func IconFor(code int, icon string) string {
	switch themeName(code) {
	case ThemeThunderstorm:
		return "⛈"
	case ThemeRain:
		if code < 400 {
			return "🌦"
		}
		return "🌧"
	case ThemeSnow:
		return "❄"
	case ThemeMist:
		return "🌫"
	case ThemeClear:
		if IsNight(icon) {
			return "🌙"
		}
		return "☀"
	case ThemeClouds:
		if code == 801 {
			return "⛅"
		}
		return "☁"
	default:
		return "🌡"
	}
}
