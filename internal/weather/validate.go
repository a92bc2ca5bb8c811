package weather

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// MaxCityNameLength is the longest city name accepted, in runes.
const MaxCityNameLength = 100

var (
	validate = validator.New()

	cityNamePattern = regexp.MustCompile(`^[\p{L}\p{M} \-',.()]+$`)

	scriptBlockPattern  = regexp.MustCompile(`(?is)<script\b.*?</script\s*>`)
	tagPattern          = regexp.MustCompile(`(?s)<[^>]*>`)
	jsSchemePattern     = regexp.MustCompile(`(?i)javascript\s*:`)
	eventHandlerPattern = regexp.MustCompile(`(?i)\bon[a-z]+\s*=`)
)

func init() {
	_ = validate.RegisterValidation("city", func(fl validator.FieldLevel) bool {
		return ValidateCityName(fl.Field().String())
	})
}

// Validator exposes the package validator, with the "city" tag registered.
func Validator() *validator.Validate {
	return validate
}

// ValidateCityName reports whether input is usable as a city search term.
// Markup never survives: both the raw input and its sanitized form must
// match the allowed character class.
func ValidateCityName(input string) bool {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" || utf8.RuneCountInString(input) > MaxCityNameLength {
		return false
	}
	if !cityNamePattern.MatchString(trimmed) {
		return false
	}
	sanitized := strings.TrimSpace(SanitizeText(trimmed))
	return sanitized != "" && cityNamePattern.MatchString(sanitized)
}

// ValidateCoordinates reports whether lat/lon are finite and inside the valid ranges.
func ValidateCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return validate.Struct(Coordinates{Lat: lat, Lon: lon}) == nil
}

// ParseCoordinates parses and validates a lat/lon pair given as strings.
func ParseCoordinates(lat, lon string) (Coordinates, error) {
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: latitude %q", ErrInvalidInput, lat)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: longitude %q", ErrInvalidInput, lon)
	}
	if !ValidateCoordinates(la, lo) {
		return Coordinates{}, fmt.Errorf("%w: coordinates out of range", ErrInvalidInput)
	}
	return Coordinates{Lat: la, Lon: lo}, nil
}

// SanitizeText strips script blocks, markup tags, javascript: schemes and
// inline event-handler attributes from s.
func SanitizeText(s string) string {
	if s == "" {
		return s
	}
	out := scriptBlockPattern.ReplaceAllString(s, "")
	out = tagPattern.ReplaceAllString(out, "")
	out = jsSchemePattern.ReplaceAllString(out, "")
	out = eventHandlerPattern.ReplaceAllString(out, "")
	return out
}
