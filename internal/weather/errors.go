package weather

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/i474232898/weather-widget/internal/common"
)

var (
	// ErrInvalidInput marks a city name or coordinate pair rejected before any network call.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnavailable marks a provider that cannot be reached at all (e.g. open circuit).
	ErrUnavailable = errors.New("weather provider unavailable")

	ErrLocationDenied      = errors.New("location permission denied")
	ErrLocationUnavailable = errors.New("location unavailable")
	ErrLocationTimeout     = errors.New("location request timed out")
)

// FetchError is returned for a non-2xx provider response.
type FetchError struct {
	StatusCode int
	Status     string
}

func (e *FetchError) Error() string {
	status := e.Status
	if status == "" {
		status = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("weather api: %d %s", e.StatusCode, status)
}

// Kind is the user-facing category of a failure.
type Kind string

const (
	KindInvalidInput        Kind = "invalid_input"
	KindNotFound            Kind = "not_found"
	KindRateLimited         Kind = "rate_limited"
	KindUnauthorized        Kind = "unauthorized"
	KindNetwork             Kind = "network"
	KindTimeout             Kind = "timeout"
	KindUnknown             Kind = "unknown"
	KindLocationDenied      Kind = "location_denied"
	KindLocationUnavailable Kind = "location_unavailable"
	KindLocationTimeout     Kind = "location_timeout"
)

var messages = map[Kind]string{
	KindInvalidInput:        "Please enter a valid city name.",
	KindNotFound:            "City not found. Please check the spelling and try again.",
	KindRateLimited:         "Too many requests. Please wait a moment and try again (rate limit reached).",
	KindUnauthorized:        "Invalid API key. Please check the weather service configuration.",
	KindNetwork:             "Network error. Please check your internet connection.",
	KindTimeout:             "The request timed out. Please try again.",
	KindUnknown:             "Something went wrong. Please try again.",
	KindLocationDenied:      "Location access denied. Please allow location access or search for a city.",
	KindLocationUnavailable: "Your location is currently unavailable. Please search for a city instead.",
	KindLocationTimeout:     "Getting your location took too long. Please try again.",
}

// UserMessage returns the sanitized message shown for kind.
func UserMessage(kind Kind) string {
	msg, ok := messages[kind]
	if !ok {
		msg = messages[KindUnknown]
	}
	return SanitizeText(msg)
}

// UserError is what a failed operation reports to the UI.
type UserError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *UserError) Error() string {
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError classifies err and attaches the matching message.
func NewUserError(err error) *UserError {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue
	}
	kind := Classify(err)
	return &UserError{Kind: kind, Message: UserMessage(kind), Err: err}
}

// Classify maps an error from validation, fetching or geolocation to a Kind.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	switch {
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrLocationDenied):
		return KindLocationDenied
	case errors.Is(err, ErrLocationUnavailable):
		return KindLocationUnavailable
	case errors.Is(err, ErrLocationTimeout):
		return KindLocationTimeout
	case errors.Is(err, ErrUnavailable):
		return KindNetwork
	}

	var fe *FetchError
	if errors.As(err, &fe) {
		switch fe.StatusCode {
		case http.StatusNotFound:
			return KindNotFound
		case http.StatusTooManyRequests:
			return KindRateLimited
		case http.StatusUnauthorized:
			return KindUnauthorized
		default:
			return KindUnknown
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return KindTimeout
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		return KindNetwork
	}
	var oe *net.OpError
	if errors.As(err, &oe) {
		return KindNetwork
	}

	msg := strings.ToLower(err.Error())
	if common.HasAny(msg, "timeout", "timed out") {
		return KindTimeout
	}
	if common.HasAny(msg, "connection refused", "no such host", "network is unreachable", "connection reset", "failed to fetch") {
		return KindNetwork
	}
	return KindUnknown
}
