package geo

import (
	"context"
	"errors"
	"time"

	"github.com/i474232898/weather-widget/internal/weather"
)

// DefaultTimeout bounds a single position request.
const DefaultTimeout = 10 * time.Second

var (
	ErrPermissionDenied    = weather.ErrLocationDenied
	ErrPositionUnavailable = weather.ErrLocationUnavailable
	ErrTimeout             = weather.ErrLocationTimeout
)

// Locator yields the device position or one of the errors above.
type Locator interface {
	Locate(ctx context.Context) (weather.Coordinates, error)
}

// Locate calls l with a timeout and maps context expiry to ErrTimeout.
func Locate(ctx context.Context, l Locator, timeout time.Duration) (weather.Coordinates, error) {
	if l == nil {
		return weather.Coordinates{}, ErrPositionUnavailable
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	c, err := l.Locate(ctx)
	if err == nil {
		return c, nil
	}
	switch {
	case errors.Is(err, ErrPermissionDenied), errors.Is(err, ErrPositionUnavailable), errors.Is(err, ErrTimeout):
		return weather.Coordinates{}, err
	case errors.Is(err, context.DeadlineExceeded):
		return weather.Coordinates{}, ErrTimeout
	default:
		return weather.Coordinates{}, errors.Join(ErrPositionUnavailable, err)
	}
}

// StaticLocator reports fixed coordinates. A disabled locator behaves like a
// user who declined the permission prompt.
type StaticLocator struct {
	Coords  weather.Coordinates
	Enabled bool
}

func (s StaticLocator) Locate(ctx context.Context) (weather.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return weather.Coordinates{}, err
	}
	if !s.Enabled {
		return weather.Coordinates{}, ErrPermissionDenied
	}
	return s.Coords, nil
}
