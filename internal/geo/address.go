package geo

import (
	"context"
	"fmt"
	"strings"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-widget/internal/weather"
)

// Address is the configured home address resolved by AddressLocator.
type Address struct {
	Street     string
	City       string
	State      string
	Country    string
	PostalCode string
}

func (a Address) empty() bool {
	return strings.TrimSpace(a.Street+a.City+a.State+a.Country+a.PostalCode) == ""
}

// geocodeFunc matches geocoder.Geocoding.
type geocodeFunc func(geocoder.Address) (geocoder.Location, error)

// geocoder keeps its key in a package variable, so lookups hold this slot
// one at a time. geocoder.Geocoding has no timeout of its own: a hung lookup
// keeps the slot until it returns, and later callers give up at their own
// deadline without starting another lookup.
var geocoderSlot = make(chan struct{}, 1)

// AddressLocator resolves a fixed address to coordinates through Google geocoding.
type AddressLocator struct {
	apiKey  string
	address Address
	geocode geocodeFunc
}

func NewAddressLocator(apiKey string, address Address) *AddressLocator {
	return &AddressLocator{
		apiKey:  apiKey,
		address: address,
		geocode: geocoder.Geocoding,
	}
}

func (l *AddressLocator) Locate(ctx context.Context) (weather.Coordinates, error) {
	if l.apiKey == "" || l.address.empty() {
		return weather.Coordinates{}, ErrPermissionDenied
	}

	type result struct {
		loc geocoder.Location
		err error
	}
	done := make(chan result, 1)

	select {
	case geocoderSlot <- struct{}{}:
	case <-ctx.Done():
		return weather.Coordinates{}, ctx.Err()
	}

	go func() {
		defer func() { <-geocoderSlot }()
		geocoder.ApiKey = l.apiKey
		loc, err := l.geocode(geocoder.Address{
			Street:     l.address.Street,
			City:       l.address.City,
			State:      l.address.State,
			Country:    l.address.Country,
			PostalCode: l.address.PostalCode,
		})
		done <- result{loc: loc, err: err}
	}()

	select {
	case <-ctx.Done():
		return weather.Coordinates{}, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return weather.Coordinates{}, fmt.Errorf("%w: %v", ErrPositionUnavailable, r.err)
		}
		if !weather.ValidateCoordinates(r.loc.Latitude, r.loc.Longitude) {
			return weather.Coordinates{}, ErrPositionUnavailable
		}
		return weather.Coordinates{Lat: r.loc.Latitude, Lon: r.loc.Longitude}, nil
	}
}
