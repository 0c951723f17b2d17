package providers

import (
	"context"
	"fmt"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/backspace-weather/internal/location"
)

// GoogleGeocoder implements location.Geocoder with the Google Geocoding API.
// The underlying library keeps its API key in a package variable, so only one
// key can be active per process.
type GoogleGeocoder struct{}

func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{}
}

func (g *GoogleGeocoder) Name() string {
	return "google"
}

// Geocode resolves query. The library takes no context, so the call runs in
// its own goroutine and is abandoned when ctx is done.
func (g *GoogleGeocoder) Geocode(ctx context.Context, query string) (location.Coordinate, error) {
	type result struct {
		loc geocoder.Location
		err error
	}
	done := make(chan result, 1)
	go func() {
		loc, err := geocoder.Geocoding(geocoder.Address{City: query})
		done <- result{loc: loc, err: err}
	}()

	select {
	case <-ctx.Done():
		return location.Coordinate{}, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return location.Coordinate{}, fmt.Errorf("google geocoding: %w", r.err)
		}
		if r.loc.Latitude == 0 && r.loc.Longitude == 0 {
			return location.Coordinate{}, fmt.Errorf("%w: no match for %q", location.ErrUnresolved, query)
		}
		return location.Coordinate{
			Latitude:    r.loc.Latitude,
			Longitude:   r.loc.Longitude,
			DisplayName: query,
		}, nil
	}
}
