package providers

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/i474232898/backspace-weather/internal/location"
)

// DefaultNominatimURL is the public OpenStreetMap search endpoint.
const DefaultNominatimURL = "https://nominatim.openstreetmap.org/search"

// NominatimGeocoder implements location.Geocoder on top of OpenStreetMap
// Nominatim. Nominatim requires an identifying User-Agent.
type NominatimGeocoder struct {
	upstream *upstream
}

func NewNominatimGeocoder(baseURL string, timeout time.Duration, opts Options) *NominatimGeocoder {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	return &NominatimGeocoder{upstream: newUpstream("nominatim", baseURL, timeout, opts)}
}

func (g *NominatimGeocoder) Name() string {
	return g.upstream.name
}

// Geocode returns the first search hit for query.
func (g *NominatimGeocoder) Geocode(ctx context.Context, query string) (location.Coordinate, error) {
	params := map[string]string{
		"q":              query,
		"format":         "json",
		"limit":          "1",
		"addressdetails": "1",
	}

	var hits []struct {
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		DisplayName string `json:"display_name"`
	}
	if err := g.upstream.getJSON(ctx, "", params, &hits); err != nil {
		return location.Coordinate{}, err
	}
	if len(hits) == 0 {
		return location.Coordinate{}, fmt.Errorf("%w: no match for %q", location.ErrUnresolved, query)
	}

	lat, err := strconv.ParseFloat(hits[0].Lat, 64)
	if err != nil {
		return location.Coordinate{}, fmt.Errorf("%w: bad latitude %q", location.ErrUnresolved, hits[0].Lat)
	}
	lon, err := strconv.ParseFloat(hits[0].Lon, 64)
	if err != nil {
		return location.Coordinate{}, fmt.Errorf("%w: bad longitude %q", location.ErrUnresolved, hits[0].Lon)
	}

	return location.Coordinate{Latitude: lat, Longitude: lon, DisplayName: hits[0].DisplayName}, nil
}
