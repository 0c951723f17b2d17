package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/i474232898/backspace-weather/internal/location"
)

var (
	// ErrUpstreamData covers transport failures, timeouts and payloads missing
	// the keys the pipeline relies on.
	ErrUpstreamData = errors.New("upstream data unavailable")

	// ErrMissingParameters is returned by reanalysis sources when a response
	// carries no properties.parameter block. It wraps ErrUpstreamData.
	ErrMissingParameters = fmt.Errorf("%w: response has no parameter block", ErrUpstreamData)
)

// PointRequest describes a reanalysis point query. Start and End are whole
// days in UTC.
type PointRequest struct {
	Coordinate location.Coordinate
	Parameters []string
	Start      time.Time
	End        time.Time
}

// ReanalysisSource abstracts the historical/near-real-time point data service
// (NASA POWER).
type ReanalysisSource interface {
	Name() string
	Daily(ctx context.Context, req PointRequest) (ParameterSet, error)
	Hourly(ctx context.Context, req PointRequest) (ParameterSet, error)
}

// HourlyForecast is the flat time-array block of a forecast response. The
// value slices run parallel to Time and may be shorter than it.
type HourlyForecast struct {
	Time              []string   `json:"time"`
	Temperature       []*float64 `json:"temperature_2m"`
	Precipitation     []*float64 `json:"precipitation"`
	PrecipProbability []*float64 `json:"precipitation_probability"`
	CloudCover        []*float64 `json:"cloudcover"`
	WindSpeed         []*float64 `json:"windspeed_10m"` // km/h
	UVIndex           []*float64 `json:"uv_index"`
}

// ForecastSource abstracts the hourly forecast service (Open-Meteo).
type ForecastSource interface {
	Name() string
	HourlyForecast(ctx context.Context, coord location.Coordinate, days int) (HourlyForecast, error)
}

// Resolver turns free text into coordinates.
type Resolver interface {
	Resolve(ctx context.Context, text string) (location.Coordinate, error)
}

// ProbeStore keeps upstream reachability results.
type ProbeStore interface {
	SaveProbe(result ProbeResult)
	Latest() []ProbeResult
	GetRange(source string, from, to time.Time) ([]ProbeResult, error)
}
