package providers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/backspace-weather/internal/weather"
)

// DefaultNASAPowerURL is the temporal API root of NASA POWER.
const DefaultNASAPowerURL = "https://power.larc.nasa.gov/api/temporal"

const powerDateLayout = "20060102"

// NASAPowerProvider implements weather.ReanalysisSource for NASA POWER.
type NASAPowerProvider struct {
	upstream *upstream
}

func NewNASAPowerProvider(baseURL string, timeout time.Duration, opts Options) *NASAPowerProvider {
	if baseURL == "" {
		baseURL = DefaultNASAPowerURL
	}
	return &NASAPowerProvider{upstream: newUpstream("nasa-power", baseURL, timeout, opts)}
}

func (p *NASAPowerProvider) Name() string {
	return p.upstream.name
}

// Daily fetches one value per day for each requested parameter.
func (p *NASAPowerProvider) Daily(ctx context.Context, req weather.PointRequest) (weather.ParameterSet, error) {
	return p.point(ctx, "/daily/point", req, nil)
}

// Hourly fetches hourly values in UTC. Depending on the product the series
// come back flat or as per-day arrays.
func (p *NASAPowerProvider) Hourly(ctx context.Context, req weather.PointRequest) (weather.ParameterSet, error) {
	return p.point(ctx, "/hourly/point", req, map[string]string{"time-standard": "UTC"})
}

func (p *NASAPowerProvider) point(ctx context.Context, path string, req weather.PointRequest, extra map[string]string) (weather.ParameterSet, error) {
	params := map[string]string{
		"parameters": strings.Join(req.Parameters, ","),
		"community":  "RE",
		"longitude":  strconv.FormatFloat(req.Coordinate.Longitude, 'f', -1, 64),
		"latitude":   strconv.FormatFloat(req.Coordinate.Latitude, 'f', -1, 64),
		"start":      req.Start.UTC().Format(powerDateLayout),
		"end":        req.End.UTC().Format(powerDateLayout),
		"format":     "JSON",
	}
	for k, v := range extra {
		params[k] = v
	}

	var payload struct {
		Properties *struct {
			Parameter weather.ParameterSet `json:"parameter"`
		} `json:"properties"`
	}
	if err := p.upstream.getJSON(ctx, path, params, &payload); err != nil {
		return nil, err
	}
	if payload.Properties == nil || payload.Properties.Parameter == nil {
		return nil, weather.ErrMissingParameters
	}
	return payload.Properties.Parameter, nil
}
