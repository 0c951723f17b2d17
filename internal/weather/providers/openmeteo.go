package providers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/backspace-weather/internal/location"
	"github.com/i474232898/backspace-weather/internal/weather"
)

// DefaultOpenMeteoURL is the Open-Meteo forecast endpoint.
const DefaultOpenMeteoURL = "https://api.open-meteo.com/v1/forecast"

var openMeteoHourly = []string{
	"temperature_2m",
	"precipitation",
	"precipitation_probability",
	"cloudcover",
	"windspeed_10m",
	"uv_index",
}

// OpenMeteoProvider implements weather.ForecastSource for Open-Meteo.
type OpenMeteoProvider struct {
	upstream *upstream
}

func NewOpenMeteoProvider(baseURL string, timeout time.Duration, opts Options) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = DefaultOpenMeteoURL
	}
	return &OpenMeteoProvider{upstream: newUpstream("open-meteo", baseURL, timeout, opts)}
}

func (p *OpenMeteoProvider) Name() string {
	return p.upstream.name
}

// HourlyForecast returns the hourly block for the next days days. Times are
// local to the point ("timezone=auto").
func (p *OpenMeteoProvider) HourlyForecast(ctx context.Context, coord location.Coordinate, days int) (weather.HourlyForecast, error) {
	if days <= 0 {
		days = weather.ForecastDays
	}

	params := map[string]string{
		"latitude":      strconv.FormatFloat(coord.Latitude, 'f', -1, 64),
		"longitude":     strconv.FormatFloat(coord.Longitude, 'f', -1, 64),
		"hourly":        strings.Join(openMeteoHourly, ","),
		"forecast_days": strconv.Itoa(days),
		"timezone":      "auto",
	}

	var payload struct {
		Hourly *weather.HourlyForecast `json:"hourly"`
	}
	if err := p.upstream.getJSON(ctx, "", params, &payload); err != nil {
		return weather.HourlyForecast{}, err
	}
	if payload.Hourly == nil {
		return weather.HourlyForecast{}, weather.ErrUpstreamData
	}
	return *payload.Hourly, nil
}
