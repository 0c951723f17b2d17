package weather

import (
	"strings"
	"time"

	"github.com/i474232898/backspace-weather/internal/location"
)

// Unit is the temperature scale a response is rendered in.
type Unit string

const (
	Celsius    Unit = "celsius"
	Fahrenheit Unit = "fahrenheit"
)

// ParseUnit maps a query value to a Unit. Anything other than "celsius"
// renders in Fahrenheit.
func ParseUnit(s string) Unit {
	if strings.EqualFold(strings.TrimSpace(s), string(Celsius)) {
		return Celsius
	}
	return Fahrenheit
}

// Symbol returns the marker appended to responses.
func (u Unit) Symbol() string {
	if u == Celsius {
		return "°C"
	}
	return "°F"
}

// HourlyRecord is one user-facing hour. Temperatures are in the scale of the
// Report that carries them (Celsius until shaped).
type HourlyRecord struct {
	Time          string   `json:"time"`
	Temperature   float64  `json:"temp"`
	Icon          string   `json:"icon"`
	Precipitation float64  `json:"precipitation"` // mm/h
	Humidity      float64  `json:"humidity"`
	Wind          float64  `json:"wind"` // mph
	FeelsLike     float64  `json:"feelsLike"`
	Description   string   `json:"description"`
	Pressure      *float64 `json:"pressure"` // inHg, nil when unobserved
	UVIndex       float64  `json:"uvIndex"`
	DewPoint      float64  `json:"dewPoint"`
}

// CurrentConditions summarises the latest observation for a point.
type CurrentConditions struct {
	Temperature   float64  `json:"temp"`
	Condition     string   `json:"condition"`
	Description   string   `json:"description"`
	Precipitation float64  `json:"precipitation"`
	PrecipLast24h float64  `json:"precipLast24h"`
	Humidity      float64  `json:"humidity"`
	Wind          float64  `json:"wind"`
	Pressure      *float64 `json:"pressure"`
	Visibility    float64  `json:"visibility"`
	UVIndex       float64  `json:"uvIndex"`
	DewPoint      float64  `json:"dewPoint"`
	FeelsLike     float64  `json:"feelsLike"`
	Icon          string   `json:"icon"`
	High          float64  `json:"high"`
	Low           float64  `json:"low"`
}

// DailyTrendEntry is one past day of the recent trend. It is never a
// prediction.
type DailyTrendEntry struct {
	Date          string  `json:"date"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Precipitation float64 `json:"precipitation"`
	Condition     string  `json:"condition"`
	Description   string  `json:"description"`
	Icon          string  `json:"icon"`
	Humidity      float64 `json:"humidity"`
	Wind          float64 `json:"wind"`
}

// HistoricalEntry is one day of the long-range history view.
type HistoricalEntry struct {
	Date          string  `json:"date"`
	AvgTemp       float64 `json:"avgTemp"`
	Precipitation float64 `json:"precipitation"`
	Humidity      float64 `json:"humidity"`
}

// EventWindowEntry is one forecast hour inside an event window.
type EventWindowEntry struct {
	Time            string   `json:"time"`
	Temperature     *float64 `json:"temp"`
	PrecipitationMM float64  `json:"precip_mm"`
	Probability     *float64 `json:"pop"`
	WindMph         float64  `json:"wind_mph"`
	CloudCover      *float64 `json:"cloud"`
	UVIndex         *float64 `json:"uv"`
}

// RiskLevel is a per-factor risk band.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

// RiskAssessment is the scored verdict for an event window.
type RiskAssessment struct {
	Precipitation RiskLevel `json:"precip"`
	Wind          RiskLevel `json:"wind"`
	Temperature   RiskLevel `json:"temperature"`
	UV            RiskLevel `json:"uv"`
	Favorable     bool      `json:"-"`
	Suggestions   []string  `json:"-"`
}

// EventMetrics are the window aggregates the assessment was derived from.
type EventMetrics struct {
	MaxPrecipMM float64  `json:"max_precip_mm"`
	MaxPoP      *float64 `json:"max_pop_percent"`
	MaxWindMph  float64  `json:"max_wind_mph"`
	MaxUV       float64  `json:"-"`
	AvgTemp     *float64 `json:"avg_temp"`
	Unit        string   `json:"unit"`
}

// EventWindow is the requested local time range, compared as strings.
type EventWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// EventAdvice is the result of scoring an event window. NoData marks the
// empty-window result, which is a successful outcome.
type EventAdvice struct {
	NoData  bool   `json:"-"`
	Message string `json:"-"`

	Coordinate  location.Coordinate `json:"-"`
	Window      EventWindow         `json:"window"`
	EventType   string              `json:"eventType"`
	Risks       RiskAssessment      `json:"risks"`
	Metrics     EventMetrics        `json:"metrics"`
	Hourly      []EventWindowEntry  `json:"hourly"`
	Favorable   bool                `json:"favorable"`
	Summary     string              `json:"summary"`
	Suggestions []string            `json:"suggestions"`
}

// ComparisonEntry is one successfully resolved location of a comparison.
type ComparisonEntry struct {
	Location string             `json:"location"`
	Weather  *CurrentConditions `json:"weather"`
}

// ProbeResult records one reachability check against an upstream.
type ProbeResult struct {
	Source    string        `json:"source"`
	OK        bool          `json:"ok"`
	Latency   time.Duration `json:"latencyNs"`
	Error     string        `json:"error,omitempty"`
	CheckedAt time.Time     `json:"checkedAt"` // always UTC
}
