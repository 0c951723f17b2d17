package weather

import (
	"math"

	"github.com/i474232898/backspace-weather/internal/common"
)

// NoWindowDataMessage accompanies the empty-window result.
const NoWindowDataMessage = "No forecast data for the selected window"

const (
	suggestShelter    = "High rain risk: arrange shelter/tents"
	suggestReschedule = "Consider shifting time to a drier hour"
	suggestUmbrellas  = "Showers possible: bring umbrellas/ponchos"
	suggestSecure     = "Strong winds: secure structures, avoid lightweight canopies"
	suggestBreezy     = "Breezy: secure signage/balloons"
	suggestDress      = "Adjust dress code and hydration plan"
	suggestSunscreen  = "Provide sunscreen and shaded areas (UV elevated)"
)

// comfortBand is the temperature range, in Celsius, an event type tolerates.
type comfortBand struct {
	min, max float64
}

var (
	defaultComfort = comfortBand{min: 10, max: 30}
	socialComfort  = comfortBand{min: 12, max: 30}
	activeComfort  = comfortBand{min: 8, max: 32}

	socialEvents = []string{"wedding", "outdoor gathering", "concert", "festival", "parade", "picnic"}
	activeEvents = []string{"sports event", "hiking trip"}
)

func comfortFor(eventType string) comfortBand {
	switch {
	case common.EqualFoldAny(eventType, socialEvents...):
		return socialComfort
	case common.EqualFoldAny(eventType, activeEvents...):
		return activeComfort
	default:
		return defaultComfort
	}
}

// SelectWindow returns the forecast hours whose timestamp lies in
// [w.Start, w.End]. Timestamps are compared as strings, so both bounds must
// use the forecast's local "2006-01-02T15:04" layout.
func SelectWindow(fc HourlyForecast, w EventWindow) []EventWindowEntry {
	var out []EventWindowEntry
	for i, t := range fc.Time {
		if t < w.Start || t > w.End {
			continue
		}
		out = append(out, EventWindowEntry{
			Time:            t,
			Temperature:     copyOf(at(fc.Temperature, i)),
			PrecipitationMM: valueOr(at(fc.Precipitation, i), 0),
			Probability:     at(fc.PrecipProbability, i),
			WindMph:         KmhToMph(valueOr(at(fc.WindSpeed, i), 0)),
			CloudCover:      at(fc.CloudCover, i),
			UVIndex:         at(fc.UVIndex, i),
		})
	}
	return out
}

// Summarize computes the window aggregates. Temperatures stay in Celsius.
func Summarize(entries []EventWindowEntry) EventMetrics {
	var (
		m     EventMetrics
		sum   float64
		count int
	)
	for _, e := range entries {
		if e.Temperature != nil {
			sum += *e.Temperature
			count++
		}
		m.MaxWindMph = math.Max(m.MaxWindMph, e.WindMph)
		m.MaxPrecipMM = math.Max(m.MaxPrecipMM, e.PrecipitationMM)
		if e.Probability != nil && (m.MaxPoP == nil || *e.Probability > *m.MaxPoP) {
			m.MaxPoP = ptr(*e.Probability)
		}
		m.MaxUV = math.Max(m.MaxUV, valueOr(e.UVIndex, 0))
	}
	if count > 0 {
		m.AvgTemp = ptr(sum / float64(count))
	}
	return m
}

// Assess scores the metrics of a window for an event type.
func Assess(m EventMetrics, eventType string) RiskAssessment {
	r := RiskAssessment{
		Precipitation: precipitationRisk(m.MaxPoP, m.MaxPrecipMM),
		Wind:          windRisk(m.MaxWindMph),
		Temperature:   temperatureRisk(m.AvgTemp, comfortFor(eventType)),
		UV:            uvRisk(m.MaxUV),
	}
	r.Favorable = r.Precipitation == RiskLow && r.Wind == RiskLow && r.Temperature != RiskHigh
	r.Suggestions = suggestions(r)
	return r
}

func precipitationRisk(maxPoP *float64, maxPrecip float64) RiskLevel {
	pop := -1.0
	if maxPoP != nil {
		pop = *maxPoP
	}
	switch {
	case pop >= 60 || maxPrecip >= 2:
		return RiskHigh
	case pop >= 30 || maxPrecip >= 0.2:
		return RiskModerate
	default:
		return RiskLow
	}
}

func windRisk(maxMph float64) RiskLevel {
	switch {
	case maxMph >= 30:
		return RiskHigh
	case maxMph >= 15:
		return RiskModerate
	default:
		return RiskLow
	}
}

func uvRisk(maxUV float64) RiskLevel {
	switch {
	case maxUV >= 8:
		return RiskHigh
	case maxUV >= 6:
		return RiskModerate
	default:
		return RiskLow
	}
}

// temperatureRisk is low when no temperature was forecast at all.
func temperatureRisk(avgC *float64, band comfortBand) RiskLevel {
	if avgC == nil {
		return RiskLow
	}
	switch t := *avgC; {
	case t < band.min-2 || t > band.max+2:
		return RiskHigh
	case t < band.min || t > band.max:
		return RiskModerate
	default:
		return RiskLow
	}
}

// suggestions lists advice in precipitation, wind, temperature, UV order.
func suggestions(r RiskAssessment) []string {
	out := []string{}
	switch r.Precipitation {
	case RiskHigh:
		out = append(out, suggestShelter, suggestReschedule)
	case RiskModerate:
		out = append(out, suggestUmbrellas)
	}
	switch r.Wind {
	case RiskHigh:
		out = append(out, suggestSecure)
	case RiskModerate:
		out = append(out, suggestBreezy)
	}
	if r.Temperature != RiskLow {
		out = append(out, suggestDress)
	}
	if r.UV != RiskLow {
		out = append(out, suggestSunscreen)
	}
	return out
}

func at(vals []*float64, i int) *float64 {
	if i < len(vals) {
		return vals[i]
	}
	return nil
}

// copyOf detaches a value from the decoded payload so shaping can rewrite it.
func copyOf(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return ptr(*v)
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
