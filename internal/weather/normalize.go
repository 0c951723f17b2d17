package weather

import "math"

// Sentinels is the set of provider placeholder values meaning "no
// observation". A nil value (JSON null) is always treated as missing.
type Sentinels []float64

// DefaultSentinels are the placeholders NASA POWER emits.
var DefaultSentinels = Sentinels{-999, -9999, -99}

// Missing reports whether v carries no observation.
func (s Sentinels) Missing(v *float64) bool {
	if v == nil {
		return true
	}
	for _, m := range s {
		if *v == m {
			return true
		}
	}
	return false
}

// Or returns fallback when v is missing, otherwise *v unchanged.
func (s Sentinels) Or(v *float64, fallback float64) float64 {
	if s.Missing(v) {
		return fallback
	}
	return *v
}

// ClampHumidity bounds relative humidity to [0, 100].
func ClampHumidity(pct float64) float64 {
	return math.Max(0, math.Min(100, pct))
}

// NonNegative floors wind speeds, precipitation and UV at zero.
func NonNegative(v float64) float64 {
	return math.Max(0, v)
}

// Round rounds v to the given number of decimal places, halves away from zero.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

// MsToMph converts reanalysis wind speed (m/s) to whole miles per hour.
func MsToMph(ms float64) float64 {
	return math.Round(ms * 2.237)
}

// KPaToInHg converts surface pressure to inches of mercury, two decimals.
func KPaToInHg(kpa float64) float64 {
	return Round(kpa*0.2953, 2)
}

// KmhToMph converts forecast wind speed (km/h) to mph with one decimal. The
// forecast path keeps one decimal while the reanalysis path rounds to whole
// numbers.
func KmhToMph(kmh float64) float64 {
	return Round(kmh*0.621371, 1)
}

func ptr(v float64) *float64 {
	return &v
}
