package weather

// Granularity selects the precipitation scale used by Classify: hourly rates
// in mm/h or daily accumulations in mm.
type Granularity int

const (
	Hourly Granularity = iota
	Daily
)

// Condition is a display label with its icon.
type Condition struct {
	Label string
	Icon  string
}

var (
	ConditionRainy        = Condition{Label: "Rainy", Icon: "🌧️"}
	ConditionLightRain    = Condition{Label: "Light Rain", Icon: "🌦️"}
	ConditionCloudy       = Condition{Label: "Cloudy", Icon: "☁️"}
	ConditionPartlyCloudy = Condition{Label: "Partly Cloudy", Icon: "⛅"}
	ConditionClear        = Condition{Label: "Clear", Icon: "☀️"}
)

// Classify maps raw measurements to a condition. Precipitation wins over
// humidity. tempC is accepted for future bands and not consulted yet.
func Classify(tempC, humidity, precip float64, g Granularity) Condition {
	heavy, light := 2.0, 0.2
	if g == Daily {
		heavy, light = 10, 1
	}

	switch {
	case precip >= heavy:
		return ConditionRainy
	case precip >= light:
		return ConditionLightRain
	case humidity > 80:
		return ConditionCloudy
	case humidity > 60:
		return ConditionPartlyCloudy
	default:
		return ConditionClear
	}
}
