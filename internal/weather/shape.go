package weather

import "math"

// Report is a response body whose temperature-bearing parts are rendered by
// ShapeUnits. Any of the substructures may be absent.
type Report struct {
	Current    *CurrentConditions
	Hourly     []HourlyRecord
	Forecast   []DailyTrendEntry
	Historical []HistoricalEntry
	Event      *EventAdvice

	// Unit is the symbol of the scale the report is rendered in, empty until
	// the report has been shaped.
	Unit string

	scale Unit
}

// ShapeUnits converts every known temperature field of r to unit and stamps
// the unit symbol. Display temperatures are rounded to whole degrees, event
// window values to one decimal. Calling it again with the same unit changes
// nothing.
func ShapeUnits(r *Report, unit Unit) *Report {
	if r == nil {
		return nil
	}
	if unit != Celsius {
		unit = Fahrenheit
	}

	from := r.scale
	if from == "" {
		from = Celsius
	}
	whole := func(v *float64) {
		*v = math.Round(convertTemperature(*v, from, unit))
	}
	tenth := func(v *float64) {
		if v != nil {
			*v = Round(convertTemperature(*v, from, unit), 1)
		}
	}

	if c := r.Current; c != nil {
		for _, f := range []*float64{&c.Temperature, &c.FeelsLike, &c.DewPoint, &c.High, &c.Low} {
			whole(f)
		}
	}
	for i := range r.Hourly {
		h := &r.Hourly[i]
		for _, f := range []*float64{&h.Temperature, &h.FeelsLike, &h.DewPoint} {
			whole(f)
		}
	}
	for i := range r.Forecast {
		d := &r.Forecast[i]
		whole(&d.High)
		whole(&d.Low)
	}
	for i := range r.Historical {
		whole(&r.Historical[i].AvgTemp)
	}
	if e := r.Event; e != nil {
		for i := range e.Hourly {
			tenth(e.Hourly[i].Temperature)
		}
		tenth(e.Metrics.AvgTemp)
		e.Metrics.Unit = unit.Symbol()
	}

	r.scale = unit
	r.Unit = unit.Symbol()
	return r
}

func convertTemperature(v float64, from, to Unit) float64 {
	switch {
	case from == to:
		return v
	case to == Fahrenheit:
		return CelsiusToFahrenheit(v)
	default:
		return FahrenheitToCelsius(v)
	}
}
