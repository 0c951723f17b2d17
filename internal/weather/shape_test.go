package weather

import "testing"

func sampleReport() *Report {
	return &Report{
		Current:    &CurrentConditions{Temperature: 20, FeelsLike: 20, DewPoint: 18, High: 25, Low: 10.4},
		Hourly:     []HourlyRecord{{Temperature: 21.3, FeelsLike: 21.3, DewPoint: 19.3}},
		Forecast:   []DailyTrendEntry{{High: 30, Low: -5}},
		Historical: []HistoricalEntry{{AvgTemp: 0}},
		Event: &EventAdvice{
			Hourly:  []EventWindowEntry{{Temperature: ptr(21.25)}, {Temperature: nil}},
			Metrics: EventMetrics{AvgTemp: ptr(21.25)},
		},
	}
}

func TestShapeUnitsFahrenheit(t *testing.T) {
	r := ShapeUnits(sampleReport(), Fahrenheit)

	if r.Unit != "°F" || r.Event.Metrics.Unit != "°F" {
		t.Fatalf("unexpected unit symbols: %q, %q", r.Unit, r.Event.Metrics.Unit)
	}
	c := r.Current
	if c.Temperature != 68 || c.DewPoint != 64 || c.High != 77 || c.Low != 51 {
		t.Errorf("unexpected current: %+v", c)
	}
	if h := r.Hourly[0]; h.Temperature != 70 || h.FeelsLike != 70 || h.DewPoint != 67 {
		t.Errorf("unexpected hourly: %+v", h)
	}
	if f := r.Forecast[0]; f.High != 86 || f.Low != 23 {
		t.Errorf("unexpected forecast: %+v", f)
	}
	if r.Historical[0].AvgTemp != 32 {
		t.Errorf("unexpected historical: %+v", r.Historical[0])
	}
	if v := *r.Event.Hourly[0].Temperature; v != 70.3 {
		t.Errorf("event temperature = %v, want 70.3", v)
	}
	if r.Event.Hourly[1].Temperature != nil {
		t.Errorf("absent event temperature should stay nil")
	}
	if v := *r.Event.Metrics.AvgTemp; v != 70.3 {
		t.Errorf("event average = %v, want 70.3", v)
	}
}

func TestShapeUnitsIdempotent(t *testing.T) {
	r := ShapeUnits(sampleReport(), Fahrenheit)
	before := *r.Current
	eventBefore := *r.Event.Metrics.AvgTemp

	ShapeUnits(r, Fahrenheit)
	if *r.Current != before || *r.Event.Metrics.AvgTemp != eventBefore {
		t.Fatalf("second shaping changed values: %+v vs %+v", *r.Current, before)
	}

	ShapeUnits(r, Celsius)
	if r.Current.Temperature != 20 || r.Unit != "°C" {
		t.Fatalf("expected conversion back to celsius, got %v %s", r.Current.Temperature, r.Unit)
	}
}

func TestShapeUnitsCelsiusRoundsToWholeDegrees(t *testing.T) {
	r := ShapeUnits(sampleReport(), Celsius)
	if r.Current.Low != 10 || r.Hourly[0].Temperature != 21 {
		t.Fatalf("expected whole degrees, got %v / %v", r.Current.Low, r.Hourly[0].Temperature)
	}
	if v := *r.Event.Metrics.AvgTemp; v != 21.3 {
		t.Fatalf("event average = %v, want 21.3", v)
	}
}

func TestShapeUnitsPartialReport(t *testing.T) {
	if ShapeUnits(nil, Celsius) != nil {
		t.Fatalf("expected nil for nil report")
	}

	r := ShapeUnits(&Report{Forecast: []DailyTrendEntry{{High: 0, Low: 0}}}, Unit("kelvin"))
	if r.Unit != "°F" || r.Forecast[0].High != 32 {
		t.Fatalf("unknown units should render in fahrenheit: %+v", r)
	}
}
