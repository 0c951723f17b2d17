package weather

import (
	"errors"
	"testing"
)

func flatSeries(values map[string]*float64) RawSeries {
	return RawSeries{Shape: ShapeFlat, Flat: values}
}

func TestBuildHourlyDropsMissingAndLabelsNow(t *testing.T) {
	params := ParameterSet{
		ParamTemperature: flatSeries(map[string]*float64{
			"2025060110": ptr(18),
			"2025060111": ptr(-999),
			"2025060112": ptr(21),
			"2025060113": ptr(22),
		}),
		ParamPrecipitation: flatSeries(map[string]*float64{
			"2025060109": ptr(5),
			"2025060112": ptr(0.456),
		}),
		ParamPressure: flatSeries(map[string]*float64{
			"2025060113": ptr(101.325),
		}),
	}

	rows := BuildHourly(params, 2, DefaultSentinels)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Time != "12 PM" || rows[1].Time != NowLabel {
		t.Fatalf("unexpected labels: %q, %q", rows[0].Time, rows[1].Time)
	}
	if rows[0].Precipitation != 0.46 || rows[0].Description != ConditionLightRain.Label {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
	if rows[0].Pressure != nil {
		t.Errorf("expected missing pressure to stay absent")
	}
	if rows[1].Pressure == nil || *rows[1].Pressure != 29.92 {
		t.Errorf("expected converted pressure, got %v", rows[1].Pressure)
	}
	if rows[1].Humidity != 60 || rows[1].DewPoint != 20 || rows[1].FeelsLike != 22 {
		t.Errorf("unexpected defaults: %+v", rows[1])
	}

	all := BuildHourly(params, 0, DefaultSentinels)
	if len(all) != 3 {
		t.Fatalf("expected every valid hour when hours <= 0, got %d", len(all))
	}
}

func TestBuildHourlyFromDayArrays(t *testing.T) {
	temps := make([]*float64, 24)
	for h := range temps {
		temps[h] = ptr(float64(h))
	}
	params := ParameterSet{
		ParamTemperature: {Shape: ShapeDayArrays, Days: map[string][]*float64{"20250601": temps}},
	}

	rows := BuildHourly(params, 24, DefaultSentinels)
	if len(rows) != 24 {
		t.Fatalf("expected 24 rows, got %d", len(rows))
	}
	if rows[0].Time != "12 AM" || rows[23].Time != NowLabel || rows[23].Temperature != 23 {
		t.Fatalf("unexpected rows: first %+v last %+v", rows[0], rows[23])
	}
}

func TestBuildHourlyEmpty(t *testing.T) {
	if rows := BuildHourly(ParameterSet{}, 24, DefaultSentinels); len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestBuildCurrentDefaults(t *testing.T) {
	c := BuildCurrent(ParameterSet{}, nil, DefaultSentinels)

	if c.Temperature != 20 || c.Humidity != 60 || c.High != 20 || c.Low != 20 || c.DewPoint != 18 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.Pressure != nil || c.Visibility != 10 || c.Wind != 0 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.Condition != ConditionClear.Label || c.Icon != ConditionClear.Icon {
		t.Fatalf("unexpected condition: %s %s", c.Condition, c.Icon)
	}
}

func TestBuildCurrentFallsBackToDaily(t *testing.T) {
	daily := ParameterSet{
		ParamTemperature:   flatSeries(map[string]*float64{"20250530": ptr(15), "20250531": ptr(-999)}),
		ParamPrecipitation: flatSeries(map[string]*float64{"20250531": ptr(3.333)}),
		ParamUVIndex:       flatSeries(map[string]*float64{"20250531": ptr(4)}),
		ParamPressure:      flatSeries(map[string]*float64{"20250531": ptr(100)}),
		ParamWindSpeed:     flatSeries(map[string]*float64{"20250531": ptr(5)}),
	}

	c := BuildCurrent(daily, nil, DefaultSentinels)
	if c.Temperature != 15 {
		t.Errorf("expected latest valid temperature 15, got %v", c.Temperature)
	}
	if c.Precipitation != 3.33 || c.PrecipLast24h != 3.33 {
		t.Errorf("expected daily precipitation fallback, got %v / %v", c.Precipitation, c.PrecipLast24h)
	}
	if c.UVIndex != 4 || c.Pressure == nil || *c.Pressure != 29.53 || c.Wind != 11 {
		t.Errorf("unexpected daily fallbacks: %+v", c)
	}
	if c.Condition != ConditionRainy.Label {
		t.Errorf("expected hourly-scale classification of 3.33mm, got %s", c.Condition)
	}
}

func TestBuildCurrentPrefersLastHour(t *testing.T) {
	daily := ParameterSet{
		ParamPrecipitation: flatSeries(map[string]*float64{"20250531": ptr(12)}),
		ParamUVIndex:       flatSeries(map[string]*float64{"20250531": ptr(4)}),
	}
	hourly := []HourlyRecord{
		{Time: "10 AM", Precipitation: 3},
		{Time: NowLabel, Precipitation: 0, UVIndex: 7, DewPoint: 9, Pressure: nil},
	}

	c := BuildCurrent(daily, hourly, DefaultSentinels)
	if c.Precipitation != 0 || c.UVIndex != 7 || c.DewPoint != 9 || c.Pressure != nil {
		t.Fatalf("expected last hourly values, got %+v", c)
	}
	if c.PrecipLast24h != 12 {
		t.Errorf("expected daily 24h precipitation, got %v", c.PrecipLast24h)
	}
	if c.Condition != ConditionClear.Label {
		t.Errorf("expected classification from hourly precipitation, got %s", c.Condition)
	}
}

func TestBuildTrend(t *testing.T) {
	daily := ParameterSet{
		ParamTemperatureMax: flatSeries(map[string]*float64{
			"20250529": ptr(22), "20250530": ptr(24), "20250531": ptr(-999),
		}),
		ParamTemperatureMin: flatSeries(map[string]*float64{"20250530": ptr(14)}),
		ParamPrecipitation:  flatSeries(map[string]*float64{"20250530": ptr(12)}),
	}

	trend, err := BuildTrend(daily, 2, DefaultSentinels)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trend) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(trend))
	}
	if trend[0].Date != "Fri, May 30" || trend[0].High != 24 || trend[0].Low != 14 {
		t.Errorf("unexpected first entry: %+v", trend[0])
	}
	if trend[0].Condition != ConditionRainy.Label {
		t.Errorf("expected daily rainy classification, got %s", trend[0].Condition)
	}
	last := trend[1]
	if last.High != 20 || last.Low != 10 || last.Humidity != 60 || last.Wind != 11 {
		t.Errorf("unexpected defaults: %+v", last)
	}
}

func TestBuildTrendBadDateKey(t *testing.T) {
	daily := ParameterSet{ParamTemperatureMax: flatSeries(map[string]*float64{"not-a-date": ptr(1)})}
	if _, err := BuildTrend(daily, 7, DefaultSentinels); !errors.Is(err, ErrUpstreamData) {
		t.Fatalf("expected ErrUpstreamData, got %v", err)
	}
}

func TestBuildHistorical(t *testing.T) {
	daily := ParameterSet{
		ParamTemperature:   flatSeries(map[string]*float64{"20250101": ptr(-999), "20250102": ptr(3.5)}),
		ParamPrecipitation: flatSeries(map[string]*float64{"20250101": ptr(-2)}),
		ParamHumidity:      flatSeries(map[string]*float64{"20250102": ptr(130)}),
	}

	hist, err := BuildHistorical(daily, DefaultSentinels)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hist) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(hist))
	}
	if hist[0].Date != "Jan 01" || hist[0].AvgTemp != 20 || hist[0].Precipitation != 0 {
		t.Errorf("unexpected first entry: %+v", hist[0])
	}
	if hist[1].AvgTemp != 3.5 || hist[1].Humidity != 100 {
		t.Errorf("unexpected second entry: %+v", hist[1])
	}
}

func TestHourLabel(t *testing.T) {
	tests := map[string]string{
		"2025060100": "12 AM",
		"2025060115": "3 PM",
		"garbage17":  "17",
		"x":          "x",
	}
	for in, want := range tests {
		if got := hourLabel(in); got != want {
			t.Errorf("hourLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
