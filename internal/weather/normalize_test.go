package weather

import "testing"

func TestSentinelsOr(t *testing.T) {
	tests := []struct {
		name string
		in   *float64
		want float64
	}{
		{"nil", nil, 60},
		{"-999", ptr(-999), 60},
		{"-9999", ptr(-9999), 60},
		{"-99", ptr(-99), 60},
		{"zero", ptr(0), 0},
		{"valid", ptr(42.5), 42.5},
		{"negative but valid", ptr(-12), -12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultSentinels.Or(tt.in, 60); got != tt.want {
				t.Errorf("Or() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCustomSentinels(t *testing.T) {
	s := Sentinels{-1}
	if !s.Missing(ptr(-1)) {
		t.Errorf("expected -1 to be missing")
	}
	if s.Missing(ptr(-999)) {
		t.Errorf("expected -999 to be valid with custom sentinels")
	}
}

func TestClampsAndRounding(t *testing.T) {
	if ClampHumidity(120) != 100 || ClampHumidity(-5) != 0 || ClampHumidity(55) != 55 {
		t.Errorf("humidity clamp failed")
	}
	if NonNegative(-0.3) != 0 {
		t.Errorf("NonNegative(-0.3) should be 0")
	}
	if got := Round(1.005001, 2); got != 1.01 {
		t.Errorf("Round = %v, want 1.01", got)
	}
}

func TestUnitConversions(t *testing.T) {
	if got := CelsiusToFahrenheit(20); got != 68 {
		t.Errorf("CelsiusToFahrenheit(20) = %v", got)
	}
	if got := CelsiusToFahrenheit(-40); got != -40 {
		t.Errorf("CelsiusToFahrenheit(-40) = %v", got)
	}
	for _, c := range []float64{-30, 0, 12.5, 37} {
		if got := Round(FahrenheitToCelsius(CelsiusToFahrenheit(c)), 6); got != c {
			t.Errorf("round trip of %v gave %v", c, got)
		}
	}
	if got := MsToMph(5); got != 11 {
		t.Errorf("MsToMph(5) = %v, want 11", got)
	}
	if got := KPaToInHg(101.325); got != 29.92 {
		t.Errorf("KPaToInHg(101.325) = %v, want 29.92", got)
	}
	if got := KmhToMph(20); got != 12.4 {
		t.Errorf("KmhToMph(20) = %v, want 12.4", got)
	}
}
