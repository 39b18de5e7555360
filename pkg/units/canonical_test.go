package units

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]Unit{
		"gal":     UnitGallon,
		"gallons": UnitGallon,
		"kwh":     UnitKWh,
		"KWH":     UnitKWh,
		"mwh":     UnitMWh,
		"therms":  UnitTherm,
		"MMBTU":   UnitMMBtu,
		"miles":   UnitMile,
	}
	for input, want := range cases {
		if got := Normalize(input); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalizePassesUnknownThrough(t *testing.T) {
	// Unknown spellings stay as-is so factor lookup fails loudly instead of
	// silently converting.
	if got := Normalize("cords"); got != Unit("cords") {
		t.Errorf("expected passthrough, got %q", got)
	}
}

func TestConversions(t *testing.T) {
	if KgToMetricTons(2500) != 2.5 {
		t.Errorf("KgToMetricTons(2500) = %f", KgToMetricTons(2500))
	}
	if MetricTonsToKg(2.5) != 2500 {
		t.Errorf("MetricTonsToKg(2.5) = %f", MetricTonsToKg(2.5))
	}
	if MWhToKWh(1.2) != 1200 {
		t.Errorf("MWhToKWh(1.2) = %f", MWhToKWh(1.2))
	}
	if KWhToMWh(1200) != 1.2 {
		t.Errorf("KWhToMWh(1200) = %f", KWhToMWh(1200))
	}
}
