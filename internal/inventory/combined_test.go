package inventory

import (
	"testing"

	"ghg-dashboard/pkg/units"
)

func TestCombinedByYearAttributesJanuaryToPriorYear(t *testing.T) {
	factors := testFactors(t)

	energy := Compute([]UsageRecord{
		{Period: "2022", Category: "heating_oil", Quantity: dec("100"), Unit: units.UnitGallon},
	}, factors)

	fleet := FleetEmissions([]FleetRecord{
		{Quarter: "2023-01-01", Type: "Passenger", Count: 5},
	}, testSpecs(), factors)

	series := CombinedByYear(energy, fleet, 2019)
	if len(series.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(series.Rows))
	}

	row := series.Rows[0]
	if row.Year != 2022 {
		t.Fatalf("expected year 2022, got %d", row.Year)
	}
	if row.VehiclesKgCO2e.IsZero() {
		t.Error("expected vehicle emissions attributed to 2022")
	}
	if row.BuildingsKgCO2e.IsZero() {
		t.Error("expected building emissions for 2022")
	}
	if !row.TotalKgCO2e.Equal(row.VehiclesKgCO2e.Add(row.BuildingsKgCO2e)) {
		t.Error("total is not the sum of its parts")
	}
}

func TestCombinedByYearIgnoresNonJanuaryQuarters(t *testing.T) {
	factors := testFactors(t)
	energy := Compute(nil, factors)
	fleet := FleetEmissions([]FleetRecord{
		{Quarter: "2023-01-01", Type: "Passenger", Count: 5},
		{Quarter: "2023-04-01", Type: "Passenger", Count: 6},
		{Quarter: "2023-07-01", Type: "Passenger", Count: 7},
	}, testSpecs(), factors)

	series := CombinedByYear(energy, fleet, 2019)
	if len(series.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(series.Rows))
	}

	// Only the January snapshot counts; mid-year counts would double-count
	// the same vehicles.
	single := FleetEmissions([]FleetRecord{
		{Quarter: "2023-01-01", Type: "Passenger", Count: 5},
	}, testSpecs(), factors)
	if !series.Rows[0].VehiclesKgCO2e.Equal(single.TotalKgCO2e()) {
		t.Errorf("expected %s, got %s", single.TotalKgCO2e(), series.Rows[0].VehiclesKgCO2e)
	}
}

func TestCombinedByYearDropsPreBaselineYears(t *testing.T) {
	factors := testFactors(t)
	energy := Compute([]UsageRecord{
		{Period: "2010", Category: "heating_oil", Quantity: dec("100"), Unit: units.UnitGallon},
		{Period: "2020", Category: "heating_oil", Quantity: dec("100"), Unit: units.UnitGallon},
	}, factors)
	fleet := FleetEmissions(nil, testSpecs(), factors)

	series := CombinedByYear(energy, fleet, 2019)
	for _, row := range series.Rows {
		if row.Year < 2019 {
			t.Errorf("year %d is before the baseline", row.Year)
		}
	}
	if len(series.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(series.Rows))
	}
}

func TestCombinedSeriesLatestPrevious(t *testing.T) {
	factors := testFactors(t)
	energy := Compute([]UsageRecord{
		{Period: "2021", Category: "heating_oil", Quantity: dec("100"), Unit: units.UnitGallon},
		{Period: "2022", Category: "heating_oil", Quantity: dec("90"), Unit: units.UnitGallon},
	}, factors)
	fleet := FleetEmissions(nil, testSpecs(), factors)

	series := CombinedByYear(energy, fleet, 2019)

	latest, ok := series.Latest()
	if !ok || latest.Year != 2022 {
		t.Errorf("expected latest 2022, got %+v ok=%v", latest, ok)
	}
	prev, ok := series.Previous()
	if !ok || prev.Year != 2021 {
		t.Errorf("expected previous 2021, got %+v ok=%v", prev, ok)
	}
}
