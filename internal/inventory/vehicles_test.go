package inventory

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"ghg-dashboard/pkg/units"
)

const tolerance = 0.01

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func testSpecs() map[string]VehicleSpec {
	return map[string]VehicleSpec{
		"Passenger": {
			Type: "Passenger", Variant: VariantGasoline,
			MilesPerYear: dec("9000"), MPG: dec("22"),
		},
		"Pickup": {
			Type: "Pickup", Variant: VariantDiesel,
			MilesPerYear: dec("12000"), MPG: dec("17"),
		},
		"BEV": {
			Type: "BEV", Variant: VariantElectric,
			MilesPerYear: dec("9000"), MilesPerKWh: dec("3"),
		},
		"PHEV": {
			Type: "PHEV", Variant: VariantPluginHybrid,
			MilesPerYear: dec("9000"), MPG: dec("45"), MilesPerKWh: dec("3"),
		},
		"HEV": {
			Type: "HEV", Variant: VariantHybrid,
			MilesPerYear: dec("9000"), MPG: dec("50"),
		},
	}
}

func TestFleetEmissionsGasoline(t *testing.T) {
	factors := testFactors(t)
	records := []FleetRecord{
		{Quarter: "2023-01-01", Type: "Passenger", Count: 5},
	}

	result := FleetEmissions(records, testSpecs(), factors)
	if len(result.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(result.Results))
	}

	// 5 vehicles x 9000 mi / 22 mpg x 8.89 kg/gal
	got := result.Results[0].KgCO2e.InexactFloat64()
	if !approxEqual(got, 18184.09, tolerance) {
		t.Errorf("expected about 18184.09 kg, got %f", got)
	}
	if result.Results[0].Unit != units.UnitVehicle {
		t.Errorf("expected vehicle unit, got %s", result.Results[0].Unit)
	}
}

func TestPerVehicleElectric(t *testing.T) {
	factors := testFactors(t)
	kg, err := PerVehicleKgCO2e(testSpecs()["BEV"], factors)
	if err != nil {
		t.Fatal(err)
	}

	// 9000 mi / 3 mi/kWh = 3000 kWh x 0.389 kg/kWh
	if !approxEqual(kg.InexactFloat64(), 1167, tolerance) {
		t.Errorf("expected 1167 kg, got %s", kg)
	}
}

func TestPerVehiclePluginHybridSplitsMileage(t *testing.T) {
	factors := testFactors(t)
	spec := testSpecs()["PHEV"]

	kg, err := PerVehicleKgCO2e(spec, factors)
	if err != nil {
		t.Fatal(err)
	}

	// 4500 mi / 45 mpg x 8.89 + 4500 mi / 3 mi/kWh x 0.389
	want := 100.0*8.89 + 1500.0*0.389
	if !approxEqual(kg.InexactFloat64(), want, tolerance) {
		t.Errorf("expected %f kg, got %s", want, kg)
	}
}

func TestPerVehicleHybridUsesGasolinePath(t *testing.T) {
	factors := testFactors(t)
	kg, err := PerVehicleKgCO2e(testSpecs()["HEV"], factors)
	if err != nil {
		t.Fatal(err)
	}

	want := 9000.0 / 50.0 * 8.89
	if !approxEqual(kg.InexactFloat64(), want, tolerance) {
		t.Errorf("expected %f kg, got %s", want, kg)
	}
}

func TestFleetEmissionsUnknownTypeExcluded(t *testing.T) {
	factors := testFactors(t)
	records := []FleetRecord{
		{Quarter: "2023-01-01", Type: "Passenger", Count: 5},
		{Quarter: "2023-01-01", Type: "Tram", Count: 2},
	}

	result := FleetEmissions(records, testSpecs(), factors)
	if len(result.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(result.Results))
	}
	if result.RecordsExcluded != 1 {
		t.Errorf("expected 1 excluded, got %d", result.RecordsExcluded)
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 error, got %d", len(result.Errors))
	}
}

func TestFleetEmissionsZeroMPGExcluded(t *testing.T) {
	factors := testFactors(t)
	specs := map[string]VehicleSpec{
		"Broken": {Type: "Broken", Variant: VariantGasoline, MilesPerYear: dec("9000")},
	}
	records := []FleetRecord{{Quarter: "2023-01-01", Type: "Broken", Count: 1}}

	result := FleetEmissions(records, specs, factors)
	if len(result.Results) != 0 || result.RecordsExcluded != 1 {
		t.Errorf("expected exclusion for zero mpg, got %d results", len(result.Results))
	}
}

func TestFleetEmissionsCountScalesLinearly(t *testing.T) {
	factors := testFactors(t)
	specs := testSpecs()

	one := FleetEmissions([]FleetRecord{{Quarter: "2023-01-01", Type: "Passenger", Count: 1}}, specs, factors)
	ten := FleetEmissions([]FleetRecord{{Quarter: "2023-01-01", Type: "Passenger", Count: 10}}, specs, factors)

	want := one.Results[0].KgCO2e.Mul(decimal.NewFromInt(10))
	if !ten.Results[0].KgCO2e.Equal(want) {
		t.Errorf("expected %s, got %s", want, ten.Results[0].KgCO2e)
	}
}

func TestParseFuelVariantRejectsUnknown(t *testing.T) {
	if _, err := ParseFuelVariant("gasoline"); err != nil {
		t.Errorf("gasoline should parse: %v", err)
	}
	if _, err := ParseFuelVariant("steam"); err == nil {
		t.Error("expected error for unknown variant")
	}
}
