package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	dasherrors "ghg-dashboard/pkg/errors"
	"ghg-dashboard/pkg/units"
)

// FuelVariant selects the emission formula for a vehicle type. The variant
// is dispatched explicitly; it is never inferred from the type name.
type FuelVariant string

const (
	VariantGasoline     FuelVariant = "gasoline"
	VariantDiesel       FuelVariant = "diesel"
	VariantElectric     FuelVariant = "electric"
	VariantPluginHybrid FuelVariant = "plugin_hybrid"
	VariantHybrid       FuelVariant = "hybrid"
)

// ParseFuelVariant validates a fuel variant string from the factors file.
func ParseFuelVariant(s string) (FuelVariant, error) {
	switch FuelVariant(s) {
	case VariantGasoline, VariantDiesel, VariantElectric, VariantPluginHybrid, VariantHybrid:
		return FuelVariant(s), nil
	default:
		return "", fmt.Errorf("unknown fuel variant %q", s)
	}
}

// Factor table categories used by the fleet formulas.
const (
	CategoryGasoline    = "gasoline"
	CategoryDiesel      = "diesel"
	CategoryElectricity = "electricity"
)

// VehicleSpec holds per-type mileage and efficiency assumptions.
type VehicleSpec struct {
	Type         string          `json:"type"`
	Variant      FuelVariant     `json:"variant"`
	MilesPerYear decimal.Decimal `json:"miles_per_year"`
	MPG          decimal.Decimal `json:"mpg"`           // combustion and hybrid variants
	MilesPerKWh  decimal.Decimal `json:"miles_per_kwh"` // electric and plug-in variants
}

// FleetRecord is one vehicle census row: registered count by type for a
// quarter.
type FleetRecord struct {
	Quarter Period `json:"quarter"`
	Type    string `json:"type"`
	Count   int64  `json:"count"`
}

// FleetEmissions derives annualized emissions per census record. Annual
// mileage = count × miles/year; the per-mileage formula depends on the fuel
// variant. A type with no spec, or a spec whose fuel has no factor, excludes
// that record only.
func FleetEmissions(records []FleetRecord, specs map[string]VehicleSpec, factors *FactorTable) *Result {
	result := &Result{
		Results: make([]EmissionResult, 0, len(records)),
		Errors:  make([]*dasherrors.DashError, 0),
	}

	for _, rec := range records {
		result.RecordsProcessed++

		spec, ok := specs[rec.Type]
		if !ok {
			result.RecordsExcluded++
			result.Errors = append(result.Errors,
				dasherrors.NewUnresolvedFactorError(rec.Type, string(units.UnitVehicle)))
			continue
		}

		perVehicle, err := perVehicleKgCO2e(spec, factors)
		if err != nil {
			result.RecordsExcluded++
			result.Errors = append(result.Errors, err)
			continue
		}

		count := decimal.NewFromInt(rec.Count)
		result.Results = append(result.Results, EmissionResult{
			Period:   rec.Quarter,
			Category: rec.Type,
			Quantity: count,
			Unit:     units.UnitVehicle,
			KgCO2e:   count.Mul(perVehicle),
		})
	}

	sortResults(result.Results)
	result.ByPeriod = TotalsByPeriod(result.Results)
	result.ByCategory = TotalsByCategory(result.Results)
	return result
}

// PerVehicleKgCO2e exposes the annual per-vehicle emissions for one spec.
func PerVehicleKgCO2e(spec VehicleSpec, factors *FactorTable) (decimal.Decimal, error) {
	kg, err := perVehicleKgCO2e(spec, factors)
	if err != nil {
		return decimal.Zero, err
	}
	return kg, nil
}

func perVehicleKgCO2e(spec VehicleSpec, factors *FactorTable) (decimal.Decimal, *dasherrors.DashError) {
	switch spec.Variant {
	case VariantGasoline:
		return combustionKgCO2e(spec.MilesPerYear, spec.MPG, CategoryGasoline, factors)
	case VariantDiesel:
		return combustionKgCO2e(spec.MilesPerYear, spec.MPG, CategoryDiesel, factors)
	case VariantHybrid:
		// Self-charging: all propulsion energy comes from gasoline.
		return combustionKgCO2e(spec.MilesPerYear, spec.MPG, CategoryGasoline, factors)
	case VariantElectric:
		return electricKgCO2e(spec.MilesPerYear, spec.MilesPerKWh, factors)
	case VariantPluginHybrid:
		// Half the mileage on each path.
		half := spec.MilesPerYear.Div(decimal.NewFromInt(2))
		gas, err := combustionKgCO2e(half, spec.MPG, CategoryGasoline, factors)
		if err != nil {
			return decimal.Zero, err
		}
		grid, err := electricKgCO2e(half, spec.MilesPerKWh, factors)
		if err != nil {
			return decimal.Zero, err
		}
		return gas.Add(grid), nil
	default:
		return decimal.Zero, dasherrors.NewUnresolvedFactorError(string(spec.Variant), string(units.UnitVehicle))
	}
}

func combustionKgCO2e(miles, mpg decimal.Decimal, fuel string, factors *FactorTable) (decimal.Decimal, *dasherrors.DashError) {
	if mpg.IsZero() {
		return decimal.Zero, dasherrors.NewUnresolvedFactorError(fuel, string(units.UnitGallon))
	}
	factor, ok := factors.Resolve(fuel, units.UnitGallon)
	if !ok {
		return decimal.Zero, dasherrors.NewUnresolvedFactorError(fuel, string(units.UnitGallon))
	}
	gallons := miles.Div(mpg)
	return gallons.Mul(factor.KgCO2ePerUnit), nil
}

func electricKgCO2e(miles, milesPerKWh decimal.Decimal, factors *FactorTable) (decimal.Decimal, *dasherrors.DashError) {
	if milesPerKWh.IsZero() {
		return decimal.Zero, dasherrors.NewUnresolvedFactorError(CategoryElectricity, string(units.UnitKWh))
	}
	factor, ok := factors.Resolve(CategoryElectricity, units.UnitKWh)
	if !ok {
		return decimal.Zero, dasherrors.NewUnresolvedFactorError(CategoryElectricity, string(units.UnitKWh))
	}
	kwh := miles.Div(milesPerKWh)
	return kwh.Mul(factor.KgCO2ePerUnit), nil
}
