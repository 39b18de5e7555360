package inventory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	dasherrors "ghg-dashboard/pkg/errors"
	"ghg-dashboard/pkg/units"
)

// CategoryPropane is the factor category displaced by heat-pump conversions.
const CategoryPropane = "propane"

// HeatPumpRecord is one year of electrification program installations.
type HeatPumpRecord struct {
	Year                    int   `json:"year"`
	Installations           int64 `json:"installations"`
	CumulativeInstallations int64 `json:"cumulative_installations"`
}

// SolarRecord is one year of solar capacity data.
type SolarRecord struct {
	Year                   int     `json:"year"`
	CapacityKW             float64 `json:"capacity_kw"`
	CapacityKWCumulative   float64 `json:"capacity_kw_cumulative"`
	ProjectCount           int64   `json:"project_count"`
	ProjectCountCumulative int64   `json:"project_count_cumulative"`
}

// SavingsRow is one year of avoided emissions by program.
type SavingsRow struct {
	Year           int             `json:"year"`
	HeatPumpKgCO2e decimal.Decimal `json:"heat_pump_kg_co2e"`
	BEVCount       int64           `json:"bev_count"`
	BEVKgCO2e      decimal.Decimal `json:"bev_kg_co2e"`
	PHEVCount      int64           `json:"phev_count"`
	PHEVKgCO2e     decimal.Decimal `json:"phev_kg_co2e"`
	SolarKgCO2e    decimal.Decimal `json:"solar_kg_co2e"`
	TotalKgCO2e    decimal.Decimal `json:"total_kg_co2e"`
}

// SavingsInput carries everything the savings derivation needs.
type SavingsInput struct {
	HeatPumps []HeatPumpRecord
	Fleet     []FleetRecord
	Specs     map[string]VehicleSpec
	Solar     []SolarRecord
	Factors   *FactorTable

	// BaselineYear anchors solar additions; installed capacity before it is
	// not counted as savings.
	BaselineYear int

	// SolarMWhPerKW is annual generation per kW DC of installed capacity.
	SolarMWhPerKW decimal.Decimal

	// PropaneGallonsPerConversion is the annual propane displaced by one
	// heat-pump conversion.
	PropaneGallonsPerConversion decimal.Decimal

	// BaselineVehicleType names the gasoline spec an EV is compared against.
	BaselineVehicleType string
}

// AnnualSavings derives avoided emissions per year from heat pumps, EV
// adoption, and solar capacity added since the baseline year. Each program's
// series degrades independently when its factor is unresolved.
func AnnualSavings(in SavingsInput) ([]SavingsRow, []*dasherrors.DashError) {
	var problems []*dasherrors.DashError
	rows := make(map[int]*SavingsRow)

	row := func(year int) *SavingsRow {
		if r, ok := rows[year]; ok {
			return r
		}
		r := &SavingsRow{Year: year}
		rows[year] = r
		return r
	}

	// Heat pumps: cumulative conversions displace propane heating.
	if propane, ok := in.Factors.Resolve(CategoryPropane, units.UnitGallon); ok {
		perConversion := in.PropaneGallonsPerConversion.Mul(propane.KgCO2ePerUnit)
		for _, hp := range in.HeatPumps {
			if hp.Year < in.BaselineYear {
				continue
			}
			row(hp.Year).HeatPumpKgCO2e = decimal.NewFromInt(hp.CumulativeInstallations).Mul(perConversion)
		}
	} else if len(in.HeatPumps) > 0 {
		problems = append(problems,
			dasherrors.NewUnresolvedFactorError(CategoryPropane, string(units.UnitGallon)))
	}

	// EVs: each type is compared against the gasoline baseline vehicle at
	// its own mileage and efficiency. January snapshots attributed to the
	// prior year as in the combined inventory.
	baseline, baselineOK := in.Specs[in.BaselineVehicleType]
	if baselineOK && baseline.Variant != VariantGasoline {
		baselineOK = false
	}
	baselineReported := false
	reported := make(map[string]bool)
	for _, rec := range in.Fleet {
		t, err := time.Parse("2006-01-02", string(rec.Quarter))
		if err != nil || t.Month() != time.January {
			continue
		}
		year := t.Year() - 1
		if year < in.BaselineYear {
			continue
		}
		spec, ok := in.Specs[rec.Type]
		if !ok {
			continue
		}
		if spec.Variant != VariantElectric && spec.Variant != VariantPluginHybrid {
			continue
		}

		if !baselineOK {
			if !baselineReported {
				baselineReported = true
				problems = append(problems,
					dasherrors.NewUnresolvedFactorError(in.BaselineVehicleType, string(units.UnitVehicle)))
			}
			continue
		}

		saved, verr := variantSaving(baseline, spec, in.Factors)
		if verr != nil {
			if !reported[rec.Type] {
				reported[rec.Type] = true
				problems = append(problems, verr)
			}
			continue
		}

		r := row(year)
		switch spec.Variant {
		case VariantElectric:
			r.BEVCount += rec.Count
			r.BEVKgCO2e = r.BEVKgCO2e.Add(decimal.NewFromInt(rec.Count).Mul(saved))
		case VariantPluginHybrid:
			r.PHEVCount += rec.Count
			r.PHEVKgCO2e = r.PHEVKgCO2e.Add(decimal.NewFromInt(rec.Count).Mul(saved))
		}
	}

	// Solar: capacity added since the baseline year offsets grid electricity.
	if grid, ok := in.Factors.Resolve(CategoryElectricity, units.UnitKWh); ok {
		baseline := decimal.Zero
		for _, s := range in.Solar {
			if s.Year == in.BaselineYear {
				baseline = decimal.NewFromFloat(s.CapacityKWCumulative)
			}
		}
		kgPerMWh := grid.KgCO2ePerUnit.Mul(decimal.NewFromFloat(units.KWhPerMWh))
		for _, s := range in.Solar {
			if s.Year < in.BaselineYear {
				continue
			}
			added := decimal.NewFromFloat(s.CapacityKWCumulative).Sub(baseline)
			if added.IsNegative() {
				added = decimal.Zero
			}
			mwh := added.Mul(in.SolarMWhPerKW)
			row(s.Year).SolarKgCO2e = mwh.Mul(kgPerMWh)
		}
	} else if len(in.Solar) > 0 {
		problems = append(problems,
			dasherrors.NewUnresolvedFactorError(CategoryElectricity, string(units.UnitKWh)))
	}

	out := make([]SavingsRow, 0, len(rows))
	for _, r := range rows {
		r.TotalKgCO2e = r.HeatPumpKgCO2e.Add(r.BEVKgCO2e).Add(r.PHEVKgCO2e).Add(r.SolarKgCO2e)
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, problems
}

func variantSaving(baseline, spec VehicleSpec, factors *FactorTable) (decimal.Decimal, *dasherrors.DashError) {
	// Compare at the electric vehicle's mileage so the counterfactual drives
	// the same distance.
	counterfactual := baseline
	counterfactual.MilesPerYear = spec.MilesPerYear
	base, err := perVehicleKgCO2e(counterfactual, factors)
	if err != nil {
		return decimal.Zero, err
	}
	actual, err := perVehicleKgCO2e(spec, factors)
	if err != nil {
		return decimal.Zero, err
	}
	saved := base.Sub(actual)
	if saved.IsNegative() {
		return decimal.Zero, nil
	}
	return saved, nil
}
