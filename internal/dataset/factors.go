package dataset

import (
	"fmt"

	"github.com/shopspring/decimal"

	"ghg-dashboard/internal/inventory"
	"ghg-dashboard/pkg/units"
)

// LoadEmissionFactors reads the generic emission factor table. A duplicate
// (category, unit) pair is a hard error: factor lookup must be unambiguous.
func LoadEmissionFactors(path string) (*inventory.FactorTable, *Report, error) {
	report := newReport("emission_factors")

	t, err := readTable(path, report.Dataset, []string{"category", "unit", "kg_co2e_per_unit"})
	if err != nil {
		return nil, report, err
	}

	factors := inventory.NewFactorTable()
	for i, row := range t.rows {
		report.Rows++
		line := t.lines[i]
		if row == nil {
			report.skip(line, "unreadable row")
			continue
		}

		category := t.get(row, "category")
		if category == "" {
			report.skip(line, "empty category")
			continue
		}

		factor, err := decimal.NewFromString(t.get(row, "kg_co2e_per_unit"))
		if err != nil {
			report.skip(line, fmt.Sprintf("non-numeric factor %q", t.get(row, "kg_co2e_per_unit")))
			continue
		}

		ef := inventory.EmissionFactor{
			Category:      category,
			Unit:          units.Normalize(t.get(row, "unit")),
			KgCO2ePerUnit: factor,
		}
		if err := factors.Add(ef); err != nil {
			return nil, report, err
		}
	}

	return factors, report, nil
}
