package dataset

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"ghg-dashboard/internal/inventory"
	"ghg-dashboard/pkg/units"
)

// LoadMunicipalEnergy reads the municipal building energy file. Each row is
// one fuel quantity for a fiscal year. Fiscal years outside [floor, cap) are
// excluded as incomplete; a cap of zero disables the upper bound.
func LoadMunicipalEnergy(path string, floor, cap int) ([]inventory.UsageRecord, *Report, error) {
	report := newReport("municipal_energy")

	t, err := readTable(path, report.Dataset, []string{"fiscal_year", "account_fuel", "quantity", "unit"})
	if err != nil {
		return nil, report, err
	}

	var records []inventory.UsageRecord
	for i, row := range t.rows {
		report.Rows++
		line := t.lines[i]
		if row == nil {
			report.skip(line, "unreadable row")
			continue
		}

		year, err := strconv.Atoi(t.get(row, "fiscal_year"))
		if err != nil {
			report.skip(line, fmt.Sprintf("invalid fiscal_year %q", t.get(row, "fiscal_year")))
			continue
		}
		if year < floor || (cap > 0 && year >= cap) {
			report.Skipped++
			continue
		}

		fuel := t.get(row, "account_fuel")
		if fuel == "" {
			report.skip(line, "empty account_fuel")
			continue
		}

		quantity, err := decimal.NewFromString(t.get(row, "quantity"))
		if err != nil {
			report.skip(line, fmt.Sprintf("non-numeric quantity %q", t.get(row, "quantity")))
			continue
		}
		if quantity.IsNegative() {
			report.skip(line, "negative quantity")
			continue
		}

		records = append(records, inventory.UsageRecord{
			Period:   inventory.Period(strconv.Itoa(year)),
			Category: fuel,
			Quantity: quantity,
			Unit:     units.Normalize(t.get(row, "unit")),
		})
	}

	return records, report, nil
}
