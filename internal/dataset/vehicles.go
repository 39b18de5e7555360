package dataset

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"ghg-dashboard/internal/inventory"
)

// quarterLayouts are the accepted quarter date spellings. Output is always
// canonical 2006-01-02 so grouping stays an exact string match.
var quarterLayouts = []string{"2006-01-02", "2006-01", "1/2/2006"}

func parseQuarter(s string) (inventory.Period, error) {
	for _, layout := range quarterLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return inventory.Period(t.Format("2006-01-02")), nil
		}
	}
	return "", fmt.Errorf("unknown period format %q", s)
}

// LoadVehicleCensus reads quarterly vehicle registration counts by type.
func LoadVehicleCensus(path string) ([]inventory.FleetRecord, *Report, error) {
	report := newReport("vehicle_census")

	t, err := readTable(path, report.Dataset, []string{"quarter", "type", "count"})
	if err != nil {
		return nil, report, err
	}

	var records []inventory.FleetRecord
	for i, row := range t.rows {
		report.Rows++
		line := t.lines[i]
		if row == nil {
			report.skip(line, "unreadable row")
			continue
		}

		quarter, err := parseQuarter(t.get(row, "quarter"))
		if err != nil {
			report.skip(line, err.Error())
			continue
		}

		vehicleType := t.get(row, "type")
		if vehicleType == "" {
			report.skip(line, "empty type")
			continue
		}

		count, err := strconv.ParseInt(t.get(row, "count"), 10, 64)
		if err != nil {
			report.skip(line, fmt.Sprintf("non-numeric count %q", t.get(row, "count")))
			continue
		}
		if count < 0 {
			report.skip(line, "negative count")
			continue
		}

		records = append(records, inventory.FleetRecord{
			Quarter: quarter,
			Type:    vehicleType,
			Count:   count,
		})
	}

	return records, report, nil
}

// LoadVehicleFactors reads per-type mileage and efficiency assumptions. The
// fuel variant column must name a known variant; the formula is dispatched
// on it, never guessed from the type name.
func LoadVehicleFactors(path string) (map[string]inventory.VehicleSpec, *Report, error) {
	report := newReport("vehicle_factors")

	t, err := readTable(path, report.Dataset, []string{"type", "fuel", "miles_per_year"})
	if err != nil {
		return nil, report, err
	}

	specs := make(map[string]inventory.VehicleSpec)
	for i, row := range t.rows {
		report.Rows++
		line := t.lines[i]
		if row == nil {
			report.skip(line, "unreadable row")
			continue
		}

		vehicleType := t.get(row, "type")
		if vehicleType == "" {
			report.skip(line, "empty type")
			continue
		}

		variant, err := inventory.ParseFuelVariant(t.get(row, "fuel"))
		if err != nil {
			report.skip(line, err.Error())
			continue
		}

		miles, err := decimal.NewFromString(t.get(row, "miles_per_year"))
		if err != nil {
			report.skip(line, fmt.Sprintf("non-numeric miles_per_year %q", t.get(row, "miles_per_year")))
			continue
		}

		spec := inventory.VehicleSpec{
			Type:         vehicleType,
			Variant:      variant,
			MilesPerYear: miles,
		}
		if raw := t.get(row, "mpg"); raw != "" {
			if spec.MPG, err = decimal.NewFromString(raw); err != nil {
				report.skip(line, fmt.Sprintf("non-numeric mpg %q", raw))
				continue
			}
		}
		if raw := t.get(row, "miles_per_kwh"); raw != "" {
			if spec.MilesPerKWh, err = decimal.NewFromString(raw); err != nil {
				report.skip(line, fmt.Sprintf("non-numeric miles_per_kwh %q", raw))
				continue
			}
		}

		specs[vehicleType] = spec
	}

	return specs, report, nil
}
