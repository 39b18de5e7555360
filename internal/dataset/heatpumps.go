package dataset

import (
	"fmt"
	"sort"
	"strconv"

	"ghg-dashboard/internal/inventory"
)

// LoadHeatPumps reads yearly heat-pump installation counts. When the
// cumulative column is absent or empty the running sum is derived from the
// annual counts in year order.
func LoadHeatPumps(path string) ([]inventory.HeatPumpRecord, *Report, error) {
	report := newReport("heat_pumps")

	t, err := readTable(path, report.Dataset, []string{"year", "installations"})
	if err != nil {
		return nil, report, err
	}

	var records []inventory.HeatPumpRecord
	haveCumulative := true
	for i, row := range t.rows {
		report.Rows++
		line := t.lines[i]
		if row == nil {
			report.skip(line, "unreadable row")
			continue
		}

		year, err := strconv.Atoi(t.get(row, "year"))
		if err != nil {
			report.skip(line, fmt.Sprintf("invalid year %q", t.get(row, "year")))
			continue
		}

		installs, err := strconv.ParseInt(t.get(row, "installations"), 10, 64)
		if err != nil {
			report.skip(line, fmt.Sprintf("non-numeric installations %q", t.get(row, "installations")))
			continue
		}

		rec := inventory.HeatPumpRecord{Year: year, Installations: installs}
		if raw := t.get(row, "cumulative_installations"); raw != "" {
			if rec.CumulativeInstallations, err = strconv.ParseInt(raw, 10, 64); err != nil {
				report.skip(line, fmt.Sprintf("non-numeric cumulative_installations %q", raw))
				continue
			}
		} else {
			haveCumulative = false
		}

		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Year < records[j].Year })
	if !haveCumulative {
		running := int64(0)
		for i := range records {
			running += records[i].Installations
			records[i].CumulativeInstallations = running
		}
	}

	return records, report, nil
}
