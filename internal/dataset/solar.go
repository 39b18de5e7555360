package dataset

import (
	"fmt"
	"sort"
	"strconv"

	"ghg-dashboard/internal/inventory"
)

// LoadSolar reads yearly solar capacity and project counts.
func LoadSolar(path string) ([]inventory.SolarRecord, *Report, error) {
	report := newReport("solar")

	t, err := readTable(path, report.Dataset, []string{"year", "capacity_kw_cumulative"})
	if err != nil {
		return nil, report, err
	}

	var records []inventory.SolarRecord
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

		cumulative, err := strconv.ParseFloat(t.get(row, "capacity_kw_cumulative"), 64)
		if err != nil {
			report.skip(line, fmt.Sprintf("non-numeric capacity_kw_cumulative %q", t.get(row, "capacity_kw_cumulative")))
			continue
		}

		rec := inventory.SolarRecord{Year: year, CapacityKWCumulative: cumulative}
		if raw := t.get(row, "capacity_kw"); raw != "" {
			if rec.CapacityKW, err = strconv.ParseFloat(raw, 64); err != nil {
				report.skip(line, fmt.Sprintf("non-numeric capacity_kw %q", raw))
				continue
			}
		}
		if raw := t.get(row, "project_count"); raw != "" {
			if rec.ProjectCount, err = strconv.ParseInt(raw, 10, 64); err != nil {
				report.skip(line, fmt.Sprintf("non-numeric project_count %q", raw))
				continue
			}
		}
		if raw := t.get(row, "project_count_cumulative"); raw != "" {
			if rec.ProjectCountCumulative, err = strconv.ParseInt(raw, 10, 64); err != nil {
				report.skip(line, fmt.Sprintf("non-numeric project_count_cumulative %q", raw))
				continue
			}
		}

		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Year < records[j].Year })
	return records, report, nil
}
