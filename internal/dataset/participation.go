package dataset

import (
	"fmt"
	"strconv"

	"ghg-dashboard/internal/inventory"
)

// LoadParticipation reads yearly program participation rates.
func LoadParticipation(path string) ([]inventory.ParticipationRecord, *Report, error) {
	report := newReport("clc_participation")

	t, err := readTable(path, report.Dataset, []string{"year", "active_locations", "participation_rate_pct"})
	if err != nil {
		return nil, report, err
	}

	var records []inventory.ParticipationRecord
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

		locations, err := strconv.ParseInt(t.get(row, "active_locations"), 10, 64)
		if err != nil {
			report.skip(line, fmt.Sprintf("non-numeric active_locations %q", t.get(row, "active_locations")))
			continue
		}

		rate, err := strconv.ParseFloat(t.get(row, "participation_rate_pct"), 64)
		if err != nil {
			report.skip(line, fmt.Sprintf("non-numeric participation_rate_pct %q", t.get(row, "participation_rate_pct")))
			continue
		}

		records = append(records, inventory.ParticipationRecord{
			Year:            year,
			ActiveLocations: locations,
			RatePct:         rate,
		})
	}

	inventory.SortParticipation(records)
	return records, report, nil
}

// LoadCensusMetrics reads yearly program census statistics as generic
// (year, metric, value) triples.
func LoadCensusMetrics(path string) ([]inventory.CensusMetric, *Report, error) {
	report := newReport("clc_census")

	t, err := readTable(path, report.Dataset, []string{"year", "metric", "value"})
	if err != nil {
		return nil, report, err
	}

	var metrics []inventory.CensusMetric
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

		metric := t.get(row, "metric")
		if metric == "" {
			report.skip(line, "empty metric")
			continue
		}

		value, err := strconv.ParseFloat(t.get(row, "value"), 64)
		if err != nil {
			report.skip(line, fmt.Sprintf("non-numeric value %q", t.get(row, "value")))
			continue
		}

		metrics = append(metrics, inventory.CensusMetric{Year: year, Metric: metric, Value: value})
	}

	return metrics, report, nil
}
