package inventory

import "sort"

// ParticipationRecord is one year of program participation. Participation
// data is displayed and differenced only; it is never combined
// arithmetically with emission results.
type ParticipationRecord struct {
	Year            int     `json:"year"`
	ActiveLocations int64   `json:"active_locations"`
	RatePct         float64 `json:"rate_pct"`
}

// ParticipationDelta is the year-over-year change in participation rate.
type ParticipationDelta struct {
	Year     int     `json:"year"`
	DeltaPct float64 `json:"delta_pct"`
}

// SortParticipation orders records by year ascending.
func SortParticipation(records []ParticipationRecord) {
	sort.Slice(records, func(i, j int) bool { return records[i].Year < records[j].Year })
}

// YearOverYear computes rate deltas between consecutive years. The first
// year has no predecessor and produces no delta.
func YearOverYear(records []ParticipationRecord) []ParticipationDelta {
	sorted := make([]ParticipationRecord, len(records))
	copy(sorted, records)
	SortParticipation(sorted)

	deltas := make([]ParticipationDelta, 0, len(sorted))
	for i := 1; i < len(sorted); i++ {
		deltas = append(deltas, ParticipationDelta{
			Year:     sorted[i].Year,
			DeltaPct: sorted[i].RatePct - sorted[i-1].RatePct,
		})
	}
	return deltas
}

// CensusMetric is one year of program census statistics, keyed by metric
// name (for example "seasonal_properties_pct").
type CensusMetric struct {
	Year   int     `json:"year"`
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
}

// LatestMetric returns the most recent value for a metric name.
func LatestMetric(metrics []CensusMetric, name string) (float64, bool) {
	found := false
	year := 0
	value := 0.0
	for _, m := range metrics {
		if m.Metric == name && (!found || m.Year > year) {
			found = true
			year = m.Year
			value = m.Value
		}
	}
	return value, found
}
