package inventory

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// YearRow is one year of the combined town-wide inventory.
type YearRow struct {
	Year            int             `json:"year"`
	VehiclesKgCO2e  decimal.Decimal `json:"vehicles_kg_co2e"`
	BuildingsKgCO2e decimal.Decimal `json:"buildings_kg_co2e"`
	TotalKgCO2e     decimal.Decimal `json:"total_kg_co2e"`
}

// CombinedSeries merges the municipal-building and vehicle-fleet inventories
// onto calendar years.
type CombinedSeries struct {
	Rows []YearRow `json:"rows"`
}

// CombinedByYear joins the two inventories. Energy periods are fiscal years.
// Fleet periods are quarter dates; the January census snapshot carries the
// prior calendar year's final registration count, so Q1 rows are attributed
// to year-1 and other quarters are ignored. Years before baselineYear are
// dropped (no vehicle data exists for them).
func CombinedByYear(energy, fleet *Result, baselineYear int) *CombinedSeries {
	buildings := make(map[int]decimal.Decimal)
	for _, p := range energy.ByPeriod {
		year, err := strconv.Atoi(string(p.Period))
		if err != nil {
			continue
		}
		buildings[year] = buildings[year].Add(p.KgCO2e)
	}

	vehicles := make(map[int]decimal.Decimal)
	for _, r := range fleet.Results {
		t, err := time.Parse("2006-01-02", string(r.Period))
		if err != nil || t.Month() != time.January {
			continue
		}
		year := t.Year() - 1
		vehicles[year] = vehicles[year].Add(r.KgCO2e)
	}

	years := make(map[int]bool)
	for y := range buildings {
		years[y] = true
	}
	for y := range vehicles {
		years[y] = true
	}

	series := &CombinedSeries{}
	minYear, maxYear := 0, 0
	for y := range years {
		if minYear == 0 || y < minYear {
			minYear = y
		}
		if y > maxYear {
			maxYear = y
		}
	}
	if minYear < baselineYear {
		minYear = baselineYear
	}

	for y := minYear; y <= maxYear; y++ {
		if !years[y] {
			continue
		}
		row := YearRow{
			Year:            y,
			VehiclesKgCO2e:  vehicles[y],
			BuildingsKgCO2e: buildings[y],
		}
		row.TotalKgCO2e = row.VehiclesKgCO2e.Add(row.BuildingsKgCO2e)
		series.Rows = append(series.Rows, row)
	}
	return series
}

// Latest returns the most recent year row, if any.
func (s *CombinedSeries) Latest() (YearRow, bool) {
	if len(s.Rows) == 0 {
		return YearRow{}, false
	}
	return s.Rows[len(s.Rows)-1], true
}

// Previous returns the row before the most recent, if any.
func (s *CombinedSeries) Previous() (YearRow, bool) {
	if len(s.Rows) < 2 {
		return YearRow{}, false
	}
	return s.Rows[len(s.Rows)-2], true
}
