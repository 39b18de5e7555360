package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	dasherrors "ghg-dashboard/pkg/errors"
)

// Compute produces one EmissionResult per resolvable UsageRecord by
// multiplying quantity by the matching factor. A record whose (category,
// unit) pair has no factor is excluded from every aggregate and reported;
// the remaining records still compute. Results are sorted by (period,
// category) so identical input yields identical output.
func Compute(records []UsageRecord, factors *FactorTable) *Result {
	result := &Result{
		Results: make([]EmissionResult, 0, len(records)),
		Errors:  make([]*dasherrors.DashError, 0),
	}

	for _, rec := range records {
		result.RecordsProcessed++

		if rec.Quantity.IsNegative() {
			result.RecordsExcluded++
			result.Errors = append(result.Errors, &dasherrors.DashError{
				Code:        dasherrors.ErrCodeMalformedRow,
				Message:     "negative quantity for category " + rec.Category,
				Severity:    dasherrors.SeverityWarning,
				Recoverable: true,
			})
			continue
		}

		factor, ok := factors.Resolve(rec.Category, rec.Unit)
		if !ok {
			result.RecordsExcluded++
			result.Errors = append(result.Errors,
				dasherrors.NewUnresolvedFactorError(rec.Category, string(rec.Unit)))
			continue
		}

		result.Results = append(result.Results, EmissionResult{
			Period:   rec.Period,
			Category: rec.Category,
			Quantity: rec.Quantity,
			Unit:     rec.Unit,
			KgCO2e:   rec.Quantity.Mul(factor.KgCO2ePerUnit),
		})
	}

	sortResults(result.Results)
	result.ByPeriod = TotalsByPeriod(result.Results)
	result.ByCategory = TotalsByCategory(result.Results)
	return result
}

func sortResults(results []EmissionResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Period != results[j].Period {
			return results[i].Period < results[j].Period
		}
		return results[i].Category < results[j].Category
	})
}

// TotalsByPeriod groups results by period and sums emissions, sorted by
// period ascending.
func TotalsByPeriod(results []EmissionResult) []PeriodTotal {
	sums := make(map[Period]decimal.Decimal)
	for _, r := range results {
		sums[r.Period] = sums[r.Period].Add(r.KgCO2e)
	}

	totals := make([]PeriodTotal, 0, len(sums))
	for period, kg := range sums {
		totals = append(totals, PeriodTotal{Period: period, KgCO2e: kg})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Period < totals[j].Period })
	return totals
}

// TotalsByCategory groups results by category and sums emissions, sorted by
// emissions descending then category for a stable order.
func TotalsByCategory(results []EmissionResult) []CategoryTotal {
	sums := make(map[string]decimal.Decimal)
	for _, r := range results {
		sums[r.Category] = sums[r.Category].Add(r.KgCO2e)
	}

	totals := make([]CategoryTotal, 0, len(sums))
	for category, kg := range sums {
		totals = append(totals, CategoryTotal{Category: category, KgCO2e: kg})
	}
	sort.Slice(totals, func(i, j int) bool {
		if !totals[i].KgCO2e.Equal(totals[j].KgCO2e) {
			return totals[i].KgCO2e.GreaterThan(totals[j].KgCO2e)
		}
		return totals[i].Category < totals[j].Category
	})
	return totals
}

// Pivot arranges results into a period × category matrix for stacked charts.
// Missing cells are zero. Periods ascending, categories alphabetical.
type Pivot struct {
	Periods    []Period
	Categories []string
	Cells      map[Period]map[string]decimal.Decimal
}

// PivotByCategory builds a Pivot from emission results.
func PivotByCategory(results []EmissionResult) *Pivot {
	p := &Pivot{Cells: make(map[Period]map[string]decimal.Decimal)}

	periodSeen := make(map[Period]bool)
	categorySeen := make(map[string]bool)
	for _, r := range results {
		if !periodSeen[r.Period] {
			periodSeen[r.Period] = true
			p.Periods = append(p.Periods, r.Period)
		}
		if !categorySeen[r.Category] {
			categorySeen[r.Category] = true
			p.Categories = append(p.Categories, r.Category)
		}
		if p.Cells[r.Period] == nil {
			p.Cells[r.Period] = make(map[string]decimal.Decimal)
		}
		p.Cells[r.Period][r.Category] = p.Cells[r.Period][r.Category].Add(r.KgCO2e)
	}

	sort.Slice(p.Periods, func(i, j int) bool { return p.Periods[i] < p.Periods[j] })
	sort.Strings(p.Categories)
	return p
}

// Value returns the cell for (period, category), zero if absent.
func (p *Pivot) Value(period Period, category string) decimal.Decimal {
	if row, ok := p.Cells[period]; ok {
		return row[category]
	}
	return decimal.Zero
}
