// Package inventory computes greenhouse-gas emission inventories from usage
// records and emission factor tables.
package inventory

import (
	"github.com/shopspring/decimal"

	dasherrors "ghg-dashboard/pkg/errors"
	"ghg-dashboard/pkg/units"
)

// Period is an exact-match grouping key: a fiscal year ("2023"), a calendar
// year ("2023"), or a quarter date ("2023-01-01"). No fuzzy matching.
type Period string

// UsageRecord is one measured quantity of fuel or energy for a period.
type UsageRecord struct {
	Period   Period          `json:"period"`
	Category string          `json:"category"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     units.Unit      `json:"unit"`
}

// EmissionFactor converts one unit of a category into kg CO2e.
type EmissionFactor struct {
	Category      string          `json:"category"`
	Unit          units.Unit      `json:"unit"`
	KgCO2ePerUnit decimal.Decimal `json:"kg_co2e_per_unit"`
}

// FactorTable holds exactly one factor per (category, unit) pair.
type FactorTable struct {
	factors map[string]EmissionFactor
}

// NewFactorTable creates an empty factor table.
func NewFactorTable() *FactorTable {
	return &FactorTable{factors: make(map[string]EmissionFactor)}
}

func factorKey(category string, unit units.Unit) string {
	return category + "|" + string(unit)
}

// Add registers a factor. A second factor for the same (category, unit) pair
// violates the exactly-one invariant and is rejected.
func (t *FactorTable) Add(f EmissionFactor) error {
	key := factorKey(f.Category, f.Unit)
	if _, exists := t.factors[key]; exists {
		return dasherrors.NewDuplicateFactorError(f.Category, string(f.Unit))
	}
	t.factors[key] = f
	return nil
}

// Resolve returns the factor for a (category, unit) pair, if present.
func (t *FactorTable) Resolve(category string, unit units.Unit) (EmissionFactor, bool) {
	f, ok := t.factors[factorKey(category, unit)]
	return f, ok
}

// Len reports the number of registered factors.
func (t *FactorTable) Len() int {
	return len(t.factors)
}

// EmissionResult is one computed line item: emissions = quantity × factor.
// Derived on every load, never persisted.
type EmissionResult struct {
	Period   Period          `json:"period"`
	Category string          `json:"category"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     units.Unit      `json:"unit"`
	KgCO2e   decimal.Decimal `json:"kg_co2e"`
}

// PeriodTotal is the summed emissions for one period.
type PeriodTotal struct {
	Period Period          `json:"period"`
	KgCO2e decimal.Decimal `json:"kg_co2e"`
}

// CategoryTotal is the summed emissions for one category across all periods.
type CategoryTotal struct {
	Category string          `json:"category"`
	KgCO2e   decimal.Decimal `json:"kg_co2e"`
}

// Result is the complete aggregation output.
type Result struct {
	Results    []EmissionResult `json:"results"`
	ByPeriod   []PeriodTotal    `json:"by_period"`
	ByCategory []CategoryTotal  `json:"by_category"`

	// Errors lists excluded records: unresolved factors and invalid
	// quantities. Exclusion is total; an excluded record contributes to no
	// aggregate.
	Errors []*dasherrors.DashError `json:"errors,omitempty"`

	RecordsProcessed int `json:"records_processed"`
	RecordsExcluded  int `json:"records_excluded"`
}

// TotalKgCO2e sums all period totals.
func (r *Result) TotalKgCO2e() decimal.Decimal {
	total := decimal.Zero
	for _, p := range r.ByPeriod {
		total = total.Add(p.KgCO2e)
	}
	return total
}
