package inventory

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	dasherrors "ghg-dashboard/pkg/errors"
	"ghg-dashboard/pkg/units"
)

// PropertyRecord is one row of the assessors extract.
type PropertyRecord struct {
	PropertyType string  `json:"property_type"` // R, C, M, E
	HVAC         string  `json:"hvac"`
	Fuel         string  `json:"fuel"`
	NetSF        float64 `json:"net_sf"`
}

// Sector buckets properties for the community-wide estimate.
type Sector string

const (
	SectorResidential Sector = "residential"
	SectorCommercial  Sector = "commercial"
	SectorLodging     Sector = "lodging"
)

// Heating consumption benchmarks per square foot per year. Oil and propane
// rates follow state household heating figures; electric rates are estimates
// pending validation against local billing data.
var (
	oilGalPerSqFt        = decimal.NewFromFloat(0.40)
	propaneGalPerSqFt    = decimal.NewFromFloat(0.39)
	resistanceKWhPerSqFt = decimal.NewFromInt(12)
	heatPumpKWhPerSqFt   = decimal.NewFromInt(4)
)

// Occupancy heating factors: seasonal properties heat at maintenance level,
// lodging closes in winter, commercial is an estimate.
var (
	seasonalHeatingFactor   = decimal.NewFromFloat(0.30)
	lodgingHeatingFactor    = decimal.NewFromFloat(0.30)
	commercialHeatingFactor = decimal.NewFromFloat(0.65)
)

// CensusMetricSeasonalShare names the census metric giving the percentage of
// properties that are seasonal or vacant.
const CensusMetricSeasonalShare = "seasonal_properties_pct"

// CategoryHeatingOil is the factor category for fuel-oil heating.
const CategoryHeatingOil = "heating_oil"

// ResidentialEstimate is the community-wide heating emissions estimate.
type ResidentialEstimate struct {
	TotalKgCO2e decimal.Decimal `json:"total_kg_co2e"`
	ByFuel      []CategoryTotal `json:"by_fuel"`
	BySector    []CategoryTotal `json:"by_sector"`

	Properties        int `json:"properties"`
	SkippedProperties int `json:"skipped_properties"`

	Errors []*dasherrors.DashError `json:"errors,omitempty"`
}

// EstimateResidential derives heating emissions for private properties from
// square footage, fuel benchmarks, and occupancy adjustment. Exempt
// (municipal) properties are excluded; they are tracked in the municipal
// energy inventory. Properties with no square footage or an unmapped fuel
// are skipped and counted.
func EstimateResidential(props []PropertyRecord, census []CensusMetric, factors *FactorTable) *ResidentialEstimate {
	est := &ResidentialEstimate{}

	residentialFactor := residentialHeatingFactor(census)

	fuelTotals := make(map[string]decimal.Decimal)
	sectorTotals := make(map[Sector]decimal.Decimal)
	unresolved := make(map[string]bool)

	for _, p := range props {
		sector, ok := classifySector(p.PropertyType)
		if !ok {
			continue // exempt or unknown property class
		}
		est.Properties++

		if p.NetSF <= 0 {
			est.SkippedProperties++
			continue
		}

		category, unit, rate, ok := heatingBenchmark(p.Fuel, p.HVAC)
		if !ok {
			est.SkippedProperties++
			continue
		}

		factor, ok := factors.Resolve(category, unit)
		if !ok {
			est.SkippedProperties++
			if !unresolved[category+"|"+string(unit)] {
				unresolved[category+"|"+string(unit)] = true
				est.Errors = append(est.Errors,
					dasherrors.NewUnresolvedFactorError(category, string(unit)))
			}
			continue
		}

		adjust := residentialFactor
		switch sector {
		case SectorLodging:
			adjust = lodgingHeatingFactor
		case SectorCommercial:
			adjust = commercialHeatingFactor
		}

		consumption := decimal.NewFromFloat(p.NetSF).Mul(rate).Mul(adjust)
		kg := consumption.Mul(factor.KgCO2ePerUnit)

		fuelTotals[category] = fuelTotals[category].Add(kg)
		sectorTotals[sector] = sectorTotals[sector].Add(kg)
		est.TotalKgCO2e = est.TotalKgCO2e.Add(kg)
	}

	est.ByFuel = mapToCategoryTotals(fuelTotals)
	sectorMap := make(map[string]decimal.Decimal, len(sectorTotals))
	for s, kg := range sectorTotals {
		sectorMap[string(s)] = kg
	}
	est.BySector = mapToCategoryTotals(sectorMap)
	return est
}

// residentialHeatingFactor weights full heating by the year-round share and
// maintenance heating by the seasonal share from the census. Falls back to
// full heating when the census metric is absent.
func residentialHeatingFactor(census []CensusMetric) decimal.Decimal {
	pct, ok := LatestMetric(census, CensusMetricSeasonalShare)
	if !ok {
		return decimal.NewFromInt(1)
	}
	seasonal := decimal.NewFromFloat(pct / 100.0)
	yearRound := decimal.NewFromInt(1).Sub(seasonal)
	return seasonal.Mul(seasonalHeatingFactor).Add(yearRound)
}

func classifySector(propertyType string) (Sector, bool) {
	switch strings.ToUpper(strings.TrimSpace(propertyType)) {
	case "R":
		return SectorResidential, true
	case "C":
		return SectorCommercial, true
	case "M":
		return SectorLodging, true
	default:
		return "", false
	}
}

// heatingBenchmark maps assessor fuel/HVAC codes onto a factor category,
// unit, and per-square-foot consumption rate. Electric properties split on
// HVAC: heat pumps draw roughly a third of resistance heating.
func heatingBenchmark(fuel, hvac string) (string, units.Unit, decimal.Decimal, bool) {
	switch strings.ToUpper(strings.TrimSpace(fuel)) {
	case "OIL":
		return CategoryHeatingOil, units.UnitGallon, oilGalPerSqFt, true
	case "GAS", "PROPANE":
		// No natural gas service in town; GAS means propane.
		return CategoryPropane, units.UnitGallon, propaneGalPerSqFt, true
	case "ELECTRIC":
		if strings.Contains(strings.ToUpper(hvac), "HEAT PUMP") {
			return CategoryElectricity, units.UnitKWh, heatPumpKWhPerSqFt, true
		}
		return CategoryElectricity, units.UnitKWh, resistanceKWhPerSqFt, true
	default:
		return "", "", decimal.Zero, false
	}
}

func mapToCategoryTotals(m map[string]decimal.Decimal) []CategoryTotal {
	totals := make([]CategoryTotal, 0, len(m))
	for category, kg := range m {
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
