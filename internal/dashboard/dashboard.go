// Package dashboard assembles the emission views served by the HTTP API and
// the CLI. Every view loads its datasets fresh from disk, so edits to the
// underlying files show up on the next request without a restart. Views
// degrade independently: a missing or broken dataset fails only the views
// built on it.
package dashboard

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"ghg-dashboard/internal/config"
	"ghg-dashboard/internal/dataset"
	"ghg-dashboard/internal/inventory"
)

// Workspace resolves dataset paths from configuration and builds views.
type Workspace struct {
	cfg *config.Config
	log *slog.Logger
}

// New creates a workspace over the configured data directory.
func New(cfg *config.Config, log *slog.Logger) *Workspace {
	if log == nil {
		log = slog.Default()
	}
	return &Workspace{cfg: cfg, log: log}
}

// EnergyView is the municipal building inventory.
type EnergyView struct {
	Inventory *inventory.Result `json:"inventory"`
	Reports   []*dataset.Report `json:"reports,omitempty"`
}

// VehiclesView is the vehicle fleet inventory.
type VehiclesView struct {
	Inventory *inventory.Result                `json:"inventory"`
	Specs     map[string]inventory.VehicleSpec `json:"specs"`
	Reports   []*dataset.Report                `json:"reports,omitempty"`
}

// SummaryView joins buildings and vehicles onto calendar years, with the
// latest year and its change from the year before.
type SummaryView struct {
	Series      *inventory.CombinedSeries `json:"series"`
	Latest      *inventory.YearRow        `json:"latest,omitempty"`
	DeltaKgCO2e *decimal.Decimal          `json:"delta_kg_co2e,omitempty"`
	Reports     []*dataset.Report         `json:"reports,omitempty"`
}

// ParticipationView carries program participation rates and their deltas.
type ParticipationView struct {
	Records []inventory.ParticipationRecord `json:"records"`
	Deltas  []inventory.ParticipationDelta  `json:"deltas"`
	Census  []inventory.CensusMetric        `json:"census,omitempty"`
	Reports []*dataset.Report               `json:"reports,omitempty"`
}

// SolarView carries the yearly solar capacity series.
type SolarView struct {
	Records []inventory.SolarRecord `json:"records"`
	Reports []*dataset.Report       `json:"reports,omitempty"`
}

// SavingsView carries avoided emissions per program per year.
type SavingsView struct {
	Rows    []inventory.SavingsRow `json:"rows"`
	Reports []*dataset.Report      `json:"reports,omitempty"`
}

// ResidentialView is the community-wide heating estimate.
type ResidentialView struct {
	Estimate *inventory.ResidentialEstimate `json:"estimate"`
	Reports  []*dataset.Report              `json:"reports,omitempty"`
}

func (w *Workspace) factors() (*inventory.FactorTable, *dataset.Report, error) {
	factors, report, err := dataset.LoadEmissionFactors(w.cfg.Path(w.cfg.Files.EmissionFactors))
	w.warn(report)
	return factors, report, err
}

func (w *Workspace) warn(reports ...*dataset.Report) {
	for _, r := range reports {
		if r == nil || r.Skipped == 0 {
			continue
		}
		w.log.Warn("rows skipped during load",
			"dataset", r.Dataset,
			"load_id", r.LoadID,
			"rows", r.Rows,
			"skipped", r.Skipped)
	}
}

// Energy loads the municipal energy file and computes its inventory.
func (w *Workspace) Energy() (*EnergyView, error) {
	factors, factorReport, err := w.factors()
	if err != nil {
		return nil, err
	}

	records, report, err := dataset.LoadMunicipalEnergy(
		w.cfg.Path(w.cfg.Files.MunicipalEnergy),
		w.cfg.FiscalYearFloor, w.cfg.FiscalYearCap)
	w.warn(report)
	if err != nil {
		return nil, err
	}

	return &EnergyView{
		Inventory: inventory.Compute(records, factors),
		Reports:   []*dataset.Report{factorReport, report},
	}, nil
}

// Vehicles loads the vehicle census and derives fleet emissions.
func (w *Workspace) Vehicles() (*VehiclesView, error) {
	factors, factorReport, err := w.factors()
	if err != nil {
		return nil, err
	}

	census, censusReport, err := dataset.LoadVehicleCensus(w.cfg.Path(w.cfg.Files.VehicleCensus))
	w.warn(censusReport)
	if err != nil {
		return nil, err
	}

	specs, specReport, err := dataset.LoadVehicleFactors(w.cfg.Path(w.cfg.Files.VehicleFactors))
	w.warn(specReport)
	if err != nil {
		return nil, err
	}

	return &VehiclesView{
		Inventory: inventory.FleetEmissions(census, specs, factors),
		Specs:     specs,
		Reports:   []*dataset.Report{factorReport, censusReport, specReport},
	}, nil
}

// Summary joins the energy and fleet inventories. Both datasets must load;
// a half-joined series would misread as a real emissions drop.
func (w *Workspace) Summary() (*SummaryView, error) {
	energy, err := w.Energy()
	if err != nil {
		return nil, err
	}
	vehicles, err := w.Vehicles()
	if err != nil {
		return nil, err
	}

	series := inventory.CombinedByYear(energy.Inventory, vehicles.Inventory, w.cfg.BaselineYear)
	view := &SummaryView{
		Series:  series,
		Reports: append(energy.Reports, vehicles.Reports...),
	}
	if latest, ok := series.Latest(); ok {
		view.Latest = &latest
		if prev, ok := series.Previous(); ok {
			delta := latest.TotalKgCO2e.Sub(prev.TotalKgCO2e)
			view.DeltaKgCO2e = &delta
		}
	}
	return view, nil
}

// Participation loads program participation rates. The census metrics file is
// optional context; its absence does not fail the view.
func (w *Workspace) Participation() (*ParticipationView, error) {
	records, report, err := dataset.LoadParticipation(w.cfg.Path(w.cfg.Files.Participation))
	w.warn(report)
	if err != nil {
		return nil, err
	}

	view := &ParticipationView{
		Records: records,
		Deltas:  inventory.YearOverYear(records),
		Reports: []*dataset.Report{report},
	}

	census, censusReport, err := dataset.LoadCensusMetrics(w.cfg.Path(w.cfg.Files.CLCCensus))
	w.warn(censusReport)
	if err == nil {
		view.Census = census
		view.Reports = append(view.Reports, censusReport)
	}
	return view, nil
}

// Solar loads the yearly solar capacity series.
func (w *Workspace) Solar() (*SolarView, error) {
	records, report, err := dataset.LoadSolar(w.cfg.Path(w.cfg.Files.Solar))
	w.warn(report)
	if err != nil {
		return nil, err
	}
	return &SolarView{Records: records, Reports: []*dataset.Report{report}}, nil
}

// Savings derives avoided emissions from heat pumps, EV adoption, and solar.
func (w *Workspace) Savings() (*SavingsView, error) {
	factors, factorReport, err := w.factors()
	if err != nil {
		return nil, err
	}

	heatPumps, hpReport, err := dataset.LoadHeatPumps(w.cfg.Path(w.cfg.Files.HeatPumps))
	w.warn(hpReport)
	if err != nil {
		return nil, err
	}

	fleet, fleetReport, err := dataset.LoadVehicleCensus(w.cfg.Path(w.cfg.Files.VehicleCensus))
	w.warn(fleetReport)
	if err != nil {
		return nil, err
	}

	specs, specReport, err := dataset.LoadVehicleFactors(w.cfg.Path(w.cfg.Files.VehicleFactors))
	w.warn(specReport)
	if err != nil {
		return nil, err
	}

	solar, solarReport, err := dataset.LoadSolar(w.cfg.Path(w.cfg.Files.Solar))
	w.warn(solarReport)
	if err != nil {
		return nil, err
	}

	rows, problems := inventory.AnnualSavings(inventory.SavingsInput{
		HeatPumps:                   heatPumps,
		Fleet:                       fleet,
		Specs:                       specs,
		Solar:                       solar,
		Factors:                     factors,
		BaselineYear:                w.cfg.BaselineYear,
		SolarMWhPerKW:               decimal.NewFromFloat(w.cfg.Solar.CapacityFactorMWhPerKW),
		PropaneGallonsPerConversion: decimal.NewFromFloat(w.cfg.HeatPumps.PropaneGallonsPerConversion),
		BaselineVehicleType:         w.cfg.Vehicles.BaselineType,
	})
	for _, p := range problems {
		w.log.Warn("savings series degraded", "error", p.Error())
	}

	return &SavingsView{
		Rows:    rows,
		Reports: []*dataset.Report{factorReport, hpReport, fleetReport, specReport, solarReport},
	}, nil
}

// Residential estimates community-wide heating emissions from the assessors
// extract. Census metrics refine the seasonal occupancy adjustment when
// present.
func (w *Workspace) Residential() (*ResidentialView, error) {
	factors, factorReport, err := w.factors()
	if err != nil {
		return nil, err
	}

	props, propReport, err := dataset.LoadAssessors(w.cfg.Path(w.cfg.Files.Assessors))
	w.warn(propReport)
	if err != nil {
		return nil, err
	}

	reports := []*dataset.Report{factorReport, propReport}
	var census []inventory.CensusMetric
	if metrics, censusReport, err := dataset.LoadCensusMetrics(w.cfg.Path(w.cfg.Files.CLCCensus)); err == nil {
		census = metrics
		w.warn(censusReport)
		reports = append(reports, censusReport)
	}

	return &ResidentialView{
		Estimate: inventory.EstimateResidential(props, census, factors),
		Reports:  reports,
	}, nil
}

// Export returns the full emission line-item table (buildings then fleet)
// in the engine's deterministic order.
func (w *Workspace) Export() ([]inventory.EmissionResult, error) {
	energy, err := w.Energy()
	if err != nil {
		return nil, err
	}
	vehicles, err := w.Vehicles()
	if err != nil {
		return nil, err
	}

	rows := make([]inventory.EmissionResult, 0,
		len(energy.Inventory.Results)+len(vehicles.Inventory.Results))
	rows = append(rows, energy.Inventory.Results...)
	rows = append(rows, vehicles.Inventory.Results...)
	return rows, nil
}
