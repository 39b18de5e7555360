package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"ghg-dashboard/internal/inventory"
	"ghg-dashboard/pkg/units"
)

// Chart pages render the views as interactive ECharts HTML. Emissions are
// shown in metric tons; the JSON API keeps exact kg values.

func (s *Server) handleHomePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	view, err := s.workspace.Summary()
	if err != nil {
		s.pageError(w, err)
		return
	}

	var years []string
	var vehicles, buildings []opts.BarData
	for _, row := range view.Series.Rows {
		years = append(years, strconv.Itoa(row.Year))
		vehicles = append(vehicles, opts.BarData{Value: tons(row.VehiclesKgCO2e.InexactFloat64())})
		buildings = append(buildings, opts.BarData{Value: tons(row.BuildingsKgCO2e.InexactFloat64())})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Town-Wide Greenhouse Gas Inventory",
			Subtitle: "Metric tons CO2e per calendar year",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(years).
		AddSeries("Vehicles", vehicles, charts.WithBarChartOpts(opts.BarChart{Stack: "total"})).
		AddSeries("Municipal buildings", buildings, charts.WithBarChartOpts(opts.BarChart{Stack: "total"}))

	s.renderPage(w, "GHG Inventory", bar)
}

func (s *Server) handleEnergyPage(w http.ResponseWriter, r *http.Request) {
	view, err := s.workspace.Energy()
	if err != nil {
		s.pageError(w, err)
		return
	}

	pivot := inventory.PivotByCategory(view.Inventory.Results)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Municipal Building Emissions by Fuel",
			Subtitle: "Metric tons CO2e per fiscal year",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	var periods []string
	for _, p := range pivot.Periods {
		periods = append(periods, string(p))
	}
	bar.SetXAxis(periods)
	for _, category := range pivot.Categories {
		var data []opts.BarData
		for _, p := range pivot.Periods {
			data = append(data, opts.BarData{Value: tons(pivot.Value(p, category).InexactFloat64())})
		}
		bar.AddSeries(category, data, charts.WithBarChartOpts(opts.BarChart{Stack: "total"}))
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Share by Fuel, All Years"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	var slices []opts.PieData
	for _, c := range view.Inventory.ByCategory {
		slices = append(slices, opts.PieData{Name: c.Category, Value: tons(c.KgCO2e.InexactFloat64())})
	}
	pie.AddSeries("fuel", slices)

	s.renderPage(w, "Municipal Energy", bar, pie)
}

func (s *Server) handleVehiclesPage(w http.ResponseWriter, r *http.Request) {
	view, err := s.workspace.Vehicles()
	if err != nil {
		s.pageError(w, err)
		return
	}

	pivot := inventory.PivotByCategory(view.Inventory.Results)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Vehicle Fleet Emissions by Type",
			Subtitle: "Metric tons CO2e per census quarter",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	var quarters []string
	for _, p := range pivot.Periods {
		quarters = append(quarters, string(p))
	}
	line.SetXAxis(quarters)
	for _, category := range pivot.Categories {
		var data []opts.LineData
		for _, p := range pivot.Periods {
			data = append(data, opts.LineData{Value: tons(pivot.Value(p, category).InexactFloat64())})
		}
		line.AddSeries(category, data)
	}

	s.renderPage(w, "Vehicle Fleet", line)
}

func (s *Server) handleParticipationPage(w http.ResponseWriter, r *http.Request) {
	view, err := s.workspace.Participation()
	if err != nil {
		s.pageError(w, err)
		return
	}

	var years []string
	var rates []opts.LineData
	var locations []opts.BarData
	for _, rec := range view.Records {
		years = append(years, strconv.Itoa(rec.Year))
		rates = append(rates, opts.LineData{Value: rec.RatePct})
		locations = append(locations, opts.BarData{Value: rec.ActiveLocations})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Community Electricity Program Participation",
			Subtitle: "Percent of eligible locations enrolled",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)
	line.SetXAxis(years).AddSeries("Participation rate (%)", rates)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Active Locations"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)
	bar.SetXAxis(years).AddSeries("Locations", locations)

	s.renderPage(w, "Participation", line, bar)
}

func (s *Server) handleSolarPage(w http.ResponseWriter, r *http.Request) {
	view, err := s.workspace.Solar()
	if err != nil {
		s.pageError(w, err)
		return
	}

	var years []string
	var capacity []opts.LineData
	var projects []opts.BarData
	for _, rec := range view.Records {
		years = append(years, strconv.Itoa(rec.Year))
		capacity = append(capacity, opts.LineData{Value: rec.CapacityKWCumulative})
		projects = append(projects, opts.BarData{Value: rec.ProjectCountCumulative})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Installed Solar Capacity",
			Subtitle: "Cumulative kW DC",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)
	line.SetXAxis(years).AddSeries("Capacity (kW)", capacity)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Solar Projects"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)
	bar.SetXAxis(years).AddSeries("Projects (cumulative)", projects)

	s.renderPage(w, "Solar", line, bar)
}

func (s *Server) handleSavingsPage(w http.ResponseWriter, r *http.Request) {
	view, err := s.workspace.Savings()
	if err != nil {
		s.pageError(w, err)
		return
	}

	var years []string
	var heatPumps, bevs, phevs, solar []opts.BarData
	for _, row := range view.Rows {
		years = append(years, strconv.Itoa(row.Year))
		heatPumps = append(heatPumps, opts.BarData{Value: tons(row.HeatPumpKgCO2e.InexactFloat64())})
		bevs = append(bevs, opts.BarData{Value: tons(row.BEVKgCO2e.InexactFloat64())})
		phevs = append(phevs, opts.BarData{Value: tons(row.PHEVKgCO2e.InexactFloat64())})
		solar = append(solar, opts.BarData{Value: tons(row.SolarKgCO2e.InexactFloat64())})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Avoided Emissions by Program",
			Subtitle: "Metric tons CO2e per year",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(years).
		AddSeries("Heat pumps", heatPumps, charts.WithBarChartOpts(opts.BarChart{Stack: "total"})).
		AddSeries("Battery EVs", bevs, charts.WithBarChartOpts(opts.BarChart{Stack: "total"})).
		AddSeries("Plug-in hybrids", phevs, charts.WithBarChartOpts(opts.BarChart{Stack: "total"})).
		AddSeries("Solar", solar, charts.WithBarChartOpts(opts.BarChart{Stack: "total"}))

	s.renderPage(w, "Avoided Emissions", bar)
}

func (s *Server) handleResidentialPage(w http.ResponseWriter, r *http.Request) {
	view, err := s.workspace.Residential()
	if err != nil {
		s.pageError(w, err)
		return
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Community Heating Emissions by Fuel",
			Subtitle: fmt.Sprintf("Estimated %.0f metric tons CO2e per year", tons(view.Estimate.TotalKgCO2e.InexactFloat64())),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	var byFuel []opts.PieData
	for _, c := range view.Estimate.ByFuel {
		byFuel = append(byFuel, opts.PieData{Name: c.Category, Value: tons(c.KgCO2e.InexactFloat64())})
	}
	pie.AddSeries("fuel", byFuel)

	sectors := charts.NewBar()
	sectors.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "By Sector"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)
	var names []string
	var values []opts.BarData
	for _, c := range view.Estimate.BySector {
		names = append(names, c.Category)
		values = append(values, opts.BarData{Value: tons(c.KgCO2e.InexactFloat64())})
	}
	sectors.SetXAxis(names).AddSeries("Metric tons CO2e", values)

	s.renderPage(w, "Community Heating", pie, sectors)
}

func (s *Server) renderPage(w http.ResponseWriter, title string, chartList ...components.Charter) {
	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(chartList...)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(w); err != nil {
		s.log.Error("page render failed", "page", title, "error", err)
	}
}

// pageError renders view failures as plain text so a browser user sees the
// reason, not a broken chart.
func (s *Server) pageError(w http.ResponseWriter, err error) {
	s.log.Warn("page unavailable", "error", err)
	http.Error(w, err.Error(), http.StatusServiceUnavailable)
}

func tons(kg float64) float64 {
	return units.KgToMetricTons(kg)
}
