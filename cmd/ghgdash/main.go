// ghgdash - Municipal Greenhouse Gas Dashboard
//
// Usage:
//   ghgdash serve [--port 8080] [--data-dir data]
//   ghgdash report --view energy [--format table|json|csv]
//   ghgdash factors validate
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"ghg-dashboard/api"
	"ghg-dashboard/internal/config"
	"ghg-dashboard/internal/dashboard"
	"ghg-dashboard/internal/dataset"
	"ghg-dashboard/internal/inventory"
	"ghg-dashboard/pkg/platform"
	"ghg-dashboard/pkg/units"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	app := &cli.App{
		Name:    "ghgdash",
		Usage:   "Municipal greenhouse gas inventory dashboard",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   config.DefaultConfigPath(),
				Usage:   "Path to config file",
				EnvVars: []string{"GHGDASH_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "Directory containing the dataset files (overrides config)",
				EnvVars: []string{"GHGDASH_DATA_DIR"},
			},
		},

		Commands: []*cli.Command{
			serveCommand(),
			reportCommand(),
			factorsCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if dir := c.String("data-dir"); dir != "" {
		cfg.DataDir = dir
	}
	return cfg, nil
}

// =============================================================================
// SERVE COMMAND
// =============================================================================

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the dashboard HTTP server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Usage:   "Server port (overrides config)",
				EnvVars: []string{"GHGDASH_PORT"},
			},
			&cli.StringFlag{
				Name:    "cors-origins",
				Usage:   "Comma-separated list of allowed CORS origins",
				EnvVars: []string{"GHGDASH_CORS_ORIGINS"},
			},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	log := platform.InitLogger()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if port := c.Int("port"); port > 0 {
		cfg.Port = port
	}
	if origins := c.String("cors-origins"); origins != "" {
		parts := strings.Split(origins, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		cfg.CORSOrigins = parts
	}

	workspace := dashboard.New(cfg, log)
	server := api.NewServer(workspace, api.FromAppConfig(cfg), log)
	if err := server.StartWithGracefulShutdown(); err != nil {
		platform.LogFatal(log, "server terminated", err)
	}
	return nil
}

// =============================================================================
// REPORT COMMAND
// =============================================================================

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Print an emission inventory to stdout",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "view",
				Aliases: []string{"v"},
				Value:   "energy",
				Usage:   "View to report (energy, vehicles, summary, savings, residential)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "table",
				Usage:   "Output format (table, json, csv)",
			},
		},
		Action: runReport,
	}
}

func runReport(c *cli.Context) error {
	log := platform.InitLogger()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	workspace := dashboard.New(cfg, log)

	view := c.String("view")
	format := c.String("format")

	switch view {
	case "energy":
		v, err := workspace.Energy()
		if err != nil {
			return err
		}
		return reportInventory(v.Inventory, format)
	case "vehicles":
		v, err := workspace.Vehicles()
		if err != nil {
			return err
		}
		return reportInventory(v.Inventory, format)
	case "summary":
		v, err := workspace.Summary()
		if err != nil {
			return err
		}
		return reportSummary(v, format)
	case "savings":
		v, err := workspace.Savings()
		if err != nil {
			return err
		}
		return outputJSON(v)
	case "residential":
		v, err := workspace.Residential()
		if err != nil {
			return err
		}
		return outputJSON(v)
	default:
		return fmt.Errorf("unknown view %q", view)
	}
}

func reportInventory(result *inventory.Result, format string) error {
	switch format {
	case "json":
		return outputJSON(result)
	case "csv":
		return outputCSV(result.Results)
	default:
		return outputInventoryTable(result)
	}
}

func reportSummary(view *dashboard.SummaryView, format string) error {
	if format == "json" {
		return outputJSON(view)
	}

	fmt.Printf("%-6s  %18s  %18s  %18s\n", "Year", "Vehicles (t)", "Buildings (t)", "Total (t)")
	for _, row := range view.Series.Rows {
		fmt.Printf("%-6d  %18.1f  %18.1f  %18.1f\n",
			row.Year,
			units.KgToMetricTons(row.VehiclesKgCO2e.InexactFloat64()),
			units.KgToMetricTons(row.BuildingsKgCO2e.InexactFloat64()),
			units.KgToMetricTons(row.TotalKgCO2e.InexactFloat64()))
	}
	if view.DeltaKgCO2e != nil {
		fmt.Printf("\nChange vs prior year: %+.1f metric tons CO2e\n",
			units.KgToMetricTons(view.DeltaKgCO2e.InexactFloat64()))
	}
	return nil
}

func outputInventoryTable(result *inventory.Result) error {
	fmt.Printf("%-12s  %-24s  %14s  %-8s  %16s\n",
		"Period", "Category", "Quantity", "Unit", "kg CO2e")
	for _, r := range result.Results {
		fmt.Printf("%-12s  %-24s  %14s  %-8s  %16s\n",
			r.Period, r.Category, r.Quantity.String(), r.Unit, r.KgCO2e.StringFixed(2))
	}

	fmt.Println()
	fmt.Printf("Total: %.1f metric tons CO2e (%d records, %d excluded)\n",
		units.KgToMetricTons(result.TotalKgCO2e().InexactFloat64()),
		result.RecordsProcessed, result.RecordsExcluded)

	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "warning: %s\n", e.Error())
	}
	return nil
}

func outputJSON(data interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func outputCSV(rows []inventory.EmissionResult) error {
	cw := csv.NewWriter(os.Stdout)
	cw.Write([]string{"period", "category", "quantity", "unit", "emissions_kg_co2e"})
	for _, r := range rows {
		cw.Write([]string{
			string(r.Period), r.Category, r.Quantity.String(), string(r.Unit), r.KgCO2e.String(),
		})
	}
	cw.Flush()
	return cw.Error()
}

// =============================================================================
// FACTORS COMMAND
// =============================================================================

func factorsCommand() *cli.Command {
	return &cli.Command{
		Name:  "factors",
		Usage: "Inspect the emission factor table",
		Subcommands: []*cli.Command{
			{
				Name:   "validate",
				Usage:  "Check the factor table for duplicates and parse errors",
				Action: runFactorsValidate,
			},
		},
	}
}

func runFactorsValidate(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	factors, report, err := dataset.LoadEmissionFactors(cfg.Path(cfg.Files.EmissionFactors))
	if err != nil {
		return err
	}

	for _, p := range report.Problems {
		fmt.Fprintf(os.Stderr, "warning: %s\n", p.Error())
	}

	// Coverage: every (category, unit) pair in the usage files must resolve.
	unresolved := 0
	if records, _, err := dataset.LoadMunicipalEnergy(
		cfg.Path(cfg.Files.MunicipalEnergy), cfg.FiscalYearFloor, cfg.FiscalYearCap); err == nil {
		seen := make(map[string]bool)
		for _, rec := range records {
			key := rec.Category + "|" + string(rec.Unit)
			if seen[key] {
				continue
			}
			seen[key] = true
			if _, ok := factors.Resolve(rec.Category, rec.Unit); !ok {
				unresolved++
				fmt.Fprintf(os.Stderr, "unresolved: category %q unit %q\n", rec.Category, rec.Unit)
			}
		}
	}
	if specs, _, err := dataset.LoadVehicleFactors(cfg.Path(cfg.Files.VehicleFactors)); err == nil {
		for _, spec := range specs {
			if _, err := inventory.PerVehicleKgCO2e(spec, factors); err != nil {
				unresolved++
				fmt.Fprintf(os.Stderr, "unresolved: vehicle type %q (%s): %v\n", spec.Type, spec.Variant, err)
			}
		}
	}

	fmt.Printf("%d factors loaded, %d rows skipped, %d unresolved pairs\n",
		factors.Len(), report.Skipped, unresolved)
	if report.Skipped > 0 || unresolved > 0 {
		os.Exit(1)
	}
	return nil
}
