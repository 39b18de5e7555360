package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	dasherrors "ghg-dashboard/pkg/errors"
	"ghg-dashboard/pkg/units"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMunicipalEnergy(t *testing.T) {
	path := writeFile(t, t.TempDir(), "energy.csv",
		"fiscal_year,account_fuel,quantity,unit\n"+
			"2022,heating_oil,1000,gal\n"+
			"2022,electricity,50000,kwh\n")

	records, report, err := LoadMunicipalEnergy(path, 2009, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || report.Skipped != 0 {
		t.Fatalf("expected 2 records, got %d (%d skipped)", len(records), report.Skipped)
	}
	if records[0].Period != "2022" || records[0].Category != "heating_oil" {
		t.Errorf("unexpected first record: %+v", records[0])
	}
	if records[0].Unit != units.UnitGallon || records[1].Unit != units.UnitKWh {
		t.Errorf("units not normalized: %s, %s", records[0].Unit, records[1].Unit)
	}
}

func TestLoadMunicipalEnergySkipsAndReportsBadRows(t *testing.T) {
	path := writeFile(t, t.TempDir(), "energy.csv",
		"fiscal_year,account_fuel,quantity,unit\n"+
			"2022,heating_oil,1000,gal\n"+
			"2022,heating_oil,not-a-number,gal\n"+
			"n/a,heating_oil,50,gal\n"+
			"2022,heating_oil,-5,gal\n")

	records, report, err := LoadMunicipalEnergy(path, 2009, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if report.Skipped != 3 {
		t.Errorf("expected 3 skipped, got %d", report.Skipped)
	}
	if len(report.Problems) != 3 {
		t.Fatalf("expected 3 problems, got %d", len(report.Problems))
	}
	for _, p := range report.Problems {
		if p.Code != dasherrors.ErrCodeMalformedRow {
			t.Errorf("expected malformed-row code, got %s", p.Code)
		}
		if p.Line < 2 {
			t.Errorf("problem should carry its line number, got %d", p.Line)
		}
	}
}

func TestLoadMunicipalEnergyYearBounds(t *testing.T) {
	path := writeFile(t, t.TempDir(), "energy.csv",
		"fiscal_year,account_fuel,quantity,unit\n"+
			"2005,heating_oil,100,gal\n"+ // before the floor
			"2022,heating_oil,100,gal\n"+
			"2026,heating_oil,100,gal\n") // at the cap, incomplete

	records, _, err := LoadMunicipalEnergy(path, 2009, 2026)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Period != "2022" {
		t.Fatalf("expected only 2022, got %+v", records)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := LoadMunicipalEnergy(filepath.Join(t.TempDir(), "absent.csv"), 2009, 0)
	var de *dasherrors.DashError
	if !errors.As(err, &de) || de.Code != dasherrors.ErrCodeMissingFile {
		t.Fatalf("expected missing-file error, got %v", err)
	}
	if !de.Recoverable {
		t.Error("missing file should be recoverable: other views still compute")
	}
}

func TestLoadMissingHeaderIsFatal(t *testing.T) {
	path := writeFile(t, t.TempDir(), "energy.csv",
		"year,fuel,amount\n2022,oil,100\n")

	_, _, err := LoadMunicipalEnergy(path, 2009, 0)
	var de *dasherrors.DashError
	if !errors.As(err, &de) || de.Code != dasherrors.ErrCodeMissingHeader {
		t.Fatalf("expected missing-header error, got %v", err)
	}
}

func TestLoadEmissionFactorsRejectsDuplicate(t *testing.T) {
	path := writeFile(t, t.TempDir(), "factors.csv",
		"category,unit,kg_co2e_per_unit\n"+
			"heating_oil,gal,10.16\n"+
			"heating_oil,gallon,10.21\n") // same pair after normalization

	_, _, err := LoadEmissionFactors(path)
	var de *dasherrors.DashError
	if !errors.As(err, &de) || de.Code != dasherrors.ErrCodeDuplicateFactor {
		t.Fatalf("expected duplicate-factor error, got %v", err)
	}
}

func TestLoadEmissionFactors(t *testing.T) {
	path := writeFile(t, t.TempDir(), "factors.csv",
		"category,unit,kg_co2e_per_unit\n"+
			"heating_oil,gal,10.16\n"+
			"electricity,kwh,0.389\n")

	factors, report, err := LoadEmissionFactors(path)
	if err != nil {
		t.Fatal(err)
	}
	if factors.Len() != 2 || report.Skipped != 0 {
		t.Fatalf("expected 2 factors, got %d", factors.Len())
	}
	if _, ok := factors.Resolve("heating_oil", units.UnitGallon); !ok {
		t.Error("heating_oil/gallon should resolve")
	}
}

func TestParseQuarterFormats(t *testing.T) {
	cases := map[string]string{
		"2023-01-01": "2023-01-01",
		"2023-01":    "2023-01-01",
		"1/1/2023":   "2023-01-01",
	}
	for input, want := range cases {
		got, err := parseQuarter(input)
		if err != nil {
			t.Errorf("%q: %v", input, err)
			continue
		}
		if string(got) != want {
			t.Errorf("%q: expected %s, got %s", input, want, got)
		}
	}
	if _, err := parseQuarter("Q1 2023"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestLoadVehicleFactors(t *testing.T) {
	path := writeFile(t, t.TempDir(), "vehicle_factors.csv",
		"type,fuel,miles_per_year,mpg,miles_per_kwh\n"+
			"Passenger,gasoline,9000,22,\n"+
			"BEV,electric,9000,,3\n"+
			"Cart,steam,1000,,\n") // unknown variant, skipped

	specs, report, err := LoadVehicleFactors(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 2 || report.Skipped != 1 {
		t.Fatalf("expected 2 specs and 1 skipped, got %d/%d", len(specs), report.Skipped)
	}
	if specs["Passenger"].MPG.String() != "22" {
		t.Errorf("unexpected mpg: %s", specs["Passenger"].MPG)
	}
}

func TestLoadHeatPumpsDerivesCumulative(t *testing.T) {
	path := writeFile(t, t.TempDir(), "heat_pumps.csv",
		"year,installations\n"+
			"2022,5\n"+
			"2021,10\n")

	records, _, err := LoadHeatPumps(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	// Sorted by year, running sum derived.
	if records[0].Year != 2021 || records[0].CumulativeInstallations != 10 {
		t.Errorf("unexpected first record: %+v", records[0])
	}
	if records[1].CumulativeInstallations != 15 {
		t.Errorf("expected cumulative 15, got %d", records[1].CumulativeInstallations)
	}
}

func TestLoadSolarSortsByYear(t *testing.T) {
	path := writeFile(t, t.TempDir(), "solar.csv",
		"year,capacity_kw,capacity_kw_cumulative\n"+
			"2023,200,1500\n"+
			"2019,0,1000\n")

	records, _, err := LoadSolar(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[0].Year != 2019 {
		t.Fatalf("expected sorted records, got %+v", records)
	}
}

func TestLoadParticipationSorted(t *testing.T) {
	path := writeFile(t, t.TempDir(), "participation.csv",
		"year,active_locations,participation_rate_pct\n"+
			"2023,3200,64.0\n"+
			"2021,3000,60.0\n")

	records, _, err := LoadParticipation(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[0].Year != 2021 {
		t.Fatalf("expected sorted records, got %+v", records)
	}
}
