package api

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ghg-dashboard/internal/config"
	"ghg-dashboard/internal/dashboard"
)

func testServer(t *testing.T, files map[string]string) *Server {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	cfg, err := config.Load(filepath.Join(dir, "no-such-config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.DataDir = dir

	workspace := dashboard.New(cfg, nil)
	return NewServer(workspace, nil, nil)
}

func fullDataset() map[string]string {
	return map[string]string{
		"emission_factors.csv": "category,unit,kg_co2e_per_unit\n" +
			"heating_oil,gal,10.16\n" +
			"propane,gal,5.72\n" +
			"electricity,kwh,0.389\n" +
			"gasoline,gal,8.89\n",
		"municipal_energy.csv": "fiscal_year,account_fuel,quantity,unit\n" +
			"2022,heating_oil,1000,gal\n" +
			"2022,electricity,50000,kwh\n",
		"vehicle_census.csv": "quarter,type,count\n" +
			"2023-01-01,Passenger,500\n",
		"vehicle_factors.csv": "type,fuel,miles_per_year,mpg,miles_per_kwh\n" +
			"Passenger,gasoline,9000,22,\n",
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := testServer(t, nil)

	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "healthy" {
		t.Errorf("unexpected status %q", body["status"])
	}
}

func TestEnergyEndpoint(t *testing.T) {
	s := testServer(t, fullDataset())

	rec := httptest.NewRecorder()
	s.handleEnergy(rec, httptest.NewRequest(http.MethodGet, "/api/v1/energy", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}

	var view struct {
		Inventory struct {
			Results  []json.RawMessage `json:"results"`
			ByPeriod []struct {
				Period string `json:"period"`
				KgCO2e string `json:"kg_co2e"`
			} `json:"by_period"`
		} `json:"inventory"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatal(err)
	}
	if len(view.Inventory.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(view.Inventory.Results))
	}
	// 1000 x 10.16 + 50000 x 0.389
	if view.Inventory.ByPeriod[0].KgCO2e != "29610" {
		t.Errorf("expected 29610 for 2022, got %s", view.Inventory.ByPeriod[0].KgCO2e)
	}
}

func TestEnergyEndpointMissingFile(t *testing.T) {
	files := fullDataset()
	delete(files, "municipal_energy.csv")
	s := testServer(t, files)

	rec := httptest.NewRecorder()
	s.handleEnergy(rec, httptest.NewRequest(http.MethodGet, "/api/v1/energy", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["code"] != "MISSING_FILE" {
		t.Errorf("expected MISSING_FILE code, got %q", body["code"])
	}
}

func TestViewsDegradeIndependently(t *testing.T) {
	// The vehicle census is gone; the energy view must still serve.
	files := fullDataset()
	delete(files, "vehicle_census.csv")
	s := testServer(t, files)

	rec := httptest.NewRecorder()
	s.handleVehicles(rec, httptest.NewRequest(http.MethodGet, "/api/v1/vehicles", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("vehicles: expected 503, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	s.handleEnergy(rec, httptest.NewRequest(http.MethodGet, "/api/v1/energy", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("energy: expected 200, got %d", rec.Code)
	}
}

func TestExportCSV(t *testing.T) {
	s := testServer(t, fullDataset())

	rec := httptest.NewRecorder()
	s.handleExport(rec, httptest.NewRequest(http.MethodGet, "/api/v1/export", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("expected text/csv, got %q", ct)
	}

	rows, err := csv.NewReader(rec.Body).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	header := strings.Join(rows[0], ",")
	if header != "period,category,quantity,unit,emissions_kg_co2e" {
		t.Errorf("unexpected header %q", header)
	}
	// 2 energy rows + 1 fleet row.
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows with header, got %d", len(rows))
	}
	if rows[1][0] != "2022" || rows[1][1] != "electricity" {
		t.Errorf("unexpected first data row %v", rows[1])
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := testServer(t, fullDataset())

	rec := httptest.NewRecorder()
	s.handleExport(rec, httptest.NewRequest(http.MethodPost, "/api/v1/export", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestCORSMiddleware(t *testing.T) {
	s := testServer(t, nil)
	handler := s.corsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/energy", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Errorf("unexpected allow-origin %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestHomePageRendersChart(t *testing.T) {
	s := testServer(t, fullDataset())

	rec := httptest.NewRecorder()
	s.handleHomePage(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "echarts") {
		t.Error("expected rendered chart markup")
	}
}
