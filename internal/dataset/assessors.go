package dataset

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"ghg-dashboard/internal/inventory"
	dasherrors "ghg-dashboard/pkg/errors"
)

// LoadAssessors reads the property-assessment spreadsheet extract. The first
// sheet is used; the first row is the header. Column matching is
// case-insensitive on property_type, hvac, fuel, and net_sf.
func LoadAssessors(path string) ([]inventory.PropertyRecord, *Report, error) {
	report := newReport("assessors")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, report, dasherrors.NewMissingFileError(report.Dataset, path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, report, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, report, fmt.Errorf("no sheets in %s", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, report, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, report, nil
	}

	header := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		header[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range []string{"property_type", "net_sf"} {
		if _, ok := header[col]; !ok {
			return nil, report, &dasherrors.DashError{
				Code:     dasherrors.ErrCodeMissingHeader,
				Message:  fmt.Sprintf("Missing required column %q in %s", col, path),
				Severity: dasherrors.SeverityFatal,
				Dataset:  report.Dataset,
			}
		}
	}

	get := func(row []string, col string) string {
		if idx, ok := header[col]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	var records []inventory.PropertyRecord
	for i, row := range rows[1:] {
		report.Rows++
		line := i + 2

		rec := inventory.PropertyRecord{
			PropertyType: get(row, "property_type"),
			HVAC:         get(row, "hvac"),
			Fuel:         get(row, "fuel"),
		}

		if raw := get(row, "net_sf"); raw != "" {
			sf, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
			if err != nil {
				report.skip(line, fmt.Sprintf("non-numeric net_sf %q", raw))
				continue
			}
			rec.NetSF = sf
		}

		records = append(records, rec)
	}

	return records, report, nil
}
