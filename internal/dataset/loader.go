// Package dataset reads the dashboard's CSV and spreadsheet inputs. Every
// loader reads its file wholesale on each call; nothing is cached or written
// back. Rows that fail type parsing are excluded and reported, a missing
// file degrades only the views built on it.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	dasherrors "ghg-dashboard/pkg/errors"
)

// Report describes one load: how many rows were read and which were skipped.
type Report struct {
	Dataset  string                  `json:"dataset"`
	LoadID   uuid.UUID               `json:"load_id"`
	Rows     int                     `json:"rows"`
	Skipped  int                     `json:"skipped"`
	Problems []*dasherrors.DashError `json:"problems,omitempty"`
}

func newReport(dataset string) *Report {
	return &Report{Dataset: dataset, LoadID: uuid.New()}
}

func (r *Report) skip(line int, detail string) {
	r.Skipped++
	r.Problems = append(r.Problems, dasherrors.NewMalformedRowError(r.Dataset, line, detail))
}

// table is a parsed CSV file with header-indexed column access.
type table struct {
	header map[string]int
	rows   [][]string
	lines  []int // original file line numbers, header is line 1
}

// readTable opens and fully reads a CSV file. A missing file returns a
// MissingFile error; a missing required header is fatal for the dataset.
func readTable(path, dataset string, required []string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, dasherrors.NewMissingFileError(dataset, path)
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	// Allow short rows so optional trailing columns don't fail the file.
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return &table{header: map[string]int{}}, nil
		}
		return nil, fmt.Errorf("reading %s header: %w", path, err)
	}

	t := &table{header: make(map[string]int, len(headers))}
	for i, h := range headers {
		t.header[strings.ToLower(strings.TrimSpace(h))] = i
	}

	for _, col := range required {
		if _, ok := t.header[col]; !ok {
			return nil, &dasherrors.DashError{
				Code:     dasherrors.ErrCodeMissingHeader,
				Message:  fmt.Sprintf("Missing required column %q in %s", col, path),
				Severity: dasherrors.SeverityFatal,
				Dataset:  dataset,
			}
		}
	}

	line := 1
	for {
		record, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			// A structurally broken row; record a placeholder so the caller
			// can report it with its line number.
			t.rows = append(t.rows, nil)
			t.lines = append(t.lines, line)
			continue
		}
		t.rows = append(t.rows, record)
		t.lines = append(t.lines, line)
	}

	return t, nil
}

// get returns the named column of a row, empty when absent.
func (t *table) get(row []string, col string) string {
	if idx, ok := t.header[col]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}
