// Package errors provides severity-aware error types.
package errors

import "fmt"

// Severity indicates error impact level.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// DashError is a structured error with context.
type DashError struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Severity    Severity `json:"severity"`
	Dataset     string   `json:"dataset,omitempty"`
	Line        int      `json:"line,omitempty"`
	Recoverable bool     `json:"recoverable"`
}

func (e *DashError) Error() string {
	if e.Dataset != "" {
		return fmt.Sprintf("[%s] %s: %s (dataset: %s)", e.Severity, e.Code, e.Message, e.Dataset)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Code, e.Message)
}

// Error codes
const (
	ErrCodeMissingFile      = "MISSING_FILE"
	ErrCodeMalformedRow     = "MALFORMED_ROW"
	ErrCodeUnresolvedFactor = "UNRESOLVED_FACTOR"
	ErrCodeDuplicateFactor  = "DUPLICATE_FACTOR"
	ErrCodeBadPeriod        = "BAD_PERIOD"
	ErrCodeMissingHeader    = "MISSING_HEADER"
)

// NewMissingFileError reports an absent dataset file. The affected view is
// skipped; other views still compute.
func NewMissingFileError(dataset, path string) *DashError {
	return &DashError{
		Code:        ErrCodeMissingFile,
		Message:     fmt.Sprintf("Required data file not found: %s", path),
		Severity:    SeverityError,
		Dataset:     dataset,
		Recoverable: true,
	}
}

// NewMalformedRowError reports a row that failed type parsing. The row is
// excluded from aggregation.
func NewMalformedRowError(dataset string, line int, detail string) *DashError {
	return &DashError{
		Code:        ErrCodeMalformedRow,
		Message:     fmt.Sprintf("Row %d could not be parsed: %s", line, detail),
		Severity:    SeverityWarning,
		Dataset:     dataset,
		Line:        line,
		Recoverable: true,
	}
}

// NewUnresolvedFactorError reports a usage category with no matching emission
// factor. The record is excluded totally, never zero-filled.
func NewUnresolvedFactorError(category, unit string) *DashError {
	return &DashError{
		Code:        ErrCodeUnresolvedFactor,
		Message:     fmt.Sprintf("No emission factor for category %q with unit %q", category, unit),
		Severity:    SeverityError,
		Recoverable: true,
	}
}

// NewDuplicateFactorError reports a factor table that violates the
// exactly-one-factor-per-pair invariant.
func NewDuplicateFactorError(category, unit string) *DashError {
	return &DashError{
		Code:        ErrCodeDuplicateFactor,
		Message:     fmt.Sprintf("Duplicate emission factor for category %q with unit %q", category, unit),
		Severity:    SeverityFatal,
		Recoverable: false,
	}
}
