// Package errs defines custom error types and utilities.
//
// Its purpose is to create specific error structures
// (e.g. FieldErrors for record validation or StageError for
// pipeline failures) so that operators get meaningful,
// actionable, and consistent error output.
package errs

import "strings"

// Stage identifies the pipeline stage an error originated from.
type Stage string

const (
	StageExtract  Stage = "extract"
	StageClean    Stage = "clean"
	StageValidate Stage = "validate"
	StageLoad     Stage = "load"
	StageReport   Stage = "report"
)

// FieldError represents a field-level validation error on a record.
type FieldError struct {
	// Field is the field name/key the error relates to (e.g. "country_code").
	Field string `json:"field"`

	// Error is the human-readable error message.
	Error string `json:"error"`
}

// StageError is the main custom error type for pipeline failures.
//
// It implements the error interface via Error() and supports
// errors.Is/errors.As through Unwrap().
//
// Fields:
//   - Code: machine-friendly error code (e.g. "TABLE_NOT_FOUND").
//   - Stage: which pipeline stage failed.
//   - Dataset: which dataset was being processed (empty for cross-dataset failures).
//   - Message: human-friendly message.
//   - Errors: optional field-level detail for validation failures.
type StageError struct {
	Code    string       `json:"code"`
	Stage   Stage        `json:"stage"`
	Dataset string       `json:"dataset,omitempty"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`

	cause error
}

func (e *StageError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Stage))
	if e.Dataset != "" {
		b.WriteString("(" + e.Dataset + ")")
	}
	b.WriteString(": " + e.Message)
	if e.cause != nil {
		b.WriteString(": " + e.cause.Error())
	}
	return b.String()
}

// Unwrap exposes the underlying cause so callers can use errors.Is/As.
func (e *StageError) Unwrap() error {
	return e.cause
}

// MakeUpperCaseWithUnderscores converts a phrase into a machine code,
// e.g. "table not found" -> "TABLE_NOT_FOUND".
func MakeUpperCaseWithUnderscores(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", "_"))
}
