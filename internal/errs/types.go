package errs

import "errors"

// NewExtractError creates a StageError for a source connector failure.
//
// Parameters:
//   - dataset: the dataset being extracted (e.g. "users")
//   - code: machine code, pass "" for the generic EXTRACT_FAILED
//   - message: text describing what went wrong
//   - cause: the wrapped underlying error, may be nil
func NewExtractError(dataset, code, message string, cause error) *StageError {
	if code == "" {
		code = "EXTRACT_FAILED"
	}
	return &StageError{
		Code:    code,
		Stage:   StageExtract,
		Dataset: dataset,
		Message: message,
		cause:   cause,
	}
}

// NewCleanError creates a StageError for a cleaning-rule failure.
func NewCleanError(dataset, message string, cause error) *StageError {
	return &StageError{
		Code:    "CLEAN_FAILED",
		Stage:   StageClean,
		Dataset: dataset,
		Message: message,
		cause:   cause,
	}
}

// NewValidationError creates a StageError carrying field-level detail
// for records that failed the pre-load gate.
func NewValidationError(dataset, message string, fieldErrors []FieldError) *StageError {
	return &StageError{
		Code:    "VALIDATION_FAILED",
		Stage:   StageValidate,
		Dataset: dataset,
		Message: message,
		Errors:  fieldErrors,
	}
}

// NewLoadError creates a StageError for a target-database failure.
//
// The code is usually produced by sqlerr classification so that
// operators can distinguish constraint violations from outages.
func NewLoadError(dataset, code, message string, cause error) *StageError {
	if code == "" {
		code = "LOAD_FAILED"
	}
	return &StageError{
		Code:    code,
		Stage:   StageLoad,
		Dataset: dataset,
		Message: message,
		cause:   cause,
	}
}

// NewReportError creates a StageError for an analytical query failure.
func NewReportError(name, message string, cause error) *StageError {
	return &StageError{
		Code:    "REPORT_FAILED",
		Stage:   StageReport,
		Dataset: name,
		Message: message,
		cause:   cause,
	}
}

// Code reports the machine code of err if it is (or wraps) a StageError,
// or "" otherwise.
func Code(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}
