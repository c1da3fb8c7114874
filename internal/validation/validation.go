// Package validation contains the pre-load gate.
//
// It uses the validator library to enforce rules (required keys,
// known country codes, quantity ranges) defined in struct tags on
// the cleaned record types, and extracts violations into a format
// operators can act on. Cleaners should never emit records that
// fail the gate; a gate failure means a cleaning rule has a hole,
// so the load is aborted rather than poisoned.
package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/datacentral/retail-etl/internal/errs"
)

// maxReportedErrors bounds how many field errors one gate failure
// reports; past that the message is noise.
const maxReportedErrors = 10

// Gate validates cleaned records before they are loaded.
type Gate struct {
	validate *validator.Validate
}

// NewGate constructs the gate with a fresh validator instance.
func NewGate() *Gate {
	return &Gate{validate: validator.New()}
}

// Records runs every record through struct validation.
//
// On failure it returns a StageError carrying up to
// maxReportedErrors field-level entries, each naming the record
// index and field, e.g. "users[3].CountryCode".
func Records[T any](g *Gate, dataset string, records []T) error {
	var fieldErrors []errs.FieldError

	for i, record := range records {
		err := g.validate.Struct(record)
		if err == nil {
			continue
		}

		var violations validator.ValidationErrors
		if !errors.As(err, &violations) {
			// InvalidValidationError: the record type itself is not
			// validatable, which is a programming error.
			return errs.NewValidationError(dataset, err.Error(), nil)
		}

		for _, violation := range violations {
			if len(fieldErrors) >= maxReportedErrors {
				break
			}
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: fmt.Sprintf("%s[%d].%s", dataset, i, violation.Field()),
				Error: messageForTag(violation),
			})
		}
		if len(fieldErrors) >= maxReportedErrors {
			break
		}
	}

	if len(fieldErrors) > 0 {
		return errs.NewValidationError(dataset,
			fmt.Sprintf("%d cleaned records failed the load gate", len(fieldErrors)), fieldErrors)
	}
	return nil
}

// messageForTag converts a validator tag into a readable message.
func messageForTag(violation validator.FieldError) string {
	switch violation.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", violation.Param())
	case "numeric":
		return "must contain only digits"
	case "len":
		return fmt.Sprintf("must be exactly %s characters", violation.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", violation.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", violation.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", violation.Param())
	default:
		return fmt.Sprintf("failed %s validation", violation.Tag())
	}
}
