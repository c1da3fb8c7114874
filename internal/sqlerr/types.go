package sqlerr

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Code is a friendly category for a Postgres SQLSTATE.
type Code int

const (
	Other Code = iota
	UniqueViolation
	ForeignKeyViolation
	NotNullViolation
	CheckViolation
	UndefinedTable
	UndefinedColumn
	InvalidTextRepresentation
	ConnectionFailure
	InsufficientPrivilege
)

// Severity mirrors the severity field reported by the server.
type Severity int

const (
	SeverityUnknown Severity = iota
	SeverityError
	SeverityFatal
	SeverityPanic
)

// Error is the normalized form of a pgconn.PgError.
//
// It keeps the original SQLSTATE and server metadata so load
// diagnostics can name the table/column/constraint involved.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string

	driverErr error
}

func (e *Error) Error() string {
	if e.TableName != "" {
		return fmt.Sprintf("database error [%s] on table %q: %s", e.DatabaseCode, e.TableName, e.Message)
	}
	return fmt.Sprintf("database error [%s]: %s", e.DatabaseCode, e.Message)
}

// Unwrap exposes the original driver error.
func (e *Error) Unwrap() error {
	return e.driverErr
}

// MapCode maps a SQLSTATE string to a Code category.
//
// SQLSTATE classes (first two characters) group related conditions;
// the "08" class covers all connection failures.
func MapCode(sqlstate string) Code {
	switch sqlstate {
	case "23505":
		return UniqueViolation
	case "23503":
		return ForeignKeyViolation
	case "23502":
		return NotNullViolation
	case "23514":
		return CheckViolation
	case "42P01":
		return UndefinedTable
	case "42703":
		return UndefinedColumn
	case "22P02":
		return InvalidTextRepresentation
	case "42501":
		return InsufficientPrivilege
	}
	if len(sqlstate) >= 2 && sqlstate[:2] == "08" {
		return ConnectionFailure
	}
	return Other
}

// MapSeverity maps the server-reported severity string to an enum.
func MapSeverity(severity string) Severity {
	switch severity {
	case "ERROR":
		return SeverityError
	case "FATAL":
		return SeverityFatal
	case "PANIC":
		return SeverityPanic
	}
	return SeverityUnknown
}

// ConvertPgError converts a pgconn.PgError (raw Postgres error) into
// our normalized Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}
