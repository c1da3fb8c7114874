package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/datacentral/retail-etl/internal/errs"
)

// ErrCode reports the mapped sqlerr.Code for a given error.
//
// If err can be unwrapped into *sqlerr.Error, its Code is returned;
// otherwise Other.
func ErrCode(err error) Code {
	var pgerr *Error
	if errors.As(err, &pgerr) {
		return pgerr.Code
	}
	return Other
}

// generateErrorCode creates consistent application error codes from DB errors.
//
// Output format: <DOMAIN>_<ACTION>, e.g. dim_users + UniqueViolation
// => DIM_USER_ALREADY_EXISTS. DOMAIN comes from the table name,
// crudely singularized by stripping a trailing S.
func generateErrorCode(tableName string, errType Code) string {
	if tableName == "" {
		tableName = "RECORD"
	}

	domain := strings.ToUpper(tableName)
	if strings.HasSuffix(domain, "S") && len(domain) > 1 {
		domain = domain[:len(domain)-1]
	}

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation:
		action = "INVALID"
	case UndefinedTable:
		action = "MISSING"
	case InvalidTextRepresentation:
		action = "MALFORMED"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

// describeError produces an operator-facing message for a load failure.
//
// It uses table/column/constraint metadata to phrase messages so the
// failing rows can be located without reading raw SQLSTATEs.
func describeError(sqlErr *Error) string {
	switch sqlErr.Code {
	case ForeignKeyViolation:
		if sqlErr.ConstraintName != "" {
			return fmt.Sprintf("a row references a key missing from the parent table (constraint %s)", sqlErr.ConstraintName)
		}
		return "a row references a key missing from the parent table"

	case UniqueViolation:
		if sqlErr.ConstraintName != "" {
			return fmt.Sprintf("duplicate key in batch (constraint %s)", sqlErr.ConstraintName)
		}
		return "duplicate key in batch"

	case NotNullViolation:
		if sqlErr.ColumnName != "" {
			return fmt.Sprintf("column %s received a null value", sqlErr.ColumnName)
		}
		return "a required column received a null value"

	case CheckViolation:
		if sqlErr.ConstraintName != "" {
			return fmt.Sprintf("a value failed check constraint %s", sqlErr.ConstraintName)
		}
		return "a value failed a check constraint"

	case UndefinedTable:
		return "target table does not exist; run migrations first"

	case InvalidTextRepresentation:
		return "a value could not be cast to the column type"

	case ConnectionFailure:
		return "connection to the database was lost"

	default:
		return sqlErr.Message
	}
}

// Classify converts a low-level database error into a load StageError.
//
// Behavior:
//   - If err is already a *errs.StageError, it is returned unchanged.
//   - If err wraps pgconn.PgError, it is mapped into a categorized
//     StageError whose code names the table and violation type.
//   - If err is ErrNoRows (pgx or database/sql), a NOT_FOUND error
//     is returned.
//   - Anything else becomes a generic load error.
//
// dataset tags the resulting StageError; table is a fallback used when
// the server did not report which table was involved.
func Classify(err error, dataset, table string) error {
	var stageErr *errs.StageError
	if errors.As(err, &stageErr) {
		return err
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		sqlErr := ConvertPgError(pgerr)
		if sqlErr.TableName == "" {
			sqlErr.TableName = table
		}
		code := generateErrorCode(sqlErr.TableName, sqlErr.Code)
		return errs.NewLoadError(dataset, code, describeError(sqlErr), sqlErr)
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return errs.NewLoadError(dataset, "RECORD_NOT_FOUND", "no rows matched", err)
	}

	return errs.NewLoadError(dataset, "", "database operation failed", err)
}
