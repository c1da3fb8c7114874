package sqlerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datacentral/retail-etl/internal/errs"
)

func TestMapCode(t *testing.T) {
	cases := map[string]Code{
		"23505": UniqueViolation,
		"23503": ForeignKeyViolation,
		"23502": NotNullViolation,
		"23514": CheckViolation,
		"42P01": UndefinedTable,
		"42703": UndefinedColumn,
		"22P02": InvalidTextRepresentation,
		"42501": InsufficientPrivilege,
		"08006": ConnectionFailure,
		"08000": ConnectionFailure,
		"57014": Other,
		"":      Other,
	}

	for sqlstate, want := range cases {
		assert.Equal(t, want, MapCode(sqlstate), "sqlstate %q", sqlstate)
	}
}

func TestGenerateErrorCode(t *testing.T) {
	assert.Equal(t, "DIM_USER_ALREADY_EXISTS", generateErrorCode("dim_users", UniqueViolation))
	assert.Equal(t, "ORDERS_TABLE_NOT_FOUND", generateErrorCode("orders_table", ForeignKeyViolation))
	assert.Equal(t, "DIM_PRODUCT_REQUIRED", generateErrorCode("dim_products", NotNullViolation))
	assert.Equal(t, "RECORD_ERROR", generateErrorCode("", Other))
}

func TestClassifyPgError(t *testing.T) {
	pgerr := &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23503",
		Message:        `insert or update on table "orders_table" violates foreign key constraint`,
		TableName:      "orders_table",
		ConstraintName: "orders_table_card_number_fkey",
	}

	err := Classify(fmt.Errorf("copying rows: %w", pgerr), "orders", "orders_table")

	var stageErr *errs.StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, errs.StageLoad, stageErr.Stage)
	assert.Equal(t, "orders", stageErr.Dataset)
	assert.Equal(t, "ORDERS_TABLE_NOT_FOUND", stageErr.Code)
	assert.Contains(t, stageErr.Message, "orders_table_card_number_fkey")

	assert.Equal(t, ForeignKeyViolation, ErrCode(err))
}

func TestClassifyFallsBackToCallerTable(t *testing.T) {
	pgerr := &pgconn.PgError{Severity: "ERROR", Code: "23505", Message: "duplicate key"}

	err := Classify(pgerr, "users", "dim_users")

	var stageErr *errs.StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, "DIM_USER_ALREADY_EXISTS", stageErr.Code)
}

func TestClassifyPassesThroughStageErrors(t *testing.T) {
	original := errs.NewLoadError("users", "DIM_USER_ALREADY_EXISTS", "duplicate key in batch", nil)
	assert.Same(t, original, Classify(original, "users", "dim_users"))
}

func TestClassifyNoRows(t *testing.T) {
	err := Classify(pgx.ErrNoRows, "users", "dim_users")

	var stageErr *errs.StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, "RECORD_NOT_FOUND", stageErr.Code)
	assert.True(t, errors.Is(err, pgx.ErrNoRows))
}

func TestClassifyGenericError(t *testing.T) {
	cause := errors.New("write: broken pipe")
	err := Classify(cause, "products", "dim_products")

	var stageErr *errs.StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, "LOAD_FAILED", stageErr.Code)
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, Other, ErrCode(err))
}
