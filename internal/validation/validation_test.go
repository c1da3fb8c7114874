package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datacentral/retail-etl/internal/clean"
	"github.com/datacentral/retail-etl/internal/errs"
)

func validOrder() clean.Order {
	return clean.Order{
		DateUUID:        uuid.MustParse("19c04c99-bb6b-4ac6-87f1-0c0eccfa6493"),
		UserUUID:        uuid.MustParse("93caf182-e4e9-4c58-a977-df722c9837ae"),
		CardNumber:      "4971858637664481",
		StoreCode:       "EA-71F8B83E",
		ProductCode:     "R7-3126933h",
		ProductQuantity: 3,
	}
}

func TestRecordsPassesCleanBatch(t *testing.T) {
	gate := NewGate()
	assert.NoError(t, Records(gate, "orders", []clean.Order{validOrder(), validOrder()}))
	assert.NoError(t, Records(gate, "orders", []clean.Order{}))
}

func TestRecordsReportsFieldViolations(t *testing.T) {
	gate := NewGate()

	bad := validOrder()
	bad.CardNumber = "not a number"
	bad.ProductQuantity = 0

	err := Records(gate, "orders", []clean.Order{validOrder(), bad})
	require.Error(t, err)

	var stageErr *errs.StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, errs.StageValidate, stageErr.Stage)
	assert.Equal(t, "orders", stageErr.Dataset)

	require.Len(t, stageErr.Errors, 2)
	assert.Equal(t, "orders[1].CardNumber", stageErr.Errors[0].Field)
	assert.Equal(t, "must contain only digits", stageErr.Errors[0].Error)
	assert.Equal(t, "orders[1].ProductQuantity", stageErr.Errors[1].Field)
}

func TestRecordsCapsReportedErrors(t *testing.T) {
	gate := NewGate()

	// Each zero-value card yields 4 violations, well past the cap.
	batch := make([]clean.Card, 5)

	err := Records(gate, "cards", batch)
	require.Error(t, err)

	var stageErr *errs.StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Len(t, stageErr.Errors, maxReportedErrors)
}

func TestRecordsHonorsCountryCodeAllowList(t *testing.T) {
	gate := NewGate()

	user := clean.User{
		UserUUID:     uuid.MustParse("93caf182-e4e9-4c58-a977-df722c9837ae"),
		FirstName:    "Ada",
		LastName:     "Lovelace",
		DateOfBirth:  time.Date(1990, time.March, 4, 0, 0, 0, 0, time.UTC),
		EmailAddress: "ada@example.com",
		CountryCode:  "FR",
		JoinDate:     time.Date(2019, time.July, 1, 0, 0, 0, 0, time.UTC),
	}

	err := Records(gate, "users", []clean.User{user})
	require.Error(t, err)

	var stageErr *errs.StageError
	require.True(t, errors.As(err, &stageErr))
	require.Len(t, stageErr.Errors, 1)
	assert.Equal(t, "users[0].CountryCode", stageErr.Errors[0].Field)
	assert.Equal(t, "must be one of: GB DE US", stageErr.Errors[0].Error)
}
