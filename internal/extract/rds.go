package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/datacentral/retail-etl/internal/database"
	"github.com/datacentral/retail-etl/internal/errs"
)

// Source table and column layout of the legacy database.
const (
	usersTable  = "legacy_users"
	ordersTable = "orders_table"
)

var (
	userColumns = []string{
		"first_name", "last_name", "date_of_birth", "company",
		"email_address", "address", "country", "country_code",
		"phone_number", "join_date", "user_uuid",
	}
	orderColumns = []string{
		"date_uuid", "user_uuid", "card_number", "store_code",
		"product_code", "product_quantity", "first_name", "last_name", "\"1\"",
	}
)

// SourceDB reads raw datasets out of the legacy source database.
type SourceDB struct {
	db  *database.Database
	log *zerolog.Logger
}

// NewSourceDB wraps an established source connection.
func NewSourceDB(db *database.Database, logger *zerolog.Logger) *SourceDB {
	return &SourceDB{db: db, log: logger}
}

// requireTable errors with the list of available tables when the
// requested one is absent, so a misconfigured source is diagnosable
// from the log alone.
func (s *SourceDB) requireTable(ctx context.Context, table string) error {
	tables, err := s.db.ListTables(ctx)
	if err != nil {
		return err
	}
	for _, t := range tables {
		if t == table {
			return nil
		}
	}
	return errs.NewExtractError("", "TABLE_NOT_FOUND",
		fmt.Sprintf("table %q not found in the source database (available: %s)",
			table, strings.Join(tables, ", ")), nil)
}

// readTable reads every row of a source table into raw records.
func readTable[T any](ctx context.Context, s *SourceDB, table string, columns []string) ([]T, error) {
	if err := s.requireTable(ctx, table); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(columns, ", "), table)
	rows, err := s.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", table, err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[T])
	if err != nil {
		return nil, fmt.Errorf("collecting rows from %s: %w", table, err)
	}

	s.log.Info().Str("table", table).Int("rows", len(records)).Msg("extracted source table")
	return records, nil
}

// ReadUsers extracts the legacy user table.
func (s *SourceDB) ReadUsers(ctx context.Context) ([]RawUser, error) {
	users, err := readTable[RawUser](ctx, s, usersTable, userColumns)
	if err != nil {
		return nil, errs.NewExtractError("users", "", "reading legacy user table", err)
	}
	return users, nil
}

// ReadOrders extracts the legacy orders table.
func (s *SourceDB) ReadOrders(ctx context.Context) ([]RawOrder, error) {
	orders, err := readTable[RawOrder](ctx, s, ordersTable, orderColumns)
	if err != nil {
		return nil, errs.NewExtractError("orders", "", "reading legacy orders table", err)
	}
	return orders, nil
}
