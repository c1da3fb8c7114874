// Package load writes cleaned records into the target star schema.
//
// Loading uses the Postgres COPY protocol (pgx CopyFrom) inside a
// transaction. Replace mode truncates first so a re-run converges
// to the source state; append mode just adds rows, matching the
// two upload behaviors of the legacy process.
package load

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/datacentral/retail-etl/internal/sqlerr"
)

// Mode selects what happens when the target table already has rows.
type Mode int

const (
	// Replace truncates the table before copying.
	Replace Mode = iota
	// Append copies on top of existing rows.
	Append
)

// TableSpec binds a cleaned record type to its target table: the
// table name, the ordered destination columns, and how one record
// becomes one row.
type TableSpec[T any] struct {
	Dataset string
	Table   string
	Columns []string
	Row     func(T) []any
}

// Run loads records into the spec's table and reports how many rows
// were written.
//
// The truncate and the copy share a transaction, so a failed load
// never leaves the table empty. Database errors come back classified
// by sqlerr so constraint violations are distinguishable.
func Run[T any](ctx context.Context, pool *pgxpool.Pool, spec TableSpec[T], records []T, mode Mode, logger *zerolog.Logger) (int64, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, sqlerr.Classify(err, spec.Dataset, spec.Table)
	}
	defer tx.Rollback(ctx)

	if mode == Replace {
		// CASCADE: replacing a dimension must also clear the facts
		// that reference it; the orders load comes last and refills.
		truncate := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", pgx.Identifier{spec.Table}.Sanitize())
		if _, err := tx.Exec(ctx, truncate); err != nil {
			return 0, sqlerr.Classify(err, spec.Dataset, spec.Table)
		}
	}

	copied, err := tx.CopyFrom(ctx,
		pgx.Identifier{spec.Table},
		spec.Columns,
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			return spec.Row(records[i]), nil
		}),
	)
	if err != nil {
		return 0, sqlerr.Classify(err, spec.Dataset, spec.Table)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, sqlerr.Classify(err, spec.Dataset, spec.Table)
	}

	logger.Info().
		Str("table", spec.Table).
		Int64("rows", copied).
		Msg("loaded records")

	return copied, nil
}
