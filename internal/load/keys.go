package load

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/datacentral/retail-etl/internal/sqlerr"
)

// KeySet reads every value of a key column into a set.
//
// The orders stage uses it to drop fact rows whose dimension rows
// were cleaned away; without the filter a single missing key would
// violate a foreign key and roll back the whole copy. Values are
// cast to text so uuid and varchar keys compare the same way.
func KeySet(ctx context.Context, pool *pgxpool.Pool, table, column string) (map[string]struct{}, error) {
	query := fmt.Sprintf("SELECT %s::text FROM %s",
		pgx.Identifier{column}.Sanitize(), pgx.Identifier{table}.Sanitize())

	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, sqlerr.Classify(err, "", table)
	}

	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, sqlerr.Classify(err, "", table)
	}

	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set, nil
}
