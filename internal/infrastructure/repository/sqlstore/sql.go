package sqlstore

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	qb "github.com/riskibarqy/commander-stats/internal/platform/querybuilder"
)

// Postgres caps a statement at 65535 bind parameters; the widest table has ten columns.
const (
	insertChunkSize = 500
	selectChunkSize = 1000
)

// insertIgnoringConflicts writes models in chunks and returns how many rows were new.
func insertIgnoringConflicts[T any](ctx context.Context, exec sqlx.ExecerContext, table string, models []T) (int, error) {
	inserted := 0
	for start := 0; start < len(models); start += insertChunkSize {
		end := min(start+insertChunkSize, len(models))

		builder, err := qb.InsertModels(table, models[start:end])
		if err != nil {
			return inserted, errors.Wrapf(err, "build insert %s", table)
		}
		query, args, err := builder.OnConflictDoNothing().ToSQL()
		if err != nil {
			return inserted, errors.Wrapf(err, "build insert %s query", table)
		}

		result, err := exec.ExecContext(ctx, query, args...)
		if err != nil {
			return inserted, errors.Wrapf(err, "insert %s", table)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return inserted, errors.Wrapf(err, "rows affected insert %s", table)
		}
		inserted += int(affected)
	}

	return inserted, nil
}
