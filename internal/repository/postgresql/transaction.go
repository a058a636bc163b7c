package postgresql

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// GetQuerier returns either transaction or pool
// Used in repositories to support both transactional and non-transactional operations
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := database.TxFromContext(ctx); ok {
		return tx
	}
	return db.Pool
}

// advisoryLock takes a transaction scoped advisory lock on key. Outside a
// transaction the lock is released as soon as the statement ends.
func advisoryLock(ctx context.Context, q database.Querier, key string) error {
	_, err := q.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", key)
	return err
}

// isNoRows treats a malformed id like a missing row.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || database.IsInvalidInput(err)
}

// canonicalIDs returns ids in canonical uuid form, in order. Ids that are
// not uuids cannot match a row and are dropped.
func canonicalIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		parsed, err := uuid.Parse(id)
		if err != nil {
			continue
		}
		out = append(out, parsed.String())
	}
	return out
}
