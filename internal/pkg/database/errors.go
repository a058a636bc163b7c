package database

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrConcurrentUpdateConflict is returned when another transaction holds the
// same key for longer than the lock timeout. Callers may retry.
var ErrConcurrentUpdateConflict = errors.New("concurrent update conflict")

const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
	codeUniqueViolation      = "23505"
	codeInvalidTextRepr      = "22P02"
)

// MapError translates lock contention errors into ErrConcurrentUpdateConflict.
// Other errors are returned unchanged.
func MapError(err error) error {
	if err == nil || errors.Is(err, ErrConcurrentUpdateConflict) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
			return fmt.Errorf("%w: %s", ErrConcurrentUpdateConflict, pgErr.Message)
		}
	}
	return err
}

// IsUniqueViolation reports whether err is a unique constraint violation on
// the named constraint. An empty name matches any constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != codeUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// IsInvalidInput reports whether err is a malformed literal, such as a
// non-uuid string compared against a uuid column.
func IsInvalidInput(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeInvalidTextRepr
}
