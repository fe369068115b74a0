package repository

import (
	"errors"
	"fmt"

	"lottoledger/domain/entities"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes the ledger reacts to
const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

// translateError maps driver errors onto ledger errors.
// onUnique replaces unique violations when non-nil.
func translateError(err error, onUnique error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
		return fmt.Errorf("%w: %s", entities.ErrStoreConflict, pgErr.Message)
	case pgUniqueViolation:
		if onUnique != nil {
			return onUnique
		}
	}
	return err
}
