// SPDX-License-Identifier: AGPL-3.0-only
package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrUnitOfWorkLost means the surrounding transaction can no longer be used:
// a savepoint could not be set or restored, the connection dropped, or the
// commit failed. Nothing written in that unit of work survives.
var ErrUnitOfWorkLost = errors.New("unit of work lost")

// TxQuerier is the query surface available inside a unit of work.
type TxQuerier interface {
	Querier
	// Try runs fn inside a savepoint. If fn fails, only its writes are undone
	// and the transaction stays usable.
	Try(ctx context.Context, fn func(q Querier) error) error
}

// Store is the persistence boundary used by the synchronizer, the worker and
// the reporting layer.
type Store interface {
	Querier
	ExecTx(ctx context.Context, fn func(tx TxQuerier) error) error
}

type SQLStore struct {
	*Queries
	db *sql.DB
}

func NewStore(db *sql.DB) *SQLStore {
	return &SQLStore{
		Queries: New(db),
		db:      db,
	}
}

func (s *SQLStore) ExecTx(ctx context.Context, fn func(tx TxQuerier) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrUnitOfWorkLost, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&sqlTx{Queries: s.WithTx(tx), tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrUnitOfWorkLost, err)
	}

	return nil
}

type sqlTx struct {
	*Queries
	tx *sql.Tx
}

const rowSavepoint = "row_write"

func (t *sqlTx) Try(ctx context.Context, fn func(q Querier) error) error {
	if _, err := t.tx.ExecContext(ctx, "SAVEPOINT "+rowSavepoint); err != nil {
		return fmt.Errorf("%w: savepoint: %w", ErrUnitOfWorkLost, err)
	}

	if err := fn(t.Queries); err != nil {
		if IsConnectionError(err) {
			return fmt.Errorf("%w: %w", ErrUnitOfWorkLost, err)
		}
		if _, rbErr := t.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+rowSavepoint); rbErr != nil {
			return fmt.Errorf("%w: rollback to savepoint: %w", ErrUnitOfWorkLost, rbErr)
		}
		return err
	}

	if _, err := t.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+rowSavepoint); err != nil {
		return fmt.Errorf("%w: release savepoint: %w", ErrUnitOfWorkLost, err)
	}

	return nil
}

// IsConnectionError reports whether err means the session itself is gone,
// as opposed to a single statement being rejected.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.Is(err, sql.ErrTxDone) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "08", "57":
			// connection_exception, operator_intervention
			return true
		}
	}

	return false
}
