package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLStore is the database-backed Store implementation.
type SQLStore struct {
	db *sqlx.DB
	// ext is the active execution context: the pooled connection normally,
	// a transaction inside WithinTx.
	ext sqlx.ExtContext

	tickets   *SQLTicketRepository
	parts     *SQLPartRepository
	timeSlots *SQLTimeSlotRepository
	workers   *SQLWorkerRepository
}

// NewStore creates a Store over the given database handle.
func NewStore(db *sqlx.DB) *SQLStore {
	return newSQLStore(db, db)
}

func newSQLStore(db *sqlx.DB, ext sqlx.ExtContext) *SQLStore {
	return &SQLStore{
		db:        db,
		ext:       ext,
		tickets:   &SQLTicketRepository{ext: ext},
		parts:     &SQLPartRepository{ext: ext},
		timeSlots: &SQLTimeSlotRepository{ext: ext},
		workers:   &SQLWorkerRepository{ext: ext},
	}
}

func (s *SQLStore) Tickets() TicketRepository     { return s.tickets }
func (s *SQLStore) Parts() PartRepository         { return s.parts }
func (s *SQLStore) TimeSlots() TimeSlotRepository { return s.timeSlots }
func (s *SQLStore) Workers() WorkerRepository     { return s.workers }

// WithinTx executes fn inside a transaction. Nested calls reuse the
// enclosing transaction.
func (s *SQLStore) WithinTx(ctx context.Context, fn func(Store) error) error {
	if _, inTx := s.ext.(*sqlx.Tx); inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txStore := newSQLStore(s.db, tx)
	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

// insertReturningID runs an INSERT and reports the new row id, papering over
// the postgres RETURNING vs LastInsertId split.
func insertReturningID(ctx context.Context, ext sqlx.ExtContext, query string, args ...interface{}) (int64, error) {
	if ext.DriverName() == "postgres" {
		var id int64
		row := ext.QueryRowxContext(ctx, ext.Rebind(query+" RETURNING id"), args...)
		if err := row.Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}
	res, err := ext.ExecContext(ctx, ext.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
