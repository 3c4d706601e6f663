package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/fixhub-io/fixhub-ce/internal/models"
)

// SQLTimeSlotRepository handles database operations for time-slots.
type SQLTimeSlotRepository struct {
	ext sqlx.ExtContext
}

const slotColumns = `id, ticket_id, worker_id, start_time, end_time`

// Create inserts a new time-slot and assigns its ID.
func (r *SQLTimeSlotRepository) Create(ctx context.Context, ts *models.TimeSlot) error {
	ts.StartTime = ts.StartTime.UTC()
	ts.EndTime = ts.EndTime.UTC()
	id, err := insertReturningID(ctx, r.ext, `
		INSERT INTO time_slots (ticket_id, worker_id, start_time, end_time)
		VALUES (?, ?, ?, ?)`,
		ts.TicketID, ts.WorkerID, ts.StartTime, ts.EndTime)
	if err != nil {
		return err
	}
	ts.ID = id
	return nil
}

func (r *SQLTimeSlotRepository) GetByID(ctx context.Context, id int64) (*models.TimeSlot, error) {
	var ts models.TimeSlot
	err := sqlx.GetContext(ctx, r.ext, &ts,
		r.ext.Rebind(`SELECT `+slotColumns+` FROM time_slots WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

func (r *SQLTimeSlotRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.ext.ExecContext(ctx, r.ext.Rebind(`DELETE FROM time_slots WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *SQLTimeSlotRepository) ListByTicket(ctx context.Context, ticketID int64) ([]models.TimeSlot, error) {
	slots := []models.TimeSlot{}
	err := sqlx.SelectContext(ctx, r.ext, &slots,
		r.ext.Rebind(`SELECT `+slotColumns+` FROM time_slots WHERE ticket_id = ? ORDER BY start_time`), ticketID)
	return slots, err
}

// ListByWorker returns the worker's slots across all tickets, the input set
// for conflict checking.
func (r *SQLTimeSlotRepository) ListByWorker(ctx context.Context, workerID int64) ([]models.TimeSlot, error) {
	slots := []models.TimeSlot{}
	err := sqlx.SelectContext(ctx, r.ext, &slots,
		r.ext.Rebind(`SELECT `+slotColumns+` FROM time_slots WHERE worker_id = ? ORDER BY start_time`), workerID)
	return slots, err
}

func (r *SQLTimeSlotRepository) DeleteByTicket(ctx context.Context, ticketID int64) error {
	_, err := r.ext.ExecContext(ctx,
		r.ext.Rebind(`DELETE FROM time_slots WHERE ticket_id = ?`), ticketID)
	return err
}
