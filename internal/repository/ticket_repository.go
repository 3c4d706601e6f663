package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fixhub-io/fixhub-ce/internal/models"
)

// SQLTicketRepository handles database operations for tickets.
type SQLTicketRepository struct {
	ext sqlx.ExtContext
}

const ticketColumns = `id, brand, model, registration_id, description, status, total_price, create_time, change_time`

// Create inserts a new ticket and assigns its ID.
func (r *SQLTicketRepository) Create(ctx context.Context, t *models.Ticket) error {
	now := time.Now().UTC()
	t.CreateTime = now
	t.ChangeTime = now
	if t.Status == "" {
		t.Status = models.StatusCreated
	}

	id, err := insertReturningID(ctx, r.ext, `
		INSERT INTO tickets (brand, model, registration_id, description, status, total_price, create_time, change_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Brand, t.Model, t.RegistrationID, t.Description, t.Status, t.TotalPrice, t.CreateTime, t.ChangeTime)
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

// GetByID returns a ticket row, without joined collections.
func (r *SQLTicketRepository) GetByID(ctx context.Context, id int64) (*models.Ticket, error) {
	var t models.Ticket
	err := sqlx.GetContext(ctx, r.ext, &t,
		r.ext.Rebind(`SELECT `+ticketColumns+` FROM tickets WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Update rewrites the ticket's descriptive fields and status.
func (r *SQLTicketRepository) Update(ctx context.Context, t *models.Ticket) error {
	t.ChangeTime = time.Now().UTC()
	res, err := r.ext.ExecContext(ctx, r.ext.Rebind(`
		UPDATE tickets SET brand = ?, model = ?, registration_id = ?, description = ?, status = ?, change_time = ?
		WHERE id = ?`),
		t.Brand, t.Model, t.RegistrationID, t.Description, t.Status, t.ChangeTime, t.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateTotalPrice persists a freshly derived total.
func (r *SQLTicketRepository) UpdateTotalPrice(ctx context.Context, id int64, total float64) error {
	res, err := r.ext.ExecContext(ctx, r.ext.Rebind(`
		UPDATE tickets SET total_price = ?, change_time = ? WHERE id = ?`),
		total, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Delete removes a ticket row. Owned parts, time-slots and memberships are
// removed by the coordinator inside the same transaction.
func (r *SQLTicketRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.ext.ExecContext(ctx, r.ext.Rebind(`DELETE FROM tickets WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// List returns all tickets, newest first.
func (r *SQLTicketRepository) List(ctx context.Context) ([]models.Ticket, error) {
	tickets := []models.Ticket{}
	err := sqlx.SelectContext(ctx, r.ext, &tickets,
		`SELECT `+ticketColumns+` FROM tickets ORDER BY id DESC`)
	return tickets, err
}

// ListByWorker returns tickets the worker is a member of.
func (r *SQLTicketRepository) ListByWorker(ctx context.Context, workerID int64) ([]models.Ticket, error) {
	tickets := []models.Ticket{}
	err := sqlx.SelectContext(ctx, r.ext, &tickets, r.ext.Rebind(`
		SELECT t.id, t.brand, t.model, t.registration_id, t.description, t.status, t.total_price, t.create_time, t.change_time
		FROM tickets t
		JOIN ticket_workers tw ON tw.ticket_id = t.id
		WHERE tw.worker_id = ?
		ORDER BY t.id DESC`), workerID)
	return tickets, err
}

// ListIDs returns every ticket id. Used by the price audit sweep.
func (r *SQLTicketRepository) ListIDs(ctx context.Context) ([]int64, error) {
	ids := []int64{}
	err := sqlx.SelectContext(ctx, r.ext, &ids, `SELECT id FROM tickets ORDER BY id`)
	return ids, err
}

// SetWorkers replaces the ticket's worker membership with the given set.
func (r *SQLTicketRepository) SetWorkers(ctx context.Context, ticketID int64, workerIDs []int64) error {
	if _, err := r.ext.ExecContext(ctx,
		r.ext.Rebind(`DELETE FROM ticket_workers WHERE ticket_id = ?`), ticketID); err != nil {
		return err
	}
	for _, wid := range workerIDs {
		if _, err := r.ext.ExecContext(ctx,
			r.ext.Rebind(`INSERT INTO ticket_workers (ticket_id, worker_id) VALUES (?, ?)`),
			ticketID, wid); err != nil {
			return err
		}
	}
	return nil
}

// Workers returns the ticket's current worker membership.
func (r *SQLTicketRepository) Workers(ctx context.Context, ticketID int64) ([]models.Worker, error) {
	workers := []models.Worker{}
	err := sqlx.SelectContext(ctx, r.ext, &workers, r.ext.Rebind(`
		SELECT w.id, w.login, w.name, w.password_hash, w.role, w.hourly_rate, w.refresh_token, w.refresh_token_expiry, w.create_time
		FROM workers w
		JOIN ticket_workers tw ON tw.worker_id = w.id
		WHERE tw.ticket_id = ?
		ORDER BY w.id`), ticketID)
	return workers, err
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
