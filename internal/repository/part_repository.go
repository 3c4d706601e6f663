package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/fixhub-io/fixhub-ce/internal/models"
)

// SQLPartRepository handles database operations for parts.
type SQLPartRepository struct {
	ext sqlx.ExtContext
}

const partColumns = `id, ticket_id, name, price, quantity, total_price`

// Create inserts a new part and assigns its ID.
func (r *SQLPartRepository) Create(ctx context.Context, p *models.Part) error {
	id, err := insertReturningID(ctx, r.ext, `
		INSERT INTO parts (ticket_id, name, price, quantity, total_price)
		VALUES (?, ?, ?, ?, ?)`,
		p.TicketID, p.Name, p.Price, p.Quantity, p.TotalPrice)
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

func (r *SQLPartRepository) GetByID(ctx context.Context, id int64) (*models.Part, error) {
	var p models.Part
	err := sqlx.GetContext(ctx, r.ext, &p,
		r.ext.Rebind(`SELECT `+partColumns+` FROM parts WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Update fully replaces name, price and quantity; total_price is recomputed
// by the caller before the write.
func (r *SQLPartRepository) Update(ctx context.Context, p *models.Part) error {
	res, err := r.ext.ExecContext(ctx, r.ext.Rebind(`
		UPDATE parts SET name = ?, price = ?, quantity = ?, total_price = ? WHERE id = ?`),
		p.Name, p.Price, p.Quantity, p.TotalPrice, p.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *SQLPartRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.ext.ExecContext(ctx, r.ext.Rebind(`DELETE FROM parts WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *SQLPartRepository) ListByTicket(ctx context.Context, ticketID int64) ([]models.Part, error) {
	parts := []models.Part{}
	err := sqlx.SelectContext(ctx, r.ext, &parts,
		r.ext.Rebind(`SELECT `+partColumns+` FROM parts WHERE ticket_id = ? ORDER BY id`), ticketID)
	return parts, err
}

func (r *SQLPartRepository) DeleteByTicket(ctx context.Context, ticketID int64) error {
	_, err := r.ext.ExecContext(ctx,
		r.ext.Rebind(`DELETE FROM parts WHERE ticket_id = ?`), ticketID)
	return err
}
