package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fixhub-io/fixhub-ce/internal/models"
)

// SQLWorkerRepository handles database operations for worker accounts.
type SQLWorkerRepository struct {
	ext sqlx.ExtContext
}

const workerColumns = `id, login, name, password_hash, role, hourly_rate, refresh_token, refresh_token_expiry, create_time`

// Create inserts a new worker and assigns its ID.
func (r *SQLWorkerRepository) Create(ctx context.Context, w *models.Worker) error {
	w.CreateTime = time.Now().UTC()
	if w.Role == "" {
		w.Role = models.RoleWorker
	}
	id, err := insertReturningID(ctx, r.ext, `
		INSERT INTO workers (login, name, password_hash, role, hourly_rate, refresh_token, create_time)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		w.Login, w.Name, w.PasswordHash, w.Role, w.HourlyRate, w.RefreshToken, w.CreateTime)
	if err != nil {
		return err
	}
	w.ID = id
	return nil
}

func (r *SQLWorkerRepository) GetByID(ctx context.Context, id int64) (*models.Worker, error) {
	var w models.Worker
	err := sqlx.GetContext(ctx, r.ext, &w,
		r.ext.Rebind(`SELECT `+workerColumns+` FROM workers WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *SQLWorkerRepository) GetByLogin(ctx context.Context, login string) (*models.Worker, error) {
	var w models.Worker
	err := sqlx.GetContext(ctx, r.ext, &w,
		r.ext.Rebind(`SELECT `+workerColumns+` FROM workers WHERE login = ?`), login)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *SQLWorkerRepository) List(ctx context.Context) ([]models.Worker, error) {
	workers := []models.Worker{}
	err := sqlx.SelectContext(ctx, r.ext, &workers,
		`SELECT `+workerColumns+` FROM workers ORDER BY id`)
	return workers, err
}

func (r *SQLWorkerRepository) UpdateHourlyRate(ctx context.Context, id int64, rate float64) error {
	res, err := r.ext.ExecContext(ctx,
		r.ext.Rebind(`UPDATE workers SET hourly_rate = ? WHERE id = ?`), rate, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *SQLWorkerRepository) UpdateRefreshToken(ctx context.Context, id int64, token string, expiry *time.Time) error {
	res, err := r.ext.ExecContext(ctx,
		r.ext.Rebind(`UPDATE workers SET refresh_token = ?, refresh_token_expiry = ? WHERE id = ?`),
		token, expiry, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
