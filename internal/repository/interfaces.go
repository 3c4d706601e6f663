package repository

import (
	"context"
	"errors"
	"time"

	"github.com/fixhub-io/fixhub-ce/internal/models"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("entity not found")

// ErrDuplicateLogin is returned when a worker login is already taken.
var ErrDuplicateLogin = errors.New("login already exists")

// TicketRepository defines data operations for tickets and the derived
// worker membership relation.
type TicketRepository interface {
	Create(ctx context.Context, t *models.Ticket) error
	GetByID(ctx context.Context, id int64) (*models.Ticket, error)
	Update(ctx context.Context, t *models.Ticket) error
	UpdateTotalPrice(ctx context.Context, id int64, total float64) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]models.Ticket, error)
	ListByWorker(ctx context.Context, workerID int64) ([]models.Ticket, error)
	ListIDs(ctx context.Context) ([]int64, error)
	// SetWorkers replaces the ticket's worker membership with the given set.
	SetWorkers(ctx context.Context, ticketID int64, workerIDs []int64) error
	Workers(ctx context.Context, ticketID int64) ([]models.Worker, error)
}

// PartRepository defines data operations for parts.
type PartRepository interface {
	Create(ctx context.Context, p *models.Part) error
	GetByID(ctx context.Context, id int64) (*models.Part, error)
	Update(ctx context.Context, p *models.Part) error
	Delete(ctx context.Context, id int64) error
	ListByTicket(ctx context.Context, ticketID int64) ([]models.Part, error)
	DeleteByTicket(ctx context.Context, ticketID int64) error
}

// TimeSlotRepository defines data operations for time-slots.
type TimeSlotRepository interface {
	Create(ctx context.Context, ts *models.TimeSlot) error
	GetByID(ctx context.Context, id int64) (*models.TimeSlot, error)
	Delete(ctx context.Context, id int64) error
	ListByTicket(ctx context.Context, ticketID int64) ([]models.TimeSlot, error)
	ListByWorker(ctx context.Context, workerID int64) ([]models.TimeSlot, error)
	DeleteByTicket(ctx context.Context, ticketID int64) error
}

// WorkerRepository defines data operations for worker accounts.
type WorkerRepository interface {
	Create(ctx context.Context, w *models.Worker) error
	GetByID(ctx context.Context, id int64) (*models.Worker, error)
	GetByLogin(ctx context.Context, login string) (*models.Worker, error)
	List(ctx context.Context) ([]models.Worker, error)
	UpdateHourlyRate(ctx context.Context, id int64, rate float64) error
	UpdateRefreshToken(ctx context.Context, id int64, token string, expiry *time.Time) error
}

// Store bundles the per-entity repositories behind one unit-of-work boundary.
// WithinTx runs fn against a store whose repositories share a single
// transaction; the mutation and its price recalculation commit together.
type Store interface {
	Tickets() TicketRepository
	Parts() PartRepository
	TimeSlots() TimeSlotRepository
	Workers() WorkerRepository
	WithinTx(ctx context.Context, fn func(Store) error) error
}
