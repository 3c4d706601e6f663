// Package pricing derives a ticket's total price from its parts and labor
// time-slots.
package pricing

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/fixhub-io/fixhub-ce/internal/repository"
)

// Engine recomputes ticket totals. It is safe for concurrent use; all state
// lives in the store it is given.
type Engine struct {
	store repository.Store
}

// NewEngine creates a recalculation engine over the given store.
func NewEngine(store repository.Store) *Engine {
	return &Engine{store: store}
}

// BillableHours truncates a slot duration to whole hours. Fractional hours
// below 60 minutes are not billed.
func BillableHours(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d.Hours())
}

// Recalculate recomputes the ticket's total price against the engine's own
// store and persists it. Returns repository.ErrNotFound when the ticket does
// not exist.
func (e *Engine) Recalculate(ctx context.Context, ticketID int64) (float64, error) {
	return e.RecalculateIn(ctx, e.store, ticketID)
}

// RecalculateIn is Recalculate bound to an explicit store, so the coordinator
// can run it inside the transaction of the triggering mutation.
//
// total = sum of part totals + sum over slots of (worker rate * whole hours).
// A slot whose worker no longer exists contributes zero rather than failing
// the recalculation.
func (e *Engine) RecalculateIn(ctx context.Context, s repository.Store, ticketID int64) (float64, error) {
	if _, err := s.Tickets().GetByID(ctx, ticketID); err != nil {
		return 0, err
	}

	parts, err := s.Parts().ListByTicket(ctx, ticketID)
	if err != nil {
		return 0, err
	}
	slots, err := s.TimeSlots().ListByTicket(ctx, ticketID)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, p := range parts {
		total += p.TotalPrice
	}

	rates := make(map[int64]float64)
	for _, slot := range slots {
		rate, ok := rates[slot.WorkerID]
		if !ok {
			worker, err := s.Workers().GetByID(ctx, slot.WorkerID)
			if errors.Is(err, repository.ErrNotFound) {
				rates[slot.WorkerID] = 0
				continue
			}
			if err != nil {
				return 0, err
			}
			rate = worker.HourlyRate
			rates[slot.WorkerID] = rate
		}
		total += rate * float64(BillableHours(slot.Duration()))
	}

	total = roundCents(total)
	if err := s.Tickets().UpdateTotalPrice(ctx, ticketID, total); err != nil {
		return 0, err
	}
	return total, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
