package workshop

import (
	"context"
	"log"
	"math"

	"github.com/robfig/cron/v3"

	"github.com/fixhub-io/fixhub-ce/internal/repository"
)

// PriceAudit periodically re-derives every ticket's total and repairs any
// drift left behind by a mutation that failed after its row writes were
// persisted (the documented best-effort consistency window).
type PriceAudit struct {
	service *Service
	cron    *cron.Cron
}

// NewPriceAudit creates the audit sweep with the given cron spec.
func NewPriceAudit(service *Service, schedule string) (*PriceAudit, error) {
	a := &PriceAudit{
		service: service,
		cron:    cron.New(),
	}
	if _, err := a.cron.AddFunc(schedule, a.Run); err != nil {
		return nil, err
	}
	return a, nil
}

// Start begins the scheduled sweeps.
func (a *PriceAudit) Start() {
	a.cron.Start()
}

// Stop halts scheduling; a running sweep finishes.
func (a *PriceAudit) Stop() {
	a.cron.Stop()
}

// Run sweeps all tickets once, recalculating each under its aggregate lock.
func (a *PriceAudit) Run() {
	ctx := context.Background()
	ids, err := a.service.store.Tickets().ListIDs(ctx)
	if err != nil {
		log.Printf("price audit: list tickets: %v", err)
		return
	}

	repaired := 0
	for _, id := range ids {
		drifted, err := a.auditTicket(ctx, id)
		if err != nil {
			log.Printf("price audit: ticket %d: %v", id, err)
			continue
		}
		if drifted {
			repaired++
		}
	}
	if repaired > 0 {
		log.Printf("price audit: repaired %d drifted ticket totals", repaired)
	}
}

func (a *PriceAudit) auditTicket(ctx context.Context, id int64) (bool, error) {
	unlock := a.service.locks.lock(id)
	defer unlock()

	before, err := a.service.store.Tickets().GetByID(ctx, id)
	if err != nil {
		return false, err
	}

	var after float64
	err = a.service.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		after, err = a.service.engine.RecalculateIn(ctx, tx, id)
		return err
	})
	if err != nil {
		return false, err
	}

	if math.Abs(before.TotalPrice-after) > 0.005 {
		auditDriftTotal.Inc()
		log.Printf("price audit: ticket %d total drifted %.2f -> %.2f", id, before.TotalPrice, after)
		return true, nil
	}
	return false, nil
}
