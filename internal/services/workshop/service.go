// Package workshop coordinates the ticket aggregate: part and time-slot
// mutations, the derived worker membership relation, and total price
// consistency.
package workshop

import (
	"context"
	"time"

	"github.com/fixhub-io/fixhub-ce/internal/models"
	"github.com/fixhub-io/fixhub-ce/internal/repository"
	"github.com/fixhub-io/fixhub-ce/internal/services/pricing"
	"github.com/fixhub-io/fixhub-ce/internal/services/schedule"
)

// ChangeListener is notified after a successful mutation commits. Used for
// cache invalidation and the live event stream.
type ChangeListener func(event string, ticketID int64, totalPrice float64)

// Service orchestrates create/update/delete of tickets, parts and time-slots.
// Every mutation runs inside one transaction guarded by a per-ticket lock,
// and finishes by recomputing the ticket's total price.
type Service struct {
	store    repository.Store
	engine   *pricing.Engine
	calendar *schedule.Calendar
	locks    *ticketLocks
	onChange ChangeListener
}

// NewService creates the ticket aggregate coordinator.
func NewService(store repository.Store, engine *pricing.Engine, calendar *schedule.Calendar) *Service {
	return &Service{
		store:    store,
		engine:   engine,
		calendar: calendar,
		locks:    newTicketLocks(),
	}
}

// SetChangeListener registers the post-commit notification hook.
func (s *Service) SetChangeListener(fn ChangeListener) {
	s.onChange = fn
}

func (s *Service) notify(event string, ticketID int64, total float64) {
	if s.onChange != nil {
		s.onChange(event, ticketID, total)
	}
}

// CreateTicket validates the descriptive fields and persists a new ticket in
// status Created with a zero total.
func (s *Service) CreateTicket(ctx context.Context, req *models.TicketCreateRequest) (t *models.Ticket, err error) {
	defer func() { observeMutation("create_ticket", err) }()

	if req.Brand == "" || req.Model == "" || req.RegistrationID == "" || req.Description == "" {
		return nil, validationf("missing required fields")
	}

	ticket := &models.Ticket{
		Brand:          req.Brand,
		Model:          req.Model,
		RegistrationID: req.RegistrationID,
		Description:    req.Description,
		Status:         models.StatusCreated,
	}
	if err = s.store.Tickets().Create(ctx, ticket); err != nil {
		return nil, persistErr("failed to create ticket", err)
	}
	s.notify("ticket.created", ticket.ID, 0)
	return ticket, nil
}

// GetTicket returns a ticket with its parts, time-slots and workers joined.
func (s *Service) GetTicket(ctx context.Context, id int64) (*models.Ticket, error) {
	ticket, err := s.store.Tickets().GetByID(ctx, id)
	if err != nil {
		return nil, persistErr("failed to load ticket", err)
	}
	if ticket.Parts, err = s.store.Parts().ListByTicket(ctx, id); err != nil {
		return nil, persistErr("failed to load parts", err)
	}
	if ticket.TimeSlots, err = s.store.TimeSlots().ListByTicket(ctx, id); err != nil {
		return nil, persistErr("failed to load time slots", err)
	}
	if ticket.Workers, err = s.store.Tickets().Workers(ctx, id); err != nil {
		return nil, persistErr("failed to load workers", err)
	}
	return ticket, nil
}

// ListTickets returns all tickets.
func (s *Service) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	tickets, err := s.store.Tickets().List(ctx)
	if err != nil {
		return nil, persistErr("failed to list tickets", err)
	}
	return tickets, nil
}

// ListTicketsForWorker returns tickets the worker is assigned to.
func (s *Service) ListTicketsForWorker(ctx context.Context, workerID int64) ([]models.Ticket, error) {
	tickets, err := s.store.Tickets().ListByWorker(ctx, workerID)
	if err != nil {
		return nil, persistErr("failed to list tickets", err)
	}
	return tickets, nil
}

// UpdateTicket replaces the descriptive fields and status, then recalculates.
func (s *Service) UpdateTicket(ctx context.Context, id int64, req *models.TicketUpdateRequest) (err error) {
	defer func() { observeMutation("update_ticket", err) }()

	if req.Brand == "" || req.Model == "" || req.RegistrationID == "" || req.Description == "" {
		return validationf("missing required fields")
	}
	if req.Status != "" && !req.Status.Valid() {
		return validationf("invalid status %q", req.Status)
	}

	unlock := s.locks.lock(id)
	defer unlock()

	var total float64
	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		ticket, err := tx.Tickets().GetByID(ctx, id)
		if err != nil {
			return err
		}
		ticket.Brand = req.Brand
		ticket.Model = req.Model
		ticket.RegistrationID = req.RegistrationID
		ticket.Description = req.Description
		if req.Status != "" {
			ticket.Status = req.Status
		}
		if err := tx.Tickets().Update(ctx, ticket); err != nil {
			return err
		}
		total, err = s.recalculate(ctx, tx, id)
		return err
	})
	if err != nil {
		return persistErr("failed to update ticket", err)
	}
	s.notify("ticket.updated", id, total)
	return nil
}

// DeleteTicket removes the ticket with all owned parts, time-slots and
// memberships in one unit.
func (s *Service) DeleteTicket(ctx context.Context, id int64) (err error) {
	defer func() { observeMutation("delete_ticket", err) }()

	unlock := s.locks.lock(id)
	defer unlock()

	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Tickets().GetByID(ctx, id); err != nil {
			return err
		}
		if err := tx.Parts().DeleteByTicket(ctx, id); err != nil {
			return err
		}
		if err := tx.TimeSlots().DeleteByTicket(ctx, id); err != nil {
			return err
		}
		if err := tx.Tickets().SetWorkers(ctx, id, nil); err != nil {
			return err
		}
		return tx.Tickets().Delete(ctx, id)
	})
	if err != nil {
		return persistErr("failed to delete ticket", err)
	}
	s.notify("ticket.deleted", id, 0)
	return nil
}

// AddPart validates and persists a part, then recalculates the ticket total.
func (s *Service) AddPart(ctx context.Context, ticketID int64, req *models.PartRequest) (p *models.Part, err error) {
	defer func() { observeMutation("add_part", err) }()

	if req.Name == "" || req.Price <= 0 || req.Quantity <= 0 {
		return nil, validationf("missing required fields")
	}

	unlock := s.locks.lock(ticketID)
	defer unlock()

	part := &models.Part{
		TicketID:   ticketID,
		Name:       req.Name,
		Price:      req.Price,
		Quantity:   req.Quantity,
		TotalPrice: req.Price * req.Quantity,
	}
	var total float64
	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Tickets().GetByID(ctx, ticketID); err != nil {
			return err
		}
		if err := tx.Parts().Create(ctx, part); err != nil {
			return err
		}
		total, err = s.recalculate(ctx, tx, ticketID)
		return err
	})
	if err != nil {
		return nil, persistErr("failed to add part", err)
	}
	s.notify("part.added", ticketID, total)
	return part, nil
}

// UpdatePart fully replaces name, price and quantity, recomputes the part
// total, then recalculates the ticket total.
func (s *Service) UpdatePart(ctx context.Context, partID int64, req *models.PartRequest) (p *models.Part, err error) {
	defer func() { observeMutation("update_part", err) }()

	if req.Name == "" || req.Price <= 0 || req.Quantity <= 0 {
		return nil, validationf("missing required fields")
	}

	part, err := s.store.Parts().GetByID(ctx, partID)
	if err != nil {
		return nil, persistErr("failed to load part", err)
	}

	unlock := s.locks.lock(part.TicketID)
	defer unlock()

	part.Name = req.Name
	part.Price = req.Price
	part.Quantity = req.Quantity
	part.TotalPrice = req.Price * req.Quantity

	var total float64
	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.Parts().Update(ctx, part); err != nil {
			return err
		}
		total, err = s.recalculate(ctx, tx, part.TicketID)
		return err
	})
	if err != nil {
		return nil, persistErr("failed to update part", err)
	}
	s.notify("part.updated", part.TicketID, total)
	return part, nil
}

// DeletePart removes a part and recalculates the owning ticket's total.
func (s *Service) DeletePart(ctx context.Context, partID int64) (err error) {
	defer func() { observeMutation("delete_part", err) }()

	part, err := s.store.Parts().GetByID(ctx, partID)
	if err != nil {
		return persistErr("failed to load part", err)
	}

	unlock := s.locks.lock(part.TicketID)
	defer unlock()

	var total float64
	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.Parts().Delete(ctx, partID); err != nil {
			return err
		}
		total, err = s.recalculate(ctx, tx, part.TicketID)
		return err
	})
	if err != nil {
		return persistErr("failed to delete part", err)
	}
	s.notify("part.deleted", part.TicketID, total)
	return nil
}

// GetPart returns a single part.
func (s *Service) GetPart(ctx context.Context, partID int64) (*models.Part, error) {
	part, err := s.store.Parts().GetByID(ctx, partID)
	if err != nil {
		return nil, persistErr("failed to load part", err)
	}
	return part, nil
}

// ListParts returns a ticket's parts.
func (s *Service) ListParts(ctx context.Context, ticketID int64) ([]models.Part, error) {
	parts, err := s.store.Parts().ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, persistErr("failed to list parts", err)
	}
	return parts, nil
}

// AddTimeSlot books a labor interval for a worker on a ticket. The interval
// is validated, checked against the worker's existing slots across all
// tickets, persisted, and the membership and total are brought up to date.
func (s *Service) AddTimeSlot(ctx context.Context, ticketID, workerID int64, req *models.TimeSlotRequest) (ts *models.TimeSlot, err error) {
	defer func() { observeMutation("add_time_slot", err) }()

	start := req.StartTime.UTC()
	end := req.EndTime.UTC()
	if start.IsZero() || end.IsZero() {
		return nil, validationf("missing required fields")
	}
	if err := schedule.ValidateInterval(start, end); err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}
	if !s.calendar.AllowsInterval(start, end) {
		return nil, validationf("time slot is outside workshop business hours")
	}

	unlock := s.locks.lock(ticketID)
	defer unlock()

	slot := &models.TimeSlot{
		TicketID:  ticketID,
		WorkerID:  workerID,
		StartTime: start,
		EndTime:   end,
	}
	var total float64
	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Tickets().GetByID(ctx, ticketID); err != nil {
			return err
		}
		if _, err := tx.Workers().GetByID(ctx, workerID); err != nil {
			return err
		}

		existing, err := tx.TimeSlots().ListByWorker(ctx, workerID)
		if err != nil {
			return err
		}
		if conflict := schedule.FindConflict(start, end, existing); conflict != nil {
			conflictsTotal.Inc()
			return &ConflictError{Msg: "time slot overlaps with another time slot"}
		}

		if err := tx.TimeSlots().Create(ctx, slot); err != nil {
			return err
		}
		if err := s.syncMembership(ctx, tx, ticketID); err != nil {
			return err
		}
		total, err = s.recalculate(ctx, tx, ticketID)
		return err
	})
	if err != nil {
		if IsConflict(err) || IsValidation(err) {
			return nil, err
		}
		return nil, persistErr("failed to add time slot", err)
	}
	s.notify("timeslot.added", ticketID, total)
	return slot, nil
}

// DeleteTimeSlot removes a slot, prunes the worker from the ticket's
// membership when it was their last slot there, and recalculates.
func (s *Service) DeleteTimeSlot(ctx context.Context, slotID int64) (err error) {
	defer func() { observeMutation("delete_time_slot", err) }()

	slot, err := s.store.TimeSlots().GetByID(ctx, slotID)
	if err != nil {
		return persistErr("failed to load time slot", err)
	}

	unlock := s.locks.lock(slot.TicketID)
	defer unlock()

	var total float64
	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.TimeSlots().Delete(ctx, slotID); err != nil {
			return err
		}
		if err := s.syncMembership(ctx, tx, slot.TicketID); err != nil {
			return err
		}
		total, err = s.recalculate(ctx, tx, slot.TicketID)
		return err
	})
	if err != nil {
		return persistErr("failed to delete time slot", err)
	}
	s.notify("timeslot.deleted", slot.TicketID, total)
	return nil
}

// GetTimeSlot returns a single time-slot.
func (s *Service) GetTimeSlot(ctx context.Context, slotID int64) (*models.TimeSlot, error) {
	slot, err := s.store.TimeSlots().GetByID(ctx, slotID)
	if err != nil {
		return nil, persistErr("failed to load time slot", err)
	}
	return slot, nil
}

// ListTimeSlotsForWorker returns all slots booked by a worker.
func (s *Service) ListTimeSlotsForWorker(ctx context.Context, workerID int64) ([]models.TimeSlot, error) {
	slots, err := s.store.TimeSlots().ListByWorker(ctx, workerID)
	if err != nil {
		return nil, persistErr("failed to list time slots", err)
	}
	return slots, nil
}

// syncMembership recomputes the ticket's worker set from its current
// time-slots. Both the add and delete paths call this single step, so the
// derived relation can never diverge between them.
func (s *Service) syncMembership(ctx context.Context, tx repository.Store, ticketID int64) error {
	slots, err := tx.TimeSlots().ListByTicket(ctx, ticketID)
	if err != nil {
		return err
	}
	seen := make(map[int64]bool)
	workerIDs := []int64{}
	for _, slot := range slots {
		if !seen[slot.WorkerID] {
			seen[slot.WorkerID] = true
			workerIDs = append(workerIDs, slot.WorkerID)
		}
	}
	return tx.Tickets().SetWorkers(ctx, ticketID, workerIDs)
}

func (s *Service) recalculate(ctx context.Context, tx repository.Store, ticketID int64) (float64, error) {
	start := time.Now()
	defer func() { recalcDuration.Observe(time.Since(start).Seconds()) }()
	return s.engine.RecalculateIn(ctx, tx, ticketID)
}
