package workshop

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixhub-io/fixhub-ce/internal/config"
	"github.com/fixhub-io/fixhub-ce/internal/models"
	"github.com/fixhub-io/fixhub-ce/internal/repository"
	"github.com/fixhub-io/fixhub-ce/internal/services/pricing"
	"github.com/fixhub-io/fixhub-ce/internal/services/schedule"
)

func newTestService(t *testing.T) (*Service, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	engine := pricing.NewEngine(store)
	calendar := schedule.NewCalendar(config.CalendarConfig{Enforce: false})
	return NewService(store, engine, calendar), store
}

func createTicket(t *testing.T, s *Service) *models.Ticket {
	t.Helper()
	ticket, err := s.CreateTicket(context.Background(), &models.TicketCreateRequest{
		Brand:          "Renault",
		Model:          "Clio",
		RegistrationID: "XY-987-ZW",
		Description:    "Engine knocking at idle",
	})
	require.NoError(t, err)
	return ticket
}

func createWorker(t *testing.T, store *repository.MemoryStore, login string, rate float64) *models.Worker {
	t.Helper()
	w := &models.Worker{Login: login, Name: login, Role: models.RoleWorker, HourlyRate: rate}
	require.NoError(t, store.Workers().Create(context.Background(), w))
	return w
}

func TestCreateTicket(t *testing.T) {
	s, store := newTestService(t)

	ticket := createTicket(t, s)
	assert.Equal(t, models.StatusCreated, ticket.Status)
	assert.Zero(t, ticket.TotalPrice)

	stored, err := store.Tickets().GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renault", stored.Brand)
}

func TestCreateTicketValidation(t *testing.T) {
	s, _ := newTestService(t)

	_, err := s.CreateTicket(context.Background(), &models.TicketCreateRequest{Brand: "Renault"})
	assert.True(t, IsValidation(err))
}

func TestUpdateTicketStatus(t *testing.T) {
	ctx := context.Background()
	s, store := newTestService(t)
	ticket := createTicket(t, s)

	req := &models.TicketUpdateRequest{
		Brand:          ticket.Brand,
		Model:          ticket.Model,
		RegistrationID: ticket.RegistrationID,
		Description:    ticket.Description,
		Status:         models.StatusInProgress,
	}
	require.NoError(t, s.UpdateTicket(ctx, ticket.ID, req))

	stored, err := store.Tickets().GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, stored.Status)

	req.Status = "Exploded"
	err = s.UpdateTicket(ctx, ticket.ID, req)
	assert.True(t, IsValidation(err))
}

func TestUpdateTicketNotFound(t *testing.T) {
	s, _ := newTestService(t)

	err := s.UpdateTicket(context.Background(), 404, &models.TicketUpdateRequest{
		Brand: "a", Model: "b", RegistrationID: "c", Description: "d",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddPartRecalculates(t *testing.T) {
	ctx := context.Background()
	s, store := newTestService(t)
	ticket := createTicket(t, s)

	part, err := s.AddPart(ctx, ticket.ID, &models.PartRequest{
		Name: "Spark plug", Price: 12.5, Quantity: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, part.TotalPrice)

	stored, err := store.Tickets().GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, stored.TotalPrice)
}

func TestAddPartValidation(t *testing.T) {
	s, _ := newTestService(t)
	ticket := createTicket(t, s)

	_, err := s.AddPart(context.Background(), ticket.ID, &models.PartRequest{
		Name: "Free part", Price: 0, Quantity: 1,
	})
	assert.True(t, IsValidation(err))
}

func TestAddPartMissingTicket(t *testing.T) {
	s, _ := newTestService(t)

	_, err := s.AddPart(context.Background(), 404, &models.PartRequest{
		Name: "Spark plug", Price: 10, Quantity: 1,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePartZeroesTotal(t *testing.T) {
	ctx := context.Background()
	s, store := newTestService(t)
	ticket := createTicket(t, s)

	part, err := s.AddPart(ctx, ticket.ID, &models.PartRequest{
		Name: "Clutch kit", Price: 100, Quantity: 2,
	})
	require.NoError(t, err)

	stored, err := store.Tickets().GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	require.Equal(t, 200.0, stored.TotalPrice)

	require.NoError(t, s.DeletePart(ctx, part.ID))

	stored, err = store.Tickets().GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.TotalPrice)
}

func TestUpdatePartRecalculates(t *testing.T) {
	ctx := context.Background()
	s, store := newTestService(t)
	ticket := createTicket(t, s)

	part, err := s.AddPart(ctx, ticket.ID, &models.PartRequest{
		Name: "Oil filter", Price: 8, Quantity: 1,
	})
	require.NoError(t, err)

	updated, err := s.UpdatePart(ctx, part.ID, &models.PartRequest{
		Name: "Oil filter premium", Price: 15, Quantity: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 30.0, updated.TotalPrice)

	stored, err := store.Tickets().GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, 30.0, stored.TotalPrice)
}

func TestAddTimeSlotConflicts(t *testing.T) {
	ctx := context.Background()
	s, store := newTestService(t)
	ticket := createTicket(t, s)
	worker := createWorker(t, store, "mech", 20)

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	book := func(fromHour, toHour int) error {
		_, err := s.AddTimeSlot(ctx, ticket.ID, worker.ID, &models.TimeSlotRequest{
			StartTime: day.Add(time.Duration(fromHour) * time.Hour),
			EndTime:   day.Add(time.Duration(toHour) * time.Hour),
		})
		return err
	}

	require.NoError(t, book(10, 12))

	// Overlapping interval.
	assert.True(t, IsConflict(book(11, 13)))
	// Touching boundary counts as overlap.
	assert.True(t, IsConflict(book(12, 14)))
	// Clear interval succeeds.
	assert.NoError(t, book(13, 14))
}

func TestAddTimeSlotConflictAcrossTickets(t *testing.T) {
	ctx := context.Background()
	s, store := newTestService(t)
	first := createTicket(t, s)
	second := createTicket(t, s)
	worker := createWorker(t, store, "mech", 20)

	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	_, err := s.AddTimeSlot(ctx, first.ID, worker.ID, &models.TimeSlotRequest{
		StartTime: start, EndTime: start.Add(2 * time.Hour),
	})
	require.NoError(t, err)

	// The worker cannot be in two places at once, even on another ticket.
	_, err = s.AddTimeSlot(ctx, second.ID, worker.ID, &models.TimeSlotRequest{
		StartTime: start.Add(time.Hour), EndTime: start.Add(3 * time.Hour),
	})
	assert.True(t, IsConflict(err))
}

func TestAddTimeSlotInvalidInterval(t *testing.T) {
	ctx := context.Background()
	s, store := newTestService(t)
	ticket := createTicket(t, s)
	worker := createWorker(t, store, "mech", 20)

	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	_, err := s.AddTimeSlot(ctx, ticket.ID, worker.ID, &models.TimeSlotRequest{
		StartTime: start, EndTime: start,
	})
	assert.True(t, IsValidation(err))

	_, err = s.AddTimeSlot(ctx, ticket.ID, worker.ID, &models.TimeSlotRequest{
		StartTime: start, EndTime: start.Add(-time.Hour),
	})
	assert.True(t, IsValidation(err))
}

func TestAddTimeSlotMissingRefsLeaveNoState(t *testing.T) {
	ctx := context.Background()
	s, store := newTestService(t)
	ticket := createTicket(t, s)
	worker := createWorker(t, store, "mech", 20)

	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	req := &models.TimeSlotRequest{StartTime: start, EndTime: start.Add(time.Hour)}

	_, err := s.AddTimeSlot(ctx, 404, worker.ID, req)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.AddTimeSlot(ctx, ticket.ID, 404, req)
	assert.ErrorIs(t, err, ErrNotFound)

	slots, err := store.TimeSlots().ListByWorker(ctx, worker.ID)
	require.NoError(t, err)
	assert.Empty(t, slots)
	workers, err := store.Tickets().Workers(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Empty(t, workers)
}

func TestTimeSlotMembership(t *testing.T) {
	ctx := context.Background()
	s, store := newTestService(t)
	ticket := createTicket(t, s)
	worker := createWorker(t, store, "mech", 20)

	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	first, err := s.AddTimeSlot(ctx, ticket.ID, worker.ID, &models.TimeSlotRequest{
		StartTime: start, EndTime: start.Add(time.Hour),
	})
	require.NoError(t, err)
	second, err := s.AddTimeSlot(ctx, ticket.ID, worker.ID, &models.TimeSlotRequest{
		StartTime: start.Add(2 * time.Hour), EndTime: start.Add(3 * time.Hour),
	})
	require.NoError(t, err)

	workers, err := store.Tickets().Workers(ctx, ticket.ID)
	require.NoError(t, err)
	require.Len(t, workers, 1)

	// Deleting one of two slots keeps the membership.
	require.NoError(t, s.DeleteTimeSlot(ctx, first.ID))
	workers, err = store.Tickets().Workers(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Len(t, workers, 1)

	// Deleting the last slot removes the worker from the ticket.
	require.NoError(t, s.DeleteTimeSlot(ctx, second.ID))
	workers, err = store.Tickets().Workers(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Empty(t, workers)
}

func TestTotalInvariantAfterMutations(t *testing.T) {
	ctx := context.Background()
	s, store := newTestService(t)
	ticket := createTicket(t, s)
	worker := createWorker(t, store, "mech", 20)

	_, err := s.AddPart(ctx, ticket.ID, &models.PartRequest{
		Name: "Brake pads", Price: 50, Quantity: 1,
	})
	require.NoError(t, err)

	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	slot, err := s.AddTimeSlot(ctx, ticket.ID, worker.ID, &models.TimeSlotRequest{
		StartTime: start, EndTime: start.Add(90 * time.Minute),
	})
	require.NoError(t, err)

	stored, err := store.Tickets().GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, 70.0, stored.TotalPrice)

	require.NoError(t, s.DeleteTimeSlot(ctx, slot.ID))
	stored, err = store.Tickets().GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, stored.TotalPrice)
}

func TestDeleteTicketCascades(t *testing.T) {
	ctx := context.Background()
	s, store := newTestService(t)
	ticket := createTicket(t, s)
	worker := createWorker(t, store, "mech", 20)

	_, err := s.AddPart(ctx, ticket.ID, &models.PartRequest{
		Name: "Battery", Price: 120, Quantity: 1,
	})
	require.NoError(t, err)

	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	_, err = s.AddTimeSlot(ctx, ticket.ID, worker.ID, &models.TimeSlotRequest{
		StartTime: start, EndTime: start.Add(time.Hour),
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteTicket(ctx, ticket.ID))

	_, err = store.Tickets().GetByID(ctx, ticket.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	parts, err := store.Parts().ListByTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Empty(t, parts)
	slots, err := store.TimeSlots().ListByTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestDeleteTicketNotFound(t *testing.T) {
	s, _ := newTestService(t)
	assert.ErrorIs(t, s.DeleteTicket(context.Background(), 404), ErrNotFound)
}

func TestChangeListenerFiresAfterMutation(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	var events []string
	s.SetChangeListener(func(event string, ticketID int64, totalPrice float64) {
		events = append(events, event)
	})

	ticket := createTicket(t, s)
	_, err := s.AddPart(ctx, ticket.ID, &models.PartRequest{
		Name: "Wiper blades", Price: 10, Quantity: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"ticket.created", "part.added"}, events)
}

func TestGetTicketJoins(t *testing.T) {
	ctx := context.Background()
	s, store := newTestService(t)
	ticket := createTicket(t, s)
	worker := createWorker(t, store, "mech", 20)

	_, err := s.AddPart(ctx, ticket.ID, &models.PartRequest{
		Name: "Timing belt", Price: 45, Quantity: 1,
	})
	require.NoError(t, err)
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	_, err = s.AddTimeSlot(ctx, ticket.ID, worker.ID, &models.TimeSlotRequest{
		StartTime: start, EndTime: start.Add(time.Hour),
	})
	require.NoError(t, err)

	full, err := s.GetTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Len(t, full.Parts, 1)
	assert.Len(t, full.TimeSlots, 1)
	assert.Len(t, full.Workers, 1)
	assert.Equal(t, 65.0, full.TotalPrice)
}
