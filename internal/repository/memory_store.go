package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fixhub-io/fixhub-ce/internal/models"
)

// MemoryStore implements Store with in-memory maps.
// This is for development/testing. Production should use the SQL implementation.
// WithinTx provides mutual exclusion but not rollback; tests that exercise
// failure paths assert on surfaced errors, not on state restoration.
type MemoryStore struct {
	mu sync.RWMutex

	tickets     map[int64]*models.Ticket
	parts       map[int64]*models.Part
	slots       map[int64]*models.TimeSlot
	workers     map[int64]*models.Worker
	memberships map[int64][]int64 // ticket id -> worker ids

	nextTicketID int64
	nextPartID   int64
	nextSlotID   int64
	nextWorkerID int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tickets:      make(map[int64]*models.Ticket),
		parts:        make(map[int64]*models.Part),
		slots:        make(map[int64]*models.TimeSlot),
		workers:      make(map[int64]*models.Worker),
		memberships:  make(map[int64][]int64),
		nextTicketID: 1,
		nextPartID:   1,
		nextSlotID:   1,
		nextWorkerID: 1,
	}
}

func (s *MemoryStore) Tickets() TicketRepository     { return (*memoryTickets)(s) }
func (s *MemoryStore) Parts() PartRepository         { return (*memoryParts)(s) }
func (s *MemoryStore) TimeSlots() TimeSlotRepository { return (*memorySlots)(s) }
func (s *MemoryStore) Workers() WorkerRepository     { return (*memoryWorkers)(s) }

func (s *MemoryStore) WithinTx(_ context.Context, fn func(Store) error) error {
	return fn(s)
}

type memoryTickets MemoryStore

func (r *memoryTickets) Create(_ context.Context, t *models.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = r.nextTicketID
	r.nextTicketID++
	now := time.Now().UTC()
	t.CreateTime = now
	t.ChangeTime = now
	if t.Status == "" {
		t.Status = models.StatusCreated
	}
	cp := *t
	r.tickets[t.ID] = &cp
	return nil
}

func (r *memoryTickets) GetByID(_ context.Context, id int64) (*models.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tickets[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *memoryTickets) Update(_ context.Context, t *models.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.tickets[t.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Brand = t.Brand
	existing.Model = t.Model
	existing.RegistrationID = t.RegistrationID
	existing.Description = t.Description
	existing.Status = t.Status
	existing.ChangeTime = time.Now().UTC()
	return nil
}

func (r *memoryTickets) UpdateTotalPrice(_ context.Context, id int64, total float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[id]
	if !ok {
		return ErrNotFound
	}
	t.TotalPrice = total
	t.ChangeTime = time.Now().UTC()
	return nil
}

func (r *memoryTickets) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[id]; !ok {
		return ErrNotFound
	}
	delete(r.tickets, id)
	delete(r.memberships, id)
	return nil
}

func (r *memoryTickets) List(_ context.Context) ([]models.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Ticket, 0, len(r.tickets))
	for _, t := range r.tickets {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *memoryTickets) ListByWorker(_ context.Context, workerID int64) ([]models.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Ticket{}
	for ticketID, workerIDs := range r.memberships {
		for _, wid := range workerIDs {
			if wid == workerID {
				if t, ok := r.tickets[ticketID]; ok {
					out = append(out, *t)
				}
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *memoryTickets) ListIDs(_ context.Context) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]int64, 0, len(r.tickets))
	for id := range r.tickets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *memoryTickets) SetWorkers(_ context.Context, ticketID int64, workerIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.memberships[ticketID] = append([]int64(nil), workerIDs...)
	return nil
}

func (r *memoryTickets) Workers(_ context.Context, ticketID int64) ([]models.Worker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Worker{}
	for _, wid := range r.memberships[ticketID] {
		if w, ok := r.workers[wid]; ok {
			out = append(out, *w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memoryParts MemoryStore

func (r *memoryParts) Create(_ context.Context, p *models.Part) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.nextPartID
	r.nextPartID++
	cp := *p
	r.parts[p.ID] = &cp
	return nil
}

func (r *memoryParts) GetByID(_ context.Context, id int64) (*models.Part, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.parts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memoryParts) Update(_ context.Context, p *models.Part) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.parts[p.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Name = p.Name
	existing.Price = p.Price
	existing.Quantity = p.Quantity
	existing.TotalPrice = p.TotalPrice
	return nil
}

func (r *memoryParts) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.parts[id]; !ok {
		return ErrNotFound
	}
	delete(r.parts, id)
	return nil
}

func (r *memoryParts) ListByTicket(_ context.Context, ticketID int64) ([]models.Part, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Part{}
	for _, p := range r.parts {
		if p.TicketID == ticketID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryParts) DeleteByTicket(_ context.Context, ticketID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.parts {
		if p.TicketID == ticketID {
			delete(r.parts, id)
		}
	}
	return nil
}

type memorySlots MemoryStore

func (r *memorySlots) Create(_ context.Context, ts *models.TimeSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ts.ID = r.nextSlotID
	r.nextSlotID++
	ts.StartTime = ts.StartTime.UTC()
	ts.EndTime = ts.EndTime.UTC()
	cp := *ts
	r.slots[ts.ID] = &cp
	return nil
}

func (r *memorySlots) GetByID(_ context.Context, id int64) (*models.TimeSlot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ts, ok := r.slots[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *ts
	return &cp, nil
}

func (r *memorySlots) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[id]; !ok {
		return ErrNotFound
	}
	delete(r.slots, id)
	return nil
}

func (r *memorySlots) ListByTicket(_ context.Context, ticketID int64) ([]models.TimeSlot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.TimeSlot{}
	for _, ts := range r.slots {
		if ts.TicketID == ticketID {
			out = append(out, *ts)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *memorySlots) ListByWorker(_ context.Context, workerID int64) ([]models.TimeSlot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.TimeSlot{}
	for _, ts := range r.slots {
		if ts.WorkerID == workerID {
			out = append(out, *ts)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *memorySlots) DeleteByTicket(_ context.Context, ticketID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, ts := range r.slots {
		if ts.TicketID == ticketID {
			delete(r.slots, id)
		}
	}
	return nil
}

type memoryWorkers MemoryStore

func (r *memoryWorkers) Create(_ context.Context, w *models.Worker) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.workers {
		if existing.Login == w.Login {
			return ErrDuplicateLogin
		}
	}
	w.ID = r.nextWorkerID
	r.nextWorkerID++
	w.CreateTime = time.Now().UTC()
	if w.Role == "" {
		w.Role = models.RoleWorker
	}
	cp := *w
	r.workers[w.ID] = &cp
	return nil
}

func (r *memoryWorkers) GetByID(_ context.Context, id int64) (*models.Worker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.workers[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (r *memoryWorkers) GetByLogin(_ context.Context, login string) (*models.Worker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.workers {
		if w.Login == login {
			cp := *w
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryWorkers) List(_ context.Context) ([]models.Worker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Worker, 0, len(r.workers))
	for _, w := range r.workers {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryWorkers) UpdateHourlyRate(_ context.Context, id int64, rate float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workers[id]
	if !ok {
		return ErrNotFound
	}
	w.HourlyRate = rate
	return nil
}

func (r *memoryWorkers) UpdateRefreshToken(_ context.Context, id int64, token string, expiry *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workers[id]
	if !ok {
		return ErrNotFound
	}
	w.RefreshToken = token
	w.RefreshTokenExpiry = expiry
	return nil
}

// DeleteWorker removes a worker account. Only the in-memory store supports
// this; it exists so tests can exercise the vanished-worker pricing path.
func (s *MemoryStore) DeleteWorker(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.workers, id)
}

// SetWorkerRole changes a worker's role directly, bypassing the auth flow.
// Test helper, like DeleteWorker.
func (s *MemoryStore) SetWorkerRole(id int64, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.workers[id]; ok {
		w.Role = role
	}
}
