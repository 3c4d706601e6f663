package workshop

import "sync"

// ticketLocks serializes mutations per ticket aggregate. The original
// read-modify-write recalculation sequence is subject to lost updates under
// concurrent writers; holding the ticket's lock across the whole mutation
// plus recalculation closes that window.
type ticketLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newTicketLocks() *ticketLocks {
	return &ticketLocks{locks: make(map[int64]*sync.Mutex)}
}

func (l *ticketLocks) lock(ticketID int64) func() {
	l.mu.Lock()
	m, ok := l.locks[ticketID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[ticketID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
