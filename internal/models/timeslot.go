package models

import "time"

// TimeSlot is a labor interval booked by a worker against a ticket.
// Both instants are stored in UTC and EndTime is strictly after StartTime.
type TimeSlot struct {
	ID        int64     `json:"id" db:"id"`
	TicketID  int64     `json:"ticket_id" db:"ticket_id"`
	WorkerID  int64     `json:"worker_id" db:"worker_id"`
	StartTime time.Time `json:"start_time" db:"start_time"`
	EndTime   time.Time `json:"end_time" db:"end_time"`
}

// Duration returns the length of the slot.
func (ts *TimeSlot) Duration() time.Duration {
	return ts.EndTime.Sub(ts.StartTime)
}

// TimeSlotRequest is the payload for booking a time-slot.
type TimeSlotRequest struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}
