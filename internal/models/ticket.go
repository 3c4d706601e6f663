package models

import "time"

// TicketStatus is the lifecycle state of a repair ticket.
type TicketStatus string

const (
	StatusCreated    TicketStatus = "Created"
	StatusInProgress TicketStatus = "InProgress"
	StatusDone       TicketStatus = "Done"
)

// Valid reports whether the status is one of the allowed values.
func (s TicketStatus) Valid() bool {
	switch s {
	case StatusCreated, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Ticket represents a vehicle repair job. TotalPrice is derived from the
// ticket's parts and time-slots and is never set directly by a client.
type Ticket struct {
	ID             int64        `json:"id" db:"id"`
	Brand          string       `json:"brand" db:"brand"`
	Model          string       `json:"model" db:"model"`
	RegistrationID string       `json:"registration_id" db:"registration_id"`
	Description    string       `json:"description" db:"description"`
	Status         TicketStatus `json:"status" db:"status"`
	TotalPrice     float64      `json:"total_price" db:"total_price"`
	CreateTime     time.Time    `json:"create_time" db:"create_time"`
	ChangeTime     time.Time    `json:"change_time" db:"change_time"`

	// Joined fields (populated when needed)
	Workers   []Worker   `json:"workers,omitempty"`
	Parts     []Part     `json:"parts,omitempty"`
	TimeSlots []TimeSlot `json:"time_slots,omitempty"`
}

// TicketCreateRequest is the payload for creating a ticket.
type TicketCreateRequest struct {
	Brand          string `json:"brand" binding:"required"`
	Model          string `json:"model" binding:"required"`
	RegistrationID string `json:"registration_id" binding:"required"`
	Description    string `json:"description" binding:"required"`
}

// TicketUpdateRequest is the payload for editing a ticket. Status must be one
// of the enumerated values when present.
type TicketUpdateRequest struct {
	Brand          string       `json:"brand" binding:"required"`
	Model          string       `json:"model" binding:"required"`
	RegistrationID string       `json:"registration_id" binding:"required"`
	Description    string       `json:"description" binding:"required"`
	Status         TicketStatus `json:"status,omitempty"`
}

// TicketListItem is a ticket row enriched for list responses.
type TicketListItem struct {
	Ticket
	CreatedAgo string `json:"created_ago"`
}
