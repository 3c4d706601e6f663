package models

// Part is a billable physical component consumed by a ticket.
// TotalPrice is always Price * Quantity and is recomputed on every write.
type Part struct {
	ID         int64   `json:"id" db:"id"`
	TicketID   int64   `json:"ticket_id" db:"ticket_id"`
	Name       string  `json:"name" db:"name"`
	Price      float64 `json:"price" db:"price"`
	Quantity   float64 `json:"quantity" db:"quantity"`
	TotalPrice float64 `json:"total_price" db:"total_price"`
}

// PartRequest is the payload for adding or updating a part.
type PartRequest struct {
	Name     string  `json:"name" binding:"required"`
	Price    float64 `json:"price" binding:"required,gt=0"`
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
}
