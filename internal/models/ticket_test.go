package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTicketStatusValid(t *testing.T) {
	assert.True(t, StatusCreated.Valid())
	assert.True(t, StatusInProgress.Valid())
	assert.True(t, StatusDone.Valid())

	assert.False(t, TicketStatus("").Valid())
	assert.False(t, TicketStatus("created").Valid())
	assert.False(t, TicketStatus("Cancelled").Valid())
}

func TestTimeSlotDuration(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	ts := TimeSlot{StartTime: start, EndTime: start.Add(90 * time.Minute)}
	assert.Equal(t, 90*time.Minute, ts.Duration())
}
