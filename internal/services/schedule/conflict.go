// Package schedule validates proposed labor intervals against a worker's
// existing commitments and the workshop's business calendar.
package schedule

import (
	"errors"
	"time"

	"github.com/fixhub-io/fixhub-ce/internal/models"
)

// ErrInvalidInterval is returned when a proposed interval does not satisfy
// end > start. This is invalid input, not a booking conflict.
var ErrInvalidInterval = errors.New("end time must be after start time")

// ValidateInterval checks the basic shape of a proposed interval.
func ValidateInterval(start, end time.Time) error {
	if !end.After(start) {
		return ErrInvalidInterval
	}
	return nil
}

// Overlaps reports whether [start, end] overlaps [s.StartTime, s.EndTime].
// Boundaries are inclusive: intervals that merely touch count as overlapping,
// and an interval fully containing another is an overlap.
func Overlaps(start, end time.Time, s *models.TimeSlot) bool {
	return !start.After(s.EndTime) && !end.Before(s.StartTime)
}

// FindConflict returns the first existing slot that overlaps the proposed
// interval, or nil when the interval is clear. The existing set must already
// be scoped to a single worker; the check is a pure predicate with no side
// effects.
func FindConflict(start, end time.Time, existing []models.TimeSlot) *models.TimeSlot {
	for i := range existing {
		if Overlaps(start, end, &existing[i]) {
			return &existing[i]
		}
	}
	return nil
}
