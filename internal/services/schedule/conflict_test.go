package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixhub-io/fixhub-ce/internal/models"
)

func slotAt(t *testing.T, start, end string) models.TimeSlot {
	t.Helper()
	s, err := time.Parse(time.RFC3339, start)
	require.NoError(t, err)
	e, err := time.Parse(time.RFC3339, end)
	require.NoError(t, err)
	return models.TimeSlot{StartTime: s, EndTime: e}
}

func TestValidateInterval(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	assert.NoError(t, ValidateInterval(start, start.Add(time.Hour)))
	assert.Error(t, ValidateInterval(start, start))
	assert.Error(t, ValidateInterval(start, start.Add(-time.Minute)))
}

func TestFindConflict(t *testing.T) {
	existing := []models.TimeSlot{
		slotAt(t, "2026-03-02T10:00:00Z", "2026-03-02T12:00:00Z"),
	}

	parse := func(s string) time.Time {
		v, err := time.Parse(time.RFC3339, s)
		require.NoError(t, err)
		return v
	}

	tests := []struct {
		name     string
		start    string
		end      string
		conflict bool
	}{
		{"overlapping interval", "2026-03-02T11:00:00Z", "2026-03-02T13:00:00Z", true},
		{"touching boundary", "2026-03-02T12:00:00Z", "2026-03-02T14:00:00Z", true},
		{"touching start boundary", "2026-03-02T08:00:00Z", "2026-03-02T10:00:00Z", true},
		{"clear of existing slot", "2026-03-02T13:00:00Z", "2026-03-02T14:00:00Z", false},
		{"before existing slot", "2026-03-02T08:00:00Z", "2026-03-02T09:30:00Z", false},
		{"containing existing slot", "2026-03-02T09:00:00Z", "2026-03-02T13:00:00Z", true},
		{"contained in existing slot", "2026-03-02T10:30:00Z", "2026-03-02T11:30:00Z", true},
		{"identical interval", "2026-03-02T10:00:00Z", "2026-03-02T12:00:00Z", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindConflict(parse(tt.start), parse(tt.end), existing)
			if tt.conflict {
				assert.NotNil(t, got)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestFindConflictEmptySet(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	assert.Nil(t, FindConflict(start, start.Add(time.Hour), nil))
}
