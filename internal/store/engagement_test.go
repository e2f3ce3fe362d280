package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPenalizeHasNoFloor(t *testing.T) {
	e := NewEngagement()
	assert.Equal(t, StartingPoints, e.Points)

	for i := 0; i < 11; i++ {
		e.Penalize()
	}
	assert.Equal(t, -10, e.Points)
}

func TestMarkHappyDayOncePerCalendarDay(t *testing.T) {
	e := NewEngagement()
	evening := time.Date(2026, 9, 1, 21, 0, 0, 0, time.UTC)

	assert.True(t, e.MarkHappyDay(evening, true))
	assert.Equal(t, 1, e.HappyStreak)

	// Later the same day: guarded by LastHappyDay.
	assert.False(t, e.MarkHappyDay(evening.Add(time.Hour), true))
	assert.Equal(t, 1, e.HappyStreak)

	assert.True(t, e.MarkHappyDay(evening.AddDate(0, 0, 1), true))
	assert.Equal(t, 2, e.HappyStreak)
}

func TestMarkHappyDayRequiresAllDone(t *testing.T) {
	e := NewEngagement()
	now := time.Date(2026, 9, 1, 21, 0, 0, 0, time.UTC)

	assert.False(t, e.MarkHappyDay(now, false))
	assert.Equal(t, 0, e.HappyStreak)
	assert.True(t, e.LastHappyDay.IsZero())
}
