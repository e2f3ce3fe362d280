package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCloseDerivesFlooredMinutes(t *testing.T) {
	start := time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC)

	s := Session{Start: start}
	require.True(t, s.Open())

	s.CloseAt(start.Add(25*time.Minute + 59*time.Second))
	require.False(t, s.Open())
	assert.Equal(t, 25, s.Minutes)

	short := Session{Start: start}
	short.CloseAt(start.Add(30 * time.Second))
	assert.Equal(t, 0, short.Minutes)
}

func TestTaskOpenSession(t *testing.T) {
	start := time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC)
	end := start.Add(10 * time.Minute)

	task := Task{Log: []Session{{Start: start, End: &end, Minutes: 10}}}
	_, ok := task.OpenSession()
	assert.False(t, ok)

	task.Log = append(task.Log, Session{Start: end})
	idx, ok := task.OpenSession()
	require.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestTaskStatusAt(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	task := Task{
		ID:             1,
		Title:          "Report",
		PlannedMinutes: 30,
		Deadline:       now.Add(time.Hour),
	}

	assert.Equal(t, StatusPending, task.StatusAt(now))
	assert.Equal(t, StatusOverdue, task.StatusAt(now.Add(2*time.Hour)))

	task.Done = true
	assert.Equal(t, StatusDone, task.StatusAt(now.Add(2*time.Hour)))
}

func TestTaskHoursLate(t *testing.T) {
	deadline := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	task := Task{Deadline: deadline}

	assert.Equal(t, 0, task.HoursLate(deadline.Add(-time.Minute)))
	assert.Equal(t, 0, task.HoursLate(deadline.Add(30*time.Minute)))
	assert.Equal(t, 3, task.HoursLate(deadline.Add(3*time.Hour+20*time.Minute)))
}

func TestTaskValidate(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	task := Task{
		ID:             1,
		Title:          "Report",
		StartTime:      Clock{Hour: 19},
		PlannedMinutes: 30,
		Deadline:       now.Add(time.Hour),
	}
	require.NoError(t, task.Validate())

	blank := task
	blank.Title = ""
	assert.ErrorIs(t, blank.Validate(), ErrEmptyTitle)

	zero := task
	zero.PlannedMinutes = 0
	assert.ErrorIs(t, zero.Validate(), ErrInvalidMinutes)

	openThenClosed := task
	end := now.Add(10 * time.Minute)
	openThenClosed.Log = []Session{
		{Start: now},
		{Start: now, End: &end, Minutes: 10},
	}
	assert.Error(t, openThenClosed.Validate())
}

func TestClockParseAndFormat(t *testing.T) {
	c, err := ParseClock("19:05")
	require.NoError(t, err)
	assert.Equal(t, Clock{Hour: 19, Minute: 5}, c)
	assert.Equal(t, "19:05", c.String())

	_, err = ParseClock("25:00")
	assert.ErrorIs(t, err, ErrInvalidClock)
	_, err = ParseClock("evening")
	assert.ErrorIs(t, err, ErrInvalidClock)
}

func TestClockOnCombinesDate(t *testing.T) {
	day := time.Date(2026, 9, 1, 3, 14, 15, 0, time.UTC)
	c := Clock{Hour: 19, Minute: 30}
	at := c.On(day)
	assert.Equal(t, time.Date(2026, 9, 1, 19, 30, 0, 0, time.UTC), at)
}

func TestCloneIsDeep(t *testing.T) {
	start := time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC)
	end := start.Add(10 * time.Minute)
	task := Task{ID: 1, Title: "Report", PlannedMinutes: 30, Deadline: end,
		Log: []Session{{Start: start, End: &end, Minutes: 10}}}

	cp := task.Clone()
	cp.Log[0].Minutes = 99
	*cp.Log[0].End = end.Add(time.Hour)

	assert.Equal(t, 10, task.Log[0].Minutes)
	assert.Equal(t, end, *task.Log[0].End)
}
