package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekoplan/nekoplan/internal/model"
)

var evening = model.Clock{Hour: 19, Minute: 0}

func TestAddRejectsEmptyTitle(t *testing.T) {
	s := New()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	_, err := s.Add("", evening, 30, now.Add(time.Hour), now)
	assert.ErrorIs(t, err, model.ErrEmptyTitle)
	assert.Equal(t, 0, s.Len())

	_, err = s.Add("Report", evening, 0, now.Add(time.Hour), now)
	assert.ErrorIs(t, err, model.ErrInvalidMinutes)
}

func TestAddAssignsMonotonicIDs(t *testing.T) {
	s := New()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	a, err := s.Add("one", evening, 30, now.Add(time.Hour), now)
	require.NoError(t, err)
	// Same creation instant must still yield a fresh id.
	b, err := s.Add("two", evening, 30, now.Add(time.Hour), now)
	require.NoError(t, err)

	assert.Equal(t, now.UnixMilli(), a.ID)
	assert.Greater(t, b.ID, a.ID)
	assert.False(t, a.Done)
	assert.Empty(t, a.Log)
}

func TestIDsNotRecycledAfterRemove(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	s := New()
	a, _ := s.Add("one", evening, 30, now.Add(time.Hour), now)
	require.NoError(t, s.Remove(a.ID))

	b, err := s.Add("two", evening, 30, now.Add(time.Hour), now)
	require.NoError(t, err)
	assert.Greater(t, b.ID, a.ID)
}

func TestUnfinishedSortedByDeadlineStable(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	s := New()
	late, _ := s.Add("late", evening, 30, now.Add(3*time.Hour), now)
	firstTie, _ := s.Add("tie-a", evening, 30, now.Add(time.Hour), now)
	secondTie, _ := s.Add("tie-b", evening, 30, now.Add(time.Hour), now)
	done, _ := s.Add("done", evening, 30, now.Add(time.Minute), now)
	done.Done = true

	got := s.Unfinished()
	require.Len(t, got, 3)
	assert.Equal(t, firstTie.ID, got[0].ID)
	assert.Equal(t, secondTie.ID, got[1].ID)
	assert.Equal(t, late.ID, got[2].ID)
}

func TestOverdueAndCurrent(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	s := New()
	past, _ := s.Add("past", evening, 30, now.Add(-time.Hour), now)
	future, _ := s.Add("future", evening, 30, now.Add(time.Hour), now)

	overdue := s.Overdue(now)
	require.Len(t, overdue, 1)
	assert.Equal(t, past.ID, overdue[0].ID)

	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, past.ID, current.ID)

	past.Done = true
	current, ok = s.Current()
	require.True(t, ok)
	assert.Equal(t, future.ID, current.ID)

	future.Done = true
	_, ok = s.Current()
	assert.False(t, ok)
}

func TestStartSessionErrors(t *testing.T) {
	now := time.Date(2026, 9, 1, 19, 30, 0, 0, time.UTC)
	s := New()
	task, _ := s.Add("Report", evening, 30, now.Add(time.Hour), now)

	assert.ErrorIs(t, s.StartSession(task.ID+1, now), ErrNotFound)

	require.NoError(t, s.StartSession(task.ID, now))
	assert.ErrorIs(t, s.StartSession(task.ID, now.Add(time.Minute)), ErrSessionRunning)

	require.Len(t, task.Log, 1)
	assert.True(t, task.Log[0].Open())
	assert.Equal(t, now, task.Log[0].Start)
}

func TestCompleteSessionDerivesMinutesAndMarksDone(t *testing.T) {
	now := time.Date(2026, 9, 1, 19, 30, 0, 0, time.UTC)
	s := New()
	task, _ := s.Add("Report", evening, 30, now.Add(time.Hour), now)
	require.NoError(t, s.StartSession(task.ID, now))

	sess, err := s.CompleteSession(task.ID, now.Add(25*time.Minute+40*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 25, sess.Minutes)
	assert.True(t, task.Done)
	assert.Equal(t, StartingPoints, s.Engagement().Points)
}

func TestCompleteSessionOverrunPenalizesOnce(t *testing.T) {
	now := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)
	s := New()
	task, _ := s.Add("Report", evening, 30, now.Add(2*time.Hour), now)
	require.NoError(t, s.StartSession(task.ID, now))

	_, err := s.CompleteSession(task.ID, now.Add(31*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, StartingPoints-10, s.Engagement().Points)

	// Repeat completion is rejected, not double-penalized.
	_, err = s.CompleteSession(task.ID, now.Add(40*time.Minute))
	assert.ErrorIs(t, err, ErrNoOpenSession)
	_, err = s.CompleteSession(task.ID, now.Add(50*time.Minute))
	assert.ErrorIs(t, err, ErrNoOpenSession)
	assert.Equal(t, StartingPoints-10, s.Engagement().Points)
}

func TestCompleteSessionWithoutStart(t *testing.T) {
	now := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)
	s := New()
	task, _ := s.Add("Report", evening, 30, now.Add(time.Hour), now)

	_, err := s.CompleteSession(task.ID, now)
	assert.ErrorIs(t, err, ErrNoOpenSession)
	assert.False(t, task.Done)
}

func TestEdit(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	s := New()
	task, _ := s.Add("Report", evening, 30, now.Add(time.Hour), now)

	title := "Report v2"
	planned := 45
	require.NoError(t, s.Edit(task.ID, &title, &planned))
	assert.Equal(t, "Report v2", task.Title)
	assert.Equal(t, 45, task.PlannedMinutes)

	empty := ""
	assert.ErrorIs(t, s.Edit(task.ID, &empty, nil), model.ErrEmptyTitle)
	assert.Equal(t, "Report v2", task.Title)

	bad := -5
	assert.ErrorIs(t, s.Edit(task.ID, nil, &bad), model.ErrInvalidMinutes)

	assert.ErrorIs(t, s.Edit(task.ID+1, &title, nil), ErrNotFound)
}

func TestRemoveMissingLeavesStoreUnchanged(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	s := New()
	task, _ := s.Add("Report", evening, 30, now.Add(time.Hour), now)

	assert.ErrorIs(t, s.Remove(task.ID+99), ErrNotFound)
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Remove(task.ID))
	assert.Equal(t, 0, s.Len())
}

func TestAllDone(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	s := New()
	assert.False(t, s.AllDone(), "empty store never counts as all done")

	task, _ := s.Add("Report", evening, 30, now.Add(time.Hour), now)
	assert.False(t, s.AllDone())

	task.Done = true
	assert.True(t, s.AllDone())
}

func TestSnapshotRoundTripAndIsolation(t *testing.T) {
	now := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)
	s := New()
	task, _ := s.Add("Report", evening, 30, now.Add(time.Hour), now)
	require.NoError(t, s.StartSession(task.ID, now))
	_, err := s.CompleteSession(task.ID, now.Add(40*time.Minute))
	require.NoError(t, err)

	snap := s.Snapshot()
	restored := FromSnapshot(snap)

	assert.Equal(t, snap, restored.Snapshot())
	assert.Equal(t, StartingPoints-10, restored.Engagement().Points)

	// Mutating the snapshot must not reach the store.
	snap.Tasks[0].Title = "tampered"
	got, err := s.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Report", got.Title)

	// Restored store continues the id sequence past persisted ids.
	next, err := restored.Add("next", evening, 30, now.Add(time.Hour), time.UnixMilli(0).UTC())
	require.NoError(t, err)
	assert.Greater(t, next.ID, task.ID)
}
