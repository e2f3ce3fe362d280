package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closedTask(t *testing.T, s *Store, title string, minutes int, now time.Time) {
	t.Helper()
	task, err := s.Add(title, evening, 60, now.Add(time.Hour), now)
	require.NoError(t, err)
	require.NoError(t, s.StartSession(task.ID, now))
	_, err = s.CompleteSession(task.ID, now.Add(time.Duration(minutes)*time.Minute))
	require.NoError(t, err)
}

func TestPredictPadsWithFewSamples(t *testing.T) {
	now := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)
	s := New(WithoutPredictor())
	closedTask(t, s, "Report", 20, now)
	closedTask(t, s, "Report", 40, now)

	// Two samples is below the threshold: 30 * 1.2 = 36.
	assert.Equal(t, 36, s.Predict("Report", 30))
}

func TestPredictMeanWithEnoughSamples(t *testing.T) {
	now := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)
	s := New(WithoutPredictor())
	closedTask(t, s, "Report", 20, now)
	closedTask(t, s, "Report", 30, now)
	closedTask(t, s, "Report", 40, now)

	assert.Equal(t, 30, s.Predict("Report", 30))
}

func TestPredictMeanTruncatesTowardZero(t *testing.T) {
	now := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)
	s := New(WithoutPredictor())
	closedTask(t, s, "Report", 20, now)
	closedTask(t, s, "Report", 30, now)
	closedTask(t, s, "Report", 49, now)

	// mean 33 = 99/3; 100/3 would truncate to 33 as well.
	assert.Equal(t, 33, s.Predict("Report", 30))
}

func TestPredictTitleMatchIsExact(t *testing.T) {
	now := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)
	s := New(WithoutPredictor())
	closedTask(t, s, "report", 200, now)
	closedTask(t, s, "report", 200, now)
	closedTask(t, s, "report", 200, now)

	// Case differs, so the padded estimate applies.
	assert.Equal(t, 36, s.Predict("Report", 30))
}

func TestPredictIgnoresDeletedTasks(t *testing.T) {
	now := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)
	s := New(WithoutPredictor())
	closedTask(t, s, "Report", 20, now)
	closedTask(t, s, "Report", 30, now)
	closedTask(t, s, "Report", 40, now)

	require.Equal(t, 30, s.Predict("Report", 30))

	for _, task := range s.Tasks() {
		require.NoError(t, s.Remove(task.ID))
	}
	// History went with the tasks; back to padding.
	assert.Equal(t, 36, s.Predict("Report", 30))
}

func TestAddRecordsPredictionWhenEnabled(t *testing.T) {
	now := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)
	s := New()
	task, err := s.Add("Report", evening, 30, now.Add(time.Hour), now)
	require.NoError(t, err)
	assert.Equal(t, 36, task.PredictedMinutes)

	off := New(WithoutPredictor())
	plain, err := off.Add("Report", evening, 30, now.Add(time.Hour), now)
	require.NoError(t, err)
	assert.Zero(t, plain.PredictedMinutes)
}
