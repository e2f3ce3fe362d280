package store

import "time"

const (
	// StartingPoints is the balance a fresh profile begins with.
	StartingPoints = 100

	overrunPenalty = 10
)

// Engagement is the process-wide motivation state: a points balance
// and a consecutive happy-day counter. Points only ever go down and
// the streak only ever goes up; neither is clamped.
type Engagement struct {
	Points      int
	HappyStreak int
	// LastHappyDay guards against a second streak increment within the
	// same calendar day. Zero means the streak has never fired.
	LastHappyDay time.Time
}

func NewEngagement() Engagement {
	return Engagement{Points: StartingPoints}
}

// Penalize deducts the overrun penalty. The balance may go negative.
func (e *Engagement) Penalize() {
	e.Points -= overrunPenalty
}

// MarkHappyDay bumps the streak when every task is done, at most once
// per calendar day. Reports whether the streak was incremented.
func (e *Engagement) MarkHappyDay(now time.Time, allDone bool) bool {
	if !allDone {
		return false
	}
	today := dateOf(now)
	if !e.LastHappyDay.IsZero() && dateOf(e.LastHappyDay).Equal(today) {
		return false
	}
	e.HappyStreak++
	e.LastHappyDay = today
	return true
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
