package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrEmptyTitle     = errors.New("model: task title is required")
	ErrInvalidMinutes = errors.New("model: planned minutes must be positive")
)

// Status is the list classification of a task at a point in time.
type Status string

const (
	StatusDone    Status = "Done"
	StatusOverdue Status = "Overdue"
	StatusPending Status = "Pending"
)

// Session is one timed interval of work against a task. A session is
// open while End is nil; Minutes is derived when the session closes
// and is never set independently.
type Session struct {
	Start   time.Time
	End     *time.Time
	Minutes int
}

func (s Session) Open() bool { return s.End == nil }

// CloseAt closes the session and derives the elapsed whole minutes,
// rounded down.
func (s *Session) CloseAt(end time.Time) {
	e := end
	s.End = &e
	s.Minutes = int(end.Sub(s.Start).Minutes())
}

// Task is a user-defined unit of work with a deadline and a planned
// duration. IDs are assigned once at creation and never recycled.
type Task struct {
	ID             int64
	Title          string
	StartTime      Clock
	PlannedMinutes int
	// PredictedMinutes is computed once at creation when the predictor
	// is enabled; zero means no prediction was made.
	PredictedMinutes int
	Deadline         time.Time
	Done             bool
	// Log is append-only; at most the last entry may be open.
	Log []Session
}

// OpenSession returns the index of the open session, if any.
func (t Task) OpenSession() (int, bool) {
	if n := len(t.Log); n > 0 && t.Log[n-1].Open() {
		return n - 1, true
	}
	return 0, false
}

// ClosedMinutes returns the derived minutes of every closed session,
// in log order. These are the predictor's samples.
func (t Task) ClosedMinutes() []int {
	out := make([]int, 0, len(t.Log))
	for _, s := range t.Log {
		if !s.Open() {
			out = append(out, s.Minutes)
		}
	}
	return out
}

// StatusAt classifies the task for list display: Done wins, then
// Overdue when the deadline has passed, else Pending.
func (t Task) StatusAt(now time.Time) Status {
	if t.Done {
		return StatusDone
	}
	if t.Deadline.Before(now) {
		return StatusOverdue
	}
	return StatusPending
}

// HoursLate reports whole hours past the deadline; zero when the
// deadline has not passed.
func (t Task) HoursLate(now time.Time) int {
	if !t.Deadline.Before(now) {
		return 0
	}
	return int(now.Sub(t.Deadline).Hours())
}

func (t Task) Validate() error {
	if t.ID == 0 {
		return errors.New("model: task id is required")
	}
	if t.Title == "" {
		return ErrEmptyTitle
	}
	if t.PlannedMinutes <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMinutes, t.PlannedMinutes)
	}
	if t.Deadline.IsZero() {
		return errors.New("model: task deadline is required")
	}
	for i, s := range t.Log {
		if s.Open() && i != len(t.Log)-1 {
			return errors.New("model: only the last session may be open")
		}
		if !s.Open() && s.End.Before(s.Start) {
			return errors.New("model: session end precedes start")
		}
	}
	return nil
}

// Clone deep-copies the task, including the session log.
func (t Task) Clone() Task {
	out := t
	out.Log = make([]Session, len(t.Log))
	for i, s := range t.Log {
		out.Log[i] = s
		if s.End != nil {
			e := *s.End
			out.Log[i].End = &e
		}
	}
	return out
}
