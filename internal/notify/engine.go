// Package notify derives the nudge state shown to the user: urgency
// classification, the evening window check, and the mascot face. All
// functions are pure; callers sample "now" once per interaction cycle
// and pass it through.
package notify

import (
	"math"
	"time"

	"github.com/nekoplan/nekoplan/internal/model"
	"github.com/nekoplan/nekoplan/internal/store"
)

// State is the overall urgency, evaluated in priority order: a passed
// deadline beats a missed advisory start beats everything-done.
type State string

const (
	StateOverdue   State = "overdue"
	StateLateStart State = "late_start"
	StateAllDone   State = "all_done"
	StateNormal    State = "normal"
)

// Window is the inclusive hour range during which the nudge panel is
// shown proactively.
type Window struct {
	StartHour int
	EndHour   int
}

// DefaultWindow is the 19:00-22:59 evening window.
func DefaultWindow() Window {
	return Window{StartHour: 19, EndHour: 22}
}

func (w Window) Contains(now time.Time) bool {
	h := now.Hour()
	return h >= w.StartHour && h <= w.EndHour
}

// Snapshot is everything one render cycle needs from the engine.
type Snapshot struct {
	State   State
	Face    string
	Message string

	Current    *model.Task
	Unfinished []*model.Task
	Overdue    []*model.Task

	// RemainingMinutes counts from now until today's advisory start of
	// the current task; negative means the start has passed. Display
	// information only, valid when Current is set.
	RemainingMinutes int

	// WindowActive is true when the evening window covers now and
	// there is a current task to nudge about.
	WindowActive bool
}

// Evaluate classifies the store at a single instant.
func Evaluate(s *store.Store, now time.Time, win Window) Snapshot {
	snap := Snapshot{
		Unfinished: s.Unfinished(),
		Overdue:    s.Overdue(now),
	}
	if current, ok := s.Current(); ok {
		snap.Current = current
		startAt := current.StartTime.On(now)
		snap.RemainingMinutes = int(math.Floor(startAt.Sub(now).Minutes()))
	}
	snap.WindowActive = snap.Current != nil && win.Contains(now)

	switch {
	case len(snap.Overdue) > 0:
		snap.State = StateOverdue
	case snap.Current != nil && now.After(snap.Current.StartTime.On(now)):
		snap.State = StateLateStart
	case len(snap.Unfinished) == 0 && s.Len() > 0:
		snap.State = StateAllDone
	default:
		snap.State = StateNormal
	}
	snap.Face, snap.Message = mascot(snap.State)
	return snap
}

// mascot maps urgency to the cat face and message shown in the nudge
// panel.
func mascot(state State) (face, message string) {
	switch state {
	case StateOverdue:
		return "😰", "A deadline has passed..."
	case StateLateStart:
		return "😰", "Time to get started."
	case StateAllDone:
		return "😺", "All done for today!"
	default:
		return "😼", "What's on for today?"
	}
}
