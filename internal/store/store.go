// Package store holds the in-memory task collection and the
// engagement state. It never touches the filesystem; the update layer
// snapshots it through the storage adapter after each mutation.
package store

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/nekoplan/nekoplan/internal/model"
)

var (
	ErrNotFound       = errors.New("store: task not found")
	ErrSessionRunning = errors.New("store: a session is already running")
	ErrNoOpenSession  = errors.New("store: no open session to close")
)

type Store struct {
	tasks      []*model.Task
	lastID     int64
	engagement Engagement
	predictOn  bool
}

type Option func(*Store)

// WithoutPredictor disables predicted-minutes computation on Add.
func WithoutPredictor() Option {
	return func(s *Store) { s.predictOn = false }
}

func New(opts ...Option) *Store {
	s := &Store{
		engagement: NewEngagement(),
		predictOn:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot is the full persistable state: every task plus the
// engagement counters.
type Snapshot struct {
	Tasks      []model.Task
	Engagement Engagement
}

// FromSnapshot rebuilds a store from persisted state. The id
// high-water mark is restored so ids of deleted tasks are never
// recycled.
func FromSnapshot(snap Snapshot, opts ...Option) *Store {
	s := New(opts...)
	s.engagement = snap.Engagement
	s.tasks = make([]*model.Task, 0, len(snap.Tasks))
	for _, t := range snap.Tasks {
		cp := t.Clone()
		s.tasks = append(s.tasks, &cp)
		if t.ID > s.lastID {
			s.lastID = t.ID
		}
	}
	return s
}

func (s *Store) Snapshot() Snapshot {
	out := Snapshot{
		Tasks:      make([]model.Task, 0, len(s.tasks)),
		Engagement: s.engagement,
	}
	for _, t := range s.tasks {
		out.Tasks = append(out.Tasks, t.Clone())
	}
	return out
}

// Add creates a task with a fresh id. The id is the creation
// timestamp in milliseconds, bumped past the previous id on
// collision so ids stay strictly monotonic.
func (s *Store) Add(title string, start model.Clock, planned int, deadline, now time.Time) (*model.Task, error) {
	if title == "" {
		return nil, model.ErrEmptyTitle
	}
	if planned <= 0 {
		return nil, fmt.Errorf("%w: %d", model.ErrInvalidMinutes, planned)
	}
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id

	t := &model.Task{
		ID:             id,
		Title:          title,
		StartTime:      start,
		PlannedMinutes: planned,
		Deadline:       deadline,
		Log:            []model.Session{},
	}
	if s.predictOn {
		t.PredictedMinutes = s.Predict(title, planned)
	}
	s.tasks = append(s.tasks, t)
	return t, nil
}

func (s *Store) Get(id int64) (*model.Task, error) {
	for _, t := range s.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
}

// Tasks returns the collection in insertion order.
func (s *Store) Tasks() []*model.Task {
	out := make([]*model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Store) Len() int { return len(s.tasks) }

// Unfinished returns undone tasks ordered by ascending deadline;
// ties keep insertion order.
func (s *Store) Unfinished() []*model.Task {
	out := make([]*model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !t.Done {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Deadline.Before(out[j].Deadline)
	})
	return out
}

// Overdue returns unfinished tasks whose deadline has passed,
// ordered by ascending deadline.
func (s *Store) Overdue(now time.Time) []*model.Task {
	out := make([]*model.Task, 0)
	for _, t := range s.Unfinished() {
		if t.Deadline.Before(now) {
			out = append(out, t)
		}
	}
	return out
}

// Current is the earliest-deadline unfinished task, the one the app
// highlights as "do this next".
func (s *Store) Current() (*model.Task, bool) {
	unfinished := s.Unfinished()
	if len(unfinished) == 0 {
		return nil, false
	}
	return unfinished[0], true
}

// AllDone reports whether the collection is non-empty and every task
// is done. This is the streak condition.
func (s *Store) AllDone() bool {
	if len(s.tasks) == 0 {
		return false
	}
	for _, t := range s.tasks {
		if !t.Done {
			return false
		}
	}
	return true
}

// StartSession opens a session on the task. A task can have at most
// one open session.
func (s *Store) StartSession(id int64, now time.Time) error {
	t, err := s.Get(id)
	if err != nil {
		return err
	}
	if _, open := t.OpenSession(); open {
		return fmt.Errorf("%w: task %d", ErrSessionRunning, id)
	}
	t.Log = append(t.Log, model.Session{Start: now})
	return nil
}

// CompleteSession closes the open session, derives its minutes, marks
// the task done, and deducts points when the session overran its
// plan. Repeat calls fail with ErrNoOpenSession; the penalty is never
// applied twice.
func (s *Store) CompleteSession(id int64, now time.Time) (model.Session, error) {
	t, err := s.Get(id)
	if err != nil {
		return model.Session{}, err
	}
	idx, open := t.OpenSession()
	if !open {
		return model.Session{}, fmt.Errorf("%w: task %d", ErrNoOpenSession, id)
	}
	t.Log[idx].CloseAt(now)
	t.Done = true
	if t.Log[idx].Minutes > t.PlannedMinutes {
		s.engagement.Penalize()
	}
	return t.Log[idx], nil
}

// Edit updates the title and/or planned minutes. Nil fields are left
// untouched; a supplied title must be non-empty.
func (s *Store) Edit(id int64, title *string, planned *int) error {
	t, err := s.Get(id)
	if err != nil {
		return err
	}
	if title != nil {
		if *title == "" {
			return model.ErrEmptyTitle
		}
		t.Title = *title
	}
	if planned != nil {
		if *planned <= 0 {
			return fmt.Errorf("%w: %d", model.ErrInvalidMinutes, *planned)
		}
		t.PlannedMinutes = *planned
	}
	return nil
}

// Remove deletes the task permanently. Points and streak are left
// untouched, and the id is never reused.
func (s *Store) Remove(id int64) error {
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrNotFound, id)
}

func (s *Store) Engagement() *Engagement {
	return &s.engagement
}
