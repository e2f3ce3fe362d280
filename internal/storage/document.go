// Package storage reads and writes the single JSON document that
// holds the whole application state: the task collection and the
// engagement counters. Every save rewrites the document in full.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nekoplan/nekoplan/internal/model"
	"github.com/nekoplan/nekoplan/internal/store"
)

// noneLiteral is the legacy marker for an unset last happy day,
// carried over from the earliest document schema.
const noneLiteral = "None"

// Document is the on-disk schema. Start times are "HH:MM" strings,
// date-times are RFC 3339, dates are "2006-01-02".
type Document struct {
	Tasks        []TaskRecord `json:"tasks"`
	Points       int          `json:"points"`
	HappyStreak  int          `json:"happy_streak"`
	LastHappyDay string       `json:"last_happy_day"`
}

type TaskRecord struct {
	ID               int64           `json:"id"`
	Title            string          `json:"title"`
	StartTime        string          `json:"start_time"`
	PlannedMinutes   int             `json:"planned_minutes"`
	PredictedMinutes int             `json:"predicted_minutes,omitempty"`
	Deadline         string          `json:"deadline"`
	Done             bool            `json:"done"`
	Log              []SessionRecord `json:"log"`
}

// SessionRecord has no end while the session is open.
type SessionRecord struct {
	Start   string `json:"start"`
	End     string `json:"end,omitempty"`
	Minutes int    `json:"minutes"`
}

// Default is the state of a fresh installation: no tasks and a new
// engagement profile.
func Default() store.Snapshot {
	return store.Snapshot{Tasks: []model.Task{}, Engagement: store.NewEngagement()}
}

// Save writes the snapshot atomically: encode, write a temp file next
// to the target, rename over it.
func Save(path string, snap store.Snapshot) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("storage: create dir: %w", err)
		}
	}
	payload, err := json.MarshalIndent(toDocument(snap), "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return fmt.Errorf("storage: write: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	return nil
}

// Load reads and decodes the document. The caller decides what a
// failure means; most callers want LoadOrDefault.
func Load(path string) (store.Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("storage: read: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return store.Snapshot{}, fmt.Errorf("storage: decode: %w", err)
	}
	snap, err := fromDocument(doc)
	if err != nil {
		return store.Snapshot{}, err
	}
	return snap, nil
}

// LoadOrDefault is the documented fallback loader: a missing file
// yields the fresh-install state, and so does a document that fails
// to parse. Nothing here is fatal.
func LoadOrDefault(path string) store.Snapshot {
	snap, err := Load(path)
	if err != nil {
		return Default()
	}
	return snap
}

// Exists reports whether a document is present, used to seed the very
// first run.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func toDocument(snap store.Snapshot) Document {
	doc := Document{
		Tasks:       make([]TaskRecord, 0, len(snap.Tasks)),
		Points:      snap.Engagement.Points,
		HappyStreak: snap.Engagement.HappyStreak,
	}
	if snap.Engagement.LastHappyDay.IsZero() {
		doc.LastHappyDay = noneLiteral
	} else {
		doc.LastHappyDay = snap.Engagement.LastHappyDay.Format(time.DateOnly)
	}
	for _, t := range snap.Tasks {
		rec := TaskRecord{
			ID:               t.ID,
			Title:            t.Title,
			StartTime:        t.StartTime.String(),
			PlannedMinutes:   t.PlannedMinutes,
			PredictedMinutes: t.PredictedMinutes,
			Deadline:         t.Deadline.Format(time.RFC3339),
			Done:             t.Done,
			Log:              make([]SessionRecord, 0, len(t.Log)),
		}
		for _, s := range t.Log {
			sr := SessionRecord{Start: s.Start.Format(time.RFC3339), Minutes: s.Minutes}
			if s.End != nil {
				sr.End = s.End.Format(time.RFC3339)
			}
			rec.Log = append(rec.Log, sr)
		}
		doc.Tasks = append(doc.Tasks, rec)
	}
	return doc
}

func fromDocument(doc Document) (store.Snapshot, error) {
	snap := store.Snapshot{
		Tasks: make([]model.Task, 0, len(doc.Tasks)),
		Engagement: store.Engagement{
			Points:      doc.Points,
			HappyStreak: doc.HappyStreak,
		},
	}
	if doc.LastHappyDay != "" && doc.LastHappyDay != noneLiteral {
		day, err := time.Parse(time.DateOnly, doc.LastHappyDay)
		if err != nil {
			return store.Snapshot{}, fmt.Errorf("storage: last happy day: %w", err)
		}
		snap.Engagement.LastHappyDay = day
	}
	for _, rec := range doc.Tasks {
		t := model.Task{
			ID:               rec.ID,
			Title:            rec.Title,
			PlannedMinutes:   rec.PlannedMinutes,
			PredictedMinutes: rec.PredictedMinutes,
			Done:             rec.Done,
			Log:              make([]model.Session, 0, len(rec.Log)),
		}
		clock, err := model.ParseClock(rec.StartTime)
		if err != nil {
			return store.Snapshot{}, fmt.Errorf("storage: task %d: %w", rec.ID, err)
		}
		t.StartTime = clock
		deadline, err := time.Parse(time.RFC3339, rec.Deadline)
		if err != nil {
			return store.Snapshot{}, fmt.Errorf("storage: task %d deadline: %w", rec.ID, err)
		}
		t.Deadline = deadline
		for _, sr := range rec.Log {
			start, err := time.Parse(time.RFC3339, sr.Start)
			if err != nil {
				return store.Snapshot{}, fmt.Errorf("storage: task %d session: %w", rec.ID, err)
			}
			sess := model.Session{Start: start, Minutes: sr.Minutes}
			if sr.End != "" {
				end, err := time.Parse(time.RFC3339, sr.End)
				if err != nil {
					return store.Snapshot{}, fmt.Errorf("storage: task %d session: %w", rec.ID, err)
				}
				sess.End = &end
			}
			t.Log = append(t.Log, sess)
		}
		snap.Tasks = append(snap.Tasks, t)
	}
	return snap, nil
}
