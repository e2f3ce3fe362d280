package scheduler

import (
	"testing"
	"time"
)

func TestScheduleRejectsZeroFireTime(t *testing.T) {
	e := New(4)
	e.Start()
	defer e.Stop()

	if err := e.Schedule(Nudge{Kind: NudgeDeadline}); err != ErrInvalidFireTime {
		t.Fatalf("expected ErrInvalidFireTime, got %v", err)
	}
}

func TestDeliversDueNudge(t *testing.T) {
	e := New(4)
	e.Start()
	defer e.Stop()

	n := Nudge{Kind: NudgeDeadline, TaskID: 42, FireAt: time.Now().Add(20 * time.Millisecond)}
	if err := e.Schedule(n); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	select {
	case got := <-e.C():
		if got.Kind != NudgeDeadline || got.TaskID != 42 {
			t.Fatalf("unexpected nudge %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("nudge never delivered")
	}
}

func TestDeliversInFireOrder(t *testing.T) {
	e := New(8)
	e.Start()
	defer e.Stop()

	base := time.Now().Add(30 * time.Millisecond)
	later := Nudge{Kind: NudgeDeadline, TaskID: 2, FireAt: base.Add(40 * time.Millisecond)}
	sooner := Nudge{Kind: NudgeWindowOpen, FireAt: base}
	if err := e.Schedule(later); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := e.Schedule(sooner); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	var got []Nudge
	timeout := time.After(2 * time.Second)
	for len(got) < 2 {
		select {
		case n := <-e.C():
			got = append(got, n)
		case <-timeout:
			t.Fatalf("only %d nudges delivered", len(got))
		}
	}
	if got[0].Kind != NudgeWindowOpen {
		t.Fatalf("expected window nudge first, got %+v", got[0])
	}
	if got[1].TaskID != 2 {
		t.Fatalf("expected deadline nudge second, got %+v", got[1])
	}
}

func TestPastFireTimeFiresImmediately(t *testing.T) {
	e := New(4)
	e.Start()
	defer e.Stop()

	n := Nudge{Kind: NudgeWindowOpen, FireAt: time.Now().Add(-time.Hour)}
	if err := e.Schedule(n); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	select {
	case <-e.C():
	case <-time.After(2 * time.Second):
		t.Fatal("past nudge never delivered")
	}
}

func TestStopClosesChannelAndRejectsSchedule(t *testing.T) {
	e := New(4)
	e.Start()
	e.Stop()

	if _, ok := <-e.C(); ok {
		t.Fatal("expected closed channel after Stop")
	}
	err := e.Schedule(Nudge{Kind: NudgeDeadline, FireAt: time.Now().Add(time.Hour)})
	if err != ErrStopped {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	e := New(1)
	e.Start()
	e.Stop()
	e.Stop()
}

func TestNextWindowOpen(t *testing.T) {
	morning := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	open := NextWindowOpen(morning, 19)
	want := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)
	if !open.Equal(want) {
		t.Fatalf("expected %v, got %v", want, open)
	}

	evening := time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC)
	open = NextWindowOpen(evening, 19)
	want = time.Date(2026, 9, 2, 19, 0, 0, 0, time.UTC)
	if !open.Equal(want) {
		t.Fatalf("expected %v, got %v", want, open)
	}

	exact := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)
	open = NextWindowOpen(exact, 19)
	if !open.Equal(want) {
		t.Fatalf("expected next day at the boundary, got %v", open)
	}
}
