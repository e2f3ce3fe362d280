// Package scheduler wakes the UI at interesting instants: when the
// evening window opens and when a deadline passes. It holds a min-heap
// of pending nudges and delivers them on a channel; it never touches
// application state itself.
package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"time"
)

var (
	ErrInvalidFireTime = errors.New("scheduler: invalid fire time")
	ErrStopped         = errors.New("scheduler: engine stopped")
)

type NudgeKind string

const (
	NudgeWindowOpen NudgeKind = "window_open"
	NudgeDeadline   NudgeKind = "deadline"
)

// Nudge is one scheduled wake-up. TaskID is zero for window nudges.
type Nudge struct {
	Kind   NudgeKind
	TaskID int64
	FireAt time.Time
}

type nudgeHeap []Nudge

func (h nudgeHeap) Len() int           { return len(h) }
func (h nudgeHeap) Less(i, j int) bool { return h[i].FireAt.Before(h[j].FireAt) }
func (h nudgeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *nudgeHeap) Push(x any)        { *h = append(*h, x.(Nudge)) }
func (h *nudgeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

type Engine struct {
	mu      sync.Mutex
	pending nudgeHeap
	out     chan Nudge
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
}

func New(buffer int) *Engine {
	if buffer <= 0 {
		buffer = 1
	}
	return &Engine{
		pending: make(nudgeHeap, 0),
		out:     make(chan Nudge, buffer),
		wakeup:  make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// C delivers due nudges. The channel closes when the engine stops.
func (e *Engine) C() <-chan Nudge {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.pending)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

// Schedule queues a nudge. Past fire times are allowed and fire
// immediately.
func (e *Engine) Schedule(n Nudge) error {
	if n.FireAt.IsZero() {
		return ErrInvalidFireTime
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}
	heap.Push(&e.pending, n)
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
	return nil
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			drainStop(timer)
		}
	}()

	for {
		next, ok := e.peek()
		if !ok {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := time.Until(next.FireAt)
		if wait < 0 {
			wait = 0
		}
		if timer == nil {
			timer = time.NewTimer(wait)
		} else {
			drainStop(timer)
			timer.Reset(wait)
		}

		select {
		case <-timer.C:
			for _, due := range e.popDue(time.Now()) {
				select {
				case e.out <- due:
				default:
					// Receiver is behind; the next wake-up re-derives
					// everything anyway.
				}
			}
		case <-e.wakeup:
		case <-e.stopCh:
			return
		}
	}
}

func (e *Engine) peek() (Nudge, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.pending) == 0 {
		return Nudge{}, false
	}
	return e.pending[0], true
}

func (e *Engine) popDue(now time.Time) []Nudge {
	e.mu.Lock()
	defer e.mu.Unlock()
	due := make([]Nudge, 0)
	for len(e.pending) > 0 && !e.pending[0].FireAt.After(now) {
		due = append(due, heap.Pop(&e.pending).(Nudge))
	}
	return due
}

func drainStop(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}

// NextWindowOpen computes the next instant the evening window opens:
// today at the start hour if that is still ahead, otherwise tomorrow.
func NextWindowOpen(now time.Time, startHour int) time.Time {
	y, m, d := now.Date()
	open := time.Date(y, m, d, startHour, 0, 0, 0, now.Location())
	if !open.After(now) {
		open = open.AddDate(0, 0, 1)
	}
	return open
}
