package update

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nekoplan/nekoplan/internal/model"
	"github.com/nekoplan/nekoplan/internal/scheduler"
	"github.com/nekoplan/nekoplan/internal/storage"
)

// visibleTasks lists unfinished tasks in deadline order followed by
// finished ones, which is the order the task panel shows.
func (m Model) visibleTasks() []*model.Task {
	out := m.Store.Unfinished()
	for _, t := range m.Store.Tasks() {
		if t.Done {
			out = append(out, t)
		}
	}
	return out
}

func (m *Model) syncCursorToVisible() {
	tasks := m.visibleTasks()
	if len(tasks) == 0 {
		m.Cursor = 0
		m.SelectedID = 0
		return
	}
	if m.Cursor >= len(tasks) {
		m.Cursor = len(tasks) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	m.SelectedID = tasks[m.Cursor].ID
}

func (m Model) selectedTask() (*model.Task, bool) {
	tasks := m.visibleTasks()
	if m.Cursor < 0 || m.Cursor >= len(tasks) {
		return nil, false
	}
	return tasks[m.Cursor], true
}

func (m Model) handleTasksKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
		m.syncCursorToVisible()
	case "down", "j":
		if m.Cursor < len(m.visibleTasks())-1 {
			m.Cursor++
		}
		m.syncCursorToVisible()
	case "a":
		m.openAddForm()
	case "s":
		m.startSelected()
	case "c":
		m.completeSelected()
	case "e":
		m.openEditForm()
	case "d":
		m.deleteSelected()
	}
	return m
}

func (m *Model) startSelected() {
	task, ok := m.selectedTask()
	if !ok {
		m.Status = StatusBar{Text: "no task selected", IsError: true}
		return
	}
	// The quick key only starts the nudged task during the evening
	// window; the palette can start anything.
	now := m.clock()
	cur, hasCur := m.Store.Current()
	if !hasCur || cur.ID != task.ID || !m.Config.Window().Contains(now) {
		m.Status = StatusBar{Text: "sessions start on the current task during the evening window (use /start <id> to override)", IsError: true}
		return
	}
	m.startTask(task.ID)
}

func (m *Model) startTask(id int64) {
	now := m.clock()
	if err := m.Store.StartSession(id, now); err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.LastError = err
		return
	}
	task, _ := m.Store.Get(id)
	m.Status = StatusBar{Text: fmt.Sprintf("session started: %s", task.Title)}
	m.refreshNudge(now)
	m.persist()
}

func (m *Model) completeSelected() {
	task, ok := m.selectedTask()
	if !ok {
		m.Status = StatusBar{Text: "no task selected", IsError: true}
		return
	}
	m.completeTask(task.ID)
}

func (m *Model) completeTask(id int64) {
	now := m.clock()
	task, err := m.Store.Get(id)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.LastError = err
		return
	}
	title := task.Title
	sess, err := m.Store.CompleteSession(id, now)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.LastError = err
		return
	}

	text := fmt.Sprintf("done: %s (%dm)", title, sess.Minutes)
	if sess.Minutes > task.PlannedMinutes {
		text = fmt.Sprintf("done: %s (%dm, over plan, points now %d)", title, sess.Minutes, m.Store.Engagement().Points)
	}
	if m.Store.Engagement().MarkHappyDay(now, m.Store.AllDone()) {
		text += fmt.Sprintf(" | happy streak: %d", m.Store.Engagement().HappyStreak)
		m.notifyDesktop("nekoplan", "All done for today! 😺")
	}
	m.Status = StatusBar{Text: text}
	m.refreshNudge(now)
	m.syncCursorToVisible()
	m.persist()
}

func (m *Model) deleteSelected() {
	task, ok := m.selectedTask()
	if !ok {
		m.Status = StatusBar{Text: "no task selected", IsError: true}
		return
	}
	m.deleteTask(task.ID)
}

func (m *Model) deleteTask(id int64) {
	if err := m.Store.Remove(id); err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.LastError = err
		return
	}
	m.Status = StatusBar{Text: "task deleted"}
	m.refreshNudge(m.clock())
	m.syncCursorToVisible()
	m.persist()
}

func (m *Model) addTask(title string, start model.Clock, planned int, deadline time.Time) (*model.Task, error) {
	now := m.clock()
	task, err := m.Store.Add(title, start, planned, deadline, now)
	if err != nil {
		return nil, err
	}
	if m.Scheduler != nil && deadline.After(now) {
		if err := m.Scheduler.Schedule(scheduler.Nudge{Kind: scheduler.NudgeDeadline, TaskID: task.ID, FireAt: deadline}); err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
		}
	}
	m.refreshNudge(now)
	m.syncCursorToVisible()
	m.persist()
	return task, nil
}

// markHappyDayIfAllDone feeds the evaluation cycle into the streak:
// any cycle that sees every task done may grow it, not only the
// completing keypress. A new day with everything still done counts.
func (m *Model) markHappyDayIfAllDone(now time.Time) bool {
	if !m.Store.Engagement().MarkHappyDay(now, m.Store.AllDone()) {
		return false
	}
	m.Status = StatusBar{Text: fmt.Sprintf("happy streak: %d", m.Store.Engagement().HappyStreak)}
	m.persist()
	return true
}

// persist writes the whole store to disk. A failed write is surfaced
// in the status bar; the in-memory change stands.
func (m *Model) persist() {
	if err := storage.Save(m.Config.StorePath, m.Store.Snapshot()); err != nil {
		m.Status = StatusBar{Text: fmt.Sprintf("save error: %v", err), IsError: true}
		m.LastError = err
	}
}
