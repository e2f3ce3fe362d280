package update

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nekoplan/nekoplan/internal/scheduler"
	"github.com/nekoplan/nekoplan/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{minuteTickCmd()}
	if m.Scheduler != nil {
		m.scheduleWindowNudge(m.clock())
		m.scheduleDeadlineNudges(m.clock())
		cmds = append(cmds, waitForNudgeCmd(m.Scheduler.C()))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		keyStr := typed.String()
		if keyStr == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		if m.Palette.Active {
			return m.handlePaletteKey(typed), nil
		}
		if m.Form.Active {
			return m.handleAddFormKey(typed), nil
		}
		if m.Edit.Active {
			return m.handleEditFormKey(typed), nil
		}

		switch keyStr {
		case "/":
			m.Palette = CommandPaletteState{Active: true}
			m.commandInput.SetValue("")
			m.commandInput.Focus()
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.Keys.Tasks:
			m.CurrentView = ViewTasks
			return m, nil
		case m.Keys.Calendar:
			m.CurrentView = ViewCalendar
			return m, nil
		case m.Keys.Log:
			m.CurrentView = ViewLog
			return m, nil
		case m.Keys.Status:
			m.CurrentView = ViewStatus
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			return m, nil
		case m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}
		if m.CurrentView == ViewTasks {
			return m.handleTasksKey(typed), nil
		}
		return m, nil

	case MinuteTickMsg:
		now := m.clock()
		m.refreshNudge(now)
		m.markHappyDayIfAllDone(now)
		return m, minuteTickCmd()

	case NudgeDueMsg:
		m = m.onNudgeDue(typed.Event)
		if m.Scheduler != nil {
			return m, waitForNudgeCmd(m.Scheduler.C())
		}
		return m, nil

	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil

	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil

	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	}

	return m, nil
}

// onNudgeDue re-derives urgency at a fresh instant; the event only says
// why we woke up.
func (m Model) onNudgeDue(ev scheduler.Nudge) Model {
	now := m.clock()
	m.refreshNudge(now)

	switch ev.Kind {
	case scheduler.NudgeWindowOpen:
		if m.Nudge.WindowActive {
			m.Status = StatusBar{Text: fmt.Sprintf("evening check-in: %s", m.Nudge.Message)}
			if m.Nudge.Current != nil {
				m.notifyDesktop("nekoplan", fmt.Sprintf("%s %s", m.Nudge.Face, m.Nudge.Current.Title))
			}
		}
		m.scheduleWindowNudge(now)
	case scheduler.NudgeDeadline:
		if task, err := m.Store.Get(ev.TaskID); err == nil && !task.Done {
			m.Status = StatusBar{Text: fmt.Sprintf("deadline passed: %s", task.Title), IsError: true}
			m.notifyDesktop("nekoplan", fmt.Sprintf("deadline passed: %s", task.Title))
		}
	}
	return m
}

func (m Model) scheduleWindowNudge(now time.Time) {
	if m.Scheduler == nil {
		return
	}
	open := scheduler.NextWindowOpen(now, m.Config.NightStartHour)
	_ = m.Scheduler.Schedule(scheduler.Nudge{Kind: scheduler.NudgeWindowOpen, FireAt: open})
}

func (m Model) scheduleDeadlineNudges(now time.Time) {
	if m.Scheduler == nil {
		return
	}
	for _, t := range m.Store.Unfinished() {
		if t.Deadline.After(now) {
			_ = m.Scheduler.Schedule(scheduler.Nudge{Kind: scheduler.NudgeDeadline, TaskID: t.ID, FireAt: t.Deadline})
		}
	}
}

func (m Model) View() string {
	now := m.clock()

	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	leftPane := ""
	switch {
	case m.Form.Active:
		leftPane = m.renderAddForm()
	case m.Edit.Active:
		leftPane = m.renderEditForm()
	default:
		switch m.CurrentView {
		case ViewCalendar:
			m.syncCalendarTable(now)
			leftPane = m.renderCalendarPanel(now)
		case ViewLog:
			leftPane = m.renderLogPanel(now)
		case ViewStatus:
			leftPane = m.renderStatusPanel()
		default:
			leftPane = m.renderTasksPanel(now)
		}
	}

	rightPane := m.renderNudgePanel(now)
	if palette := m.renderCommandPalette(); palette != "" {
		rightPane += "\n\n" + palette
	}
	if help := m.renderHelpIfVisible(); help != "" {
		rightPane = help
	}

	nudgeLine := ""
	if m.Nudge.WindowActive && m.Nudge.Current != nil {
		nudgeLine = fmt.Sprintf("%s  %s  (%s @ %s)", m.Nudge.Face, m.Nudge.Message, m.Nudge.Current.Title, m.Nudge.Current.StartTime)
	}

	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("nekoplan | view: %s | points: %d | streak: %d", m.CurrentView, m.Store.Engagement().Points, m.Store.Engagement().HappyStreak),
		LeftPane:   leftPane,
		RightPane:  rightPane,
		StatusLine: status,
		Nudge:      nudgeLine,
		Footer:     fmt.Sprintf("keys: %s tasks | %s cal | %s log | %s status | / cmd | %s help | %s quit", m.Keys.Tasks, m.Keys.Calendar, m.Keys.Log, m.Keys.Status, m.Keys.Help, m.Keys.Quit),
	})
}

func waitForNudgeCmd(ch <-chan scheduler.Nudge) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return NudgeDueMsg{Event: ev}
	}
}

func minuteTickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(time.Time) tea.Msg {
		return MinuteTickMsg{}
	})
}
