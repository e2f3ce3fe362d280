package update

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nekoplan/nekoplan/internal/commands"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Palette = CommandPaletteState{}
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m
		}
		updated, _ := m.commandInput.Update(msg)
		m.commandInput = updated
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

// resolveTarget maps a palette task reference onto a concrete id. A
// bare reference means the currently nudged task.
func (m *Model) resolveTarget(target commands.Target) (int64, error) {
	if !target.Current() {
		return target.ID, nil
	}
	m.refreshNudge(m.clock())
	if m.Nudge.Current == nil {
		return 0, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no current task"}
	}
	return m.Nudge.Current.ID, nil
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.Palette = CommandPaletteState{}
		m.commandInput.SetValue("")
		return m
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			m.openAddForm()
			m.titleInput.SetValue(a.Title)
			return commands.Result{Message: fmt.Sprintf("fill in schedule for: %s", a.Title)}, nil
		},
		Start: func(a commands.StartArgs) (commands.Result, error) {
			id, err := m.resolveTarget(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			m.startTask(id)
			if m.Status.IsError {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: m.Status.Text}
			}
			return commands.Result{Message: m.Status.Text}, nil
		},
		Done: func(a commands.DoneArgs) (commands.Result, error) {
			id, err := m.resolveTarget(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			m.completeTask(id)
			if m.Status.IsError {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: m.Status.Text}
			}
			return commands.Result{Message: m.Status.Text}, nil
		},
		Edit: func(a commands.EditArgs) (commands.Result, error) {
			id, err := m.resolveTarget(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			var title *string
			var planned *int
			switch a.Field {
			case "title":
				title = &a.Value
			case "minutes":
				v, err := strconv.Atoi(a.Value)
				if err != nil {
					return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "minutes must be a number"}
				}
				planned = &v
			}
			if err := m.Store.Edit(id, title, planned); err != nil {
				return commands.Result{}, err
			}
			m.refreshNudge(m.clock())
			m.persist()
			return commands.Result{Message: fmt.Sprintf("task %d updated", id)}, nil
		},
		Delete: func(a commands.DeleteArgs) (commands.Result, error) {
			if err := m.Store.Remove(a.Target.ID); err != nil {
				return commands.Result{}, err
			}
			m.refreshNudge(m.clock())
			m.syncCursorToVisible()
			m.persist()
			return commands.Result{Message: fmt.Sprintf("task %d deleted", a.Target.ID)}, nil
		},
		Show: func(a commands.ShowArgs) (commands.Result, error) {
			switch a.Subject {
			case "tasks":
				m.CurrentView = ViewTasks
			case "calendar":
				m.CurrentView = ViewCalendar
			case "log":
				m.CurrentView = ViewLog
			case "status":
				m.CurrentView = ViewStatus
			case "help":
				m.HelpVisible = true
			}
			return commands.Result{Message: fmt.Sprintf("showing %s", a.Subject)}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.LastError = err
	} else if res.Message != "" {
		m.Status = StatusBar{Text: res.Message}
	}

	m.Palette = CommandPaletteState{}
	m.commandInput.SetValue("")
	return m
}
