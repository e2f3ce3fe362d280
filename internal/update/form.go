package update

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nekoplan/nekoplan/internal/model"
)

func (m *Model) openAddForm() {
	now := m.clock()
	m.Form = AddFormState{Active: true}
	m.titleInput.SetValue("")
	m.dateInput.SetValue(now.Format(time.DateOnly))
	m.startInput.SetValue("19:00")
	m.deadlineInput.SetValue("23:59")
	m.minutesInput.SetValue("30")
	m.formFocus = 0
	m.focusAddField()
}

func (m *Model) addFormFields() []*textinput.Model {
	return []*textinput.Model{
		&m.titleInput,
		&m.dateInput,
		&m.startInput,
		&m.deadlineInput,
		&m.minutesInput,
	}
}

func (m *Model) focusAddField() {
	for i, f := range m.addFormFields() {
		if i == m.formFocus {
			f.Focus()
		} else {
			f.Blur()
		}
	}
}

func (m Model) handleAddFormKey(msg tea.KeyMsg) Model {
	fields := m.addFormFields()
	switch msg.String() {
	case "esc":
		m.Form = AddFormState{}
		m.Status = StatusBar{Text: "add cancelled"}
		return m
	case "tab", "down":
		m.formFocus = (m.formFocus + 1) % len(fields)
		m.focusAddField()
		return m
	case "shift+tab", "up":
		m.formFocus = (m.formFocus + len(fields) - 1) % len(fields)
		m.focusAddField()
		return m
	case "enter":
		m.submitAddForm()
		return m
	}
	field := fields[m.formFocus]
	if msg.Type == tea.KeyRunes {
		field.SetValue(field.Value() + string(msg.Runes))
		return m
	}
	updated, _ := field.Update(msg)
	*field = updated
	return m
}

func (m *Model) submitAddForm() {
	title := strings.TrimSpace(m.titleInput.Value())
	day, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(m.dateInput.Value()), m.clock().Location())
	if err != nil {
		m.Form.Err = "date must be YYYY-MM-DD"
		return
	}
	start, err := model.ParseClock(strings.TrimSpace(m.startInput.Value()))
	if err != nil {
		m.Form.Err = "start must be HH:MM"
		return
	}
	deadlineClock, err := model.ParseClock(strings.TrimSpace(m.deadlineInput.Value()))
	if err != nil {
		m.Form.Err = "deadline must be HH:MM"
		return
	}
	planned, err := strconv.Atoi(strings.TrimSpace(m.minutesInput.Value()))
	if err != nil {
		m.Form.Err = "minutes must be a number"
		return
	}
	if planned < 5 {
		m.Form.Err = "minutes must be at least 5"
		return
	}

	task, err := m.addTask(title, start, planned, deadlineClock.On(day))
	if err != nil {
		m.Form.Err = err.Error()
		return
	}
	m.Form = AddFormState{}
	m.Status = StatusBar{Text: fmt.Sprintf("task added: %s", task.Title)}
}

func (m *Model) openEditForm() {
	task, ok := m.selectedTask()
	if !ok {
		m.Status = StatusBar{Text: "no task selected", IsError: true}
		return
	}
	m.Edit = EditFormState{Active: true, TaskID: task.ID}
	m.editTitleInput.SetValue(task.Title)
	m.editMinutesInput.SetValue(strconv.Itoa(task.PlannedMinutes))
	m.editFocus = 0
	m.focusEditField()
}

func (m *Model) editFormFields() []*textinput.Model {
	return []*textinput.Model{&m.editTitleInput, &m.editMinutesInput}
}

func (m *Model) focusEditField() {
	for i, f := range m.editFormFields() {
		if i == m.editFocus {
			f.Focus()
		} else {
			f.Blur()
		}
	}
}

func (m Model) handleEditFormKey(msg tea.KeyMsg) Model {
	fields := m.editFormFields()
	switch msg.String() {
	case "esc":
		m.Edit = EditFormState{}
		m.Status = StatusBar{Text: "edit cancelled"}
		return m
	case "tab", "down", "shift+tab", "up":
		m.editFocus = (m.editFocus + 1) % len(fields)
		m.focusEditField()
		return m
	case "enter":
		m.submitEditForm()
		return m
	}
	field := fields[m.editFocus]
	if msg.Type == tea.KeyRunes {
		field.SetValue(field.Value() + string(msg.Runes))
		return m
	}
	updated, _ := field.Update(msg)
	*field = updated
	return m
}

func (m *Model) submitEditForm() {
	title := strings.TrimSpace(m.editTitleInput.Value())
	planned, err := strconv.Atoi(strings.TrimSpace(m.editMinutesInput.Value()))
	if err != nil {
		m.Edit.Err = "minutes must be a number"
		return
	}
	if err := m.Store.Edit(m.Edit.TaskID, &title, &planned); err != nil {
		m.Edit.Err = err.Error()
		return
	}
	m.Edit = EditFormState{}
	m.Status = StatusBar{Text: "task updated"}
	m.refreshNudge(m.clock())
	m.persist()
}
