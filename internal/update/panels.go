package update

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"

	"github.com/nekoplan/nekoplan/internal/model"
	"github.com/nekoplan/nekoplan/internal/notify"
	"github.com/nekoplan/nekoplan/internal/views"
)

func badgeFor(t *model.Task, now time.Time) string {
	switch t.StatusAt(now) {
	case model.StatusDone:
		return "DONE"
	case model.StatusOverdue:
		return "OVERDUE"
	default:
		return "PENDING"
	}
}

func (m Model) renderTasksPanel(now time.Time) string {
	items := make([]views.TaskItemData, 0)
	for _, t := range m.visibleTasks() {
		_, open := t.OpenSession()
		items = append(items, views.TaskItemData{
			ID:          strconv.FormatInt(t.ID, 10),
			Title:       t.Title,
			Badge:       badgeFor(t, now),
			StartTime:   t.StartTime.String(),
			Deadline:    t.Deadline.In(now.Location()).Format("01-02 15:04"),
			Planned:     t.PlannedMinutes,
			Predicted:   t.PredictedMinutes,
			SessionOpen: open,
		})
	}
	return views.RenderTaskListPanel(views.TaskListPanelData{
		Items:      items,
		SelectedID: strconv.FormatInt(m.SelectedID, 10),
	})
}

func (m Model) renderNudgePanel(now time.Time) string {
	data := views.NudgePanelData{
		Face:    m.Nudge.Face,
		Message: m.Nudge.Message,
	}
	if m.Nudge.Current != nil {
		_, open := m.Nudge.Current.OpenSession()
		data.TaskTitle = m.Nudge.Current.Title
		data.StartTime = m.Nudge.Current.StartTime.String()
		data.PlannedMinutes = m.Nudge.Current.PlannedMinutes
		data.PredictedMinutes = m.Nudge.Current.PredictedMinutes
		data.RemainingMinutes = m.Nudge.RemainingMinutes
		data.SessionOpen = open
	}
	out := views.RenderNudgePanel(data)
	if overdue := m.renderOverduePanel(now); overdue != "" {
		out += "\n\n" + overdue
	}
	return out
}

func (m Model) renderOverduePanel(now time.Time) string {
	items := make([]views.OverdueItemData, 0, len(m.Nudge.Overdue))
	for _, t := range m.Nudge.Overdue {
		items = append(items, views.OverdueItemData{Title: t.Title, HoursLate: t.HoursLate(now)})
	}
	return views.RenderOverduePanel(items)
}

func (m Model) renderStatusPanel() string {
	e := m.Store.Engagement()
	last := ""
	if !e.LastHappyDay.IsZero() {
		last = e.LastHappyDay.Format(time.DateOnly)
	}
	return views.RenderStatusPanel(views.StatusPanelData{
		Points:       e.Points,
		HappyStreak:  e.HappyStreak,
		LastHappyDay: last,
	})
}

func (m Model) renderCalendarPanel(now time.Time) string {
	days := make([]views.CalendarDayData, 0, notify.CalendarDays)
	for _, day := range notify.Calendar(m.Store, now, notify.CalendarDays) {
		days = append(days, views.CalendarDayData{
			Date:   day.Date.Format("Mon 01-02"),
			Titles: day.Titles,
		})
	}
	return m.calendarTable.View() + "\n" + views.RenderCalendarPanel(days)
}

func (m *Model) syncCalendarTable(now time.Time) {
	rows := make([]table.Row, 0, notify.CalendarDays)
	for _, day := range notify.Calendar(m.Store, now, notify.CalendarDays) {
		first := ""
		if len(day.Titles) > 0 {
			first = day.Titles[0]
			if len(day.Titles) > 1 {
				first = fmt.Sprintf("%s (+%d)", first, len(day.Titles)-1)
			}
		}
		rows = append(rows, table.Row{
			day.Date.Format("Mon 01-02"),
			strconv.Itoa(len(day.Titles)),
			first,
		})
	}
	m.calendarTable.SetRows(rows)
}

func (m Model) renderLogPanel(now time.Time) string {
	items := make([]views.SessionItemData, 0)
	for _, t := range m.Store.Tasks() {
		for _, sess := range t.Log {
			item := views.SessionItemData{
				TaskTitle: t.Title,
				Start:     sess.Start.In(now.Location()).Format("15:04"),
				Minutes:   sess.Minutes,
				Open:      sess.Open(),
			}
			if sess.End != nil {
				item.End = sess.End.In(now.Location()).Format("15:04")
			}
			items = append(items, item)
		}
	}
	return views.RenderSessionLogPanel(items)
}

func (m Model) renderAddForm() string {
	return views.RenderAddForm(views.AddFormData{
		TitleView:    m.titleInput.View(),
		DateView:     m.dateInput.View(),
		StartView:    m.startInput.View(),
		DeadlineView: m.deadlineInput.View(),
		MinutesView:  m.minutesInput.View(),
		ErrorText:    m.Form.Err,
	})
}

func (m Model) renderEditForm() string {
	title := ""
	if task, err := m.Store.Get(m.Edit.TaskID); err == nil {
		title = task.Title
	}
	return views.RenderEditForm(views.EditFormData{
		TaskTitle:   title,
		TitleView:   m.editTitleInput.View(),
		MinutesView: m.editMinutesInput.View(),
		ErrorText:   m.Edit.Err,
	})
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return views.RenderHelpPanel()
}
