package views

import (
	"fmt"
	"strings"
)

type TaskItemData struct {
	ID          string
	Title       string
	Badge       string
	StartTime   string
	Deadline    string
	Planned     int
	Predicted   int
	SessionOpen bool
}

type TaskListPanelData struct {
	Items      []TaskItemData
	SelectedID string
}

type NudgePanelData struct {
	Face             string
	Message          string
	TaskTitle        string
	StartTime        string
	PlannedMinutes   int
	PredictedMinutes int
	RemainingMinutes int
	SessionOpen      bool
}

type OverdueItemData struct {
	Title     string
	HoursLate int
}

type StatusPanelData struct {
	Points       int
	HappyStreak  int
	LastHappyDay string
}

type CalendarDayData struct {
	Date   string
	Titles []string
}

type SessionItemData struct {
	TaskTitle string
	Start     string
	End       string
	Minutes   int
	Open      bool
}

type AddFormData struct {
	TitleView    string
	DateView     string
	StartView    string
	DeadlineView string
	MinutesView  string
	ErrorText    string
}

type EditFormData struct {
	TaskTitle   string
	TitleView   string
	MinutesView string
	ErrorText   string
}

func RenderTaskListPanel(data TaskListPanelData) string {
	var b strings.Builder
	b.WriteString("tasks:\n")
	b.WriteString("actions: [j/k]move [a]add [s]start [c]complete [e]edit [d]delete\n")
	if len(data.Items) == 0 {
		b.WriteString("  (none)")
		return b.String()
	}
	for _, item := range data.Items {
		cursor := " "
		if data.SelectedID == item.ID {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s [%s] %s @%s due:%s plan:%dm", cursor, item.Badge, item.Title, item.StartTime, item.Deadline, item.Planned))
		if item.Predicted > 0 {
			b.WriteString(fmt.Sprintf(" ~%dm", item.Predicted))
		}
		if item.SessionOpen {
			b.WriteString(" *working*")
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderNudgePanel(data NudgePanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s\n", data.Face, data.Message))
	if data.TaskTitle == "" {
		return strings.TrimSuffix(b.String(), "\n")
	}
	b.WriteString(fmt.Sprintf("next up: %s\n", data.TaskTitle))
	b.WriteString(fmt.Sprintf("start at %s", data.StartTime))
	if data.RemainingMinutes >= 0 {
		b.WriteString(fmt.Sprintf(" (in %dm)\n", data.RemainingMinutes))
	} else {
		b.WriteString(fmt.Sprintf(" (%dm ago)\n", -data.RemainingMinutes))
	}
	b.WriteString(fmt.Sprintf("planned: %dm", data.PlannedMinutes))
	if data.PredictedMinutes > 0 {
		b.WriteString(fmt.Sprintf(" | likely: %dm", data.PredictedMinutes))
	}
	if data.SessionOpen {
		b.WriteString("\nsession running, [c] when finished")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderOverduePanel(items []OverdueItemData) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("overdue:\n")
	for _, item := range items {
		b.WriteString(fmt.Sprintf("- %s (%dh late)\n", item.Title, item.HoursLate))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderStatusPanel(data StatusPanelData) string {
	var b strings.Builder
	b.WriteString("status:\n")
	b.WriteString(fmt.Sprintf("points: %d\n", data.Points))
	b.WriteString(fmt.Sprintf("happy streak: %d day(s)\n", data.HappyStreak))
	if data.LastHappyDay != "" {
		b.WriteString(fmt.Sprintf("last happy day: %s", data.LastHappyDay))
	} else {
		b.WriteString("last happy day: never")
	}
	return b.String()
}

func RenderCalendarPanel(days []CalendarDayData) string {
	var b strings.Builder
	b.WriteString("next 7 days:\n")
	for _, day := range days {
		b.WriteString(day.Date + ":")
		if len(day.Titles) == 0 {
			b.WriteString(" (free)\n")
			continue
		}
		b.WriteString("\n")
		for _, title := range day.Titles {
			b.WriteString("  - " + title + "\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderSessionLogPanel(items []SessionItemData) string {
	var b strings.Builder
	b.WriteString("work log:\n")
	if len(items) == 0 {
		b.WriteString("  (no sessions yet)")
		return b.String()
	}
	for _, item := range items {
		if item.Open {
			b.WriteString(fmt.Sprintf("%s: %s- (running)\n", item.TaskTitle, item.Start))
			continue
		}
		b.WriteString(fmt.Sprintf("%s: %s-%s (%dm)\n", item.TaskTitle, item.Start, item.End, item.Minutes))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderAddForm(data AddFormData) string {
	var b strings.Builder
	b.WriteString("new task:\n")
	b.WriteString("keys: [tab]next field [enter]save [esc]cancel\n")
	b.WriteString("title: " + data.TitleView + "\n")
	b.WriteString("date: " + data.DateView + "\n")
	b.WriteString("start: " + data.StartView + "\n")
	b.WriteString("deadline: " + data.DeadlineView + "\n")
	b.WriteString("minutes: " + data.MinutesView)
	if data.ErrorText != "" {
		b.WriteString("\nerror: " + data.ErrorText)
	}
	return b.String()
}

func RenderEditForm(data EditFormData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("edit %s:\n", data.TaskTitle))
	b.WriteString("keys: [tab]next field [enter]save [esc]cancel\n")
	b.WriteString("title: " + data.TitleView + "\n")
	b.WriteString("minutes: " + data.MinutesView)
	if data.ErrorText != "" {
		b.WriteString("\nerror: " + data.ErrorText)
	}
	return b.String()
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

const helpMarkdown = "# nekoplan\n\n" +
	"A small evening companion that keeps one current task in front of you.\n\n" +
	"## Keys\n\n" +
	"- `j` / `k` move the cursor\n" +
	"- `a` open the new-task form\n" +
	"- `s` start a work session on the current task\n" +
	"- `c` complete the running session\n" +
	"- `e` edit the selected task\n" +
	"- `d` delete the selected task\n" +
	"- `1`..`4` switch panels (tasks, calendar, log, status)\n" +
	"- `/` open the command palette\n" +
	"- `?` toggle this help\n" +
	"- `q` quit\n\n" +
	"## Commands\n\n" +
	"`/add <title>`, `/start [id|current]`, `/done [id|current]`,\n" +
	"`/edit <id> <title|minutes> <value>`, `/delete <id>`,\n" +
	"`/show <tasks|log|status|calendar|help>`\n"

func RenderHelpPanel() string {
	return RenderMarkdown(helpMarkdown)
}
