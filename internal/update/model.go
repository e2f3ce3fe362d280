// Package update is the bubbletea application layer: the Model, its
// message types, and the key handlers. All state changes happen here;
// rendering is delegated to internal/views and domain rules live in
// internal/store and internal/notify.
package update

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/nekoplan/nekoplan/internal/notify"
	"github.com/nekoplan/nekoplan/internal/scheduler"
	"github.com/nekoplan/nekoplan/internal/store"
)

type View string

const (
	ViewTasks    View = "Tasks"
	ViewCalendar View = "Calendar"
	ViewLog      View = "Log"
	ViewStatus   View = "Status"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Tasks    string
	Calendar string
	Log      string
	Status   string
	Help     string
	Quit     string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type AddFormState struct {
	Active bool
	Err    string
}

type EditFormState struct {
	Active bool
	TaskID int64
	Err    string
}

type Model struct {
	CurrentView View
	Store       *store.Store
	Config      RuntimeConfig
	Nudge       notify.Snapshot
	Scheduler   *scheduler.Engine

	SelectedID int64
	Cursor     int

	Palette     CommandPaletteState
	Form        AddFormState
	Edit        EditFormState
	HelpVisible bool

	Status    StatusBar
	Keys      GlobalKeyMap
	Quitting  bool
	LastError error

	notifier DesktopNotifier
	clock    func() time.Time

	// Bubble components
	titleInput       textinput.Model
	dateInput        textinput.Model
	startInput       textinput.Model
	deadlineInput    textinput.Model
	minutesInput     textinput.Model
	editTitleInput   textinput.Model
	editMinutesInput textinput.Model
	commandInput     textinput.Model
	calendarTable    table.Model
	formFocus        int
	editFocus        int
}

type NudgeDueMsg struct {
	Event scheduler.Nudge
}

type MinuteTickMsg struct{}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

func NewModel(cfg RuntimeConfig, snap store.Snapshot, engine *scheduler.Engine, notifier DesktopNotifier) Model {
	opts := []store.Option{}
	if !cfg.PredictorEnabled {
		opts = append(opts, store.WithoutPredictor())
	}
	m := Model{
		CurrentView: ViewTasks,
		Store:       store.FromSnapshot(snap, opts...),
		Config:      cfg,
		Scheduler:   engine,
		notifier:    notifier,
		clock:       time.Now,
		Keys: GlobalKeyMap{
			Tasks:    "1",
			Calendar: "2",
			Log:      "3",
			Status:   "4",
			Help:     "?",
			Quit:     "q",
		},
	}
	if m.notifier == nil {
		m.notifier = NoopDesktopNotifier{}
	}
	m.initBubbleComponents()
	m.refreshNudge(m.clock())
	m.markHappyDayIfAllDone(m.clock())
	m.syncCursorToVisible()
	return m
}

func (m *Model) initBubbleComponents() {
	m.titleInput = textinput.New()
	m.titleInput.Prompt = ""
	m.titleInput.Placeholder = "what needs doing?"
	m.titleInput.CharLimit = 120
	m.titleInput.Width = 36

	m.dateInput = textinput.New()
	m.dateInput.Prompt = ""
	m.dateInput.Placeholder = "YYYY-MM-DD"
	m.dateInput.CharLimit = 10
	m.dateInput.Width = 12

	m.startInput = textinput.New()
	m.startInput.Prompt = ""
	m.startInput.Placeholder = "19:00"
	m.startInput.CharLimit = 5
	m.startInput.Width = 7

	m.deadlineInput = textinput.New()
	m.deadlineInput.Prompt = ""
	m.deadlineInput.Placeholder = "23:59"
	m.deadlineInput.CharLimit = 5
	m.deadlineInput.Width = 7

	m.minutesInput = textinput.New()
	m.minutesInput.Prompt = ""
	m.minutesInput.Placeholder = "30"
	m.minutesInput.CharLimit = 4
	m.minutesInput.Width = 5

	m.editTitleInput = textinput.New()
	m.editTitleInput.Prompt = ""
	m.editTitleInput.CharLimit = 120
	m.editTitleInput.Width = 36

	m.editMinutesInput = textinput.New()
	m.editMinutesInput.Prompt = ""
	m.editMinutesInput.CharLimit = 4
	m.editMinutesInput.Width = 5

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.calendarTable = table.New(
		table.WithColumns([]table.Column{
			{Title: "Date", Width: 12},
			{Title: "Due", Width: 5},
			{Title: "Tasks", Width: 30},
		}),
		table.WithRows([]table.Row{}),
		table.WithHeight(9),
	)
}

// refreshNudge re-derives the urgency snapshot at a single instant.
func (m *Model) refreshNudge(now time.Time) {
	m.Nudge = notify.Evaluate(m.Store, now, m.Config.Window())
}
