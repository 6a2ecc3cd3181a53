package update

import (
	"context"
	"io"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/tasks/internal/model"
	"github.com/sandeepkv93/tasks/internal/scheduler"
	"github.com/sandeepkv93/tasks/internal/service"
	"github.com/sandeepkv93/tasks/internal/settings"
	"github.com/sandeepkv93/tasks/internal/storage"
)

// Backend is the persistence surface the TUI drives. *service.Service
// implements it.
type Backend interface {
	Lists(ctx context.Context) ([]string, error)
	Tasks(ctx context.Context, list string) (storage.Collection, error)
	Search(ctx context.Context, list, term string) ([]storage.Task, error)
	Settings(ctx context.Context) (settings.Settings, error)
	Add(ctx context.Context, list string, d service.Draft) (storage.Task, error)
	Update(ctx context.Context, list string, id int, p service.Patch) (storage.Task, error)
	SetCompleted(ctx context.Context, list string, id int, done bool) (storage.Task, error)
	Remove(ctx context.Context, list string, id int) error
	CreateList(ctx context.Context, name string) error
	DeleteList(ctx context.Context, name string) error
	RenameList(ctx context.Context, from, to string) error
}

type Pane string

const (
	PaneLists Pane = "lists"
	PaneTasks Pane = "tasks"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Help   string
	Quit   string
	Switch string
	Toggle string
	Remove string
	Reload string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Options struct {
	Backend       Backend
	Scheduler     *scheduler.Engine
	Watcher       *Watcher
	Logger        *slog.Logger
	DefaultList   string
	MarkdownStyle string
}

type Model struct {
	Lists       []string
	CurrentList string
	Tasks       []storage.Task
	SearchTerm  string
	Focus       Pane
	ListCursor  int
	TaskCursor  int
	Settings    settings.Settings
	Onboarding  bool
	Pending     int
	Palette     CommandPaletteState
	HelpVisible bool
	Status      StatusBar
	Keys        GlobalKeyMap
	Quitting    bool
	LastError   error

	backend       Backend
	scheduler     *scheduler.Engine
	watcher       *Watcher
	logger        *slog.Logger
	defaultList   string
	markdownStyle string
	width         int
	height        int

	tasksList    list.Model
	commandInput textinput.Model
	detail       viewport.Model
	busySpinner  spinner.Model
	helpModel    help.Model
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// ListsLoadedMsg carries the result of enumerating the data directory.
type ListsLoadedMsg struct {
	Lists []string
	Err   error
}

// TasksLoadedMsg carries the tasks of List, filtered by Term when set.
type TasksLoadedMsg struct {
	List  string
	Term  string
	Tasks []storage.Task
	Err   error
}

type SettingsLoadedMsg struct {
	Settings settings.Settings
	Err      error
}

// JobDoneMsg reports a finished persistence job.
type JobDoneMsg struct {
	Kind  string
	Label string
	List  string
	Err   error

	queued bool
}

// StoreChangedMsg is sent when a file in the data directory changes.
type StoreChangedMsg struct {
	Name string
}

func NewModel(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	defaultList := opts.DefaultList
	if model.ValidateListName(defaultList) != nil {
		defaultList = model.DefaultListName
	}
	style := opts.MarkdownStyle
	if style == "" {
		style = "dark"
	}
	m := Model{
		CurrentList:   defaultList,
		Focus:         PaneTasks,
		Lists:         []string{},
		Tasks:         []storage.Task{},
		Settings:      settings.Default(),
		backend:       opts.Backend,
		scheduler:     opts.Scheduler,
		watcher:       opts.Watcher,
		logger:        logger,
		defaultList:   defaultList,
		markdownStyle: style,
		Keys: GlobalKeyMap{
			Help:   "?",
			Quit:   "q",
			Switch: "tab",
			Toggle: "x",
			Remove: "d",
			Reload: "r",
		},
	}
	m.initBubbleComponents()
	m.syncBubbleData()
	return m
}
