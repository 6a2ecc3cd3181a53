package update

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/tasks/internal/settings"
	"github.com/sandeepkv93/tasks/internal/storage"
	"github.com/sandeepkv93/tasks/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		loadSettingsCmd(m.backend),
		loadListsCmd(m.backend),
		loadTasksCmd(m.backend, m.CurrentList, m.SearchTerm),
	}
	if m.scheduler != nil {
		cmds = append(cmds, waitForResultCmd(m.scheduler.C()))
	}
	if m.watcher != nil {
		cmds = append(cmds, waitForChangeCmd(m.watcher))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncBubbleData()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = typed.Width, typed.Height
		return m, nil
	case tea.KeyMsg:
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}
		return m.handleKey(typed)
	case spinner.TickMsg:
		if m.Pending > 0 {
			var cmd tea.Cmd
			m.busySpinner, cmd = m.busySpinner.Update(typed)
			return m, cmd
		}
		return m, nil
	case SettingsLoadedMsg:
		if typed.Err != nil {
			m.LastError = typed.Err
			m.Status = StatusBar{Text: fmt.Sprintf("settings: %v (run `tasks settings reset`)", typed.Err), IsError: true}
			m.logger.Error("settings read failed", "error", typed.Err)
			return m, nil
		}
		m.Settings = typed.Settings
		m.Onboarding = typed.Settings.State == settings.Fresh
		return m, nil
	case ListsLoadedMsg:
		if typed.Err != nil {
			m.LastError = typed.Err
			m.Status = StatusBar{Text: fmt.Sprintf("lists: %v", typed.Err), IsError: true}
			return m, nil
		}
		m.Lists = typed.Lists
		if idx := slices.Index(m.Lists, m.CurrentList); idx >= 0 {
			m.ListCursor = idx
		}
		m.ListCursor = clamp(m.ListCursor, len(m.Lists))
		return m, nil
	case TasksLoadedMsg:
		if typed.List != m.CurrentList || typed.Term != m.SearchTerm {
			return m, nil
		}
		if typed.Err != nil {
			m.LastError = typed.Err
			m.Tasks = nil
			m.Status = StatusBar{Text: fmt.Sprintf("%s: %v", typed.List, typed.Err), IsError: true}
			m.logger.Warn("showing unreadable list as empty", "list", typed.List, "error", typed.Err)
		} else {
			m.Tasks = typed.Tasks
		}
		m.TaskCursor = clamp(m.TaskCursor, len(m.Tasks))
		return m, nil
	case JobDoneMsg:
		return m.onJobDone(typed)
	case StoreChangedMsg:
		m.logger.Debug("data dir changed", "name", typed.Name)
		return m, tea.Batch(m.reloadCmd(), waitForChangeCmd(m.watcher))
	case WatchErrorMsg:
		m.logger.Warn("watcher error", "error", typed.Err)
		m.Status = StatusBar{Text: fmt.Sprintf("watch: %v", typed.Err), IsError: true}
		return m, waitForChangeCmd(m.watcher)
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

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch keyStr := msg.String(); keyStr {
	case "/", ":":
		m.Palette = CommandPaletteState{Active: true}
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.Status = StatusBar{Text: "command palette active"}
		return m, textinput.Blink
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case "ctrl+c", m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	case m.Keys.Switch:
		if m.Focus == PaneTasks {
			m.Focus = PaneLists
		} else {
			m.Focus = PaneTasks
		}
		return m, nil
	case "j", "down":
		m.moveCursor(1)
		return m, nil
	case "k", "up":
		m.moveCursor(-1)
		return m, nil
	case "enter":
		if m.Focus == PaneLists && len(m.Lists) > 0 {
			return m.openList(m.Lists[m.ListCursor])
		}
		return m, nil
	case m.Keys.Toggle, " ":
		t, ok := m.selectedTask()
		if !ok || m.Focus != PaneTasks {
			return m, nil
		}
		return m.setCompleted(t.ID, !t.Completed)
	case m.Keys.Remove:
		t, ok := m.selectedTask()
		if !ok || m.Focus != PaneTasks {
			return m, nil
		}
		return m.removeTask(t.ID)
	case m.Keys.Reload:
		return m, m.reloadCmd()
	case "esc":
		if m.SearchTerm != "" {
			m.SearchTerm = ""
			return m, loadTasksCmd(m.backend, m.CurrentList, "")
		}
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	if m.Focus == PaneLists {
		m.ListCursor = clamp(m.ListCursor+delta, len(m.Lists))
		return
	}
	m.TaskCursor = clamp(m.TaskCursor+delta, len(m.Tasks))
}

func (m Model) openList(name string) (Model, tea.Cmd) {
	m.CurrentList = name
	m.SearchTerm = ""
	m.TaskCursor = 0
	m.Tasks = nil
	m.Focus = PaneTasks
	if idx := slices.Index(m.Lists, name); idx >= 0 {
		m.ListCursor = idx
	}
	return m, loadTasksCmd(m.backend, name, "")
}

func (m Model) selectedTask() (storage.Task, bool) {
	if m.TaskCursor < 0 || m.TaskCursor >= len(m.Tasks) {
		return storage.Task{}, false
	}
	return m.Tasks[m.TaskCursor], true
}

func (m Model) reloadCmd() tea.Cmd {
	return tea.Batch(loadListsCmd(m.backend), loadTasksCmd(m.backend, m.CurrentList, m.SearchTerm))
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	left := views.RenderListsPanel(views.ListsPanelData{
		Names:    m.Lists,
		Current:  m.CurrentList,
		Selected: m.ListCursor,
	})
	spin := ""
	if m.Pending > 0 {
		spin = m.busySpinner.View() + " saving"
	}
	center := views.RenderTasksPanel(views.TasksPanelData{
		List:       m.CurrentList,
		SearchTerm: m.SearchTerm,
		ListView:   m.tasksListView(),
		Rows:       m.taskRows(),
		Selected:   m.TaskCursor,
		Spinner:    spin,
	})
	right := m.detail.View()
	if m.Onboarding {
		right = strings.TrimSpace(views.RenderOnboarding() + "\n\n" + right)
	}
	if m.HelpVisible {
		right = strings.TrimSpace(right + "\n\n" + m.renderHelpView())
	}

	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("tasks | list: %s | %d task(s) | focus: %s", m.CurrentList, len(m.Tasks), m.Focus),
		LeftPane:     left,
		CenterPane:   center,
		RightPane:    right,
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: views.RenderCommandPalette(m.Palette.Active, m.commandInput.View()),
		Footer:       fmt.Sprintf("keys: %s pane | j/k move | %s done | %s remove | / cmd | %s help | %s quit", m.Keys.Switch, m.Keys.Toggle, m.Keys.Remove, m.Keys.Help, m.Keys.Quit),
		Width:        m.width,
	}, m.Focus == PaneLists)
}

func (m *Model) initBubbleComponents() {
	m.tasksList = list.New([]list.Item{}, list.NewDefaultDelegate(), 56, 14)
	m.tasksList.SetShowTitle(false)
	m.tasksList.SetShowHelp(false)
	m.tasksList.SetShowStatusBar(false)
	m.tasksList.SetFilteringEnabled(false)

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 60

	m.busySpinner = spinner.New()
	m.busySpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
	m.detail = viewport.New(40, 16)
}

func (m *Model) syncBubbleData() {
	_, center, right := views.PaneWidths(m.width)
	height := 14
	if m.height > 10 {
		height = m.height - 10
	}
	m.tasksList.SetSize(center, height)
	m.detail.Width = right
	m.detail.Height = height

	rows := m.taskRows()
	items := make([]list.Item, 0, len(rows))
	for i, row := range rows {
		items = append(items, listItem{title: views.RenderTaskRow(row), description: firstLine(m.Tasks[i].Description)})
	}
	m.tasksList.SetItems(items)
	if len(items) > 0 {
		m.tasksList.Select(m.TaskCursor)
	}

	m.detail.SetContent(m.detailContent(right))
}

func (m Model) tasksListView() string {
	if len(m.Tasks) == 0 {
		return ""
	}
	return m.tasksList.View()
}

func (m Model) taskRows() []views.TaskRowData {
	rows := make([]views.TaskRowData, 0, len(m.Tasks))
	for _, t := range m.Tasks {
		rows = append(rows, views.TaskRowData{ID: t.ID, Name: t.Name, Tags: t.Tags, Completed: t.Completed})
	}
	return rows
}

func (m Model) detailContent(width int) string {
	if m.TaskCursor < 0 || m.TaskCursor >= len(m.Tasks) {
		return "detail:\n(no selection)"
	}
	t := m.Tasks[m.TaskCursor]
	md := views.TaskDetailMarkdown(views.TaskDetailData{
		List:        m.CurrentList,
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Tags:        t.Tags,
		Completed:   t.Completed,
	})
	return views.RenderMarkdown(md, m.markdownStyle, width)
}

func loadListsCmd(b Backend) tea.Cmd {
	if b == nil {
		return nil
	}
	return func() tea.Msg {
		names, err := b.Lists(context.Background())
		return ListsLoadedMsg{Lists: names, Err: err}
	}
}

func loadTasksCmd(b Backend, list, term string) tea.Cmd {
	if b == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		if term != "" {
			found, err := b.Search(ctx, list, term)
			return TasksLoadedMsg{List: list, Term: term, Tasks: found, Err: err}
		}
		c, err := b.Tasks(ctx, list)
		return TasksLoadedMsg{List: list, Tasks: c.Tasks, Err: err}
	}
}

func loadSettingsCmd(b Backend) tea.Cmd {
	if b == nil {
		return nil
	}
	return func() tea.Msg {
		s, err := b.Settings(context.Background())
		return SettingsLoadedMsg{Settings: s, Err: err}
	}
}

func clamp(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
