package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/tasks/internal/commands"
	"github.com/sandeepkv93/tasks/internal/service"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m = m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
		return m, cmd
	}
}

func (m Model) closePalette() Model {
	m.Palette = CommandPaletteState{}
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	return m
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m = m.closePalette()
	m.Status = StatusBar{}

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var out tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			m, out = m.addTask(a.Name, a.Tags)
			return commands.Result{Message: fmt.Sprintf("adding %q", a.Name)}, nil
		},
		New: func(a commands.ListArgs) (commands.Result, error) {
			m, out = m.createList(a.Name)
			return commands.Result{Message: fmt.Sprintf("creating list %s", a.Name)}, nil
		},
		Open: func(a commands.ListArgs) (commands.Result, error) {
			m, out = m.openList(a.Name)
			return commands.Result{Message: fmt.Sprintf("opened %s", a.Name)}, nil
		},
		Drop: func(a commands.ListArgs) (commands.Result, error) {
			name := a.Name
			if name == "" {
				name = m.CurrentList
			}
			m, out = m.dropList(name)
			return commands.Result{Message: fmt.Sprintf("dropping list %s", name)}, nil
		},
		Rename: func(a commands.ListArgs) (commands.Result, error) {
			if a.Name == m.CurrentList {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "list already has that name"}
			}
			m, out = m.renameList(a.Name)
			return commands.Result{Message: fmt.Sprintf("renaming %s", m.CurrentList)}, nil
		},
		Done: func(a commands.TargetArgs) (commands.Result, error) {
			m, out = m.setCompleted(a.ID, true)
			return commands.Result{Message: fmt.Sprintf("completing task #%d", a.ID)}, nil
		},
		Undo: func(a commands.TargetArgs) (commands.Result, error) {
			m, out = m.setCompleted(a.ID, false)
			return commands.Result{Message: fmt.Sprintf("reopening task #%d", a.ID)}, nil
		},
		Remove: func(a commands.TargetArgs) (commands.Result, error) {
			m, out = m.removeTask(a.ID)
			return commands.Result{Message: fmt.Sprintf("removing task #%d", a.ID)}, nil
		},
		Desc: func(a commands.DescArgs) (commands.Result, error) {
			text := a.Text
			m, out = m.patchTask(commands.TypeDesc, a.ID, service.Patch{Description: &text}, fmt.Sprintf("described task #%d", a.ID))
			return commands.Result{Message: fmt.Sprintf("updating task #%d", a.ID)}, nil
		},
		Tag: func(a commands.TagArgs) (commands.Result, error) {
			tags := a.Tags
			m, out = m.patchTask(commands.TypeTag, a.ID, service.Patch{Tags: &tags}, fmt.Sprintf("tagged task #%d", a.ID))
			return commands.Result{Message: fmt.Sprintf("tagging task #%d", a.ID)}, nil
		},
		Find: func(a commands.FindArgs) (commands.Result, error) {
			m.SearchTerm = a.Term
			m.TaskCursor = 0
			out = loadTasksCmd(m.backend, m.CurrentList, a.Term)
			return commands.Result{Message: fmt.Sprintf("searching %s for %q", m.CurrentList, a.Term)}, nil
		},
		Clear: func() (commands.Result, error) {
			m.SearchTerm = ""
			out = loadTasksCmd(m.backend, m.CurrentList, "")
			return commands.Result{Message: "search cleared"}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	if !m.Status.IsError {
		m.Status = StatusBar{Text: res.Message}
	}
	return m, out
}
