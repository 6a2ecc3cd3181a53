package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/tasks/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	plain := make([]string, 0, len(m.paletteBindings()))
	for _, kb := range m.paletteBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		Bindings: plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Switch, Action: "switch pane"},
		{Key: "j/k", Action: "move cursor"},
		{Key: "enter", Action: "open selected list"},
		{Key: m.Keys.Toggle, Action: "toggle done"},
		{Key: m.Keys.Remove, Action: "remove task"},
		{Key: m.Keys.Reload, Action: "reload"},
		{Key: "/", Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) paletteBindings() []KeyBinding {
	return []KeyBinding{
		{Key: "add <name> #tag", Action: "add a task to the open list"},
		{Key: "new <list>", Action: "create a list"},
		{Key: "open <list>", Action: "open a list"},
		{Key: "drop [list]", Action: "delete a list"},
		{Key: "rename <list>", Action: "rename the open list"},
		{Key: "done|undo <id>", Action: "set completion"},
		{Key: "rm <id>", Action: "remove a task (later ids shift down)"},
		{Key: "desc <id> <text>", Action: "set description"},
		{Key: "tag <id> a, b", Action: "set tags"},
		{Key: "find <term>", Action: "filter the open list"},
		{Key: "clear", Action: "clear the filter"},
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
