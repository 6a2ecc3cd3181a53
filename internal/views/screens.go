package views

import (
	"fmt"
	"strings"
)

type ListsPanelData struct {
	Names    []string
	Current  string
	Selected int
}

type TaskRowData struct {
	ID        int
	Name      string
	Tags      []string
	Completed bool
}

type TasksPanelData struct {
	List       string
	SearchTerm string
	ListView   string
	Rows       []TaskRowData
	Selected   int
	Spinner    string
}

type TaskDetailData struct {
	List        string
	ID          int
	Name        string
	Description string
	Tags        []string
	Completed   bool
}

type HelpPanelData struct {
	Bindings []string
	HelpView string
}

func RenderListsPanel(data ListsPanelData) string {
	var b strings.Builder
	b.WriteString("lists:\n")
	if len(data.Names) == 0 {
		b.WriteString("(no lists yet, try /new <name>)")
		return b.String()
	}
	for i, name := range data.Names {
		cursor := " "
		if i == data.Selected {
			cursor = ">"
		}
		marker := ""
		if name == data.Current {
			marker = " *"
		}
		b.WriteString(fmt.Sprintf("%s %s%s\n", cursor, name, marker))
	}
	return strings.TrimSpace(b.String())
}

func RenderTasksPanel(data TasksPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("tasks: %s", data.List))
	if data.SearchTerm != "" {
		b.WriteString(fmt.Sprintf(" (find: %q)", data.SearchTerm))
	}
	if data.Spinner != "" {
		b.WriteString(" " + data.Spinner)
	}
	b.WriteString("\n")
	if data.ListView != "" {
		b.WriteString(data.ListView)
		return b.String()
	}
	if len(data.Rows) == 0 {
		b.WriteString("(empty)")
		return b.String()
	}
	for i, row := range data.Rows {
		cursor := " "
		if i == data.Selected {
			cursor = ">"
		}
		b.WriteString(cursor + " " + RenderTaskRow(row) + "\n")
	}
	return strings.TrimSpace(b.String())
}

// RenderTaskRow formats one task as "[x] #id name".
func RenderTaskRow(row TaskRowData) string {
	box := "[ ]"
	name := row.Name
	if row.Completed {
		box = "[x]"
		name = doneStyle.Render(name)
	}
	line := fmt.Sprintf("%s #%d %s", box, row.ID, name)
	if tags := strings.Join(row.Tags, ", "); tags != "" {
		line += " {" + tags + "}"
	}
	return line
}

// TaskDetailMarkdown builds the markdown shown in the detail pane.
func TaskDetailMarkdown(data TaskDetailData) string {
	var b strings.Builder
	status := "open"
	if data.Completed {
		status = "done"
	}
	b.WriteString(fmt.Sprintf("# %s\n\n", data.Name))
	b.WriteString(fmt.Sprintf("- **list:** %s\n- **id:** %d\n- **status:** %s\n", data.List, data.ID, status))
	if tags := strings.Join(data.Tags, ", "); tags != "" {
		b.WriteString(fmt.Sprintf("- **tags:** %s\n", tags))
	}
	if strings.TrimSpace(data.Description) != "" {
		b.WriteString("\n" + data.Description + "\n")
	}
	return b.String()
}

func RenderOnboarding() string {
	return strings.Join([]string{
		"welcome:",
		"- /new <list> creates a list",
		"- /add <task> #tag adds a task to the open list",
		"- ? shows every key",
	}, "\n")
}

func RenderCommandPalette(active bool, inputView string) string {
	if !active {
		return ""
	}
	return "command: " + inputView
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s\n%s", strings.Join(data.Bindings, "\n"), data.HelpView)
}
