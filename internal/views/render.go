package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header       string
	LeftPane     string
	CenterPane   string
	RightPane    string
	StatusLine   string
	StatusError  bool
	Footer       string
	Notification string
	Width        int
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	activeStyle = panelStyle.BorderForeground(lipgloss.Color("12"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	doneStyle   = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("8"))
)

// PaneWidths splits a terminal width across the lists, tasks and detail
// panes. Narrow terminals get fixed minimums.
func PaneWidths(total int) (left, center, right int) {
	if total <= 0 {
		total = 120
	}
	// two border columns and two padding columns per pane
	usable := total - 12
	left = max(usable/5, 16)
	center = max(usable*2/5, 30)
	right = max(usable-left-center, 30)
	return left, center, right
}

func RenderApp(data AppData, focusLeft bool) string {
	lw, cw, rw := PaneWidths(data.Width)
	leftStyle, centerStyle := panelStyle, activeStyle
	if focusLeft {
		leftStyle, centerStyle = activeStyle, panelStyle
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		leftStyle.Width(lw).Render(data.LeftPane),
		centerStyle.Width(cw).Render(data.CenterPane),
		panelStyle.Width(rw).Render(data.RightPane),
	)

	status := statusStyle.Render(data.StatusLine)
	if data.StatusError {
		status = errorStyle.Render(data.StatusLine)
	}

	lines := []string{
		headerStyle.Render(data.Header),
		row,
		status,
	}
	if data.Notification != "" {
		lines = append(lines, panelStyle.Render(data.Notification))
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

// RenderMarkdown renders md with the named glamour style, falling back to
// the raw text when rendering fails.
func RenderMarkdown(md, style string, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	if style == "" {
		style = "dark"
	}
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle(style)}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
