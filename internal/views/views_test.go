package views

import (
	"strings"
	"testing"
)

func TestRenderListsPanelMarksCurrentAndCursor(t *testing.T) {
	out := RenderListsPanel(ListsPanelData{Names: []string{"work", "groceries"}, Current: "groceries", Selected: 0})
	if !strings.Contains(out, "> work") {
		t.Fatalf("cursor missing: %q", out)
	}
	if !strings.Contains(out, "groceries *") {
		t.Fatalf("current marker missing: %q", out)
	}

	empty := RenderListsPanel(ListsPanelData{})
	if !strings.Contains(empty, "/new") {
		t.Fatalf("expected onboarding hint for empty lists: %q", empty)
	}
}

func TestRenderTaskRow(t *testing.T) {
	out := RenderTaskRow(TaskRowData{ID: 3, Name: "milk", Tags: []string{"shop, cold"}})
	if out != "[ ] #3 milk {shop, cold}" {
		t.Fatalf("unexpected row: %q", out)
	}
	done := RenderTaskRow(TaskRowData{ID: 0, Name: "eggs", Completed: true})
	if !strings.HasPrefix(done, "[x] #0 ") || !strings.Contains(done, "eggs") {
		t.Fatalf("unexpected completed row: %q", done)
	}
}

func TestTaskDetailMarkdown(t *testing.T) {
	md := TaskDetailMarkdown(TaskDetailData{List: "work", ID: 2, Name: "Report", Description: "quarterly numbers", Tags: []string{"q3"}})
	for _, want := range []string{"# Report", "**list:** work", "**id:** 2", "**status:** open", "**tags:** q3", "quarterly numbers"} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestRenderMarkdownFallsBackOnEmpty(t *testing.T) {
	if out := RenderMarkdown("   ", "dark", 40); out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
	if out := RenderMarkdown("# Title", "notty", 40); !strings.Contains(out, "Title") {
		t.Fatalf("expected rendered title, got %q", out)
	}
}

func TestPaneWidthsHaveMinimums(t *testing.T) {
	l, c, r := PaneWidths(20)
	if l < 16 || c < 30 || r < 30 {
		t.Fatalf("minimums not applied: %d %d %d", l, c, r)
	}
	l, c, r = PaneWidths(200)
	if l+c+r != 200-12 {
		t.Fatalf("widths should use the full row: %d %d %d", l, c, r)
	}
}
