package update

import (
	"context"
	"fmt"
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/tasks/internal/commands"
	"github.com/sandeepkv93/tasks/internal/scheduler"
	"github.com/sandeepkv93/tasks/internal/service"
	"github.com/sandeepkv93/tasks/internal/storage"
)

// submit hands job to the engine, or runs it as a command when the model
// has no engine. Either way its outcome arrives as a JobDoneMsg.
func (m Model) submit(job scheduler.Job) (Model, tea.Cmd) {
	if m.backend == nil {
		m.Status = StatusBar{Text: "no backend configured", IsError: true}
		return m, nil
	}
	m.Pending++
	cmds := make([]tea.Cmd, 0, 2)
	if m.Pending == 1 {
		cmds = append(cmds, m.busySpinner.Tick)
	}
	if m.scheduler == nil {
		cmds = append(cmds, runInlineCmd(job))
		return m, tea.Batch(cmds...)
	}
	if _, err := m.scheduler.Submit(job); err != nil {
		m.Pending--
		m.Status = StatusBar{Text: fmt.Sprintf("%s: %v", job.Label, err), IsError: true}
		return m, nil
	}
	m.logger.Debug("job queued", "kind", job.Kind, "list", job.List, "key", job.Key)
	return m, tea.Batch(cmds...)
}

func runInlineCmd(job scheduler.Job) tea.Cmd {
	return func() tea.Msg {
		err := job.Run(context.Background())
		return JobDoneMsg{Kind: job.Kind, Label: job.Label, List: job.List, Err: err}
	}
}

func waitForResultCmd(ch <-chan scheduler.Result) tea.Cmd {
	return func() tea.Msg {
		res, ok := <-ch
		if !ok {
			return nil
		}
		return JobDoneMsg{Kind: res.Job.Kind, Label: res.Job.Label, List: res.Job.List, Err: res.Err, queued: true}
	}
}

func (m Model) onJobDone(msg JobDoneMsg) (Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 2)
	if m.scheduler != nil {
		m.Pending = m.scheduler.Pending()
		if msg.queued {
			cmds = append(cmds, waitForResultCmd(m.scheduler.C()))
		}
	} else if m.Pending > 0 {
		m.Pending--
	}

	if msg.Err != nil {
		m.LastError = msg.Err
		m.Status = StatusBar{Text: fmt.Sprintf("%s: %v", msg.Label, msg.Err), IsError: true}
		m.logger.Error("job failed", "kind", msg.Kind, "list", msg.List, "error", msg.Err)
	} else {
		m.Status = StatusBar{Text: msg.Label}
		switch commands.Type(msg.Kind) {
		case commands.TypeNew, commands.TypeRename:
			m.CurrentList = msg.List
			m.SearchTerm = ""
			m.TaskCursor = 0
		case commands.TypeAdd:
			m.Onboarding = false
		}
	}
	cmds = append(cmds, m.reloadCmd())
	return m, tea.Batch(cmds...)
}

func (m Model) addTask(name string, tags []string) (Model, tea.Cmd) {
	list, b := m.CurrentList, m.backend
	return m.submit(scheduler.Job{
		Kind:  string(commands.TypeAdd),
		List:  list,
		Label: fmt.Sprintf("added %q to %s", name, list),
		Run: func(ctx context.Context) error {
			_, err := b.Add(ctx, list, service.Draft{Name: name, Tags: tags})
			return err
		},
	})
}

func (m Model) setCompleted(id int, done bool) (Model, tea.Cmd) {
	list, b := m.CurrentList, m.backend
	if idx := slices.IndexFunc(m.Tasks, func(t storage.Task) bool { return t.ID == id }); idx >= 0 {
		m.Tasks = slices.Clone(m.Tasks)
		m.Tasks[idx].Completed = done
	}
	kind, verb := commands.TypeDone, "done"
	if !done {
		kind, verb = commands.TypeUndo, "open"
	}
	return m.submit(scheduler.Job{
		Key:   fmt.Sprintf("%s/%d/completed", list, id),
		Kind:  string(kind),
		List:  list,
		Label: fmt.Sprintf("task #%d marked %s", id, verb),
		Run: func(ctx context.Context) error {
			_, err := b.SetCompleted(ctx, list, id, done)
			return err
		},
	})
}

func (m Model) removeTask(id int) (Model, tea.Cmd) {
	list, b := m.CurrentList, m.backend
	return m.submit(scheduler.Job{
		Kind:  string(commands.TypeRemove),
		List:  list,
		Label: fmt.Sprintf("removed task #%d from %s", id, list),
		Run: func(ctx context.Context) error {
			return b.Remove(ctx, list, id)
		},
	})
}

func (m Model) patchTask(kind commands.Type, id int, p service.Patch, label string) (Model, tea.Cmd) {
	list, b := m.CurrentList, m.backend
	return m.submit(scheduler.Job{
		Key:   fmt.Sprintf("%s/%d/%s", list, id, kind),
		Kind:  string(kind),
		List:  list,
		Label: label,
		Run: func(ctx context.Context) error {
			_, err := b.Update(ctx, list, id, p)
			return err
		},
	})
}

func (m Model) createList(name string) (Model, tea.Cmd) {
	b := m.backend
	return m.submit(scheduler.Job{
		Kind:  string(commands.TypeNew),
		List:  name,
		Label: fmt.Sprintf("created list %s", name),
		Run: func(ctx context.Context) error {
			return b.CreateList(ctx, name)
		},
	})
}

// dropList moves the selection off name before the list is deleted.
func (m Model) dropList(name string) (Model, tea.Cmd) {
	if name == m.CurrentList {
		next := m.defaultList
		for _, other := range m.Lists {
			if other != name {
				next = other
				break
			}
		}
		m.CurrentList = next
		m.SearchTerm = ""
		m.TaskCursor = 0
		m.Tasks = nil
	}
	b := m.backend
	return m.submit(scheduler.Job{
		Kind:  string(commands.TypeDrop),
		List:  name,
		Label: fmt.Sprintf("dropped list %s", name),
		Run: func(ctx context.Context) error {
			return b.DeleteList(ctx, name)
		},
	})
}

func (m Model) renameList(to string) (Model, tea.Cmd) {
	from, b := m.CurrentList, m.backend
	return m.submit(scheduler.Job{
		Kind:  string(commands.TypeRename),
		List:  to,
		Label: fmt.Sprintf("renamed %s to %s", from, to),
		Run: func(ctx context.Context) error {
			return b.RenameList(ctx, from, to)
		},
	})
}
