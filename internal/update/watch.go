package update

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/sandeepkv93/tasks/internal/paths"
)

const watchSettle = 100 * time.Millisecond

// WatchErrorMsg carries a watcher failure. Watching continues.
type WatchErrorMsg struct {
	Err error
}

// Watcher reports changes to list files made by other processes or by
// this one.
type Watcher struct {
	fs *fsnotify.Watcher
}

func NewWatcher(dir string) (*Watcher, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, err
	}
	return &Watcher{fs: w}, nil
}

func (w *Watcher) Close() error {
	if w == nil || w.fs == nil {
		return nil
	}
	return w.fs.Close()
}

func waitForChangeCmd(w *Watcher) tea.Cmd {
	if w == nil || w.fs == nil {
		return nil
	}
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-w.fs.Events:
				if !ok {
					return nil
				}
				if !relevantEvent(event) {
					continue
				}
				// let a burst of writes settle
				time.Sleep(watchSettle)
				return StoreChangedMsg{Name: filepath.Base(event.Name)}
			case err, ok := <-w.fs.Errors:
				if !ok {
					return nil
				}
				return WatchErrorMsg{Err: err}
			}
		}
	}
}

func relevantEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(event.Name)
	return strings.HasSuffix(name, paths.ListExt) && !strings.HasPrefix(name, ".")
}
