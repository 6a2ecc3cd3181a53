// Package ids hands out the id for the next task added to a list.
package ids

import (
	"context"
	"io"
	"log/slog"

	"github.com/sandeepkv93/tasks/internal/settings"
	"github.com/sandeepkv93/tasks/internal/storage"
)

type TaskReader interface {
	Read(ctx context.Context, list string) (storage.Collection, error)
}

type SettingsStore interface {
	Read(ctx context.Context) (settings.Settings, error)
	Write(ctx context.Context, state settings.InitState, pos settings.Position) error
}

// Allocator computes ids as "last id + 1" within a list. Ids are positional:
// DeleteEntry renumbers a list, so an id is only valid until the next
// deletion in the same list.
type Allocator struct {
	tasks    TaskReader
	settings SettingsStore
	logger   *slog.Logger
}

func New(tasks TaskReader, store SettingsStore) *Allocator {
	return &Allocator{tasks: tasks, settings: store, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// WithLogger returns a copy of a that logs to logger.
func (a *Allocator) WithLogger(logger *slog.Logger) *Allocator {
	cp := *a
	if logger != nil {
		cp.logger = logger
	}
	return &cp
}

// Next returns the id for the next task of list. An empty or unreadable
// list always yields 0. The first allocation on a fresh installation
// latches the settings to Initialized, keeping the stored position.
func (a *Allocator) Next(ctx context.Context, list string) (int, error) {
	current, err := a.tasks.Read(ctx, list)
	if err != nil {
		a.logger.Warn("allocating against unreadable list", "list", list, "error", err)
		current = storage.Collection{}
	}
	return a.NextFor(ctx, list, current)
}

// NextFor is Next against a collection the caller already loaded, typically
// while holding the list lock.
func (a *Allocator) NextFor(ctx context.Context, list string, current storage.Collection) (int, error) {
	s, err := a.settings.Read(ctx)
	if err != nil {
		return 0, err
	}

	next := 0
	if last, ok := current.Last(); ok {
		next = last.ID + 1
	}

	if s.State == settings.Fresh {
		if err := a.settings.Write(ctx, settings.Initialized, s.Position); err != nil {
			return 0, err
		}
		a.logger.Info("first id allocated", "list", list)
	}
	return next, nil
}
