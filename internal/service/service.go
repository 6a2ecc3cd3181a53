// Package service sequences store, registry and allocator calls into the
// operations the CLI and the TUI expose.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/sandeepkv93/tasks/internal/ids"
	"github.com/sandeepkv93/tasks/internal/model"
	"github.com/sandeepkv93/tasks/internal/settings"
	"github.com/sandeepkv93/tasks/internal/storage"
)

var ErrNameRequired = errors.New("service: task name is required")

// Lists is the part of the registry the service needs.
type Lists interface {
	Names(ctx context.Context) ([]string, error)
}

type SettingsStore interface {
	ids.SettingsStore
	Reset(ctx context.Context) error
}

type Snapshots interface {
	Save(ctx context.Context, lists []storage.NamedCollection) (storage.Snapshot, error)
	List(ctx context.Context) ([]storage.Snapshot, error)
	Latest(ctx context.Context) (storage.Snapshot, error)
	Load(ctx context.Context, id string) ([]storage.NamedCollection, error)
}

type Deps struct {
	Tasks    storage.Repository
	Lists    Lists
	Settings SettingsStore
	Logger   *slog.Logger
}

type Service struct {
	tasks    storage.Repository
	lists    Lists
	settings SettingsStore
	ids      *ids.Allocator
	logger   *slog.Logger
}

func New(deps Deps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		tasks:    deps.Tasks,
		lists:    deps.Lists,
		settings: deps.Settings,
		ids:      ids.New(deps.Tasks, deps.Settings).WithLogger(logger),
		logger:   logger,
	}
}

// Draft is user input for a new task.
type Draft struct {
	Name        string
	Description string
	Tags        []string
}

// Patch changes selected fields of a task. Nil fields are left alone.
type Patch struct {
	Name        *string
	Description *string
	Tags        *[]string
	Completed   *bool
}

// Lists returns the list names in directory order. A data directory that
// does not exist yet has no lists.
func (s *Service) Lists(ctx context.Context) ([]string, error) {
	names, err := s.lists.Names(ctx)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	return names, err
}

func (s *Service) Tasks(ctx context.Context, list string) (storage.Collection, error) {
	return s.tasks.Read(ctx, list)
}

func (s *Service) CreateList(ctx context.Context, name string) error {
	return s.tasks.CreateList(ctx, name)
}

func (s *Service) DeleteList(ctx context.Context, name string) error {
	return s.tasks.DeleteList(ctx, name)
}

// RenameList moves every task of from into a new list named to and removes
// from. The target must not exist. A failed copy removes the new list again.
func (s *Service) RenameList(ctx context.Context, from, to string) error {
	current, err := s.tasks.Read(ctx, from)
	if err != nil {
		return err
	}
	if err := s.tasks.CreateList(ctx, to); err != nil {
		return err
	}
	if len(current.Tasks) > 0 {
		if err := s.tasks.Write(ctx, to, current); err != nil {
			if cleanupErr := s.tasks.DeleteList(ctx, to); cleanupErr != nil {
				s.logger.Warn("rename left target behind", "to", to, "error", cleanupErr)
			}
			return err
		}
	}
	if err := s.tasks.DeleteList(ctx, from); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	s.logger.Info("list renamed", "from", from, "to", to, "tasks", len(current.Tasks))
	return nil
}

// Add allocates the next id of list and appends a task built from d. The
// allocation and the write happen under one list lock.
func (s *Service) Add(ctx context.Context, list string, d Draft) (storage.Task, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return storage.Task{}, ErrNameRequired
	}
	if err := model.ValidateListName(list); err != nil {
		return storage.Task{}, err
	}
	return s.tasks.Append(ctx, list, func(current storage.Collection) (storage.Task, error) {
		id, err := s.ids.NextFor(ctx, list, current)
		if err != nil {
			return storage.Task{}, err
		}
		return storage.Task{
			ID:          id,
			Name:        name,
			Description: strings.TrimSpace(d.Description),
			Tags:        storedTags(d.Tags),
		}, nil
	})
}

// Update applies p to the task with id in place.
func (s *Service) Update(ctx context.Context, list string, id int, p Patch) (storage.Task, error) {
	var out storage.Task
	err := s.tasks.Modify(ctx, list, func(current storage.Collection) (storage.Collection, error) {
		idx := current.Find(id)
		if idx < 0 {
			return storage.Collection{}, fmt.Errorf("%w: %s/%d", storage.ErrTaskNotFound, list, id)
		}
		t := current.Tasks[idx]
		if p.Name != nil {
			name := strings.TrimSpace(*p.Name)
			if name == "" {
				return storage.Collection{}, ErrNameRequired
			}
			t.Name = name
		}
		if p.Description != nil {
			t.Description = strings.TrimSpace(*p.Description)
		}
		if p.Tags != nil {
			t.Tags = storedTags(*p.Tags)
		}
		if p.Completed != nil {
			t.Completed = *p.Completed
		}
		current.Tasks[idx] = t
		out = t
		return current, nil
	})
	if err != nil {
		return storage.Task{}, err
	}
	return out, nil
}

func (s *Service) SetCompleted(ctx context.Context, list string, id int, done bool) (storage.Task, error) {
	return s.Update(ctx, list, id, Patch{Completed: &done})
}

// Remove deletes the task with id. Later tasks of the list are renumbered.
func (s *Service) Remove(ctx context.Context, list string, id int) error {
	return s.tasks.Modify(ctx, list, func(current storage.Collection) (storage.Collection, error) {
		if current.Find(id) < 0 {
			return storage.Collection{}, fmt.Errorf("%w: %s/%d", storage.ErrTaskNotFound, list, id)
		}
		return storage.RemoveAndRenumber(current, id), nil
	})
}

func (s *Service) Search(ctx context.Context, list, term string) ([]storage.Task, error) {
	return s.tasks.Search(ctx, list, term)
}

func (s *Service) Settings(ctx context.Context) (settings.Settings, error) {
	return s.settings.Read(ctx)
}

// SetPosition stores a new window position and keeps the first-run state.
func (s *Service) SetPosition(ctx context.Context, pos settings.Position) (settings.Settings, error) {
	current, err := s.settings.Read(ctx)
	if err != nil {
		return settings.Settings{}, err
	}
	if err := s.settings.Write(ctx, current.State, pos); err != nil {
		return settings.Settings{}, err
	}
	return settings.Settings{State: current.State, Position: pos}, nil
}

func (s *Service) ResetSettings(ctx context.Context) error {
	return s.settings.Reset(ctx)
}

// Export saves every list as one snapshot.
func (s *Service) Export(ctx context.Context, snaps Snapshots) (storage.Snapshot, error) {
	names, err := s.Lists(ctx)
	if err != nil {
		return storage.Snapshot{}, err
	}
	lists := make([]storage.NamedCollection, 0, len(names))
	for _, name := range names {
		if model.ValidateListName(name) != nil {
			continue
		}
		c, err := s.tasks.Read(ctx, name)
		if err != nil {
			return storage.Snapshot{}, fmt.Errorf("export %s: %w", name, err)
		}
		lists = append(lists, storage.NamedCollection{List: name, Collection: c})
	}
	snap, err := snaps.Save(ctx, lists)
	if err != nil {
		return storage.Snapshot{}, err
	}
	s.logger.Info("snapshot exported", "snapshot", snap.ID, "lists", snap.Lists, "tasks", snap.Tasks)
	return snap, nil
}

// Import merge-writes every list of snapshot id, or of the latest snapshot
// when id is empty. Stored tasks whose ids the snapshot lacks are kept.
func (s *Service) Import(ctx context.Context, snaps Snapshots, id string) (storage.Snapshot, error) {
	var snap storage.Snapshot
	if id == "" {
		latest, err := snaps.Latest(ctx)
		if err != nil {
			return storage.Snapshot{}, err
		}
		snap = latest
	} else {
		snap.ID = id
	}
	lists, err := snaps.Load(ctx, snap.ID)
	if err != nil {
		return storage.Snapshot{}, err
	}
	snap.Lists, snap.Tasks = len(lists), 0
	for _, nc := range lists {
		if err := s.tasks.Write(ctx, nc.List, nc.Collection); err != nil {
			return storage.Snapshot{}, fmt.Errorf("import %s: %w", nc.List, err)
		}
		snap.Tasks += len(nc.Collection.Tasks)
	}
	s.logger.Info("snapshot imported", "snapshot", snap.ID, "lists", snap.Lists, "tasks", snap.Tasks)
	return snap, nil
}

func storedTags(tags []string) []string {
	joined := model.JoinTags(tags)
	if joined == "" {
		return []string{}
	}
	return []string{joined}
}
