package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/sandeepkv93/tasks/internal/fileio"
	"github.com/sandeepkv93/tasks/internal/model"
	"github.com/sandeepkv93/tasks/internal/paths"
)

// FileRepository stores each list as <dir>/<list>.json.
type FileRepository struct {
	resolver *paths.Resolver
	locker   *fileio.Locker
	logger   *slog.Logger
}

type Option func(*FileRepository)

// WithLogger routes repository diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *FileRepository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewFileRepository(resolver *paths.Resolver, locker *fileio.Locker, opts ...Option) *FileRepository {
	r := &FileRepository{
		resolver: resolver,
		locker:   locker,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read loads a list. A missing file and an empty file both read as an empty
// collection.
func (r *FileRepository) Read(ctx context.Context, list string) (Collection, error) {
	if err := model.ValidateListName(list); err != nil {
		return Collection{}, err
	}
	out, err := r.load(list)
	if errors.Is(err, os.ErrNotExist) {
		return Collection{Tasks: []Task{}}, nil
	}
	return out, err
}

// Write merges incoming into the stored list and rewrites the file with the
// merged result. Stored entries missing from incoming survive.
func (r *FileRepository) Write(ctx context.Context, list string, incoming Collection) error {
	if err := model.ValidateListName(list); err != nil {
		return err
	}
	release, err := r.locker.Acquire(ctx, list)
	if err != nil {
		return err
	}
	defer release()

	path := r.resolver.ListPath(list)
	if err := paths.EnsureExists(path); err != nil {
		return err
	}

	current, err := r.load(list)
	if err != nil {
		r.logger.Warn("discarding unreadable list during merge", "list", list, "error", err)
		current = Collection{}
	}

	merged := Merge(current, incoming)
	r.logger.Debug("merge write", "list", list, "stored", len(current.Tasks), "incoming", len(incoming.Tasks), "result", len(merged.Tasks))
	return r.persist(list, merged)
}

// Append builds a task from the stored list and merge-writes it, all under
// the list lock, so concurrent appends never see the same list state. As with
// Write, an unreadable list is discarded and build sees it as empty.
func (r *FileRepository) Append(ctx context.Context, list string, build func(current Collection) (Task, error)) (Task, error) {
	if err := model.ValidateListName(list); err != nil {
		return Task{}, err
	}
	release, err := r.locker.Acquire(ctx, list)
	if err != nil {
		return Task{}, err
	}
	defer release()

	path := r.resolver.ListPath(list)
	if err := paths.EnsureExists(path); err != nil {
		return Task{}, err
	}

	current, err := r.load(list)
	if err != nil {
		r.logger.Warn("discarding unreadable list during append", "list", list, "error", err)
		current = Collection{Tasks: []Task{}}
	}

	t, err := build(current)
	if err != nil {
		return Task{}, err
	}
	if err := r.persist(list, Merge(current, Collection{Tasks: []Task{t}})); err != nil {
		return Task{}, err
	}
	return t, nil
}

// Modify replaces list with the result of fn applied to the stored list,
// under the list lock. A missing list reaches fn empty; a malformed one
// fails with ErrParse and is left untouched. Nothing is written when fn
// returns an error.
func (r *FileRepository) Modify(ctx context.Context, list string, fn func(current Collection) (Collection, error)) error {
	if err := model.ValidateListName(list); err != nil {
		return err
	}
	release, err := r.locker.Acquire(ctx, list)
	if err != nil {
		return err
	}
	defer release()

	current, err := r.load(list)
	switch {
	case errors.Is(err, os.ErrNotExist):
		current = Collection{Tasks: []Task{}}
	case err != nil:
		return err
	}

	next, err := fn(current)
	if err != nil {
		return err
	}
	if err := paths.EnsureExists(r.resolver.ListPath(list)); err != nil {
		return err
	}
	return r.persist(list, next)
}

// DeleteEntry removes the task with id and renumbers the rest to their
// positions. Ids of later tasks shift down.
func (r *FileRepository) DeleteEntry(ctx context.Context, id int, list string) error {
	if err := model.ValidateListName(list); err != nil {
		return err
	}
	release, err := r.locker.Acquire(ctx, list)
	if err != nil {
		return err
	}
	defer release()

	current, err := r.load(list)
	if err != nil {
		return err
	}
	return r.persist(list, RemoveAndRenumber(current, id))
}

// CreateList creates a zero-length file for name.
func (r *FileRepository) CreateList(ctx context.Context, name string) error {
	if err := model.ValidateListName(name); err != nil {
		return err
	}
	release, err := r.locker.Acquire(ctx, name)
	if err != nil {
		return err
	}
	defer release()

	path := r.resolver.ListPath(name)
	if err := os.MkdirAll(r.resolver.Dir(), 0o755); err != nil {
		return fmt.Errorf("%w: create data dir: %w", ErrIO, err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrListExists, name)
		}
		return fmt.Errorf("%w: create list %s: %w", ErrIO, name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close list %s: %w", ErrIO, name, err)
	}
	r.logger.Info("list created", "list", name)
	return nil
}

// DeleteList removes the file backing name.
func (r *FileRepository) DeleteList(ctx context.Context, name string) error {
	if err := model.ValidateListName(name); err != nil {
		return err
	}
	release, err := r.locker.Acquire(ctx, name)
	if err != nil {
		return err
	}
	defer release()

	if err := os.Remove(r.resolver.ListPath(name)); err != nil {
		return fmt.Errorf("%w: delete list %s: %w", ErrIO, name, err)
	}
	r.logger.Info("list deleted", "list", name)
	return nil
}

// Search returns the tasks of list whose name, description or tags contain
// term, ignoring case, in document order.
func (r *FileRepository) Search(ctx context.Context, list, term string) ([]Task, error) {
	c, err := r.Read(ctx, list)
	if err != nil {
		return nil, err
	}
	out := make([]Task, 0, len(c.Tasks))
	for _, t := range c.Tasks {
		if model.Matches(term, t.Name, t.Description, t.Tags) {
			out = append(out, t)
		}
	}
	return out, nil
}

// load reads and decodes a list file. A missing file is reported as an
// error wrapping os.ErrNotExist so callers can choose how to treat it.
func (r *FileRepository) load(list string) (Collection, error) {
	raw, err := os.ReadFile(r.resolver.ListPath(list))
	if err != nil {
		return Collection{}, fmt.Errorf("%w: read list %s: %w", ErrIO, list, err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return Collection{Tasks: []Task{}}, nil
	}
	var out Collection
	if err := json.Unmarshal(raw, &out); err != nil {
		return Collection{}, fmt.Errorf("%w: list %s: %w", ErrParse, list, err)
	}
	if out.Tasks == nil {
		out.Tasks = []Task{}
	}
	return out, nil
}

// persist serializes c before replacing the file, so an encoding failure
// leaves the stored list untouched.
func (r *FileRepository) persist(list string, c Collection) error {
	payload, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode list %s: %w", list, err)
	}
	return fileio.WriteAtomic(r.resolver.ListPath(list), r.resolver.StagingDir(), payload)
}
