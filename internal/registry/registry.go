// Package registry enumerates the lists stored in the data directory.
package registry

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sandeepkv93/tasks/internal/fileio"
	"github.com/sandeepkv93/tasks/internal/paths"
)

// ListFiles creates and removes the files backing lists.
type ListFiles interface {
	CreateList(ctx context.Context, name string) error
	DeleteList(ctx context.Context, name string) error
}

type Registry struct {
	resolver *paths.Resolver
	files    ListFiles
}

func New(resolver *paths.Resolver, files ListFiles) *Registry {
	return &Registry{resolver: resolver, files: files}
}

// Enumerate returns the file names of every regular file in the data
// directory except the settings file, extension included, in the order the
// filesystem reports them.
func (r *Registry) Enumerate(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, err := os.Open(r.resolver.Dir())
	if err != nil {
		return nil, fmt.Errorf("%w: open data dir: %w", fileio.ErrIO, err)
	}
	defer dir.Close()

	entries, err := dir.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("%w: read data dir: %w", fileio.ErrIO, err)
	}
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || entry.Name() == paths.SettingsFile {
			continue
		}
		out = append(out, entry.Name())
	}
	return out, nil
}

// Names returns list names, that is enumerated .json files without their
// extension. Other files in the directory are skipped.
func (r *Registry) Names(ctx context.Context) ([]string, error) {
	files, err := r.Enumerate(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(files))
	for _, name := range files {
		stem, ok := strings.CutSuffix(name, paths.ListExt)
		if !ok || stem == "" {
			continue
		}
		out = append(out, stem)
	}
	return out, nil
}

func (r *Registry) Create(ctx context.Context, name string) error {
	return r.files.CreateList(ctx, name)
}

func (r *Registry) Delete(ctx context.Context, name string) error {
	return r.files.DeleteList(ctx, name)
}
