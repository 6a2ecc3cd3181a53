package storage

import (
	"context"
	"errors"

	"github.com/sandeepkv93/tasks/internal/fileio"
)

var (
	ErrNotFound     = errors.New("storage: not found")
	ErrListExists   = errors.New("storage: list already exists")
	ErrTaskNotFound = errors.New("storage: task not found")

	ErrIO    = fileio.ErrIO
	ErrParse = fileio.ErrParse
)

// Repository is the task-list persistence contract used by the
// presentation layer.
type Repository interface {
	Read(ctx context.Context, list string) (Collection, error)
	Write(ctx context.Context, list string, incoming Collection) error
	DeleteEntry(ctx context.Context, id int, list string) error
	Append(ctx context.Context, list string, build func(current Collection) (Task, error)) (Task, error)
	Modify(ctx context.Context, list string, fn func(current Collection) (Collection, error)) error
	CreateList(ctx context.Context, name string) error
	DeleteList(ctx context.Context, name string) error
	Search(ctx context.Context, list, term string) ([]Task, error)
}
