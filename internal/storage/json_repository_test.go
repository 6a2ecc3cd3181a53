package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/tasks/internal/fileio"
	"github.com/sandeepkv93/tasks/internal/model"
	"github.com/sandeepkv93/tasks/internal/paths"
)

func setupRepo(t *testing.T) (*FileRepository, *paths.Resolver) {
	t.Helper()
	resolver := paths.New(filepath.Join(t.TempDir(), "Tasks"))
	locker := fileio.NewLocker(resolver.LockDir(), time.Second)
	return NewFileRepository(resolver, locker), resolver
}

func task(id int, name string) Task {
	return Task{ID: id, Name: name, Description: name + " desc", Tags: []string{"home, errands"}}
}

func assertTasks(t *testing.T, got []Task, want ...Task) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d tasks, want %d: %#v", len(got), len(want), got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("task %d = %#v, want %#v", i, got[i], want[i])
		}
	}
}

func TestReadMissingListIsEmpty(t *testing.T) {
	repo, _ := setupRepo(t)

	got, err := repo.Read(t.Context(), "nothing-here")
	if err != nil {
		t.Fatalf("read missing: %v", err)
	}
	if len(got.Tasks) != 0 {
		t.Fatalf("expected empty collection, got %#v", got)
	}
}

func TestReadZeroLengthFileIsEmpty(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := t.Context()
	if err := repo.CreateList(ctx, "groceries"); err != nil {
		t.Fatalf("create list: %v", err)
	}

	got, err := repo.Read(ctx, "groceries")
	if err != nil {
		t.Fatalf("read empty: %v", err)
	}
	if len(got.Tasks) != 0 {
		t.Fatalf("expected empty collection, got %#v", got)
	}
}

func TestReadInvalidJSONReturnsParseError(t *testing.T) {
	repo, resolver := setupRepo(t)
	if err := paths.EnsureExists(resolver.ListPath("broken")); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := os.WriteFile(resolver.ListPath("broken"), []byte(`{"tasks": [`), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := repo.Read(t.Context(), "broken")
	if !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestReadRejectsReservedName(t *testing.T) {
	repo, _ := setupRepo(t)
	_, err := repo.Read(t.Context(), "settings")
	if !errors.Is(err, model.ErrReservedListName) {
		t.Fatalf("expected reserved name error, got %v", err)
	}
}

func TestWriteThenReadPreservesOrder(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := t.Context()
	in := Collection{Tasks: []Task{task(2, "c"), task(0, "a"), task(1, "b")}}

	if err := repo.Write(ctx, "work", in); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := repo.Read(ctx, "work")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	assertTasks(t, got.Tasks, in.Tasks...)
}

func TestWriteIsIdempotent(t *testing.T) {
	repo, resolver := setupRepo(t)
	ctx := t.Context()
	in := Collection{Tasks: []Task{task(0, "a"), task(1, "b")}}

	if err := repo.Write(ctx, "work", in); err != nil {
		t.Fatalf("first write: %v", err)
	}
	first, err := os.ReadFile(resolver.ListPath("work"))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if err := repo.Write(ctx, "work", in); err != nil {
		t.Fatalf("second write: %v", err)
	}
	second, err := os.ReadFile(resolver.ListPath("work"))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("second write changed the file:\n%s\n---\n%s", first, second)
	}
}

func TestWriteMergesUpdatesAndAppends(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := t.Context()
	a, b := task(0, "a"), task(1, "b")
	if err := repo.Write(ctx, "work", Collection{Tasks: []Task{a, b}}); err != nil {
		t.Fatalf("seed write: %v", err)
	}

	aPrime := a
	aPrime.Completed = true
	c := task(2, "c")
	if err := repo.Write(ctx, "work", Collection{Tasks: []Task{aPrime, c}}); err != nil {
		t.Fatalf("merge write: %v", err)
	}

	got, err := repo.Read(ctx, "work")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	assertTasks(t, got.Tasks, aPrime, b, c)
}

func TestWriteOverCorruptedFileStartsFresh(t *testing.T) {
	repo, resolver := setupRepo(t)
	ctx := t.Context()
	if err := paths.EnsureExists(resolver.ListPath("work")); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := os.WriteFile(resolver.ListPath("work"), []byte("not json"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := repo.Write(ctx, "work", Collection{Tasks: []Task{task(0, "a")}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := repo.Read(ctx, "work")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	assertTasks(t, got.Tasks, task(0, "a"))
}

func TestDeleteEntryRenumbers(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := t.Context()
	seed := Collection{Tasks: []Task{task(0, "a"), task(1, "b"), task(2, "c"), task(3, "d")}}
	if err := repo.Write(ctx, "work", seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := repo.DeleteEntry(ctx, 1, "work"); err != nil {
		t.Fatalf("delete entry: %v", err)
	}
	got, err := repo.Read(ctx, "work")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	assertTasks(t, got.Tasks, task(0, "a"), task(1, "c"), task(2, "d"))
}

func TestDeleteEntryMissingListFails(t *testing.T) {
	repo, _ := setupRepo(t)
	err := repo.DeleteEntry(t.Context(), 0, "ghost")
	if !errors.Is(err, ErrIO) || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrIO wrapping ErrNotExist, got %v", err)
	}
}

func TestDeleteEntryLeavesMalformedFileAlone(t *testing.T) {
	repo, resolver := setupRepo(t)
	if err := paths.EnsureExists(resolver.ListPath("work")); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := os.WriteFile(resolver.ListPath("work"), []byte("{oops"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := repo.DeleteEntry(t.Context(), 0, "work"); !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
	raw, _ := os.ReadFile(resolver.ListPath("work"))
	if string(raw) != "{oops" {
		t.Fatalf("malformed file was rewritten: %q", raw)
	}
}

func TestCreateAndDeleteList(t *testing.T) {
	repo, resolver := setupRepo(t)
	ctx := t.Context()

	if err := repo.CreateList(ctx, "groceries"); err != nil {
		t.Fatalf("create: %v", err)
	}
	info, err := os.Stat(resolver.ListPath("groceries"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != 0 {
		t.Fatalf("expected zero-length list file, got %d bytes", info.Size())
	}
	if err := repo.CreateList(ctx, "groceries"); !errors.Is(err, ErrListExists) {
		t.Fatalf("expected ErrListExists, got %v", err)
	}

	if err := repo.DeleteList(ctx, "groceries"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.DeleteList(ctx, "groceries"); !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO deleting missing list, got %v", err)
	}
}

func TestSearchMatchesNameDescriptionAndTags(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := t.Context()
	seed := Collection{Tasks: []Task{
		{ID: 0, Name: "Buy milk", Tags: []string{"shop"}},
		{ID: 1, Name: "Call mom", Description: "about the MILK recipe", Tags: []string{}},
		{ID: 2, Name: "Fix bike", Tags: []string{"garage, Milkshake"}},
		{ID: 3, Name: "Taxes", Tags: []string{"finance"}},
	}}
	if err := repo.Write(ctx, "home", seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := repo.Search(ctx, "home", "milk")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	assertTasks(t, got, seed.Tasks[0], seed.Tasks[1], seed.Tasks[2])

	all, err := repo.Search(ctx, "home", "")
	if err != nil {
		t.Fatalf("search all: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected all tasks for empty term, got %d", len(all))
	}
}

func TestConcurrentWritesKeepEveryEntry(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	const writers = 12
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		go func(id int) {
			errs <- repo.Write(ctx, "shared", Collection{Tasks: []Task{task(id, "t")}})
		}(i)
	}
	for i := 0; i < writers; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("concurrent write: %v", err)
		}
	}

	got, err := repo.Read(ctx, "shared")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got.Tasks) != writers {
		t.Fatalf("lost updates: have %d tasks, want %d", len(got.Tasks), writers)
	}
}

func TestAppendBuildsFromLockedState(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	const writers = 10
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		go func() {
			_, err := repo.Append(ctx, "shared", func(current Collection) (Task, error) {
				next := 0
				if last, ok := current.Last(); ok {
					next = last.ID + 1
				}
				return task(next, "t"), nil
			})
			errs <- err
		}()
	}
	for i := 0; i < writers; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.Read(ctx, "shared")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got.Tasks) != writers {
		t.Fatalf("lost appends: have %d tasks, want %d", len(got.Tasks), writers)
	}
	for i, tk := range got.Tasks {
		if tk.ID != i {
			t.Fatalf("task %d has id %d", i, tk.ID)
		}
	}
}

func TestAppendBuildErrorWritesNothing(t *testing.T) {
	repo, resolver := setupRepo(t)
	boom := errors.New("boom")
	if _, err := repo.Append(t.Context(), "work", func(Collection) (Task, error) { return Task{}, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected build error, got %v", err)
	}
	raw, err := os.ReadFile(resolver.ListPath("work"))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if len(raw) != 0 {
		t.Fatalf("expected untouched empty file, got %q", raw)
	}
}

func TestModifyReplacesWholeList(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := t.Context()
	if err := repo.Write(ctx, "work", Collection{Tasks: []Task{task(0, "a"), task(1, "b"), task(2, "c")}}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	err := repo.Modify(ctx, "work", func(current Collection) (Collection, error) {
		return RemoveAndRenumber(current, 1), nil
	})
	if err != nil {
		t.Fatalf("modify: %v", err)
	}
	got, err := repo.Read(ctx, "work")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := task(1, "c")
	assertTasks(t, got.Tasks, task(0, "a"), want)
}

func TestModifyLeavesMalformedAndMissingListsAlone(t *testing.T) {
	repo, resolver := setupRepo(t)
	ctx := t.Context()

	called := false
	err := repo.Modify(ctx, "ghost", func(current Collection) (Collection, error) {
		called = true
		if len(current.Tasks) != 0 {
			t.Fatalf("expected empty collection for missing list, got %#v", current)
		}
		return Collection{}, ErrTaskNotFound
	})
	if !called || !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected fn error, called=%v err=%v", called, err)
	}
	if _, statErr := os.Stat(resolver.ListPath("ghost")); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("failed modify created the list file: %v", statErr)
	}

	if err := paths.EnsureExists(resolver.ListPath("broken")); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := os.WriteFile(resolver.ListPath("broken"), []byte("{oops"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	err = repo.Modify(ctx, "broken", func(c Collection) (Collection, error) { return c, nil })
	if !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
	raw, _ := os.ReadFile(resolver.ListPath("broken"))
	if string(raw) != "{oops" {
		t.Fatalf("malformed file was rewritten: %q", raw)
	}
}
