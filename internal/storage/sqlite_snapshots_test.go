package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestSnapshots(t *testing.T) *SnapshotStore {
	t.Helper()
	store, err := OpenSnapshots(t.Context(), filepath.Join(t.TempDir(), "snapshots.db"))
	if err != nil {
		t.Fatalf("open snapshots: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSnapshotSaveAndLoadKeepsOrder(t *testing.T) {
	store := openTestSnapshots(t)
	ctx := t.Context()

	done := task(1, "eggs")
	done.Completed = true
	lists := []NamedCollection{
		{List: "work", Collection: Collection{Tasks: []Task{task(0, "report"), task(1, "review")}}},
		{List: "groceries", Collection: Collection{Tasks: []Task{task(0, "milk"), done}}},
		{List: "empty", Collection: Collection{}},
	}

	snap, err := store.Save(ctx, lists)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if snap.ID == "" || snap.Lists != 3 || snap.Tasks != 4 {
		t.Fatalf("unexpected snapshot summary: %#v", snap)
	}

	got, err := store.Load(ctx, snap.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != len(lists) {
		t.Fatalf("got %d lists, want %d", len(got), len(lists))
	}
	for i := range lists {
		if got[i].List != lists[i].List {
			t.Fatalf("list %d = %q, want %q", i, got[i].List, lists[i].List)
		}
		assertTasks(t, got[i].Collection.Tasks, lists[i].Collection.Tasks...)
	}
}

func TestSnapshotListNewestFirst(t *testing.T) {
	store := openTestSnapshots(t)
	ctx := t.Context()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	first, err := store.Save(ctx, nil)
	if err != nil {
		t.Fatalf("save first: %v", err)
	}
	second, err := store.Save(ctx, []NamedCollection{{List: "a", Collection: Collection{Tasks: []Task{task(0, "x")}}}})
	if err != nil {
		t.Fatalf("save second: %v", err)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || all[0].ID != second.ID || all[1].ID != first.ID {
		t.Fatalf("unexpected snapshot order: %#v", all)
	}
	if all[0].Lists != 1 || all[0].Tasks != 1 {
		t.Fatalf("unexpected counts: %#v", all[0])
	}
	if !all[0].CreatedAt.Equal(second.CreatedAt) {
		t.Fatalf("created_at mismatch: %v vs %v", all[0].CreatedAt, second.CreatedAt)
	}

	latest, err := store.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.ID != second.ID {
		t.Fatalf("latest = %s, want %s", latest.ID, second.ID)
	}
}

func TestSnapshotMissingReturnsNotFound(t *testing.T) {
	store := openTestSnapshots(t)
	ctx := t.Context()

	if _, err := store.Latest(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from empty store, got %v", err)
	}
	if _, err := store.Load(ctx, "no-such-snapshot"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
