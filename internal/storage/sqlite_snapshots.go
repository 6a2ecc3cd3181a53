package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

// SnapshotStore keeps point-in-time copies of every list in a SQLite
// database. It backs export and import; the JSON files stay the source of
// truth.
type SnapshotStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSnapshotStore(ctx context.Context, db *sql.DB) (*SnapshotStore, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := MigrateUp(ctx, db); err != nil {
		return nil, err
	}
	return &SnapshotStore{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

// OpenSnapshots opens (or creates) the snapshot database at path.
func OpenSnapshots(ctx context.Context, path string) (*SnapshotStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	store, err := NewSnapshotStore(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

// Save stores lists as a new snapshot in one transaction.
func (s *SnapshotStore) Save(ctx context.Context, lists []NamedCollection) (Snapshot, error) {
	snap := Snapshot{ID: uuid.NewString(), CreatedAt: s.now(), Lists: len(lists)}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT INTO snapshots (id, created_at) VALUES (?, ?)`,
		snap.ID, snap.CreatedAt.Format(sqliteTimeLayout)); err != nil {
		return Snapshot{}, fmt.Errorf("insert snapshot: %w", err)
	}
	for i, nc := range lists {
		if _, err := tx.ExecContext(ctx, `INSERT INTO snapshot_lists (snapshot_id, name, position) VALUES (?, ?, ?)`,
			snap.ID, nc.List, i); err != nil {
			return Snapshot{}, fmt.Errorf("insert list %s: %w", nc.List, err)
		}
		for pos, t := range nc.Collection.Tasks {
			tags, err := json.Marshal(t.clone().Tags)
			if err != nil {
				return Snapshot{}, fmt.Errorf("encode tags: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO snapshot_tasks (snapshot_id, list_name, position, task_id, name, description, tags, completed)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				snap.ID, nc.List, pos, t.ID, t.Name, t.Description, string(tags), boolInt(t.Completed),
			); err != nil {
				return Snapshot{}, fmt.Errorf("insert task %d of %s: %w", t.ID, nc.List, err)
			}
			snap.Tasks++
		}
	}
	if err := tx.Commit(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// List returns every snapshot, newest first.
func (s *SnapshotStore) List(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.created_at,
			(SELECT COUNT(*) FROM snapshot_lists l WHERE l.snapshot_id = s.id),
			(SELECT COUNT(*) FROM snapshot_tasks t WHERE t.snapshot_id = s.id)
		FROM snapshots s
		ORDER BY s.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Snapshot, 0)
	for rows.Next() {
		snap, scanErr := scanSnapshot(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Latest returns the most recent snapshot or ErrNotFound.
func (s *SnapshotStore) Latest(ctx context.Context) (Snapshot, error) {
	all, err := s.List(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	if len(all) == 0 {
		return Snapshot{}, ErrNotFound
	}
	return all[0], nil
}

// Load returns the lists stored under snapshot id in their saved order.
func (s *SnapshotStore) Load(ctx context.Context, id string) ([]NamedCollection, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM snapshots WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	listRows, err := s.db.QueryContext(ctx, `SELECT name FROM snapshot_lists WHERE snapshot_id = ? ORDER BY position ASC`, id)
	if err != nil {
		return nil, err
	}
	out := make([]NamedCollection, 0)
	index := make(map[string]int)
	for listRows.Next() {
		var name string
		if err := listRows.Scan(&name); err != nil {
			_ = listRows.Close()
			return nil, err
		}
		index[name] = len(out)
		out = append(out, NamedCollection{List: name, Collection: Collection{Tasks: []Task{}}})
	}
	if err := listRows.Close(); err != nil {
		return nil, err
	}

	taskRows, err := s.db.QueryContext(ctx, `
		SELECT list_name, task_id, name, description, tags, completed
		FROM snapshot_tasks WHERE snapshot_id = ?
		ORDER BY list_name, position ASC`, id)
	if err != nil {
		return nil, err
	}
	defer taskRows.Close()
	for taskRows.Next() {
		var (
			list      string
			t         Task
			tags      string
			completed int
		)
		if err := taskRows.Scan(&list, &t.ID, &t.Name, &t.Description, &tags, &completed); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(tags), &t.Tags); err != nil {
			return nil, fmt.Errorf("%w: tags of %s/%d: %w", ErrParse, list, t.ID, err)
		}
		t.Completed = completed == 1
		i, ok := index[list]
		if !ok {
			continue
		}
		out[i].Collection.Tasks = append(out[i].Collection.Tasks, t)
	}
	return out, taskRows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(s scanner) (Snapshot, error) {
	var out Snapshot
	var created string
	if err := s.Scan(&out.ID, &created, &out.Lists, &out.Tasks); err != nil {
		return Snapshot{}, err
	}
	createdAt, err := time.Parse(sqliteTimeLayout, created)
	if err != nil {
		return Snapshot{}, err
	}
	out.CreatedAt = createdAt
	return out, nil
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
