package storage

import (
	"encoding/json"
	"slices"
	"time"
)

// Task is one entry of a list document.
//
// Tags is an opaque ordered sequence. The UI stores a single comma-joined
// element; this layer never parses or validates its contents.
type Task struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Completed   bool     `json:"completed"`
}

// Equal reports whether every field of t and o matches.
func (t Task) Equal(o Task) bool {
	return t.ID == o.ID &&
		t.Name == o.Name &&
		t.Description == o.Description &&
		t.Completed == o.Completed &&
		slices.Equal(t.Tags, o.Tags)
}

func (t Task) clone() Task {
	t.Tags = slices.Clone(t.Tags)
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return t
}

// Collection is the whole document of one list. Document order is display
// order.
type Collection struct {
	Tasks []Task `json:"tasks"`
}

// Last returns the final task in document order.
func (c Collection) Last() (Task, bool) {
	if len(c.Tasks) == 0 {
		return Task{}, false
	}
	return c.Tasks[len(c.Tasks)-1], true
}

// Find returns the index of the first task with id, or -1.
func (c Collection) Find(id int) int {
	return slices.IndexFunc(c.Tasks, func(t Task) bool { return t.ID == id })
}

// MarshalJSON writes nil slices as empty arrays so every document reads back
// with a tasks array and per-task tags arrays.
func (c Collection) MarshalJSON() ([]byte, error) {
	type doc struct {
		Tasks []Task `json:"tasks"`
	}
	out := doc{Tasks: make([]Task, 0, len(c.Tasks))}
	for _, t := range c.Tasks {
		out.Tasks = append(out.Tasks, t.clone())
	}
	return json.Marshal(out)
}

// NamedCollection pairs a list name with its document.
type NamedCollection struct {
	List       string
	Collection Collection
}

// Snapshot describes one export stored in a snapshot database.
type Snapshot struct {
	ID        string
	CreatedAt time.Time
	Lists     int
	Tasks     int
}
