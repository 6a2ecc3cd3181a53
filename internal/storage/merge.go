package storage

// Merge reconciles incoming against current by id. A matching entry whose
// fields differ is replaced in place; an unmatched entry is appended.
// Entries of current that incoming does not mention are kept as they are.
func Merge(current, incoming Collection) Collection {
	out := Collection{Tasks: make([]Task, 0, len(current.Tasks)+len(incoming.Tasks))}
	for _, t := range current.Tasks {
		out.Tasks = append(out.Tasks, t.clone())
	}
	for _, t := range incoming.Tasks {
		idx := out.Find(t.ID)
		if idx < 0 {
			out.Tasks = append(out.Tasks, t.clone())
			continue
		}
		if !out.Tasks[idx].Equal(t) {
			out.Tasks[idx] = t.clone()
		}
	}
	return out
}

// RemoveAndRenumber drops every entry with id and then reassigns each
// remaining entry the id of its zero-based position.
func RemoveAndRenumber(c Collection, id int) Collection {
	out := Collection{Tasks: make([]Task, 0, len(c.Tasks))}
	for _, t := range c.Tasks {
		if t.ID == id {
			continue
		}
		out.Tasks = append(out.Tasks, t.clone())
	}
	for i := range out.Tasks {
		out.Tasks[i].ID = i
	}
	return out
}
