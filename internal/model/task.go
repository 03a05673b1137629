package model

// Task is the domain model for a to-do entry.
// JSON keys match the persisted slot layout, so they stay short.
type Task struct {
	ID        int64   `json:"id"`
	Text      string  `json:"text"`
	Completed bool    `json:"completed"`
	CreatedAt string  `json:"time"`
	UpdatedAt *string `json:"updatedTime"`
}

// Edited reports whether the task text was ever changed after creation.
func (t Task) Edited() bool { return t.UpdatedAt != nil }

// List is the ordered task list; insertion order is display order.
type List []Task

// Index returns the position of id in l, or -1.
func (l List) Index(id int64) int {
	for i, t := range l {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Find returns the task with the given id.
func (l List) Find(id int64) (Task, bool) {
	if i := l.Index(id); i >= 0 {
		return l[i], true
	}
	return Task{}, false
}

// Stats counts done and pending tasks.
func (l List) Stats() (done, pending int) {
	for _, t := range l {
		if t.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}

// Clone returns a copy that shares no memory with l, including UpdatedAt.
// A nil list clones to an empty, non-nil one.
func (l List) Clone() List {
	out := make(List, len(l))
	for i, t := range l {
		if t.UpdatedAt != nil {
			s := *t.UpdatedAt
			t.UpdatedAt = &s
		}
		out[i] = t
	}
	return out
}
