package tui

import (
	"strings"

	"github.com/Makepad-fr/dailytask/internal/model"
	"github.com/Makepad-fr/dailytask/internal/ui"
)

// List projects the task list to one Item per task, keyed by id.
type List struct {
	tasks  model.List
	items  []Item
	cursor int
}

// Sync rebuilds the items for tasks. Items whose id survives keep their
// mode and edit buffer; items of removed ids are dropped.
func (l *List) Sync(tasks model.List) {
	prev := make(map[int64]Item, len(l.items))
	for _, it := range l.items {
		prev[it.ID] = it
	}
	items := make([]Item, len(tasks))
	for i, t := range tasks {
		if it, ok := prev[t.ID]; ok {
			items[i] = it
		} else {
			items[i] = newItem(t.ID)
		}
	}
	l.tasks = tasks
	l.items = items
	l.clamp()
}

func (l *List) clamp() {
	if l.cursor >= len(l.items) {
		l.cursor = len(l.items) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

func (l List) Len() int { return len(l.items) }

func (l List) Cursor() int { return l.cursor }

func (l *List) Up() {
	if l.cursor > 0 {
		l.cursor--
	}
}

func (l *List) Down() {
	if l.cursor < len(l.items)-1 {
		l.cursor++
	}
}

// Select moves the cursor to id, if present.
func (l *List) Select(id int64) {
	for i, it := range l.items {
		if it.ID == id {
			l.cursor = i
			return
		}
	}
}

// Selected returns the item under the cursor and its task.
func (l *List) Selected() (*Item, model.Task, bool) {
	if len(l.items) == 0 {
		return nil, model.Task{}, false
	}
	return &l.items[l.cursor], l.tasks[l.cursor], true
}

// Item returns the item rendering id.
func (l *List) Item(id int64) (*Item, bool) {
	for i := range l.items {
		if l.items[i].ID == id {
			return &l.items[i], true
		}
	}
	return nil, false
}

// View renders every task in order; the cursor is shown only when focused.
func (l List) View(focused bool, locale string, empty string) string {
	if len(l.items) == 0 {
		return ui.Current().Muted.Render(empty)
	}
	out := make([]string, len(l.items))
	for i, it := range l.items {
		out[i] = it.View(l.tasks[i], focused && i == l.cursor, locale)
	}
	return strings.Join(out, "\n")
}
