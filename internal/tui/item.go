package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/dailytask/internal/clock"
	"github.com/Makepad-fr/dailytask/internal/model"
	"github.com/Makepad-fr/dailytask/internal/task"
	"github.com/Makepad-fr/dailytask/internal/ui"
)

// Mode is the transient per-item view state. It is never persisted.
type Mode int

const (
	Viewing Mode = iota
	Editing
)

func (m Mode) String() string {
	if m == Editing {
		return "editing"
	}
	return "viewing"
}

// Item renders one task and holds its edit buffer.
type Item struct {
	ID   int64
	mode Mode
	buf  textinput.Model
}

func newItem(id int64) Item {
	buf := textinput.New()
	buf.Prompt = ""
	buf.CharLimit = charLimit
	return Item{ID: id, buf: buf}
}

func (it Item) Mode() Mode { return it.mode }

func (it Item) Buffer() string { return it.buf.Value() }

// StartEdit switches to Editing with the buffer seeded from t.
func (it *Item) StartEdit(t model.Task) tea.Cmd {
	it.mode = Editing
	it.buf.SetValue(t.Text)
	it.buf.CursorEnd()
	return it.buf.Focus()
}

// Confirm applies a non-blank buffer and returns to Viewing either way.
func (it *Item) Confirm(s *task.Store) bool {
	applied := false
	if strings.TrimSpace(it.buf.Value()) != "" {
		applied = s.Update(it.ID, it.buf.Value())
	}
	it.mode = Viewing
	it.buf.Blur()
	return applied
}

// Update feeds msg to the edit buffer while editing.
func (it Item) Update(msg tea.Msg) (Item, tea.Cmd) {
	if it.mode != Editing {
		return it, nil
	}
	var cmd tea.Cmd
	it.buf, cmd = it.buf.Update(msg)
	return it, cmd
}

// View renders t; the caller guarantees t.ID == it.ID.
func (it Item) View(t model.Task, selected bool, locale string) string {
	th := ui.Current()

	prefix := "  "
	if selected {
		prefix = th.Selected.Render(">") + " "
	}
	box := th.Muted.Render(th.BoxUnchecked)
	if t.Completed {
		box = th.Success.Render(th.BoxChecked)
	}

	var body string
	switch {
	case it.mode == Editing:
		body = it.buf.View()
	case t.Completed:
		body = th.Done.Render(t.Text)
	default:
		body = t.Text
	}

	createdLabel, updatedLabel := clock.Labels(locale)
	lines := []string{
		prefix + box + " " + body,
		"    " + th.Muted.Render(createdLabel+": "+t.CreatedAt),
	}
	if t.UpdatedAt != nil {
		lines = append(lines, "    "+th.Muted.Render(updatedLabel+": "+*t.UpdatedAt))
	}
	return strings.Join(lines, "\n")
}
