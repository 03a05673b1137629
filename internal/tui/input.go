package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/dailytask/internal/clock"
	"github.com/Makepad-fr/dailytask/internal/model"
	"github.com/Makepad-fr/dailytask/internal/task"
)

const charLimit = 200

// Input captures the text of the next task.
type Input struct {
	ti textinput.Model
}

func NewInput(locale string) Input {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = charLimit
	ti.Placeholder = "오늘 해야하는 일을 등록해 주세요"
	if strings.HasPrefix(strings.ToLower(locale), clock.LocaleEnglish) {
		ti.Placeholder = "What needs doing today?"
	}
	ti.Focus()
	return Input{ti: ti}
}

func (in Input) Value() string { return in.ti.Value() }

func (in *Input) SetValue(s string) { in.ti.SetValue(s) }

func (in *Input) Focus() tea.Cmd { return in.ti.Focus() }

func (in *Input) Blur() { in.ti.Blur() }

func (in Input) Focused() bool { return in.ti.Focused() }

// Submit creates a task from the pending text and clears the field.
// Blank text is left in place and nothing is created.
func (in *Input) Submit(s *task.Store) (model.Task, bool) {
	if strings.TrimSpace(in.ti.Value()) == "" {
		return model.Task{}, false
	}
	t, ok := s.Create(in.ti.Value())
	if ok {
		in.ti.SetValue("")
	}
	return t, ok
}

func (in Input) Update(msg tea.Msg) (Input, tea.Cmd) {
	var cmd tea.Cmd
	in.ti, cmd = in.ti.Update(msg)
	return in, cmd
}

func (in Input) View() string { return in.ti.View() }
