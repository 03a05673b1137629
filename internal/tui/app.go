// Package tui is the full-screen task editor: an input line for new tasks
// above the task list, each row switchable between viewing and editing.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/dailytask/internal/task"
	"github.com/Makepad-fr/dailytask/internal/ui"
)

type focus int

const (
	focusInput focus = iota
	focusList
)

// App is the Bubble Tea model. The store is shared, never copied.
type App struct {
	store  *task.Store
	locale string

	input Input
	list  List
	focus focus

	keys     keyMap
	help     help.Model
	width    int
	quitting bool
}

func NewApp(store *task.Store, locale string) App {
	a := App{
		store:  store,
		locale: locale,
		input:  NewInput(locale),
		keys:   defaultKeys(),
		help:   help.New(),
	}
	a.list.Sync(store.Tasks())
	return a
}

func (a App) Init() tea.Cmd { return textinput.Blink }

// refresh re-projects the list after a store mutation.
func (a *App) refresh() {
	a.list.Sync(a.store.Tasks())
}

func (a *App) setFocus(f focus) tea.Cmd {
	a.focus = f
	if f == focusInput {
		return a.input.Focus()
	}
	a.input.Blur()
	return nil
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.help.Width = msg.Width
		return a, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keys.ForceQuit):
			a.quitting = true
			return a, tea.Quit
		case key.Matches(msg, a.keys.Focus):
			if a.focus == focusInput {
				return a, a.setFocus(focusList)
			}
			return a, a.setFocus(focusInput)
		}
		if a.focus == focusInput {
			return a.updateInput(msg)
		}
		return a.updateList(msg)
	}

	// Blink and other internal messages go to every live text field.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	cmds = append(cmds, cmd)
	for i := range a.list.items {
		a.list.items[i], cmd = a.list.items[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

func (a App) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.Confirm) {
		if t, ok := a.input.Submit(a.store); ok {
			a.refresh()
			a.list.Select(t.ID)
		}
		return a, nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a App) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Up):
		if it, _, ok := a.list.Selected(); !ok || it.Mode() != Editing || msg.String() == "up" {
			a.list.Up()
			return a, nil
		}
	case key.Matches(msg, a.keys.Down):
		if it, _, ok := a.list.Selected(); !ok || it.Mode() != Editing || msg.String() == "down" {
			a.list.Down()
			return a, nil
		}
	}

	it, t, ok := a.list.Selected()
	if !ok {
		if key.Matches(msg, a.keys.Quit) {
			a.quitting = true
			return a, tea.Quit
		}
		return a, nil
	}

	if it.Mode() == Editing {
		if key.Matches(msg, a.keys.Confirm) {
			it.Confirm(a.store)
			a.refresh()
			return a, nil
		}
		// Printable keys belong to the buffer; only the control forms of
		// toggle and delete act on the row while it is being edited.
		if !printable(msg) {
			switch {
			case key.Matches(msg, a.keys.Toggle):
				a.store.ToggleComplete(t.ID)
				a.refresh()
				return a, nil
			case key.Matches(msg, a.keys.Delete):
				a.store.Delete(t.ID)
				a.refresh()
				return a, nil
			}
		}
		var cmd tea.Cmd
		*it, cmd = it.Update(msg)
		return a, cmd
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		a.quitting = true
		return a, tea.Quit
	case key.Matches(msg, a.keys.Toggle):
		a.store.ToggleComplete(t.ID)
		a.refresh()
	case key.Matches(msg, a.keys.Edit):
		return a, it.StartEdit(t)
	case key.Matches(msg, a.keys.Delete):
		a.store.Delete(t.ID)
		a.refresh()
	}
	return a, nil
}

func (a App) View() string {
	if a.quitting {
		return ""
	}
	th := ui.Current()
	tasks := a.store.Tasks()
	done, pending := tasks.Stats()

	header := fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		th.Title.Render("Daily Task"),
		th.Success.Render(th.SymDone), done,
		th.Pending.Render(th.SymPending), pending,
		th.Accent.Render("Total"), len(tasks),
	)

	empty := "할 일이 없습니다"
	if strings.HasPrefix(strings.ToLower(a.locale), "en") {
		empty = "no tasks yet"
	}

	lines := []string{
		header,
		th.Muted.Render(ui.ProgressBar(done, done+pending, 28)),
		"",
		a.input.View(),
		"",
		a.list.View(a.focus == focusList, a.locale, empty),
		"",
		a.help.View(a.keys),
	}
	if err := a.store.Err(); err != nil {
		lines = append(lines, th.Error.Render(th.SymFail+" save: "+err.Error()))
	}
	return ui.PanelString(lines)
}

// Run starts the full-screen program and blocks until the user quits.
// Every change is persisted by the store as it happens.
func Run(store *task.Store, locale string) error {
	p := tea.NewProgram(NewApp(store, locale), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func printable(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace
}
