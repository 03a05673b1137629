package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up, Down, Toggle, Edit, Confirm, Delete, Focus, Quit, ForceQuit key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:    key.NewBinding(key.WithKeys(" ", "ctrl+t"), key.WithHelp("space/^t", "done")),
		Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Confirm:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Delete:    key.NewBinding(key.WithKeys("d", "ctrl+d"), key.WithHelp("d/^d", "delete")),
		Focus:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "input/list")),
		Quit:      key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Focus, k.Toggle, k.Edit, k.Confirm, k.Delete, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Focus},
		{k.Toggle, k.Edit, k.Confirm, k.Delete},
		{k.Quit},
	}
}
