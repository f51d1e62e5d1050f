// Package tui is a terminal version of the window manager dialog.
// This file contains the key bindings.
package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Try    key.Binding
	Revert key.Binding
	OK     key.Binding
	Cancel key.Binding
	Delete key.Binding
	Config key.Binding
	Save   key.Binding
	Later  key.Binding
	Close  key.Binding
	Quit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Try:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "try")),
		Revert: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "revert")),
		OK:     key.NewBinding(key.WithKeys("enter", "o"), key.WithHelp("enter", "ok")),
		Cancel: key.NewBinding(key.WithKeys("esc", "c"), key.WithHelp("esc", "cancel")),
		Delete: key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Config: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "configure")),
		Save:   key.NewBinding(key.WithKeys("s", "enter"), key.WithHelp("s", "save session now")),
		Later:  key.NewBinding(key.WithKeys("l", "esc"), key.WithHelp("l", "later")),
		Close:  key.NewBinding(key.WithKeys("enter", "esc", " "), key.WithHelp("enter", "close")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Try, k.Revert, k.OK, k.Cancel, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Delete, k.Config},
		{k.Try, k.Revert, k.OK, k.Cancel, k.Quit},
	}
}
