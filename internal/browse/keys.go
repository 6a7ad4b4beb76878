// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package browse

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit   key.Binding
	Tab    key.Binding
	Left   key.Binding
	Right  key.Binding
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Races  key.Binding
	Edit   key.Binding
	Done   key.Binding
	Help   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Tab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch tab")),
		Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Races:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "show races")),
		Edit:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "special")),
		Done:   key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter/esc", "done")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Toggle, k.Races, k.Edit, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.Tab, k.Toggle, k.Races},
		{k.Edit, k.Done},
		{k.Help, k.Quit},
	}
}
