package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Prev      key.Binding
	Next      key.Binding
	Pin       key.Binding
	MoveLeft  key.Binding
	MoveRight key.Binding
	Overflow  key.Binding
	Up        key.Binding
	Down      key.Binding
	Select    key.Binding
	Cancel    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Prev:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev tab")),
		Next:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next tab")),
		Pin:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pin/unpin")),
		MoveLeft:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "move left")),
		MoveRight: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "move right")),
		Overflow:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "hidden tabs")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close/cancel")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Pin, k.Overflow, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.MoveLeft, k.MoveRight},
		{k.Pin, k.Overflow, k.Up, k.Down},
		{k.Select, k.Cancel, k.Help, k.Quit},
	}
}
