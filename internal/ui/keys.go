package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	NextTheme key.Binding
	PrevTheme key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTheme, k.Quit}
}

var keys = keyMap{
	Quit:      key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	NextTheme: key.NewBinding(key.WithKeys("t", "right"), key.WithHelp("t", "next theme")),
	PrevTheme: key.NewBinding(key.WithKeys("T", "left"), key.WithHelp("T", "prev theme")),
}
