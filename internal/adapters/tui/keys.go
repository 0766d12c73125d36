package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap is the focus view's key bindings.
type keyMap struct {
	Toggle     key.Binding
	Reset      key.Binding
	Work       key.Binding
	ShortBreak key.Binding
	LongBreak  key.Binding
	AutoFocus  key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle:     key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "start/pause")),
		Reset:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Work:       key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "work")),
		ShortBreak: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "short break")),
		LongBreak:  key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "long break")),
		AutoFocus:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "auto-focus")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Reset, k.AutoFocus, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset, k.AutoFocus},
		{k.Work, k.ShortBreak, k.LongBreak},
		{k.Help, k.Quit},
	}
}
