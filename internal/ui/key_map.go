package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up         key.Binding
	down       key.Binding
	enter      key.Binding
	tab        key.Binding
	search     key.Binding
	back       key.Binding
	sortTitle  key.Binding
	sortArtist key.Binding
	sortDate   key.Binding
	profile    key.Binding
	refresh    key.Binding
	help       key.Binding
	quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		tab:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "leave search")),
		sortTitle:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "sort title")),
		sortArtist: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "sort artist")),
		sortDate:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "sort date")),
		profile:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "profile")),
		refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.enter, k.tab, k.search, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.tab},
		{k.search, k.back, k.profile, k.refresh},
		{k.sortTitle, k.sortArtist, k.sortDate},
		{k.help, k.quit},
	}
}
