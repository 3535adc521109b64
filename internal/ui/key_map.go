package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up         key.Binding
	down       key.Binding
	left       key.Binding
	right      key.Binding
	search     key.Binding
	enter      key.Binding
	have       key.Binding
	want       key.Binding
	collection key.Binding
	filter     key.Binding
	reset      key.Binding
	stats      key.Binding
	theme      key.Binding
	back       key.Binding
	quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		left:       key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "previous")),
		right:      key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next")),
		search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		have:       key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "have")),
		want:       key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "want")),
		collection: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "collection")),
		filter:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filters")),
		reset:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		stats:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stats")),
		theme:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.search, k.enter, k.have, k.want, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.search, k.enter},
		{k.have, k.want, k.collection, k.filter},
		{k.stats, k.theme, k.back, k.quit},
	}
}
