package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the saved list key bindings.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	PrevPage key.Binding
	NextPage key.Binding

	// Selection
	Toggle    key.Binding
	SelectAll key.Binding
	Invert    key.Binding

	// Actions
	Delete     key.Binding
	Queue      key.Binding
	SwipeLeft  key.Binding
	SwipeRight key.Binding
	Undo       key.Binding
	Details    key.Binding
	Escape     key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("pgup", "p"),
			key.WithHelp("p", "prev page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("pgdown", "n"),
			key.WithHelp("n", "next page"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "check"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "select all"),
		),
		Invert: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "invert"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete selected"),
		),
		Queue: key.NewBinding(
			key.WithKeys("q", "enter"),
			key.WithHelp("q/enter", "queue selected"),
		),
		SwipeLeft: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "delete"),
		),
		SwipeRight: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "queue"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "undo"),
		),
		Details: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "details"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// Keys is the active key map.
var Keys = DefaultKeyMap()
