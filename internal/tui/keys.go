package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the show-details screen
type KeyMap struct {
	// Navigation
	Up   key.Binding
	Down key.Binding

	// Actions
	Quit             key.Binding
	Escape           key.Binding
	Filter           key.Binding
	Refresh          key.Binding
	ToggleFollow     key.Binding
	MarkWatched      key.Binding
	MarkWatchedAired key.Binding
	MarkUnwatched    key.Binding
	ToggleSeason     key.Binding
	UnfollowPrevious key.Binding
}

// DefaultKeyMap returns the default key bindings
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
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		ToggleFollow: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "follow/unfollow"),
		),
		MarkWatched: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "mark season watched"),
		),
		MarkWatchedAired: key.NewBinding(
			key.WithKeys("W"),
			key.WithHelp("W", "mark aired watched"),
		),
		MarkUnwatched: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "mark season unwatched"),
		),
		ToggleSeason: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "ignore/follow season"),
		),
		UnfollowPrevious: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "ignore previous seasons"),
		),
	}
}
