package tui

import "github.com/tamojit-123/tivi/internal/showdetails"

// stateMsg carries the latest ViewState snapshot into the Bubble Tea loop
type stateMsg showdetails.ViewState

// effectMsg carries a one-shot effect into the Bubble Tea loop
type effectMsg struct {
	effect showdetails.Effect
}
