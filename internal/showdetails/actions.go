package showdetails

import "time"

// Action is a user intent submitted to the view model for asynchronous
// handling. Actions are consumed exactly once, in submission order.
type Action interface {
	isAction()
}

// RefreshAction re-fetches all remote data for the show.
type RefreshAction struct {
	FromUser bool
}

// ToggleFollowAction flips the show's followed flag.
type ToggleFollowAction struct{}

// MarkSeasonWatchedAction marks a season's episodes as watched.
type MarkSeasonWatchedAction struct {
	SeasonID  string
	OnlyAired bool
	Date      time.Time
}

// MarkSeasonUnwatchedAction clears a season's watch state.
type MarkSeasonUnwatchedAction struct {
	SeasonID string
}

// SetSeasonFollowedAction follows or ignores a single season.
type SetSeasonFollowedAction struct {
	SeasonID string
	Followed bool
}

// UnfollowPreviousSeasonsAction ignores every season before the given one.
type UnfollowPreviousSeasonsAction struct {
	SeasonID string
}

// ClearErrorAction acknowledges the currently displayed error.
type ClearErrorAction struct{}

func (RefreshAction) isAction()                 {}
func (ToggleFollowAction) isAction()            {}
func (MarkSeasonWatchedAction) isAction()       {}
func (MarkSeasonUnwatchedAction) isAction()     {}
func (SetSeasonFollowedAction) isAction()       {}
func (UnfollowPreviousSeasonsAction) isAction() {}
func (ClearErrorAction) isAction()              {}
