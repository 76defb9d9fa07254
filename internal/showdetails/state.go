package showdetails

import "github.com/tamojit-123/tivi/internal/domain"

// ViewState is the complete, immutable snapshot of the show-details screen.
// A new snapshot replaces the previous one wholesale on every upstream
// change; individual fields are never mutated in place. Every field has a
// well-defined default, so the first snapshot is valid before any source
// has emitted.
type ViewState struct {
	Followed     bool
	Show         domain.ShowDetails
	Images       []domain.ShowImage
	RelatedShows []domain.RelatedShow
	NextEpisode  *domain.EpisodeWithSeason
	Seasons      []domain.SeasonWithEpisodes
	Stats        domain.FollowedShowStats
	Refreshing   bool
}

// initialViewState returns the defaults every source binding starts from.
func initialViewState(showID string) ViewState {
	return ViewState{
		Show:  domain.ShowDetails{ID: showID},
		Stats: domain.FollowedShowStats{ShowID: showID},
	}
}
