package domain

import "context"

// ShowObservers exposes latest-value streams over locally tracked show data.
// Each Observe call returns a channel that emits the current value immediately
// (when one exists) and then every subsequent change, conflated to the latest.
// Observing the same show twice is idempotent; the returned channel is closed
// when ctx is canceled.
type ShowObservers interface {
	ObserveShowFollowed(ctx context.Context, showID string) <-chan bool
	ObserveShowDetails(ctx context.Context, showID string) <-chan ShowDetails
	ObserveShowImages(ctx context.Context, showID string) <-chan []ShowImage
	ObserveRelatedShows(ctx context.Context, showID string) <-chan []RelatedShow
	ObserveSeasons(ctx context.Context, showID string) <-chan []SeasonWithEpisodes
	ObserveNextEpisode(ctx context.Context, showID string) <-chan *EpisodeWithSeason
	ObserveShowStats(ctx context.Context, showID string) <-chan FollowedShowStats
}
