package domain

import (
	"context"
	"time"
)

// ShowMutations is the asynchronous write contract behind show-detail actions.
// Every method performs a side effect against the store (and possibly the
// network) and returns once the change is persisted and republished to
// observers. Methods of different kinds are safe to invoke concurrently.
type ShowMutations interface {
	// Refresh operations re-fetch remote data and persist it locally.
	// fromUser distinguishes explicit user refreshes from background ones.
	RefreshShowDetails(ctx context.Context, showID string, fromUser bool) error
	RefreshShowImages(ctx context.Context, showID string, fromUser bool) error
	RefreshRelatedShows(ctx context.Context, showID string, fromUser bool) error
	RefreshSeasons(ctx context.Context, showID string, fromUser bool) error

	ToggleShowFollowed(ctx context.Context, showID string) error
	MarkSeasonWatched(ctx context.Context, seasonID string, onlyAired bool, date time.Time) error
	MarkSeasonUnwatched(ctx context.Context, seasonID string) error
	SetSeasonFollowed(ctx context.Context, seasonID string, followed bool) error
	UnfollowPreviousSeasons(ctx context.Context, seasonID string) error
}
