package domain

import "context"

// MetadataClient fetches show metadata from a remote catalog.
// Implemented by internal/tmdb.
type MetadataClient interface {
	GetShow(ctx context.Context, showID string) (ShowDetails, error)
	GetShowImages(ctx context.Context, showID string) ([]ShowImage, error)
	GetRelatedShows(ctx context.Context, showID string) ([]RelatedShow, error)
	GetSeasons(ctx context.Context, showID string) ([]SeasonWithEpisodes, error)
}
