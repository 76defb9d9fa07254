package domain

// ShowStore handles local persistence (BoltDB + memory).
// The tracker service is the only writer; observers read through it.
type ShowStore interface {
	GetShow(showID string) (ShowDetails, bool)
	SaveShow(show ShowDetails) error

	GetImages(showID string) ([]ShowImage, bool)
	SaveImages(showID string, images []ShowImage) error

	GetRelated(showID string) ([]RelatedShow, bool)
	SaveRelated(showID string, related []RelatedShow) error

	GetSeasons(showID string) ([]SeasonWithEpisodes, bool)
	SaveSeasons(showID string, seasons []SeasonWithEpisodes) error

	// SeasonShowID resolves a season back to its show via the season index
	SeasonShowID(seasonID string) (string, bool)

	IsFollowed(showID string) bool
	SetFollowed(showID string, followed bool) error

	Close() error
}
