package domain

import (
	"fmt"
	"time"
)

// ImageKind distinguishes show image types
type ImageKind string

const (
	ImageKindPoster   ImageKind = "poster"
	ImageKindBackdrop ImageKind = "backdrop"
)

// ShowDetails represents a TV show's metadata
type ShowDetails struct {
	ID            string  // Opaque show identifier
	Title         string  // Display title
	OriginalTitle string  // Title in the original language
	Summary       string  // Plot synopsis
	Network       string  // Broadcasting network
	Status        string  // "returning", "ended", "canceled"
	Certification string  // Content rating (e.g., "TV-MA")
	Genres        []string
	Runtime       time.Duration // Typical episode runtime
	FirstAired    time.Time
	Rating        float64 // 0-10 community rating
	Votes         int
	TraktID       int // External Trakt identifier
	TmdbID        int // External TMDB identifier
}

// ShowImage is a single poster or backdrop for a show
type ShowImage struct {
	ID     string
	ShowID string
	Kind   ImageKind
	Path   string // URL path fragment, resolved by the image host
	Rating float64
}

// RelatedShow is a lightweight reference to a show related to another
type RelatedShow struct {
	ID        string
	Title     string
	PosterURL string
	Rating    float64
}

// Season groups a show's episodes
type Season struct {
	ID       string
	ShowID   string
	Number   int // 0 = specials
	Title    string
	Summary  string
	Followed bool // False once the user ignores the season
}

// Episode is a single airing within a season
type Episode struct {
	ID         string
	SeasonID   string
	Number     int
	Title      string
	Summary    string
	AiredAt    time.Time
	Rating     float64
	Watched    bool
	WatchedAt  time.Time
}

// Aired reports whether the episode has aired as of now
func (e Episode) Aired() bool {
	return !e.AiredAt.IsZero() && e.AiredAt.Before(time.Now())
}

// SeasonWithEpisodes is a season joined with its episodes and watch state
type SeasonWithEpisodes struct {
	Season   Season
	Episodes []Episode
}

// WatchedCount returns how many episodes in the season are watched
func (s SeasonWithEpisodes) WatchedCount() int {
	n := 0
	for _, e := range s.Episodes {
		if e.Watched {
			n++
		}
	}
	return n
}

// AiredCount returns how many episodes in the season have aired
func (s SeasonWithEpisodes) AiredCount() int {
	n := 0
	for _, e := range s.Episodes {
		if e.Aired() {
			n++
		}
	}
	return n
}

// NextToWatch returns the first aired, unwatched episode in the season
func (s SeasonWithEpisodes) NextToWatch() (Episode, bool) {
	for _, e := range s.Episodes {
		if e.Aired() && !e.Watched {
			return e, true
		}
	}
	return Episode{}, false
}

// EpisodeWithSeason pairs an episode with its season for display
type EpisodeWithSeason struct {
	Episode Episode
	Season  Season
}

// Code returns the formatted episode code (e.g., "S01E05")
func (e EpisodeWithSeason) Code() string {
	return fmt.Sprintf("S%02dE%02d", e.Season.Number, e.Episode.Number)
}

// FollowedShowStats aggregates watch progress across a followed show
type FollowedShowStats struct {
	ShowID          string
	EpisodeCount    int // Aired episodes in followed seasons
	WatchedCount    int
}

// Progress returns watched/aired as a fraction in [0, 1]
func (s FollowedShowStats) Progress() float64 {
	if s.EpisodeCount == 0 {
		return 0
	}
	return float64(s.WatchedCount) / float64(s.EpisodeCount)
}
