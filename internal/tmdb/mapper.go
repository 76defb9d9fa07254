package tmdb

import (
	"strconv"
	"time"

	"github.com/tamojit-123/tivi/internal/domain"
)

const dateLayout = "2006-01-02"

// mapShow converts a TMDB TV details response to a domain show
func mapShow(tv tvDetails) domain.ShowDetails {
	show := domain.ShowDetails{
		ID:            strconv.Itoa(tv.ID),
		Title:         tv.Name,
		OriginalTitle: tv.OriginalName,
		Summary:       tv.Overview,
		Status:        mapStatus(tv.Status),
		Rating:        tv.VoteAverage,
		Votes:         tv.VoteCount,
		TmdbID:        tv.ID,
	}
	if len(tv.Networks) > 0 {
		show.Network = tv.Networks[0].Name
	}
	if len(tv.EpisodeRunTime) > 0 {
		show.Runtime = time.Duration(tv.EpisodeRunTime[0]) * time.Minute
	}
	for _, g := range tv.Genres {
		show.Genres = append(show.Genres, g.Name)
	}
	if t, err := time.Parse(dateLayout, tv.FirstAirDate); err == nil {
		show.FirstAired = t
	}
	return show
}

func mapStatus(status string) string {
	switch status {
	case "Returning Series", "In Production":
		return "returning"
	case "Ended":
		return "ended"
	case "Canceled":
		return "canceled"
	default:
		return ""
	}
}

// mapImages converts an image collection to domain images
func mapImages(showID string, coll imageCollection) []domain.ShowImage {
	images := make([]domain.ShowImage, 0, len(coll.Posters)+len(coll.Backdrops))
	for _, p := range coll.Posters {
		images = append(images, domain.ShowImage{
			ID:     showID + ":poster:" + p.FilePath,
			ShowID: showID,
			Kind:   domain.ImageKindPoster,
			Path:   p.FilePath,
			Rating: p.VoteAverage,
		})
	}
	for _, b := range coll.Backdrops {
		images = append(images, domain.ShowImage{
			ID:     showID + ":backdrop:" + b.FilePath,
			ShowID: showID,
			Kind:   domain.ImageKindBackdrop,
			Path:   b.FilePath,
			Rating: b.VoteAverage,
		})
	}
	return images
}

// mapRelated converts recommendations to domain related shows
func mapRelated(recs recommendations) []domain.RelatedShow {
	related := make([]domain.RelatedShow, 0, len(recs.Results))
	for _, r := range recs.Results {
		related = append(related, domain.RelatedShow{
			ID:        strconv.Itoa(r.ID),
			Title:     r.Name,
			PosterURL: r.PosterPath,
			Rating:    r.VoteAverage,
		})
	}
	return related
}

// mapSeason converts a season details response to a domain season with
// episodes. Watch state is local-only and left zeroed.
func mapSeason(showID string, sd seasonDetails) domain.SeasonWithEpisodes {
	season := domain.Season{
		ID:      strconv.Itoa(sd.ID),
		ShowID:  showID,
		Number:  sd.SeasonNumber,
		Title:   sd.Name,
		Summary: sd.Overview,
	}
	out := domain.SeasonWithEpisodes{Season: season}
	for _, e := range sd.Episodes {
		ep := domain.Episode{
			ID:       strconv.Itoa(e.ID),
			SeasonID: season.ID,
			Number:   e.EpisodeNumber,
			Title:    e.Name,
			Summary:  e.Overview,
			Rating:   e.VoteAverage,
		}
		if t, err := time.Parse(dateLayout, e.AirDate); err == nil {
			ep.AiredAt = t
		}
		out.Episodes = append(out.Episodes, ep)
	}
	return out
}
