// Package search provides fuzzy title matching for the show-details screen:
// the omnibar filters related shows and episodes by approximate title.
package search

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/tamojit-123/tivi/internal/domain"
)

// FilterRelated returns the related shows whose titles fuzzily match query,
// best matches first. An empty query returns everything unchanged.
func FilterRelated(related []domain.RelatedShow, query string) []domain.RelatedShow {
	query = strings.TrimSpace(query)
	if query == "" {
		return related
	}

	titles := make([]string, len(related))
	for i, r := range related {
		titles[i] = r.Title
	}

	matches := fuzzy.RankFindFold(query, titles)
	sort.Sort(matches)

	byTitle := make(map[string][]domain.RelatedShow, len(related))
	for _, r := range related {
		byTitle[r.Title] = append(byTitle[r.Title], r)
	}

	out := make([]domain.RelatedShow, 0, len(matches))
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		if seen[m.Target] {
			continue
		}
		seen[m.Target] = true
		out = append(out, byTitle[m.Target]...)
	}
	return out
}

// FilterEpisodes returns the episodes across all seasons whose titles
// fuzzily match query, best matches first.
func FilterEpisodes(seasons []domain.SeasonWithEpisodes, query string) []domain.EpisodeWithSeason {
	query = strings.TrimSpace(query)

	var all []domain.EpisodeWithSeason
	titles := []string{}
	for _, season := range seasons {
		for _, e := range season.Episodes {
			all = append(all, domain.EpisodeWithSeason{Episode: e, Season: season.Season})
			titles = append(titles, e.Title)
		}
	}
	if query == "" {
		return all
	}

	matches := fuzzy.RankFindFold(query, titles)
	sort.Sort(matches)

	byTitle := make(map[string][]domain.EpisodeWithSeason, len(all))
	for _, e := range all {
		byTitle[e.Episode.Title] = append(byTitle[e.Episode.Title], e)
	}

	out := make([]domain.EpisodeWithSeason, 0, len(matches))
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		if seen[m.Target] {
			continue
		}
		seen[m.Target] = true
		out = append(out, byTitle[m.Target]...)
	}
	return out
}
