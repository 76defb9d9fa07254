package tui

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/tamojit-123/tivi/internal/domain"
)

// episodeIndex implements fuzzy.Source over the episodes of a season
type episodeIndex struct {
	lowerTitles []string
}

func (idx episodeIndex) String(i int) string { return idx.lowerTitles[i] }
func (idx episodeIndex) Len() int            { return len(idx.lowerTitles) }

// filterEpisodes returns the indexes of episodes matching query, best match
// first. An empty query keeps every episode in natural order.
func filterEpisodes(episodes []domain.Episode, query string) []int {
	query = strings.TrimSpace(query)
	if query == "" {
		all := make([]int, len(episodes))
		for i := range episodes {
			all[i] = i
		}
		return all
	}

	idx := episodeIndex{lowerTitles: make([]string, len(episodes))}
	for i, e := range episodes {
		idx.lowerTitles[i] = strings.ToLower(e.Title)
	}

	matches := fuzzy.FindFrom(strings.ToLower(query), idx)
	out := make([]int, len(matches))
	for i, m := range matches {
		out[i] = m.Index
	}
	return out
}
