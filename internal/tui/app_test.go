package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/tamojit-123/tivi/internal/domain"
	"github.com/tamojit-123/tivi/internal/showdetails"
)

func viewModelState() showdetails.ViewState {
	aired := time.Now().Add(-24 * time.Hour)
	future := time.Now().Add(24 * time.Hour)
	return showdetails.ViewState{
		Show: domain.ShowDetails{ID: "1", Title: "Halt and Catch Fire"},
		Seasons: []domain.SeasonWithEpisodes{
			{
				Season: domain.Season{ID: "s1", Number: 1, Title: "Season 1", Followed: true},
				Episodes: []domain.Episode{
					{ID: "e1", Number: 1, Title: "I/O", AiredAt: aired, Watched: true},
					{ID: "e2", Number: 2, Title: "FUD", AiredAt: aired},
				},
			},
			{
				Season: domain.Season{ID: "s2", Number: 2, Title: "Season 2", Followed: true},
				Episodes: []domain.Episode{
					{ID: "e3", Number: 10, Title: "Heaven Is a Place", AiredAt: aired},
					{ID: "e4", Number: 11, Title: "Unaired Finale", AiredAt: future},
				},
			},
		},
	}
}

func testModel(state showdetails.ViewState) Model {
	return Model{
		keys:   DefaultKeyMap(),
		filter: textinput.New(),
		state:  state,
	}
}

func TestView_SeasonLabelCountsAiredEpisodes(t *testing.T) {
	m := testModel(viewModelState())

	out := m.View()
	if !strings.Contains(out, "Season 1  1/2 watched") {
		t.Errorf("season 1 label should count watched over aired, got:\n%s", out)
	}
	// Season 2 has one aired and one future episode.
	if !strings.Contains(out, "Season 2  0/1 watched") {
		t.Errorf("season 2 label must exclude unaired episodes, got:\n%s", out)
	}
}

func TestView_QueryListsMatchesAcrossSeasons(t *testing.T) {
	m := testModel(viewModelState())
	m.cursor = 0
	m.filter.SetValue("heaven")

	out := m.View()
	// The match lives in season 2 while season 1 is the expanded one.
	if !strings.Contains(out, "S02E10 Heaven Is a Place") {
		t.Errorf("expected cross-season match in output:\n%s", out)
	}
}

func TestView_QueryWithoutMatches(t *testing.T) {
	m := testModel(viewModelState())
	m.filter.SetValue("zzzz")

	if out := m.View(); !strings.Contains(out, "no matching episodes") {
		t.Errorf("expected empty-match notice, got:\n%s", out)
	}
}

func TestView_NoQueryHidesMatchSection(t *testing.T) {
	m := testModel(viewModelState())

	if out := m.View(); strings.Contains(out, "episodes:") {
		t.Errorf("match section must be hidden without a query:\n%s", out)
	}
}
