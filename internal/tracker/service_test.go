package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tamojit-123/tivi/internal/domain"
	"github.com/tamojit-123/tivi/internal/log"
	"github.com/tamojit-123/tivi/internal/store"
)

const showID = "1399"

type fakeClient struct {
	show    domain.ShowDetails
	images  []domain.ShowImage
	related []domain.RelatedShow
	seasons func() []domain.SeasonWithEpisodes
	err     error
}

func (c *fakeClient) GetShow(ctx context.Context, id string) (domain.ShowDetails, error) {
	return c.show, c.err
}
func (c *fakeClient) GetShowImages(ctx context.Context, id string) ([]domain.ShowImage, error) {
	return c.images, c.err
}
func (c *fakeClient) GetRelatedShows(ctx context.Context, id string) ([]domain.RelatedShow, error) {
	return c.related, c.err
}
func (c *fakeClient) GetSeasons(ctx context.Context, id string) ([]domain.SeasonWithEpisodes, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.seasons(), nil
}

// remoteSeasons builds a fresh copy of the catalog data on every call, the
// way a real fetch would: no local watch or follow state attached.
func remoteSeasons() []domain.SeasonWithEpisodes {
	aired := time.Now().Add(-30 * 24 * time.Hour)
	future := time.Now().Add(30 * 24 * time.Hour)
	return []domain.SeasonWithEpisodes{
		{
			Season: domain.Season{ID: "s0", ShowID: showID, Number: 0, Title: "Specials"},
			Episodes: []domain.Episode{
				{ID: "e0", SeasonID: "s0", Number: 1, Title: "Recap", AiredAt: aired},
			},
		},
		{
			Season: domain.Season{ID: "s1", ShowID: showID, Number: 1, Title: "Season 1"},
			Episodes: []domain.Episode{
				{ID: "e1", SeasonID: "s1", Number: 1, Title: "Winter", AiredAt: aired},
				{ID: "e2", SeasonID: "s1", Number: 2, Title: "Kingsroad", AiredAt: aired},
			},
		},
		{
			Season: domain.Season{ID: "s2", ShowID: showID, Number: 2, Title: "Season 2"},
			Episodes: []domain.Episode{
				{ID: "e3", SeasonID: "s2", Number: 1, Title: "North", AiredAt: aired},
				{ID: "e4", SeasonID: "s2", Number: 2, Title: "Unaired", AiredAt: future},
			},
		},
	}
}

func newTestService(t *testing.T) (*Service, *fakeClient) {
	t.Helper()
	st, err := store.NewShowStore("") // memory-only
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	client := &fakeClient{
		show:    domain.ShowDetails{ID: showID, Title: "Game of Thrones"},
		images:  []domain.ShowImage{{ID: "img1", ShowID: showID, Kind: domain.ImageKindPoster}},
		related: []domain.RelatedShow{{ID: "2", Title: "Rome"}},
		seasons: remoteSeasons,
	}
	return NewService(client, st, log.NullLogger()), client
}

func refreshSeasons(t *testing.T, svc *Service) {
	t.Helper()
	if err := svc.RefreshSeasons(context.Background(), showID, false); err != nil {
		t.Fatalf("refresh seasons: %v", err)
	}
}

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for emission")
		panic("unreachable")
	}
}

func TestRefreshShowDetails_EmitsToObserver(t *testing.T) {
	svc, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := svc.ObserveShowDetails(ctx, showID)
	if got := recv(t, ch); got.Title != "" {
		t.Errorf("expected empty initial value, got %+v", got)
	}

	if err := svc.RefreshShowDetails(ctx, showID, false); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := recv(t, ch); got.Title != "Game of Thrones" {
		t.Errorf("expected refreshed show, got %+v", got)
	}
}

func TestRefreshShowDetails_PropagatesClientError(t *testing.T) {
	svc, client := newTestService(t)
	client.err = domain.ErrServerOffline

	err := svc.RefreshShowDetails(context.Background(), showID, false)
	if !errors.Is(err, domain.ErrServerOffline) {
		t.Errorf("expected ErrServerOffline, got %v", err)
	}
}

func TestObserve_IsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := svc.ObserveShowFollowed(ctx, showID)
	b := svc.ObserveShowFollowed(ctx, showID)
	recv(t, a)
	recv(t, b)

	if err := svc.ToggleShowFollowed(ctx, showID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !recv(t, a) || !recv(t, b) {
		t.Error("both observers should see the toggle")
	}
}

func TestToggleShowFollowed_FlipsAndPersists(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.ToggleShowFollowed(ctx, showID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got := recv(t, svc.ObserveShowFollowed(ctx, showID)); !got {
		t.Error("expected followed after first toggle")
	}

	if err := svc.ToggleShowFollowed(ctx, showID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	cell := svc.followedCell(showID)
	if cell.Get() {
		t.Error("expected unfollowed after second toggle")
	}
}

func TestRefreshSeasons_NewSeasonsStartFollowed(t *testing.T) {
	svc, _ := newTestService(t)
	refreshSeasons(t, svc)

	seasons := svc.seasonsCell(showID).Get()
	if len(seasons) != 3 {
		t.Fatalf("expected 3 seasons, got %d", len(seasons))
	}
	for _, s := range seasons {
		if !s.Season.Followed {
			t.Errorf("season %s should start followed", s.Season.ID)
		}
	}
}

func TestMarkSeasonWatched_AllEpisodes(t *testing.T) {
	svc, _ := newTestService(t)
	refreshSeasons(t, svc)

	date := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	if err := svc.MarkSeasonWatched(context.Background(), "s2", false, date); err != nil {
		t.Fatalf("mark watched: %v", err)
	}

	for _, s := range svc.seasonsCell(showID).Get() {
		if s.Season.ID != "s2" {
			continue
		}
		for _, e := range s.Episodes {
			if !e.Watched {
				t.Errorf("episode %s not watched", e.ID)
			}
			if !e.WatchedAt.Equal(date) {
				t.Errorf("episode %s watched at %v, expected %v", e.ID, e.WatchedAt, date)
			}
		}
	}
}

func TestMarkSeasonWatched_OnlyAiredSkipsFuture(t *testing.T) {
	svc, _ := newTestService(t)
	refreshSeasons(t, svc)

	if err := svc.MarkSeasonWatched(context.Background(), "s2", true, time.Now()); err != nil {
		t.Fatalf("mark watched: %v", err)
	}

	for _, s := range svc.seasonsCell(showID).Get() {
		if s.Season.ID != "s2" {
			continue
		}
		for _, e := range s.Episodes {
			if e.ID == "e4" && e.Watched {
				t.Error("unaired episode must stay unwatched with onlyAired")
			}
			if e.ID == "e3" && !e.Watched {
				t.Error("aired episode should be watched")
			}
		}
	}
}

func TestMarkSeasonWatched_UnknownSeason(t *testing.T) {
	svc, _ := newTestService(t)
	refreshSeasons(t, svc)

	err := svc.MarkSeasonWatched(context.Background(), "nope", false, time.Now())
	if !errors.Is(err, domain.ErrSeasonNotFound) {
		t.Errorf("expected ErrSeasonNotFound, got %v", err)
	}
}

func TestMarkSeasonUnwatched_ClearsState(t *testing.T) {
	svc, _ := newTestService(t)
	refreshSeasons(t, svc)

	ctx := context.Background()
	if err := svc.MarkSeasonWatched(ctx, "s1", false, time.Now()); err != nil {
		t.Fatalf("mark watched: %v", err)
	}
	if err := svc.MarkSeasonUnwatched(ctx, "s1"); err != nil {
		t.Fatalf("mark unwatched: %v", err)
	}

	for _, s := range svc.seasonsCell(showID).Get() {
		if s.Season.ID == "s1" && s.WatchedCount() != 0 {
			t.Errorf("expected no watched episodes, got %d", s.WatchedCount())
		}
	}
}

func TestRefreshSeasons_PreservesLocalWatchState(t *testing.T) {
	svc, _ := newTestService(t)
	refreshSeasons(t, svc)

	date := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	if err := svc.MarkSeasonWatched(context.Background(), "s1", false, date); err != nil {
		t.Fatalf("mark watched: %v", err)
	}
	if err := svc.SetSeasonFollowed(context.Background(), "s2", false); err != nil {
		t.Fatalf("set followed: %v", err)
	}

	// A second refresh delivers pristine remote data; local state must
	// survive the merge.
	refreshSeasons(t, svc)

	for _, s := range svc.seasonsCell(showID).Get() {
		switch s.Season.ID {
		case "s1":
			if s.WatchedCount() != 2 {
				t.Errorf("watch state lost on refresh: %d watched", s.WatchedCount())
			}
			for _, e := range s.Episodes {
				if e.Watched && !e.WatchedAt.Equal(date) {
					t.Errorf("watched-at lost on refresh: %v", e.WatchedAt)
				}
			}
		case "s2":
			if s.Season.Followed {
				t.Error("season ignore flag lost on refresh")
			}
		}
	}
}

func TestUnfollowPreviousSeasons_SkipsSpecialsAndTarget(t *testing.T) {
	svc, _ := newTestService(t)
	refreshSeasons(t, svc)

	if err := svc.UnfollowPreviousSeasons(context.Background(), "s2"); err != nil {
		t.Fatalf("unfollow previous: %v", err)
	}

	for _, s := range svc.seasonsCell(showID).Get() {
		switch s.Season.ID {
		case "s0":
			if !s.Season.Followed {
				t.Error("specials must be left alone")
			}
		case "s1":
			if s.Season.Followed {
				t.Error("season 1 should be unfollowed")
			}
		case "s2":
			if !s.Season.Followed {
				t.Error("target season must stay followed")
			}
		}
	}
}

func TestNextEpisode_FirstAiredUnwatched(t *testing.T) {
	svc, _ := newTestService(t)
	refreshSeasons(t, svc)

	next := svc.nextCell(showID).Get()
	if next == nil {
		t.Fatal("expected a next episode")
	}
	if next.Episode.ID != "e1" {
		t.Errorf("expected e1 first, got %s", next.Episode.ID)
	}

	if err := svc.MarkSeasonWatched(context.Background(), "s1", false, time.Now()); err != nil {
		t.Fatalf("mark watched: %v", err)
	}

	next = svc.nextCell(showID).Get()
	if next == nil || next.Episode.ID != "e3" {
		t.Errorf("expected e3 after season 1 watched, got %+v", next)
	}
}

func TestNextEpisode_IgnoresUnfollowedSeasons(t *testing.T) {
	svc, _ := newTestService(t)
	refreshSeasons(t, svc)

	if err := svc.SetSeasonFollowed(context.Background(), "s1", false); err != nil {
		t.Fatalf("set followed: %v", err)
	}

	next := svc.nextCell(showID).Get()
	if next == nil || next.Episode.ID != "e3" {
		t.Errorf("expected e3 when season 1 is ignored, got %+v", next)
	}
}

func TestShowStats_CountsAiredFollowedOnly(t *testing.T) {
	svc, _ := newTestService(t)
	refreshSeasons(t, svc)

	// 3 aired episodes across s1 and s2; the unaired e4 and specials are
	// excluded.
	stats := svc.statsCell(showID).Get()
	if stats.EpisodeCount != 3 {
		t.Errorf("expected 3 aired episodes, got %d", stats.EpisodeCount)
	}
	if stats.WatchedCount != 0 {
		t.Errorf("expected 0 watched, got %d", stats.WatchedCount)
	}

	if err := svc.MarkSeasonWatched(context.Background(), "s1", true, time.Now()); err != nil {
		t.Fatalf("mark watched: %v", err)
	}

	stats = svc.statsCell(showID).Get()
	if stats.WatchedCount != 2 {
		t.Errorf("expected 2 watched, got %d", stats.WatchedCount)
	}
	if got := stats.Progress(); got < 0.66 || got > 0.67 {
		t.Errorf("unexpected progress %f", got)
	}
}

func TestRefreshImagesAndRelated_EmitToObservers(t *testing.T) {
	svc, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	images := svc.ObserveShowImages(ctx, showID)
	related := svc.ObserveRelatedShows(ctx, showID)
	recv(t, images)
	recv(t, related)

	if err := svc.RefreshShowImages(ctx, showID, true); err != nil {
		t.Fatalf("refresh images: %v", err)
	}
	if got := recv(t, images); len(got) != 1 || got[0].ID != "img1" {
		t.Errorf("unexpected images %+v", got)
	}

	if err := svc.RefreshRelatedShows(ctx, showID, true); err != nil {
		t.Fatalf("refresh related: %v", err)
	}
	if got := recv(t, related); len(got) != 1 || got[0].Title != "Rome" {
		t.Errorf("unexpected related %+v", got)
	}
}
