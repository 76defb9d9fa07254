// Package tracker implements the observed-source and mutation contracts the
// show-details engine depends on. The service is the single writer for show
// data: every mutation persists through the store and then republishes the
// affected latest-value streams so observers converge on the new state.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/tamojit-123/tivi/internal/domain"
	"github.com/tamojit-123/tivi/internal/reactive"
)

// Service orchestrates metadata client + store operations and feeds the
// per-show reactive streams. Implements domain.ShowObservers and
// domain.ShowMutations.
type Service struct {
	client domain.MetadataClient
	store  domain.ShowStore
	logger *slog.Logger

	mu       sync.Mutex
	followed map[string]*reactive.Value[bool]
	shows    map[string]*reactive.Value[domain.ShowDetails]
	images   map[string]*reactive.Value[[]domain.ShowImage]
	related  map[string]*reactive.Value[[]domain.RelatedShow]
	seasons  map[string]*reactive.Value[[]domain.SeasonWithEpisodes]
	next     map[string]*reactive.Value[*domain.EpisodeWithSeason]
	stats    map[string]*reactive.Value[domain.FollowedShowStats]
}

// NewService creates a tracker service.
func NewService(client domain.MetadataClient, store domain.ShowStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client:   client,
		store:    store,
		logger:   logger,
		followed: make(map[string]*reactive.Value[bool]),
		shows:    make(map[string]*reactive.Value[domain.ShowDetails]),
		images:   make(map[string]*reactive.Value[[]domain.ShowImage]),
		related:  make(map[string]*reactive.Value[[]domain.RelatedShow]),
		seasons:  make(map[string]*reactive.Value[[]domain.SeasonWithEpisodes]),
		next:     make(map[string]*reactive.Value[*domain.EpisodeWithSeason]),
		stats:    make(map[string]*reactive.Value[domain.FollowedShowStats]),
	}
}

// cell returns the lazily created stream for key, seeding it from the store
// on first access. Repeated lookups return the same cell, which is what
// makes re-observing the same show idempotent.
func cell[T any](mu *sync.Mutex, cells map[string]*reactive.Value[T], key string, seed func() T) *reactive.Value[T] {
	mu.Lock()
	defer mu.Unlock()
	if c, ok := cells[key]; ok {
		return c
	}
	c := reactive.NewValue(seed())
	cells[key] = c
	return c
}

// === domain.ShowObservers ===

func (s *Service) ObserveShowFollowed(ctx context.Context, showID string) <-chan bool {
	return s.followedCell(showID).Subscribe(ctx)
}

func (s *Service) ObserveShowDetails(ctx context.Context, showID string) <-chan domain.ShowDetails {
	return s.showCell(showID).Subscribe(ctx)
}

func (s *Service) ObserveShowImages(ctx context.Context, showID string) <-chan []domain.ShowImage {
	return s.imagesCell(showID).Subscribe(ctx)
}

func (s *Service) ObserveRelatedShows(ctx context.Context, showID string) <-chan []domain.RelatedShow {
	return s.relatedCell(showID).Subscribe(ctx)
}

func (s *Service) ObserveSeasons(ctx context.Context, showID string) <-chan []domain.SeasonWithEpisodes {
	return s.seasonsCell(showID).Subscribe(ctx)
}

func (s *Service) ObserveNextEpisode(ctx context.Context, showID string) <-chan *domain.EpisodeWithSeason {
	return s.nextCell(showID).Subscribe(ctx)
}

func (s *Service) ObserveShowStats(ctx context.Context, showID string) <-chan domain.FollowedShowStats {
	return s.statsCell(showID).Subscribe(ctx)
}

func (s *Service) followedCell(showID string) *reactive.Value[bool] {
	return cell(&s.mu, s.followed, showID, func() bool { return s.store.IsFollowed(showID) })
}

func (s *Service) showCell(showID string) *reactive.Value[domain.ShowDetails] {
	return cell(&s.mu, s.shows, showID, func() domain.ShowDetails {
		if show, ok := s.store.GetShow(showID); ok {
			return show
		}
		return domain.ShowDetails{ID: showID}
	})
}

func (s *Service) imagesCell(showID string) *reactive.Value[[]domain.ShowImage] {
	return cell(&s.mu, s.images, showID, func() []domain.ShowImage {
		images, _ := s.store.GetImages(showID)
		return images
	})
}

func (s *Service) relatedCell(showID string) *reactive.Value[[]domain.RelatedShow] {
	return cell(&s.mu, s.related, showID, func() []domain.RelatedShow {
		related, _ := s.store.GetRelated(showID)
		return related
	})
}

func (s *Service) seasonsCell(showID string) *reactive.Value[[]domain.SeasonWithEpisodes] {
	return cell(&s.mu, s.seasons, showID, func() []domain.SeasonWithEpisodes {
		seasons, _ := s.store.GetSeasons(showID)
		return seasons
	})
}

func (s *Service) nextCell(showID string) *reactive.Value[*domain.EpisodeWithSeason] {
	return cell(&s.mu, s.next, showID, func() *domain.EpisodeWithSeason {
		seasons, _ := s.store.GetSeasons(showID)
		return nextEpisode(seasons)
	})
}

func (s *Service) statsCell(showID string) *reactive.Value[domain.FollowedShowStats] {
	return cell(&s.mu, s.stats, showID, func() domain.FollowedShowStats {
		seasons, _ := s.store.GetSeasons(showID)
		return showStats(showID, seasons)
	})
}

// === domain.ShowMutations: refresh operations ===

func (s *Service) RefreshShowDetails(ctx context.Context, showID string, fromUser bool) error {
	show, err := s.client.GetShow(ctx, showID)
	if err != nil {
		s.logger.Error("failed to fetch show", "error", err, "showID", showID)
		return fmt.Errorf("refresh show details: %w", err)
	}
	if err := s.store.SaveShow(show); err != nil {
		s.logger.Error("failed to save show", "error", err, "showID", showID)
	}
	s.showCell(showID).Set(show)
	s.logger.Debug("refreshed show", "showID", showID, "fromUser", fromUser)
	return nil
}

func (s *Service) RefreshShowImages(ctx context.Context, showID string, fromUser bool) error {
	images, err := s.client.GetShowImages(ctx, showID)
	if err != nil {
		s.logger.Error("failed to fetch images", "error", err, "showID", showID)
		return fmt.Errorf("refresh show images: %w", err)
	}
	if err := s.store.SaveImages(showID, images); err != nil {
		s.logger.Error("failed to save images", "error", err, "showID", showID)
	}
	s.imagesCell(showID).Set(images)
	s.logger.Debug("refreshed images", "showID", showID, "count", len(images), "fromUser", fromUser)
	return nil
}

func (s *Service) RefreshRelatedShows(ctx context.Context, showID string, fromUser bool) error {
	related, err := s.client.GetRelatedShows(ctx, showID)
	if err != nil {
		s.logger.Error("failed to fetch related shows", "error", err, "showID", showID)
		return fmt.Errorf("refresh related shows: %w", err)
	}
	if err := s.store.SaveRelated(showID, related); err != nil {
		s.logger.Error("failed to save related shows", "error", err, "showID", showID)
	}
	s.relatedCell(showID).Set(related)
	s.logger.Debug("refreshed related shows", "showID", showID, "count", len(related), "fromUser", fromUser)
	return nil
}

func (s *Service) RefreshSeasons(ctx context.Context, showID string, fromUser bool) error {
	fetched, err := s.client.GetSeasons(ctx, showID)
	if err != nil {
		s.logger.Error("failed to fetch seasons", "error", err, "showID", showID)
		return fmt.Errorf("refresh seasons: %w", err)
	}

	// Remote data carries no local watch or follow state; merge it from the
	// previously stored seasons before overwriting them.
	previous, _ := s.store.GetSeasons(showID)
	seasons := mergeWatchState(fetched, previous)

	if err := s.saveSeasons(showID, seasons); err != nil {
		return err
	}
	s.logger.Debug("refreshed seasons", "showID", showID, "count", len(seasons), "fromUser", fromUser)
	return nil
}

// === domain.ShowMutations: follow and watch state ===

func (s *Service) ToggleShowFollowed(ctx context.Context, showID string) error {
	followed := !s.store.IsFollowed(showID)
	if err := s.store.SetFollowed(showID, followed); err != nil {
		s.logger.Error("failed to save follow state", "error", err, "showID", showID)
		return fmt.Errorf("toggle follow: %w", err)
	}
	s.followedCell(showID).Set(followed)
	s.logger.Debug("toggled follow", "showID", showID, "followed", followed)
	return nil
}

func (s *Service) MarkSeasonWatched(ctx context.Context, seasonID string, onlyAired bool, date time.Time) error {
	return s.updateSeason(seasonID, func(season *domain.SeasonWithEpisodes) {
		for i := range season.Episodes {
			if onlyAired && !season.Episodes[i].Aired() {
				continue
			}
			season.Episodes[i].Watched = true
			season.Episodes[i].WatchedAt = date
		}
	})
}

func (s *Service) MarkSeasonUnwatched(ctx context.Context, seasonID string) error {
	return s.updateSeason(seasonID, func(season *domain.SeasonWithEpisodes) {
		for i := range season.Episodes {
			season.Episodes[i].Watched = false
			season.Episodes[i].WatchedAt = time.Time{}
		}
	})
}

func (s *Service) SetSeasonFollowed(ctx context.Context, seasonID string, followed bool) error {
	return s.updateSeason(seasonID, func(season *domain.SeasonWithEpisodes) {
		season.Season.Followed = followed
	})
}

func (s *Service) UnfollowPreviousSeasons(ctx context.Context, seasonID string) error {
	showID, ok := s.store.SeasonShowID(seasonID)
	if !ok {
		return domain.ErrSeasonNotFound
	}
	seasons, _ := s.store.GetSeasons(showID)

	target := -1
	for _, season := range seasons {
		if season.Season.ID == seasonID {
			target = season.Season.Number
		}
	}
	if target < 0 {
		return domain.ErrSeasonNotFound
	}

	for i := range seasons {
		// Specials (season 0) are left alone.
		if n := seasons[i].Season.Number; n > 0 && n < target {
			seasons[i].Season.Followed = false
		}
	}

	if err := s.saveSeasons(showID, seasons); err != nil {
		return err
	}
	s.logger.Debug("unfollowed previous seasons", "showID", showID, "before", target)
	return nil
}

// updateSeason applies fn to one season of its show and republishes the
// show's season-derived streams.
func (s *Service) updateSeason(seasonID string, fn func(*domain.SeasonWithEpisodes)) error {
	showID, ok := s.store.SeasonShowID(seasonID)
	if !ok {
		return domain.ErrSeasonNotFound
	}
	seasons, ok := s.store.GetSeasons(showID)
	if !ok {
		return domain.ErrSeasonNotFound
	}

	found := false
	for i := range seasons {
		if seasons[i].Season.ID == seasonID {
			fn(&seasons[i])
			found = true
		}
	}
	if !found {
		return domain.ErrSeasonNotFound
	}

	return s.saveSeasons(showID, seasons)
}

// saveSeasons persists seasons and republishes them together with the
// derived next-episode and stats streams.
func (s *Service) saveSeasons(showID string, seasons []domain.SeasonWithEpisodes) error {
	if err := s.store.SaveSeasons(showID, seasons); err != nil {
		s.logger.Error("failed to save seasons", "error", err, "showID", showID)
		return fmt.Errorf("save seasons: %w", err)
	}
	s.seasonsCell(showID).Set(seasons)
	s.nextCell(showID).Set(nextEpisode(seasons))
	s.statsCell(showID).Set(showStats(showID, seasons))
	return nil
}

// === Derivations ===

// mergeWatchState carries local episode watch state and season follow flags
// over onto freshly fetched seasons.
func mergeWatchState(fetched, previous []domain.SeasonWithEpisodes) []domain.SeasonWithEpisodes {
	watched := make(map[string]domain.Episode)
	seasonFollowed := make(map[string]bool)
	for _, season := range previous {
		seasonFollowed[season.Season.ID] = season.Season.Followed
		for _, e := range season.Episodes {
			if e.Watched {
				watched[e.ID] = e
			}
		}
	}

	for i := range fetched {
		if f, ok := seasonFollowed[fetched[i].Season.ID]; ok {
			fetched[i].Season.Followed = f
		} else {
			// Seasons seen for the first time start out followed.
			fetched[i].Season.Followed = true
		}
		for j := range fetched[i].Episodes {
			if prev, ok := watched[fetched[i].Episodes[j].ID]; ok {
				fetched[i].Episodes[j].Watched = true
				fetched[i].Episodes[j].WatchedAt = prev.WatchedAt
			}
		}
	}
	return fetched
}

// nextEpisode returns the first aired, unwatched episode across followed
// regular seasons, in season/episode order. Nil when fully caught up.
func nextEpisode(seasons []domain.SeasonWithEpisodes) *domain.EpisodeWithSeason {
	ordered := make([]domain.SeasonWithEpisodes, 0, len(seasons))
	for _, season := range seasons {
		if season.Season.Number > 0 && season.Season.Followed {
			ordered = append(ordered, season)
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Season.Number < ordered[j].Season.Number
	})

	for _, season := range ordered {
		season.Episodes = append([]domain.Episode(nil), season.Episodes...)
		sort.Slice(season.Episodes, func(i, j int) bool {
			return season.Episodes[i].Number < season.Episodes[j].Number
		})
		if e, ok := season.NextToWatch(); ok {
			return &domain.EpisodeWithSeason{Episode: e, Season: season.Season}
		}
	}
	return nil
}

// showStats aggregates watch progress over aired episodes of followed
// regular seasons.
func showStats(showID string, seasons []domain.SeasonWithEpisodes) domain.FollowedShowStats {
	stats := domain.FollowedShowStats{ShowID: showID}
	for _, season := range seasons {
		if season.Season.Number == 0 || !season.Season.Followed {
			continue
		}
		for _, e := range season.Episodes {
			if !e.Aired() {
				continue
			}
			stats.EpisodeCount++
			if e.Watched {
				stats.WatchedCount++
			}
		}
	}
	return stats
}
