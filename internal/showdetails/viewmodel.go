// Package showdetails implements the reactive engine behind the show-details
// screen. It composes several independently updating observed sources into
// one immutable ViewState stream, consumes submitted actions in FIFO order,
// and dispatches each to fire-and-forget operations with per-operation
// failure isolation.
package showdetails

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/tamojit-123/tivi/internal/domain"
	"github.com/tamojit-123/tivi/internal/reactive"
)

// ViewModel orchestrates one show-details session. The show ID is fixed for
// the lifetime of the instance; tearing down the session context cancels all
// subscriptions and in-flight operations.
type ViewModel struct {
	showID    string
	observers domain.ShowObservers
	mutations domain.ShowMutations
	logger    *slog.Logger

	actions *reactive.Queue[Action]
	effects *reactive.Broadcast[Effect]
	state   *reactive.Value[ViewState]
	loading *LoadingCounter

	// Latest-value cells, one per observed source.
	followed   *reactive.Value[bool]
	show       *reactive.Value[domain.ShowDetails]
	images     *reactive.Value[[]domain.ShowImage]
	related    *reactive.Value[[]domain.RelatedShow]
	next       *reactive.Value[*domain.EpisodeWithSeason]
	seasons    *reactive.Value[[]domain.SeasonWithEpisodes]
	stats      *reactive.Value[domain.FollowedShowStats]
	refreshing *reactive.Value[bool]

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewViewModel creates a view model for the given show. Call Start to begin
// observing sources and consuming actions.
func NewViewModel(showID string, observers domain.ShowObservers, mutations domain.ShowMutations, logger *slog.Logger) *ViewModel {
	if logger == nil {
		logger = slog.Default()
	}
	initial := initialViewState(showID)
	return &ViewModel{
		showID:    showID,
		observers: observers,
		mutations: mutations,
		logger:    logger.With("session", uuid.NewString(), "showID", showID),

		actions: reactive.NewQueue[Action](),
		effects: reactive.NewBroadcast[Effect](),
		state:   reactive.NewValue(initial),
		loading: NewLoadingCounter(),

		followed:   reactive.NewValue(initial.Followed),
		show:       reactive.NewValue(initial.Show),
		images:     reactive.NewValue(initial.Images),
		related:    reactive.NewValue(initial.RelatedShows),
		next:       reactive.NewValue(initial.NextEpisode),
		seasons:    reactive.NewValue(initial.Seasons),
		stats:      reactive.NewValue(initial.Stats),
		refreshing: reactive.NewValue(initial.Refreshing),
	}
}

// Start begins the session: subscribes every observed source, starts the
// action-consumption loop, and submits the initial background refresh.
func (vm *ViewModel) Start(ctx context.Context) {
	ctx, vm.cancel = context.WithCancel(ctx)

	// Coalescing recompute signal shared by all source pumps.
	signal := make(chan struct{}, 1)

	pump(ctx, &vm.wg, vm.observers.ObserveShowFollowed(ctx, vm.showID), vm.followed, signal)
	pump(ctx, &vm.wg, vm.observers.ObserveShowDetails(ctx, vm.showID), vm.show, signal)
	pump(ctx, &vm.wg, vm.observers.ObserveShowImages(ctx, vm.showID), vm.images, signal)
	pump(ctx, &vm.wg, vm.observers.ObserveRelatedShows(ctx, vm.showID), vm.related, signal)
	pump(ctx, &vm.wg, vm.observers.ObserveNextEpisode(ctx, vm.showID), vm.next, signal)
	pump(ctx, &vm.wg, vm.observers.ObserveSeasons(ctx, vm.showID), vm.seasons, signal)
	pump(ctx, &vm.wg, vm.observers.ObserveShowStats(ctx, vm.showID), vm.stats, signal)
	pump(ctx, &vm.wg, vm.loading.Observe(ctx), vm.refreshing, signal)

	vm.wg.Add(1)
	go vm.composeLoop(ctx, signal)

	vm.wg.Add(1)
	go vm.actionLoop(ctx)

	vm.logger.Debug("session started")
	vm.Submit(RefreshAction{FromUser: false})
}

// Close tears down the session and waits for in-flight work to finish.
func (vm *ViewModel) Close() {
	if vm.cancel != nil {
		vm.cancel()
	}
	vm.wg.Wait()
	vm.logger.Debug("session closed")
}

// Submit enqueues an action. It never blocks on processing.
func (vm *ViewModel) Submit(action Action) {
	vm.actions.Push(action)
}

// State returns a replay-one subscription to ViewState snapshots: the
// current snapshot is delivered immediately, then the latest on each change.
func (vm *ViewModel) State(ctx context.Context) <-chan ViewState {
	return vm.state.Subscribe(ctx)
}

// CurrentState returns the latest published snapshot.
func (vm *ViewModel) CurrentState() ViewState {
	return vm.state.Get()
}

// Effects returns a no-replay subscription to one-shot effects. Subscribers
// attaching after an emission never see it.
func (vm *ViewModel) Effects(ctx context.Context) <-chan Effect {
	return vm.effects.Subscribe(ctx)
}

// pump forwards emissions from a source channel into its latest-value cell
// and nudges the composer.
func pump[T any](ctx context.Context, wg *sync.WaitGroup, in <-chan T, cell *reactive.Value[T], signal chan<- struct{}) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-in:
				if !ok {
					return
				}
				cell.Set(v)
				select {
				case signal <- struct{}{}:
				default:
				}
			}
		}
	}()
}

// composeLoop recomputes and publishes a fresh snapshot whenever any source
// cell changes. Composition is a pure read of the latest cell values.
func (vm *ViewModel) composeLoop(ctx context.Context, signal <-chan struct{}) {
	defer vm.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-signal:
			vm.state.Set(vm.compose())
		}
	}
}

func (vm *ViewModel) compose() ViewState {
	return ViewState{
		Followed:     vm.followed.Get(),
		Show:         vm.show.Get(),
		Images:       vm.images.Get(),
		RelatedShows: vm.related.Get(),
		NextEpisode:  vm.next.Get(),
		Seasons:      vm.seasons.Get(),
		Stats:        vm.stats.Get(),
		Refreshing:   vm.refreshing.Get(),
	}
}

// actionLoop consumes submitted actions in FIFO order. Dispatch never waits
// for the launched operations, so a slow refresh cannot delay later actions.
func (vm *ViewModel) actionLoop(ctx context.Context) {
	defer vm.wg.Done()
	for {
		action, ok := vm.actions.Pop(ctx)
		if !ok {
			return
		}
		vm.logger.Debug("dispatching action", "pending", vm.actions.Len())
		vm.dispatch(ctx, action)
	}
}

func (vm *ViewModel) dispatch(ctx context.Context, action Action) {
	switch a := action.(type) {
	case RefreshAction:
		vm.launchTracked(ctx, "refresh show details", func(ctx context.Context) error {
			return vm.mutations.RefreshShowDetails(ctx, vm.showID, a.FromUser)
		})
		vm.launchTracked(ctx, "refresh show images", func(ctx context.Context) error {
			return vm.mutations.RefreshShowImages(ctx, vm.showID, a.FromUser)
		})
		vm.launchTracked(ctx, "refresh related shows", func(ctx context.Context) error {
			return vm.mutations.RefreshRelatedShows(ctx, vm.showID, a.FromUser)
		})
		vm.launchTracked(ctx, "refresh seasons", func(ctx context.Context) error {
			return vm.mutations.RefreshSeasons(ctx, vm.showID, a.FromUser)
		})

	case ToggleFollowAction:
		vm.launch(ctx, "toggle follow", func(ctx context.Context) error {
			return vm.mutations.ToggleShowFollowed(ctx, vm.showID)
		})

	case MarkSeasonWatchedAction:
		vm.launch(ctx, "mark season watched", func(ctx context.Context) error {
			return vm.mutations.MarkSeasonWatched(ctx, a.SeasonID, a.OnlyAired, a.Date)
		})

	case MarkSeasonUnwatchedAction:
		vm.launch(ctx, "mark season unwatched", func(ctx context.Context) error {
			return vm.mutations.MarkSeasonUnwatched(ctx, a.SeasonID)
		})

	case SetSeasonFollowedAction:
		vm.launch(ctx, "set season followed", func(ctx context.Context) error {
			return vm.mutations.SetSeasonFollowed(ctx, a.SeasonID, a.Followed)
		})

	case UnfollowPreviousSeasonsAction:
		vm.launch(ctx, "unfollow previous seasons", func(ctx context.Context) error {
			return vm.mutations.UnfollowPreviousSeasons(ctx, a.SeasonID)
		})

	case ClearErrorAction:
		vm.effects.Emit(ClearErrorEffect{})
	}
}

// launch runs op in its own goroutine with a failure boundary: an error is
// logged and surfaced as a ShowErrorEffect, never allowed to crash the
// action loop or interfere with sibling operations.
func (vm *ViewModel) launch(ctx context.Context, name string, op func(context.Context) error) {
	vm.wg.Add(1)
	go func() {
		defer vm.wg.Done()
		if err := op(ctx); err != nil && !errors.Is(err, context.Canceled) {
			vm.logger.Error("operation failed", "op", name, "error", err)
			vm.effects.Emit(ShowErrorEffect{Err: err})
		}
	}()
}

// launchTracked is launch with the loader counter held for the operation's
// full duration, released on success and failure alike.
func (vm *ViewModel) launchTracked(ctx context.Context, name string, op func(context.Context) error) {
	vm.wg.Add(1)
	vm.loading.AddLoader()
	go func() {
		defer vm.wg.Done()
		defer vm.loading.RemoveLoader()
		if err := op(ctx); err != nil && !errors.Is(err, context.Canceled) {
			vm.logger.Error("operation failed", "op", name, "error", err)
			vm.effects.Emit(ShowErrorEffect{Err: err})
		}
	}()
}
