// Package tui renders the show-details screen. It is a pure consumer of the
// view model: snapshots and effects flow in over channels, user intents flow
// back as submitted actions.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tamojit-123/tivi/internal/search"
	"github.com/tamojit-123/tivi/internal/showdetails"
	"github.com/tamojit-123/tivi/internal/tui/styles"
)

// Model is the Bubble Tea model for one show-details session
type Model struct {
	vm   *showdetails.ViewModel
	ctx  context.Context
	keys KeyMap

	states  <-chan showdetails.ViewState
	effects <-chan showdetails.Effect

	state   showdetails.ViewState
	lastErr error

	spinner   spinner.Model
	filter    textinput.Model
	filtering bool
	cursor    int

	width  int
	height int
}

// NewModel creates the TUI model and subscribes it to the view model's
// state and effect streams.
func NewModel(ctx context.Context, vm *showdetails.ViewModel) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Accent)

	filter := textinput.New()
	filter.Placeholder = "filter episodes"
	filter.CharLimit = 64

	return Model{
		vm:      vm,
		ctx:     ctx,
		keys:    DefaultKeyMap(),
		states:  vm.State(ctx),
		effects: vm.Effects(ctx),
		state:   vm.CurrentState(),
		spinner: sp,
		filter:  filter,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForState(m.states), waitForEffect(m.effects))
}

// waitForState blocks on the replay-one state stream
func waitForState(ch <-chan showdetails.ViewState) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-ch
		if !ok {
			return nil
		}
		return stateMsg(state)
	}
}

// waitForEffect blocks on the no-replay effect stream
func waitForEffect(ch <-chan showdetails.Effect) tea.Cmd {
	return func() tea.Msg {
		effect, ok := <-ch
		if !ok {
			return nil
		}
		return effectMsg{effect: effect}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case stateMsg:
		m.state = showdetails.ViewState(msg)
		if m.cursor >= len(m.state.Seasons) {
			m.cursor = max(0, len(m.state.Seasons)-1)
		}
		return m, waitForState(m.states)

	case effectMsg:
		switch e := msg.effect.(type) {
		case showdetails.ShowErrorEffect:
			m.lastErr = e.Err
		case showdetails.ClearErrorEffect:
			m.lastErr = nil
		}
		return m, waitForEffect(m.effects)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		switch msg.Type {
		case tea.KeyEsc:
			m.filtering = false
			m.filter.Blur()
			m.filter.SetValue("")
			return m, nil
		case tea.KeyEnter:
			m.filtering = false
			m.filter.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.state.Seasons)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		m.filter.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Refresh):
		m.vm.Submit(showdetails.RefreshAction{FromUser: true})

	case key.Matches(msg, m.keys.ToggleFollow):
		m.vm.Submit(showdetails.ToggleFollowAction{})

	case key.Matches(msg, m.keys.MarkWatched):
		if id, ok := m.selectedSeason(); ok {
			m.vm.Submit(showdetails.MarkSeasonWatchedAction{SeasonID: id, Date: time.Now()})
		}

	case key.Matches(msg, m.keys.MarkWatchedAired):
		if id, ok := m.selectedSeason(); ok {
			m.vm.Submit(showdetails.MarkSeasonWatchedAction{SeasonID: id, OnlyAired: true, Date: time.Now()})
		}

	case key.Matches(msg, m.keys.MarkUnwatched):
		if id, ok := m.selectedSeason(); ok {
			m.vm.Submit(showdetails.MarkSeasonUnwatchedAction{SeasonID: id})
		}

	case key.Matches(msg, m.keys.ToggleSeason):
		if m.cursor < len(m.state.Seasons) {
			season := m.state.Seasons[m.cursor].Season
			m.vm.Submit(showdetails.SetSeasonFollowedAction{SeasonID: season.ID, Followed: !season.Followed})
		}

	case key.Matches(msg, m.keys.UnfollowPrevious):
		if id, ok := m.selectedSeason(); ok {
			m.vm.Submit(showdetails.UnfollowPreviousSeasonsAction{SeasonID: id})
		}

	case key.Matches(msg, m.keys.Escape):
		if m.lastErr != nil {
			m.vm.Submit(showdetails.ClearErrorAction{})
		}
	}

	return m, nil
}

func (m Model) selectedSeason() (string, bool) {
	if m.cursor >= len(m.state.Seasons) {
		return "", false
	}
	return m.state.Seasons[m.cursor].Season.ID, true
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")
	b.WriteString(m.viewSeasons())
	b.WriteString("\n")
	b.WriteString(m.viewMatches())
	b.WriteString(m.viewRelated())
	b.WriteString("\n")
	b.WriteString(m.viewFooter())

	return b.String()
}

func (m Model) viewHeader() string {
	show := m.state.Show

	title := styles.TitleStyle.Render(show.Title)
	if show.Title == "" {
		title = styles.DimStyle.Render("loading…")
	}

	var badges []string
	if m.state.Followed {
		badges = append(badges, styles.FollowedStyle.Render("● following"))
	}
	if m.state.Refreshing {
		badges = append(badges, m.spinner.View()+styles.DimStyle.Render("refreshing"))
	}

	meta := []string{}
	if show.Network != "" {
		meta = append(meta, show.Network)
	}
	if show.Status != "" {
		meta = append(meta, show.Status)
	}
	if len(show.Genres) > 0 {
		meta = append(meta, strings.Join(show.Genres, ", "))
	}

	lines := []string{strings.Join(append([]string{title}, badges...), "  ")}
	if len(meta) > 0 {
		lines = append(lines, styles.SubtitleStyle.Render(strings.Join(meta, " · ")))
	}

	stats := m.state.Stats
	if stats.EpisodeCount > 0 {
		progress := fmt.Sprintf("watched %d/%d (%.0f%%)", stats.WatchedCount, stats.EpisodeCount, stats.Progress()*100)
		lines = append(lines, styles.SubtitleStyle.Render(progress))
	}
	if next := m.state.NextEpisode; next != nil {
		lines = append(lines, styles.SubtitleStyle.Render("next up: "+next.Code()+" "+next.Episode.Title))
	}

	return strings.Join(lines, "\n")
}

func (m Model) viewSeasons() string {
	if len(m.state.Seasons) == 0 {
		return styles.DimStyle.Render("  no seasons yet")
	}

	var b strings.Builder
	for i, season := range m.state.Seasons {
		prefix := "  "
		style := styles.SubtitleStyle
		if i == m.cursor {
			prefix = "> "
			style = styles.SelectedStyle
		}

		label := fmt.Sprintf("%s%s  %d/%d watched", prefix, season.Season.Title, season.WatchedCount(), season.AiredCount())
		if !season.Season.Followed {
			label += "  (ignored)"
			style = styles.DimStyle
		}
		b.WriteString(style.Render(label))
		b.WriteString("\n")

		// Expand the selected season's episodes, honoring the filter.
		if i == m.cursor {
			episodes := m.state.Seasons[i].Episodes
			for _, idx := range filterEpisodes(episodes, m.filter.Value()) {
				e := episodes[idx]
				mark := " "
				if e.Watched {
					mark = "✓"
				}
				line := fmt.Sprintf("    %s E%02d %s", mark, e.Number, e.Title)
				b.WriteString(styles.DimStyle.Render(line))
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

// viewMatches lists episodes across every season whose titles match the
// current query, best matches first. The per-season list above only filters
// within the expanded season; this is the cross-season view.
func (m Model) viewMatches() string {
	query := strings.TrimSpace(m.filter.Value())
	if query == "" {
		return ""
	}

	matches := search.FilterEpisodes(m.state.Seasons, query)
	if len(matches) == 0 {
		return styles.DimStyle.Render("no matching episodes") + "\n"
	}

	var b strings.Builder
	b.WriteString(styles.SubtitleStyle.Render("episodes:"))
	b.WriteString("\n")
	for i, e := range matches {
		if i == 8 {
			break
		}
		mark := " "
		if e.Episode.Watched {
			mark = "✓"
		}
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("  %s %s %s", mark, e.Code(), e.Episode.Title)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewRelated() string {
	related := search.FilterRelated(m.state.RelatedShows, m.filter.Value())
	if len(related) == 0 {
		return ""
	}

	titles := make([]string, 0, len(related))
	for i, r := range related {
		if i == 6 {
			break
		}
		titles = append(titles, r.Title)
	}
	return styles.SubtitleStyle.Render("related: ") + styles.DimStyle.Render(strings.Join(titles, " · "))
}

func (m Model) viewFooter() string {
	if m.filtering {
		return m.filter.View()
	}
	if m.lastErr != nil {
		return styles.ErrorStyle.Render("error: "+m.lastErr.Error()) + styles.DimStyle.Render("  (esc to dismiss)")
	}
	return styles.DimStyle.Render("r refresh · f follow · w/u watched · i ignore season · / filter · q quit")
}
