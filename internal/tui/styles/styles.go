package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Accent    = lipgloss.Color("#6366F1")
	DimGray   = lipgloss.Color("#6B7280")
	LightGray = lipgloss.Color("#9CA3AF")
	White     = lipgloss.Color("#F9FAFB")
	Green     = lipgloss.Color("#10B981")
	Red       = lipgloss.Color("#EF4444")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	FollowedStyle = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)
)
