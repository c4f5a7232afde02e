package timer

import "github.com/charmbracelet/lipgloss"

// styles holds the lipgloss styles for the countdown interface.
type styles struct {
	base      lipgloss.Style
	goal      lipgloss.Style
	main      lipgloss.Style
	secondary lipgloss.Style
	hint      lipgloss.Style
}

func newStyles(darkTheme bool) styles {
	var (
		goalColor      = lipgloss.Color("#d75f5f")
		mainColor      = lipgloss.Color("#262626")
		secondaryColor = lipgloss.Color("#5f87af")
		hintColor      = lipgloss.Color("#6c6c6c")
	)

	if darkTheme {
		mainColor = lipgloss.Color("#e4e4e4")
		hintColor = lipgloss.Color("#8a8a8a")
	}

	return styles{
		base:      lipgloss.NewStyle().Padding(1, 2),
		goal:      lipgloss.NewStyle().Foreground(goalColor).Bold(true),
		main:      lipgloss.NewStyle().Foreground(mainColor).Bold(true),
		secondary: lipgloss.NewStyle().Foreground(secondaryColor),
		hint:      lipgloss.NewStyle().Foreground(hintColor),
	}
}
