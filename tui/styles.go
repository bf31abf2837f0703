package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jonwraymond/playground/console"
)

var (
	accent    = lipgloss.Color("#F7DF1E")
	mutedGray = lipgloss.Color("#6B7280")
	infoBlue  = lipgloss.Color("#7FB3FF")
	warnAmber = lipgloss.Color("#FFC857")
	errorRed  = lipgloss.Color("#FF6B6B")
	textWhite = lipgloss.Color("#F9FAFB")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedGray).
			Padding(0, 1)

	fixtureStyle = paneStyle.
			BorderForeground(accent)

	targetStyle = lipgloss.NewStyle().
			Foreground(accent).
			Underline(true)
)

var kindStyles = map[console.Kind]lipgloss.Style{
	console.KindLog:   lipgloss.NewStyle().Foreground(textWhite),
	console.KindInfo:  lipgloss.NewStyle().Foreground(infoBlue),
	console.KindWarn:  lipgloss.NewStyle().Foreground(warnAmber),
	console.KindError: lipgloss.NewStyle().Foreground(errorRed).Bold(true),
}

func kindStyle(k console.Kind) lipgloss.Style {
	if s, ok := kindStyles[k]; ok {
		return s
	}
	return kindStyles[console.KindLog]
}
