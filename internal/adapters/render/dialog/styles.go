package dialog

import "github.com/charmbracelet/lipgloss"

type styles struct {
	frame      lipgloss.Style
	title      lipgloss.Style
	body       lipgloss.Style
	link       lipgloss.Style
	linkURL    lipgloss.Style
	term       lipgloss.Style
	warning    lipgloss.Style
	meta       lipgloss.Style
	section    lipgloss.Style
	button     lipgloss.Style
	buttonPick lipgloss.Style
	unchanged  lipgloss.Style
}

func newStyles() styles {
	return styles{
		frame:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("244")).Padding(0, 1),
		title:      lipgloss.NewStyle().Bold(true),
		body:       lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		link:       lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("39")),
		linkURL:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		term:       lipgloss.NewStyle().Bold(true),
		warning:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		meta:       lipgloss.NewStyle().Faint(true),
		section:    lipgloss.NewStyle().MarginTop(1),
		button:     lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		buttonPick: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("159")),
		unchanged:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}
