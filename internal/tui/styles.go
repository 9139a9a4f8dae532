package tui

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Title     lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Label     lipgloss.Style
	Buy       lipgloss.Style
	Sell      lipgloss.Style
	Hold      lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Box       lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		Tab:       lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245")),
		ActiveTab: lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214")),
		Label:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14),
		Buy:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		Sell:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		Hold:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("226")),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Box:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1),
	}
}
