// Package tui provides the interactive confirmation dialog shown before
// photoprune deletes anything. It uses Charmbracelet's Bubble Tea, Lip Gloss
// and Bubbles.
package tui

import "github.com/charmbracelet/lipgloss"

const dialogWidth = 50

var (
	white   = lipgloss.Color("#FFFFFF")
	primary = lipgloss.Color("#7D56F4")
	accent  = lipgloss.Color("#00D9FF")
	warning = lipgloss.Color("#FFC107")
	danger  = lipgloss.Color("#DC3545")
	muted   = lipgloss.Color("#666666")
	subtle  = lipgloss.Color("#444444")
)

var (
	dialogBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(warning).
			Padding(1, 2).
			Width(dialogWidth)

	dialogTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(warning)
	dialogTextStyle  = lipgloss.NewStyle().Foreground(white)
	sizeStyle        = lipgloss.NewStyle().Bold(true).Foreground(accent)
	dryRunStyle      = lipgloss.NewStyle().Italic(true).Foreground(warning)

	keyStyle     = lipgloss.NewStyle().Bold(true).Foreground(primary)
	keyDescStyle = lipgloss.NewStyle().Foreground(muted)

	buttonBase = lipgloss.NewStyle().Padding(0, 2).Margin(0, 1)
)

// buttonStyle styles a dialog button. Only a focused destructive button is red.
func buttonStyle(focused, destructive bool) lipgloss.Style {
	switch {
	case !focused:
		return buttonBase.Background(subtle).Foreground(lipgloss.Color("#CCCCCC"))
	case destructive:
		return buttonBase.Background(danger).Foreground(white).Bold(true)
	default:
		return buttonBase.Background(primary).Foreground(white).Bold(true)
	}
}
