package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// The strip must remain readable on both light and dark terminal backgrounds,
// so colors are lipgloss.AdaptiveColor pairs.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted     lipgloss.TerminalColor = ac("240", "243")
	colorSurfaceFg lipgloss.TerminalColor = ac("235", "252")
	colorTabBg     lipgloss.TerminalColor = ac("254", "236")
	colorActiveBg  lipgloss.TerminalColor = ac("27", "62")
	colorActiveFg  lipgloss.TerminalColor = ac("255", "255")
	colorDropBg    lipgloss.TerminalColor = ac("221", "94")
	colorBorder    lipgloss.TerminalColor = ac("250", "240")
)

// Every tab cell style shares the same horizontal padding so measured widths
// do not depend on the tab's state.
var styleTab = lipgloss.NewStyle().Padding(0, 1).Foreground(colorSurfaceFg).Background(colorTabBg)

var (
	styleTabActive     = styleTab.Foreground(colorActiveFg).Background(colorActiveBg).Bold(true)
	styleTabDropTarget = styleTab.Background(colorDropBg).Underline(true)
	styleTabDragSource = faintIfDark(styleTab.Foreground(colorMuted))

	styleTrigger       = lipgloss.NewStyle().Padding(0, 1).Foreground(colorSurfaceFg).Background(colorTabBg)
	styleTriggerActive = styleTrigger.Foreground(colorActiveFg).Background(colorActiveBg)

	styleRule         = lipgloss.NewStyle().Foreground(colorBorder)
	styleProxy        = lipgloss.NewStyle().Padding(0, 1).Foreground(colorActiveFg).Background(colorActiveBg)
	styleMenu         = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder).Padding(0, 1)
	styleMenuTitle    = lipgloss.NewStyle().Foreground(colorMuted)
	styleMenuSelected = lipgloss.NewStyle().Bold(true).Foreground(colorActiveBg)
	styleMuted        = lipgloss.NewStyle().Foreground(colorMuted)
)
