package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/wonderbeed/StarTracker/internal/countdown"
)

// Theme/palette helpers.
//
// The TUI must remain readable on both light and dark terminal backgrounds,
// so colors are lipgloss.AdaptiveColor pairs throughout.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted      lipgloss.TerminalColor = ac("240", "243")
	colorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg lipgloss.TerminalColor = ac("235", "255")
	colorControlBg  lipgloss.TerminalColor = ac("252", "238")
	colorErrorFg    lipgloss.TerminalColor = ac("160", "203")
	colorTitleFg    lipgloss.TerminalColor = ac("232", "255")

	// Urgency colors mirror the historical row classes: red for urgent,
	// yellow for soon, default for normal.
	colorUrgentFg lipgloss.TerminalColor = ac("160", "203")
	colorSoonFg   lipgloss.TerminalColor = ac("130", "214")
)

func styleMuted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorMuted)
}

func styleError() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorErrorFg)
}

func styleTitle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorTitleFg).Bold(true)
}

func styleSelectedRow() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
}

func styleUrgency(u countdown.Urgency) lipgloss.Style {
	switch u {
	case countdown.Urgent:
		return lipgloss.NewStyle().Foreground(colorUrgentFg).Bold(true)
	case countdown.Soon:
		return lipgloss.NewStyle().Foreground(colorSoonFg)
	default:
		return lipgloss.NewStyle()
	}
}

// setupColorProfile pins the lipgloss color profile before the first render.
// termenv.EnvColorProfile respects CLICOLOR/CLICOLOR_FORCE, which is useful
// for tests and CI pipelines.
func setupColorProfile() {
	if os.Getenv("NO_COLOR") != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(termenv.EnvColorProfile())
}
