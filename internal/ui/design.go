package ui

import "github.com/charmbracelet/lipgloss"

// Design centralizes the TUI color palette and common styles.
//
// Palette is based on Vitesse Dark Soft:
// https://github.com/antfu/vscode-theme-vitesse/blob/main/themes/vitesse-dark-soft.json
type designTheme struct {
	Primary lipgloss.Color // #4d9375
	Blue    lipgloss.Color // #6394bf
	Yellow  lipgloss.Color // #e6cc77
	Magenta lipgloss.Color // #d9739f
	Cyan    lipgloss.Color // #5eaab5
	Red     lipgloss.Color // #cb7676

	Text      lipgloss.Color
	Secondary lipgloss.Color
	Muted     lipgloss.Color

	Bg        lipgloss.Color
	BgSoft    lipgloss.Color
	Border    lipgloss.Color
	Selection lipgloss.Color

	OnAccent lipgloss.Color

	BarFG lipgloss.AdaptiveColor
	BarBG lipgloss.AdaptiveColor
}

// Vitesse is the global theme.
var Vitesse = designTheme{
	Primary: lipgloss.Color("#4d9375"),
	Blue:    lipgloss.Color("#6394bf"),
	Yellow:  lipgloss.Color("#e6cc77"),
	Magenta: lipgloss.Color("#d9739f"),
	Cyan:    lipgloss.Color("#5eaab5"),
	Red:     lipgloss.Color("#cb7676"),

	Text:      lipgloss.Color("#dbd7caee"),
	Secondary: lipgloss.Color("#bfbaaa"),
	Muted:     lipgloss.Color("#758575"),

	Bg:        lipgloss.Color("#181818"),
	BgSoft:    lipgloss.Color("#292929"),
	Border:    lipgloss.Color("#3a3a3a"),
	Selection: lipgloss.Color("#3d4a44"),

	OnAccent: lipgloss.Color("#222"),

	BarFG: lipgloss.AdaptiveColor{Light: "#343433", Dark: "#bfbaaa"},
	BarBG: lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#222"},
}

// BorderStyle returns a style with the standard border color.
func BorderStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Vitesse.Border)
}

// AccentBold returns a bold style using the primary accent color.
func AccentBold() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(Vitesse.Primary)
}

// ChipKeyStyle is the left-most highlighted chip in the status bar.
func ChipKeyStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(Vitesse.OnAccent).
		Background(Vitesse.Primary).
		Padding(0, 1)
}

// StatusBarBase returns the base style for the status bar background/foreground.
func StatusBarBase() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Vitesse.BarFG).Background(Vitesse.BarBG)
}

var (
	textStyle      = lipgloss.NewStyle().Foreground(Vitesse.Text)
	mutedStyle     = lipgloss.NewStyle().Foreground(Vitesse.Muted)
	errorStyle     = lipgloss.NewStyle().Foreground(Vitesse.Red)
	headerStyle    = lipgloss.NewStyle().Foreground(Vitesse.Cyan)
	commandStyle   = lipgloss.NewStyle().Bold(true).Foreground(Vitesse.Text)
	selectionStyle = lipgloss.NewStyle().Background(Vitesse.Selection).Foreground(Vitesse.Text)
	cursorStyle    = lipgloss.NewStyle().Reverse(true)
	ghostStyle     = lipgloss.NewStyle().Foreground(Vitesse.Muted)
	activeRowStyle = lipgloss.NewStyle().Background(Vitesse.BgSoft).Foreground(Vitesse.Primary).Bold(true)
)

// kindStyle colors a git change kind chip.
func kindStyle(kind string) lipgloss.Style {
	switch kind {
	case "A":
		return lipgloss.NewStyle().Foreground(Vitesse.Primary)
	case "D":
		return lipgloss.NewStyle().Foreground(Vitesse.Red)
	case "M":
		return lipgloss.NewStyle().Foreground(Vitesse.Yellow)
	}
	return mutedStyle
}
