package ui

import "github.com/charmbracelet/lipgloss"

// Palette shared by the play and serve commands.
var (
	ColorAccent = lipgloss.Color("12")
	ColorPass   = lipgloss.Color("10")
	ColorWarn   = lipgloss.Color("11")
	ColorFail   = lipgloss.Color("9")
	ColorMuted  = lipgloss.Color("8")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	NarrationStyle = lipgloss.NewStyle()

	BeatStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorFail)

	FatalStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorFail)

	PromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPass)

	HintStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)
