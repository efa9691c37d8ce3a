package ui

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	Accent     = lipgloss.Color("#2ec4b6") // Tiffany teal
	AccentDark = lipgloss.Color("#1a7f76")
	Background = lipgloss.Color("#011627") // Rich black
	Foreground = lipgloss.Color("#fdfffc") // Baby powder
	Muted      = lipgloss.Color("#8d99ae") // Cool gray

	// Semantic colors
	ColorSuccess = lipgloss.Color("#2ecc71")
	ColorWarning = lipgloss.Color("#ff9f1c")
	ColorError   = lipgloss.Color("#e71d36")
	ColorInfo    = lipgloss.Color("#3498db")
)

// Styles for TUI components
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Background).
			Background(Accent).
			Padding(0, 1).
			Width(80)

	// Footer style (keybindings)
	FooterStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Background(Background).
			Padding(0, 1).
			Width(80)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Accent).
			MarginTop(1).
			MarginBottom(1)

	ContentStyle = lipgloss.NewStyle().
			Foreground(Foreground)

	MutedStyle = lipgloss.NewStyle().
			Foreground(Muted)

	// Active tab and group headings
	HighlightStyle = lipgloss.NewStyle().
			Foreground(Background).
			Background(Accent).
			Bold(true)

	TabStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Padding(0, 1)

	ActiveTabStyle = HighlightStyle.
			Padding(0, 1)

	// KEEP markers
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	// DELETE markers
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	// Numbers
	StatStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	BarStyle = lipgloss.NewStyle().
			Foreground(AccentDark)
)

// FormatKeybinding formats a keybinding for display in footer
func FormatKeybinding(key, description string) string {
	keyStyle := lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(Muted)

	return keyStyle.Render(key) + " " + descStyle.Render(description)
}

// FormatHeader formats a header with consistent styling
func FormatHeader(title string) string {
	return HeaderStyle.Render(title)
}

// FormatFooter formats footer with keybindings
func FormatFooter(keybindings ...string) string {
	footer := ""
	for i, kb := range keybindings {
		if i > 0 {
			footer += "  "
		}
		footer += kb
	}
	return FooterStyle.Render(footer)
}
