package ui

import "github.com/charmbracelet/lipgloss"

// ASCII art for tidysink header as single string to preserve exact formatting
const tidysinkASCII = `██████████  ██████  ████████    ██      ██    ████████  ██████  ██      ██  ██    ██
    ██        ██    ██      ██    ██  ██    ██            ██    ████    ██  ██  ██
    ██        ██    ██      ██      ██        ██████      ██    ██  ██  ██  ████
    ██        ██    ██      ██      ██              ██    ██    ██    ████  ██  ██
    ██      ██████  ████████        ██      ████████    ██████  ██      ██  ██    ██`

// FormatASCIIHeader renders the tidysink ASCII header
func FormatASCIIHeader() string {
	headerStyle := lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)

	return headerStyle.Render(tidysinkASCII)
}

// FormatASCIIHeaderWithSubtext renders header with subtitle
func FormatASCIIHeaderWithSubtext(subtext string) string {
	subtitle := lipgloss.NewStyle().
		Foreground(Muted).
		Render(subtext)

	return FormatASCIIHeader() + "\n\n" + subtitle
}
