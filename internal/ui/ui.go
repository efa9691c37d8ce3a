package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Nomadcxx/tidysink/internal/reporter"
)

// ViewMode represents the current TUI tab
type ViewMode int

const (
	ViewSummary ViewMode = iota
	ViewDuplicates
	ViewAnalysis
)

func (v ViewMode) String() string {
	switch v {
	case ViewDuplicates:
		return "Duplicates"
	case ViewAnalysis:
		return "Analysis"
	}
	return "Summary"
}

// chrome is the number of lines used by header, tabs and footer
const chrome = 5

// Model is the report viewer state
type Model struct {
	report       reporter.Report
	tabs         []ViewMode
	active       int
	viewport     viewport.Model
	ready        bool
	width        int
	height       int
	allowDelete  bool
	shouldDelete bool
}

// NewModel creates a viewer for report. With allowDelete set, Enter on a
// duplicate report quits and requests deletion.
func NewModel(report reporter.Report, allowDelete bool) Model {
	tabs := []ViewMode{ViewSummary}
	switch report.Kind {
	case reporter.KindDuplicates:
		tabs = append(tabs, ViewDuplicates)
	case reporter.KindAnalysis:
		tabs = append(tabs, ViewAnalysis)
	}

	return Model{
		report:      report,
		tabs:        tabs,
		allowDelete: allowDelete && report.Kind == reporter.KindDuplicates && report.TotalFilesToDelete > 0,
	}
}

// Init initializes the TUI
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "esc":
			if m.active != 0 {
				return m.switchTo(0), nil
			}
			return m, tea.Quit

		case "tab", "right", "l":
			return m.switchTo((m.active + 1) % len(m.tabs)), nil

		case "shift+tab", "left", "h":
			return m.switchTo((m.active + len(m.tabs) - 1) % len(m.tabs)), nil

		case "1", "2":
			idx := int(msg.String()[0] - '1')
			if idx < len(m.tabs) {
				return m.switchTo(idx), nil
			}
			return m, nil

		case "enter":
			if m.allowDelete {
				m.shouldDelete = true
				return m, tea.Quit
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-chrome)
			m.viewport.SetContent(m.render(m.Mode()))
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - chrome
		}

		return m, nil
	}

	// Handle viewport updates (scrolling)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) switchTo(idx int) Model {
	m.active = idx
	if m.ready {
		m.viewport.SetContent(m.render(m.Mode()))
		m.viewport.GotoTop()
	}
	return m
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var header string
	switch m.Mode() {
	case ViewSummary:
		header = FormatHeader("TIDYSINK REPORT SUMMARY")
	case ViewDuplicates:
		header = FormatHeader("DUPLICATE REPORT (DETAILED)")
	case ViewAnalysis:
		header = FormatHeader("DIRECTORY ANALYSIS")
	}

	keys := []string{
		FormatKeybinding("Tab", "Switch"),
		FormatKeybinding("↑↓", "Scroll"),
	}
	if m.allowDelete {
		keys = append(keys, FormatKeybinding("Enter", "Delete duplicates"))
	}
	keys = append(keys,
		FormatKeybinding("Esc", "Back"),
		FormatKeybinding("q", "Quit"),
		MutedStyle.Render(fmt.Sprintf("%d%%", int(m.viewport.ScrollPercent()*100))),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		m.renderTabs(),
		m.viewport.View(),
		FormatFooter(keys...),
	)
}

func (m Model) renderTabs() string {
	var parts []string
	for i, tab := range m.tabs {
		label := fmt.Sprintf("%d %s", i+1, tab)
		if i == m.active {
			parts = append(parts, ActiveTabStyle.Render(label))
		} else {
			parts = append(parts, TabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) render(mode ViewMode) string {
	switch mode {
	case ViewDuplicates:
		return m.renderDuplicates()
	case ViewAnalysis:
		return m.renderAnalysis()
	}
	return m.renderSummary()
}

// renderSummary renders the summary tab
func (m Model) renderSummary() string {
	var sb strings.Builder

	sb.WriteString(FormatASCIIHeader() + "\n\n")

	sb.WriteString(InfoStyle.Render("Report: ") + ContentStyle.Render(m.report.ID) + "\n")
	sb.WriteString(InfoStyle.Render("Generated: ") + ContentStyle.Render(m.report.Timestamp.Format("2006-01-02 15:04:05")) + "\n")
	sb.WriteString(InfoStyle.Render("Directory: ") + ContentStyle.Render(m.report.Directory) + "\n")

	switch m.report.Kind {
	case reporter.KindDuplicates:
		sb.WriteString(TitleStyle.Render("DUPLICATES") + "\n")
		if m.report.Algorithm != "" {
			sb.WriteString(InfoStyle.Render("Hash algorithm: ") + ContentStyle.Render(m.report.Algorithm) + "\n")
		}
		sb.WriteString(InfoStyle.Render("Duplicate sets: ") + StatStyle.Render(fmt.Sprintf("%d", m.report.TotalDuplicates)) + "\n")
		sb.WriteString(InfoStyle.Render("Files to delete: ") + StatStyle.Render(fmt.Sprintf("%d", m.report.TotalFilesToDelete)) + "\n")
		sb.WriteString(InfoStyle.Render("Space to free: ") + StatStyle.Render(reporter.FormatBytes(m.report.SpaceToFree)) + "\n\n")

		if m.report.DuplicatesDeleted > 0 {
			sb.WriteString(SuccessStyle.Render(fmt.Sprintf("✓ Deleted %d files, freed %s",
				m.report.DuplicatesDeleted, reporter.FormatBytes(m.report.SpaceFreed))) + "\n\n")
		}

		offenders := reporter.GetTopOffenders(m.report)
		if len(offenders) > 0 {
			sb.WriteString(MutedStyle.Render("Top 5 offenders:") + "\n")
			limit := 5
			if len(offenders) < limit {
				limit = len(offenders)
			}
			for i := 0; i < limit; i++ {
				sb.WriteString(fmt.Sprintf("  %s %s - %s copies, %s\n",
					WarningStyle.Render(fmt.Sprintf("%d.", i+1)),
					ContentStyle.Render(offenders[i].Name),
					StatStyle.Render(fmt.Sprintf("%d", offenders[i].Count)),
					StatStyle.Render(reporter.FormatBytes(offenders[i].SpaceToFree))))
			}
		}

	case reporter.KindAnalysis:
		if a := m.report.Analysis; a != nil {
			sb.WriteString(TitleStyle.Render("ANALYSIS") + "\n")
			sb.WriteString(InfoStyle.Render("Total files: ") + StatStyle.Render(fmt.Sprintf("%d", a.TotalFiles)) + "\n")
			sb.WriteString(InfoStyle.Render("Total size: ") + StatStyle.Render(reporter.FormatBytes(a.TotalSize)) + "\n")
			sb.WriteString(InfoStyle.Render("Categories: ") + StatStyle.Render(fmt.Sprintf("%d", len(a.Categories))) + "\n")
			if len(a.Categories) > 0 {
				top := a.Categories[0]
				sb.WriteString(InfoStyle.Render("Largest: ") +
					ContentStyle.Render(fmt.Sprintf("%s (%.1f%%)", top.Name, top.Percent)) + "\n")
			}
		}
	}

	return sb.String()
}

// renderDuplicates renders every group with KEEP/DELETE markers
func (m Model) renderDuplicates() string {
	var sb strings.Builder

	if len(m.report.Duplicates) == 0 {
		sb.WriteString(SuccessStyle.Render("✓ No duplicates found.") + "\n")
		return sb.String()
	}

	for i, group := range m.report.Duplicates {
		sb.WriteString(HighlightStyle.Render(fmt.Sprintf("Set %d: %d copies (%s each)",
			i+1, len(group.Files), reporter.FormatBytes(group.Size))) + "\n")
		sb.WriteString(MutedStyle.Render("  "+group.Hash) + "\n")

		for j, file := range group.Files {
			path := reporter.RelPath(m.report.Directory, file.Path)
			if j == 0 {
				sb.WriteString(fmt.Sprintf("  %s %s\n", SuccessStyle.Render("KEEP:  "), ContentStyle.Render(path)))
			} else {
				sb.WriteString(fmt.Sprintf("  %s %s\n", ErrorStyle.Render("DELETE:"), MutedStyle.Render(path)))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// renderAnalysis renders the category table with proportional bars
func (m Model) renderAnalysis() string {
	var sb strings.Builder

	a := m.report.Analysis
	if a == nil || len(a.Categories) == 0 {
		sb.WriteString(MutedStyle.Render("No files analyzed.") + "\n")
		return sb.String()
	}

	sb.WriteString(ContentStyle.Render(fmt.Sprintf("%-20s %-10s %-15s %6s", "Category", "Files", "Size", "%")) + "\n")
	sb.WriteString(MutedStyle.Render(strings.Repeat("─", 70)) + "\n")

	for _, c := range a.Categories {
		sb.WriteString(fmt.Sprintf("%-20s %-10d %-15s %5.1f%% %s\n",
			c.Name, c.Count, reporter.FormatBytes(c.Size), c.Percent, renderBar(c.Percent, 20)))
	}

	if a.Skipped > 0 {
		sb.WriteString("\n" + WarningStyle.Render(fmt.Sprintf("⚠ %d entries could not be read", a.Skipped)) + "\n")
	}

	return sb.String()
}

// renderBar creates a text bar of width cells filled to percent
func renderBar(percent float64, width int) string {
	filled := int((percent / 100.0) * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return BarStyle.Render(strings.Repeat("█", filled))
}

// Mode returns the active tab
func (m Model) Mode() ViewMode {
	return m.tabs[m.active]
}

// Tabs returns the tabs available for the report
func (m Model) Tabs() []ViewMode {
	return append([]ViewMode(nil), m.tabs...)
}

// ShouldDelete returns whether the user asked to delete the listed duplicates
func (m Model) ShouldDelete() bool {
	return m.shouldDelete
}

// Run shows report in a full-screen viewer and reports whether deletion was
// requested
func Run(report reporter.Report, allowDelete bool) (bool, error) {
	p := tea.NewProgram(NewModel(report, allowDelete), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("viewer failed: %w", err)
	}

	if m, ok := final.(Model); ok {
		return m.ShouldDelete(), nil
	}
	return false, nil
}
