package ui_test

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Nomadcxx/tidysink/internal/reporter"
	"github.com/Nomadcxx/tidysink/internal/scanner"
	"github.com/Nomadcxx/tidysink/internal/ui"
)

func duplicateReport() reporter.Report {
	groups := []scanner.DuplicateGroup{{
		Hash: "5d41402abc4b2a76b9719d911017c592",
		Size: 5,
		Files: []scanner.DuplicateFile{
			{Path: "/data/b/hello.txt", Size: 5},
			{Path: "/data/a/hello.txt", Size: 5},
		},
	}}
	report := reporter.NewDuplicateReport("/data", "md5", groups)
	report.Timestamp = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	return report
}

func analysisReport() reporter.Report {
	analysis := &scanner.Analysis{
		Directory:  "/data",
		TotalFiles: 3,
		TotalSize:  4000,
		Categories: []scanner.CategoryStats{
			{Name: "Videos", Count: 1, Size: 3000, Percent: 75},
			{Name: "Documents", Count: 2, Size: 1000, Percent: 25},
		},
	}
	return reporter.NewAnalysisReport("/data", analysis)
}

func update(t *testing.T, m ui.Model, msg tea.Msg) (ui.Model, tea.Cmd) {
	t.Helper()
	ret, cmd := m.Update(msg)
	next, ok := ret.(ui.Model)
	if !ok {
		t.Fatalf("Update returned %T, want ui.Model", ret)
	}
	return next, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestViewBeforeResize(t *testing.T) {
	m := ui.NewModel(duplicateReport(), false)
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() = %q, want Initializing...", got)
	}
}

func TestDuplicateTabs(t *testing.T) {
	m := ui.NewModel(duplicateReport(), false)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 60})

	tabs := m.Tabs()
	if len(tabs) != 2 || tabs[1] != ui.ViewDuplicates {
		t.Fatalf("Tabs() = %v, want [Summary Duplicates]", tabs)
	}

	if !strings.Contains(m.View(), "Duplicate sets:") {
		t.Error("summary tab should show duplicate totals")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Mode() != ui.ViewDuplicates {
		t.Fatalf("Mode() = %v after tab, want Duplicates", m.Mode())
	}

	view := m.View()
	for _, want := range []string{"KEEP:", "DELETE:", "b/hello.txt", "a/hello.txt"} {
		if !strings.Contains(view, want) {
			t.Errorf("duplicates view missing %q", want)
		}
	}

	// Tab wraps around
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Mode() != ui.ViewSummary {
		t.Errorf("Mode() = %v after second tab, want Summary", m.Mode())
	}
}

func TestAnalysisTabs(t *testing.T) {
	m := ui.NewModel(analysisReport(), true)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 60})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2")})
	if m.Mode() != ui.ViewAnalysis {
		t.Fatalf("Mode() = %v, want Analysis", m.Mode())
	}

	view := m.View()
	if !strings.Contains(view, "Videos") || !strings.Contains(view, "75.0%") {
		t.Errorf("analysis view missing category row:\n%s", view)
	}

	// Enter does nothing on analysis reports
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.ShouldDelete() || isQuit(cmd) {
		t.Error("enter should be ignored for analysis reports")
	}

	// Esc goes back to summary before quitting
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Mode() != ui.ViewSummary || isQuit(cmd) {
		t.Error("esc should return to summary first")
	}
	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !isQuit(cmd) {
		t.Error("esc on summary should quit")
	}
}

func TestEnterRequestsDeletion(t *testing.T) {
	m := ui.NewModel(duplicateReport(), true)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 60})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.ShouldDelete() {
		t.Error("expected ShouldDelete after enter")
	}
	if !isQuit(cmd) {
		t.Error("expected quit after enter")
	}
}

func TestEnterWithoutPermission(t *testing.T) {
	m := ui.NewModel(duplicateReport(), false)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 60})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.ShouldDelete() {
		t.Error("enter must not request deletion when deletion is not allowed")
	}
}
