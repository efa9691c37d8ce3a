package reporter

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		size     float64
		expected string
	}{
		{0, "0.00 B"},
		{1, "1.00 B"},
		{1023, "1023.00 B"},
		{1.5, "1.50 B"},
		{1024, "1.00 KB"},
		{1025, "1.00 KB"},
		{1536, "1.50 KB"},
		{1024 * 1.999, "2.00 KB"},
		{1024 * 1024, "1.00 MB"},
		{500 * 1024 * 1024, "500.00 MB"},
		{math.Pow(1024, 3) * 2.5, "2.50 GB"},
		{math.Pow(1024, 4), "1.00 TB"},
		{math.Pow(1024, 5), "1.00 PB"},
		{math.Pow(1024, 6), "1024.00 PB"},
	}

	for _, tt := range tests {
		result := FormatSize(tt.size)
		if result != tt.expected {
			t.Errorf("FormatSize(%v) = %q, want %q", tt.size, result, tt.expected)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
		wantErr  bool
	}{
		{"quiet", LogLevelQuiet, false},
		{"", LogLevelNormal, false},
		{"Normal", LogLevelNormal, false},
		{"verbose", LogLevelVerbose, false},
		{"loud", LogLevelNormal, true},
	}

	for _, tt := range tests {
		lvl, err := ParseLogLevel(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLogLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if lvl != tt.expected {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, lvl, tt.expected)
		}
	}
}

func TestConsoleQuietSuppressesItems(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, LogLevelQuiet, false)

	c.Header("Organizing")
	c.Item("MOVED", "a.jpg → Images/")
	c.Debug("hidden")
	c.Summary("Processed %d files", 1)

	out := buf.String()
	if strings.Contains(out, "a.jpg") {
		t.Errorf("quiet console printed item line: %q", out)
	}
	if !strings.Contains(out, "Processed 1 files") {
		t.Errorf("quiet console dropped summary: %q", out)
	}
}

func TestConsoleItemFormatting(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, LogLevelVerbose, false)

	c.Item("WOULD MOVE", "b.pdf → Documents/")
	c.Debug("skipping %s", "undo.json")

	out := buf.String()
	if !strings.Contains(out, "[WOULD MOVE] b.pdf → Documents/") {
		t.Errorf("unexpected item line: %q", out)
	}
	if !strings.Contains(out, "debug: skipping undo.json") {
		t.Errorf("verbose console dropped debug line: %q", out)
	}
}
