package scanner_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Nomadcxx/tidysink/internal/scanner"
)

func TestProgressReporting(t *testing.T) {
	var updates []scanner.ScanProgress
	pr := scanner.NewProgressReporter(func(p scanner.ScanProgress) {
		updates = append(updates, p)
	}, "test_operation")

	pr.Start(100)
	pr.Update(50, "/tmp/a")
	pr.Update(100, "/tmp/b")

	if len(updates) != 2 {
		t.Fatalf("Expected 2 updates, got %d", len(updates))
	}
	if updates[0].Operation != "test_operation" {
		t.Errorf("Expected operation 'test_operation', got '%s'", updates[0].Operation)
	}
	if updates[0].Total != 100 {
		t.Errorf("Expected total 100, got %d", updates[0].Total)
	}
	if updates[0].Percentage < 49.0 || updates[0].Percentage > 51.0 {
		t.Errorf("Expected percentage ~50, got %.2f", updates[0].Percentage)
	}
	if updates[1].Percentage != 100.0 {
		t.Errorf("Expected percentage 100, got %.2f", updates[1].Percentage)
	}
	if updates[1].Path != "/tmp/b" {
		t.Errorf("Expected path /tmp/b, got %s", updates[1].Path)
	}
}

func TestProgressReporterNilSafe(t *testing.T) {
	var pr *scanner.ProgressReporter
	pr.Update(1, "x")

	pr = scanner.NewProgressReporter(nil, "noop")
	pr.Start(10)
	pr.Update(1, "x")
}

func TestProgressUnknownTotal(t *testing.T) {
	var got scanner.ScanProgress
	pr := scanner.NewProgressReporter(func(p scanner.ScanProgress) { got = p }, "hashing")

	pr.Update(3, "file")

	if got.Percentage != 0 {
		t.Errorf("Expected percentage 0 with unknown total, got %.2f", got.Percentage)
	}
}

func TestCountFiles(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"a.txt", "sub/b.txt", "sub/deeper/c.txt"} {
		path := filepath.Join(tmpDir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(name), 0644); err != nil {
			t.Fatal(err)
		}
	}

	count, err := scanner.CountFiles(tmpDir)
	if err != nil {
		t.Fatalf("CountFiles() error = %v", err)
	}
	if count != 3 {
		t.Errorf("CountFiles() = %d, want 3", count)
	}

	if _, err := scanner.CountFiles(filepath.Join(tmpDir, "missing")); err == nil {
		t.Error("CountFiles() on missing dir should error")
	}
}
