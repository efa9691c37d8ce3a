package scanner

import (
	"path/filepath"
	"strings"
	"testing"
)

func classifyForTest(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".png":
		return "Images"
	case ".pdf":
		return "Documents"
	}
	return "Other"
}

func TestAnalyze(t *testing.T) {
	tmpDir := t.TempDir()
	writeTestFile(t, filepath.Join(tmpDir, "a.jpg"), strings.Repeat("i", 300))
	writeTestFile(t, filepath.Join(tmpDir, "nested", "b.PNG"), strings.Repeat("i", 200))
	writeTestFile(t, filepath.Join(tmpDir, "c.pdf"), strings.Repeat("d", 100))
	writeTestFile(t, filepath.Join(tmpDir, "noext"), strings.Repeat("o", 400))

	analysis, err := Analyze(tmpDir, classifyForTest)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if analysis.TotalFiles != 4 {
		t.Errorf("TotalFiles = %d, want 4", analysis.TotalFiles)
	}
	if analysis.TotalSize != 1000 {
		t.Errorf("TotalSize = %d, want 1000", analysis.TotalSize)
	}

	wantOrder := []string{"Images", "Other", "Documents"}
	if len(analysis.Categories) != len(wantOrder) {
		t.Fatalf("got %d categories, want %d", len(analysis.Categories), len(wantOrder))
	}
	for i, name := range wantOrder {
		if analysis.Categories[i].Name != name {
			t.Errorf("Categories[%d] = %s, want %s", i, analysis.Categories[i].Name, name)
		}
	}

	images, ok := analysis.Category("Images")
	if !ok {
		t.Fatal("Images category missing")
	}
	if images.Count != 2 || images.Size != 500 || images.Percent != 50 {
		t.Errorf("Images = %+v, want count 2 size 500 percent 50", images)
	}
}

func TestAnalyzeTiesKeepFirstSeen(t *testing.T) {
	tmpDir := t.TempDir()
	writeTestFile(t, filepath.Join(tmpDir, "a.pdf"), "xx")
	writeTestFile(t, filepath.Join(tmpDir, "b.jpg"), "xx")

	analysis, err := Analyze(tmpDir, classifyForTest)
	if err != nil {
		t.Fatal(err)
	}

	if analysis.Categories[0].Name != "Documents" || analysis.Categories[1].Name != "Images" {
		t.Errorf("tie order = %s, %s; want Documents, Images", analysis.Categories[0].Name, analysis.Categories[1].Name)
	}
}

func TestAnalyzeEmptyFilesZeroPercent(t *testing.T) {
	tmpDir := t.TempDir()
	writeTestFile(t, filepath.Join(tmpDir, "empty.pdf"), "")

	analysis, err := Analyze(tmpDir, classifyForTest)
	if err != nil {
		t.Fatal(err)
	}

	docs, _ := analysis.Category("Documents")
	if docs.Count != 1 || docs.Percent != 0 {
		t.Errorf("Documents = %+v, want count 1 percent 0", docs)
	}
}

func TestAnalyzeEmptyDirectory(t *testing.T) {
	analysis, err := Analyze(t.TempDir(), classifyForTest)
	if err != nil {
		t.Fatal(err)
	}
	if analysis.TotalFiles != 0 || len(analysis.Categories) != 0 {
		t.Errorf("empty dir analysis = %+v", analysis)
	}
}

func TestSuffix(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"photo.jpg", ".jpg"},
		{"archive.tar.gz", ".gz"},
		{".bashrc", ""},
		{"README", ""},
		{"api.postman_collection.json", ".json"},
	}

	for _, tt := range tests {
		if got := Suffix(tt.name); got != tt.want {
			t.Errorf("Suffix(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
