package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nomadcxx/tidysink/internal/reporter"
)

type testEnv struct {
	t      *testing.T
	config string
	ledger string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, key := range []string{"TIDYSINK_UNDO_LOG", "TIDYSINK_HASH_ALGORITHM", "TIDYSINK_LOG_LEVEL", "TIDYSINK_WATCH_STRATEGY"} {
		t.Setenv(key, "")
	}

	return &testEnv{
		t:      t,
		config: filepath.Join(home, "config.toml"),
		ledger: filepath.Join(home, "undo.json"),
	}
}

// run executes the CLI with stdin and returns combined output
func (e *testEnv) run(stdin string, args ...string) (string, error) {
	e.t.Helper()
	root := newRootCmd()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", e.config, "--undo-log", e.ledger, "--no-color"}, args...))

	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestOrganizeAndUndo(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.jpg"), "jpg")
	writeFile(t, filepath.Join(dir, "b.pdf"), "pdf")

	out, err := env.run("", "organize", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "[MOVED] a.jpg → Images/")
	assert.Contains(t, out, "[MOVED] b.pdf → Documents/")
	assert.Contains(t, out, "Processed 2 files")
	assert.FileExists(t, filepath.Join(dir, "Images", "a.jpg"))
	assert.FileExists(t, filepath.Join(dir, "Documents", "b.pdf"))

	out, err = env.run("y\n", "undo")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 2 operations to undo")
	assert.Contains(t, out, "Undone: 2 operations")
	assert.FileExists(t, filepath.Join(dir, "a.jpg"))
	assert.FileExists(t, filepath.Join(dir, "b.pdf"))
}

func TestUndoDeclined(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.jpg"), "jpg")

	_, err := env.run("", "organize", dir)
	require.NoError(t, err)

	out, err := env.run("n\n", "undo")
	require.NoError(t, err)
	assert.Contains(t, out, "Undo cancelled.")
	assert.FileExists(t, filepath.Join(dir, "Images", "a.jpg"))
}

func TestUndoNothing(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("", "undo", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "No operations to undo")
}

func TestOrganizeDryRunConfirm(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "song.mp3"), "mp3")

	out, err := env.run("n\n", "organize", dir, "--dry-run", "--confirm")
	require.NoError(t, err)
	assert.Contains(t, out, "[WOULD MOVE] song.mp3 → Audio/")
	assert.Contains(t, out, "Cancelled, nothing was moved.")
	assert.FileExists(t, filepath.Join(dir, "song.mp3"))

	out, err = env.run("yes\n", "organize", dir, "--dry-run", "--confirm")
	require.NoError(t, err)
	assert.Contains(t, out, "[MOVED] song.mp3 → Audio/")
	assert.FileExists(t, filepath.Join(dir, "Audio", "song.mp3"))
}

func TestOrganizeFlagErrors(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()

	_, err := env.run("", "organize", dir, "--confirm")
	assert.Error(t, err, "--confirm without --dry-run")

	_, err = env.run("", "organize", dir, "--by", "name")
	assert.Error(t, err, "unknown strategy")

	_, err = env.run("", "organize", filepath.Join(dir, "missing"))
	assert.Error(t, err, "missing directory")

	_, err = env.run("", "--quiet", "--verbose", "organize", dir)
	assert.Error(t, err, "quiet and verbose together")
}

func TestQuietOrganize(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.jpg"), "jpg")

	out, err := env.run("", "--quiet", "organize", dir)
	require.NoError(t, err)
	assert.Equal(t, "✓ Processed 1 files\n", out)
}

func TestDupesDeleteCancelled(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a", "x.txt"), "same content")
	writeFile(t, filepath.Join(dir, "b", "x.txt"), "same content")

	out, err := env.run("nope\n", "dupes", dir, "--delete")
	require.NoError(t, err)
	assert.Contains(t, out, "Deletion cancelled.")
	assert.FileExists(t, filepath.Join(dir, "a", "x.txt"))
	assert.FileExists(t, filepath.Join(dir, "b", "x.txt"))
}

func TestDupesDeleteConfirmed(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a", "x.txt"), "same content")
	writeFile(t, filepath.Join(dir, "b", "x.txt"), "same content")

	reportPath := filepath.Join(t.TempDir(), "dupes.yaml")
	out, err := env.run("DELETE\n", "dupes", dir, "--delete", "--report", reportPath)
	require.NoError(t, err)
	assert.Contains(t, out, "[ORIGINAL] "+filepath.Join("b", "x.txt"))
	assert.Contains(t, out, "[DUPLICATE] "+filepath.Join("a", "x.txt"))
	assert.Contains(t, out, "Deleted 1 duplicate files")

	assert.FileExists(t, filepath.Join(dir, "b", "x.txt"))
	assert.NoFileExists(t, filepath.Join(dir, "a", "x.txt"))

	report, err := reporter.Load(reportPath)
	require.NoError(t, err)
	assert.Equal(t, reporter.KindDuplicates, report.Kind)
	assert.Equal(t, 1, report.TotalDuplicates)
	assert.Equal(t, 1, report.DuplicatesDeleted)
	assert.Equal(t, int64(len("same content")), report.SpaceFreed)
}

func TestDupesAlgorithmFlag(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "one.txt"), "hello")
	writeFile(t, filepath.Join(dir, "two.txt"), "hello")

	reportPath := filepath.Join(t.TempDir(), "dupes.json")
	_, err := env.run("", "dupes", dir, "--algorithm", "sha256", "--report", reportPath)
	require.NoError(t, err)

	report, err := reporter.Load(reportPath)
	require.NoError(t, err)
	assert.Equal(t, "sha256", report.Algorithm)
	require.Len(t, report.Duplicates, 1)
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", report.Duplicates[0].Hash)

	_, err = env.run("", "dupes", dir, "--algorithm", "crc32")
	assert.Error(t, err)
}

func TestAnalyzeExports(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "clip.mp4"), strings.Repeat("v", 300))
	writeFile(t, filepath.Join(dir, "docs", "notes.txt"), strings.Repeat("d", 100))

	outDir := t.TempDir()
	jsonPath := filepath.Join(outDir, "analysis.json")
	xlsxPath := filepath.Join(outDir, "analysis.xlsx")

	out, err := env.run("", "analyze", dir, "--report", jsonPath, "--xlsx", xlsxPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Total Files: 2")
	assert.Contains(t, out, "Videos")
	assert.FileExists(t, xlsxPath)

	report, err := reporter.Load(jsonPath)
	require.NoError(t, err)
	require.NotNil(t, report.Analysis)
	assert.Equal(t, "Videos", report.Analysis.Categories[0].Name)
	assert.Equal(t, int64(400), report.Analysis.TotalSize)
}

func TestCleanCommand(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty", "nested"), 0755))
	writeFile(t, filepath.Join(dir, "keep", "file.txt"), "x")

	out, err := env.run("", "clean", dir, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Would remove 2 empty folders")
	assert.DirExists(t, filepath.Join(dir, "empty"))

	out, err = env.run("", "clean", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 2 empty folders")
	assert.NoDirExists(t, filepath.Join(dir, "empty"))
	assert.DirExists(t, filepath.Join(dir, "keep"))
}

func TestRulesCommand(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("", "--rule", "Notes=md,.ORG", "rules")
	require.NoError(t, err)
	assert.Contains(t, out, "Built-in categories:")
	assert.Contains(t, out, "Custom rules (1):")
	assert.Contains(t, out, ".md .org")

	_, err = env.run("", "--rule", "Notes", "rules")
	assert.Error(t, err)
}

func TestRuleFlagAppliesToOrganize(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "todo.md"), "- [ ] ship")

	out, err := env.run("", "--rule", "Notes=.md", "organize", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "[MOVED] todo.md → Notes/")
	assert.FileExists(t, filepath.Join(dir, "Notes", "todo.md"))
}

func TestConfigCommand(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration file: "+env.config)
	assert.Contains(t, out, "(created with defaults)")
	assert.Contains(t, out, "Undo ledger: "+env.ledger)
	assert.Contains(t, out, `algorithm = "md5"`)
	assert.FileExists(t, env.config)
}

func TestEnvOverride(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("TIDYSINK_LOG_LEVEL", "quiet")
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.jpg"), "jpg")

	out, err := env.run("", "organize", dir)
	require.NoError(t, err)
	assert.NotContains(t, out, "[MOVED]")
	assert.Contains(t, out, "Processed 1 files")
}

func TestVersionCommand(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tidysink dev")
}

func TestHelpShowsHeaderAndVersion(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "tidysink dev")
	assert.Contains(t, out, "finds and removes duplicate files")
}
