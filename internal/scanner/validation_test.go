package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestValidateDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	existingPath := filepath.Join(tmpDir, "downloads")
	if err := os.MkdirAll(existingPath, 0755); err != nil {
		t.Fatal(err)
	}

	filePath := filepath.Join(tmpDir, "notes.txt")
	if err := os.WriteFile(filePath, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name            string
		path            string
		requireWritable bool
		wantErr         bool
		wantIs          error
	}{
		{
			name:    "readable directory",
			path:    existingPath,
			wantErr: false,
		},
		{
			name:            "writable directory",
			path:            existingPath,
			requireWritable: true,
			wantErr:         false,
		},
		{
			name:    "missing directory",
			path:    filepath.Join(tmpDir, "nonexistent"),
			wantErr: true,
		},
		{
			name:    "regular file",
			path:    filePath,
			wantErr: true,
			wantIs:  ErrNotDirectory,
		},
		{
			name:    "empty path",
			path:    "",
			wantErr: true,
		},
		{
			name:            "root refused for mutation",
			path:            "/",
			requireWritable: true,
			wantErr:         true,
			wantIs:          ErrProtectedPath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidateDirectory(tt.path, "organize", tt.requireWritable)

			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateDirectory(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("ValidateDirectory(%q) error = %v, want %v", tt.path, err, tt.wantIs)
			}
			if !tt.wantErr && !result.IsDir {
				t.Errorf("ValidateDirectory(%q).IsDir = false, want true", tt.path)
			}
		})
	}
}

func TestValidateDirectoryResolvesSymlink(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "real")
	link := filepath.Join(tmpDir, "link")

	if err := os.MkdirAll(target, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	result, err := ValidateDirectory(link, "analyze", false)
	if err != nil {
		t.Fatalf("ValidateDirectory() error = %v", err)
	}

	want, _ := filepath.EvalSymlinks(target)
	if result.Path != want {
		t.Errorf("Path = %s, want %s", result.Path, want)
	}
}

func TestCheckReadable(t *testing.T) {
	empty := t.TempDir()
	if !checkReadable(empty) {
		t.Error("checkReadable(empty dir) = false, want true")
	}

	full := t.TempDir()
	if err := os.WriteFile(filepath.Join(full, "a.txt"), []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}
	if !checkReadable(full) {
		t.Error("checkReadable(non-empty dir) = false, want true")
	}

	if checkReadable(filepath.Join(empty, "missing")) {
		t.Error("checkReadable(missing) = true, want false")
	}
}
