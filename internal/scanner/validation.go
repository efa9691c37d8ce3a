package scanner

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrNotDirectory is returned when an operation target is not a directory
var ErrNotDirectory = errors.New("not a directory")

// ErrProtectedPath is returned when a mutating operation targets a system root
var ErrProtectedPath = errors.New("protected path")

var protectedRoots = []string{"/", "/bin", "/boot", "/dev", "/etc", "/home", "/lib", "/mnt", "/opt", "/proc", "/root", "/sbin", "/sys", "/tmp", "/usr", "/var"}

// PathValidationResult describes what was learned about a target directory
type PathValidationResult struct {
	Path     string // symlink-resolved path
	IsDir    bool
	Readable bool
	Writable bool
}

// ValidateDirectory resolves path and checks that it is a readable directory.
// When requireWritable is set (organize, clean, delete) it must also be
// writable and must not be one of the top-level system directories.
func ValidateDirectory(path, operation string, requireWritable bool) (PathValidationResult, error) {
	result := PathValidationResult{Path: path}

	if path == "" {
		return result, fmt.Errorf("%s: path is empty", operation)
	}

	realPath, err := filepath.EvalSymlinks(filepath.Clean(path))
	if err != nil {
		return result, fmt.Errorf("%s: failed to resolve %s: %w", operation, path, err)
	}
	if abs, err := filepath.Abs(realPath); err == nil {
		realPath = abs
	}
	result.Path = realPath

	info, err := os.Stat(realPath)
	if err != nil {
		return result, fmt.Errorf("%s: %w", operation, err)
	}
	if !info.IsDir() {
		return result, fmt.Errorf("%s: %s: %w", operation, path, ErrNotDirectory)
	}
	result.IsDir = true

	result.Readable = checkReadable(realPath)
	if !result.Readable {
		return result, fmt.Errorf("%s: path is not readable: %s", operation, realPath)
	}

	if !requireWritable {
		return result, nil
	}

	for _, protected := range protectedRoots {
		if realPath == protected {
			return result, fmt.Errorf("refusing to %s on %s: %w", operation, realPath, ErrProtectedPath)
		}
	}

	result.Writable = checkWritable(realPath)
	if !result.Writable {
		return result, fmt.Errorf("%s: path is not writable: %s", operation, realPath)
	}

	return result, nil
}

func checkReadable(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	_, err = file.Readdirnames(1)
	return err == nil || errors.Is(err, io.EOF)
}

func checkWritable(path string) bool {
	testFile, err := os.CreateTemp(path, ".tidysink_write_test")
	if err != nil {
		return false
	}
	name := testFile.Name()
	testFile.Close()
	os.Remove(name)
	return true
}
