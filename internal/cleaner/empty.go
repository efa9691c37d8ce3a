package cleaner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// EmptyDirResult is the outcome of an empty-folder pass
type EmptyDirResult struct {
	Removed []string // relative to the cleaned root, deepest first
	Errors  []error
	DryRun  bool
}

// CleanEmptyDirs removes every directory below root that is empty or holds
// only directories removed earlier in the same pass. Directories are visited
// deepest first so a nested chain of empty folders collapses in one call.
// In dry run removals are simulated, so the count matches a real run.
// The root itself is never removed.
func CleanEmptyDirs(root string, dryRun bool) (EmptyDirResult, error) {
	result := EmptyDirResult{DryRun: dryRun, Removed: []string{}, Errors: []error{}}

	info, err := os.Stat(root)
	if err != nil {
		return result, fmt.Errorf("directory not accessible: %s: %w", root, err)
	}
	if !info.IsDir() {
		return result, fmt.Errorf("not a directory: %s", root)
	}

	var dirs []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			result.Errors = append(result.Errors, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("error scanning %s: %w", root, err)
	}

	// WalkDir is pre-order; reversing gives children before parents
	gone := make(map[string]bool)
	for i := len(dirs) - 1; i >= 0; i-- {
		dir := dirs[i]

		entries, err := os.ReadDir(dir)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("failed to read %s: %w", dir, err))
			continue
		}

		empty := true
		for _, entry := range entries {
			if !gone[filepath.Join(dir, entry.Name())] {
				empty = false
				break
			}
		}
		if !empty {
			continue
		}

		if !dryRun {
			if err := os.Remove(dir); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("failed to remove %s: %w", dir, err))
				continue
			}
		}

		gone[dir] = true
		rel, err := filepath.Rel(root, dir)
		if err != nil {
			rel = dir
		}
		result.Removed = append(result.Removed, rel)
	}

	return result, nil
}
