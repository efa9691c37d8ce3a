package cleaner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Nomadcxx/tidysink/internal/scanner"
)

// CleanResult represents the result of a duplicate deletion pass
type CleanResult struct {
	DuplicatesDeleted int
	SpaceFreed        int64
	Errors            []error
	Operations        []Operation
	DryRun            bool
}

// Operation represents a single filesystem operation
type Operation struct {
	Type      string // "delete"
	Source    string
	Size      int64
	Timestamp time.Time
	Completed bool
}

// Config holds cleaner configuration
type Config struct {
	DryRun         bool
	MaxSizeGB      int64 // Maximum total size to delete in one pass, 0 for no limit
	ProtectedPaths []string
	LogPath        string // Append-only deletion log, empty to disable

	// Hasher, when set, re-hashes the kept file and every candidate before
	// deletion. A group whose original is gone or changed is skipped, as is
	// any candidate whose content no longer matches the group hash.
	Hasher *scanner.Hasher
}

// DefaultProtectedPaths are system locations duplicates are never deleted from
func DefaultProtectedPaths() []string {
	return []string{
		// System directories
		"/usr", "/etc", "/bin", "/sbin", "/boot",
		"/sys", "/proc", "/dev", "/run",
		"/lib", "/lib32", "/lib64", "/libx32",
		"/var", "/opt", "/srv",
		"/root",
		// Windows system paths
		"C:\\Windows", "C:\\Program Files", "C:\\Program Files (x86)",
	}
}

// DefaultLogPath returns ~/.local/share/tidysink/operations.log
func DefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "tidysink", "operations.log")
}

// DefaultConfig returns safe default configuration
func DefaultConfig() Config {
	return Config{
		DryRun:         false,
		ProtectedPaths: DefaultProtectedPaths(),
		LogPath:        DefaultLogPath(),
	}
}

// DeleteDuplicates removes every member of each group except Files[0].
// Failures are collected per file and the pass continues. An error is
// returned only when the pass is refused up front.
func DeleteDuplicates(groups []scanner.DuplicateGroup, config Config) (CleanResult, error) {
	result := CleanResult{
		DryRun:     config.DryRun,
		Operations: []Operation{},
		Errors:     []error{},
	}

	if config.MaxSizeGB > 0 {
		total := scanner.GetSpaceToFree(groups)
		if total > config.MaxSizeGB*1024*1024*1024 {
			return result, fmt.Errorf("total size to delete (%d GB) exceeds limit (%d GB)",
				total/(1024*1024*1024), config.MaxSizeGB)
		}
	}

	for _, group := range groups {
		if len(group.Files) < 2 {
			continue
		}
		if config.Hasher != nil && !matches(config.Hasher, group.Original().Path, group.Hash) {
			result.Errors = append(result.Errors,
				fmt.Errorf("original %s is missing or changed since the scan, keeping its duplicates", group.Original().Path))
			continue
		}

		// Skip first file (keeper)
		for _, file := range group.Duplicates() {
			if isProtectedPath(file.Path, config.ProtectedPaths) {
				result.Errors = append(result.Errors,
					fmt.Errorf("refusing to delete protected path: %s", file.Path))
				continue
			}
			if config.Hasher != nil && !matches(config.Hasher, file.Path, group.Hash) {
				result.Errors = append(result.Errors,
					fmt.Errorf("%s is missing or changed since the scan, not deleting", file.Path))
				continue
			}

			op := Operation{
				Type:      "delete",
				Source:    file.Path,
				Size:      file.Size,
				Timestamp: time.Now(),
			}

			if !config.DryRun {
				if err := os.Remove(file.Path); err != nil {
					result.Errors = append(result.Errors,
						fmt.Errorf("failed to delete %s: %w", file.Path, err))
				} else {
					op.Completed = true
					result.DuplicatesDeleted++
					result.SpaceFreed += file.Size
				}
			} else {
				op.Completed = true
			}

			result.Operations = append(result.Operations, op)
		}
	}

	if !config.DryRun && config.LogPath != "" && result.DuplicatesDeleted > 0 {
		if err := writeOperationLog(result.Operations, config.LogPath); err != nil {
			result.Errors = append(result.Errors,
				fmt.Errorf("failed to write operation log: %w", err))
		}
	}

	return result, nil
}

// matches reports whether path can still be read and hashes to digest
func matches(h *scanner.Hasher, path, digest string) bool {
	sum, ok := h.Sum(path)
	return ok && digest != "" && sum == digest
}

// isProtectedPath checks if path is, or is inside, a protected location
func isProtectedPath(path string, protected []string) bool {
	for _, p := range protected {
		if path == p {
			return true
		}
		prefix := strings.TrimRight(p, `/\`)
		if strings.HasPrefix(path, prefix+"/") || strings.HasPrefix(path, prefix+`\`) {
			return true
		}
	}
	return false
}

// writeOperationLog appends completed deletions to the log file
func writeOperationLog(ops []Operation, logPath string) error {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, op := range ops {
		if !op.Completed {
			continue
		}

		line := fmt.Sprintf("%s|%s|%s|%d\n",
			op.Timestamp.Format(time.RFC3339),
			op.Type,
			op.Source,
			op.Size)

		if _, err := f.WriteString(line); err != nil {
			return err
		}
	}

	return nil
}
