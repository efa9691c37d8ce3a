package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// ScanProgress represents scan progress for a single file
type ScanProgress struct {
	Operation  string  // "hashing", "analyzing"
	Current    int     // Current file number
	Total      int     // Total files (0 when unknown)
	Percentage float64 // 0-100
	Path       string  // File just processed

	StartTime      time.Time
	ElapsedSeconds int
}

// ProgressFunc receives progress updates. It may be nil.
type ProgressFunc func(ScanProgress)

// ProgressReporter builds ScanProgress values for an operation
type ProgressReporter struct {
	fn        ProgressFunc
	operation string
	startTime time.Time
	total     int
}

// NewProgressReporter creates a reporter that forwards to fn
func NewProgressReporter(fn ProgressFunc, operation string) *ProgressReporter {
	return &ProgressReporter{
		fn:        fn,
		operation: operation,
		startTime: time.Now(),
	}
}

// Start records the total item count
func (pr *ProgressReporter) Start(total int) {
	pr.total = total
}

// Update sends a progress update for the current item
func (pr *ProgressReporter) Update(current int, path string) {
	if pr == nil || pr.fn == nil {
		return
	}

	percentage := 0.0
	if pr.total > 0 {
		percentage = (float64(current) / float64(pr.total)) * 100.0
	}

	pr.fn(ScanProgress{
		Operation:      pr.operation,
		Current:        current,
		Total:          pr.total,
		Percentage:     percentage,
		Path:           path,
		StartTime:      pr.startTime,
		ElapsedSeconds: int(time.Since(pr.startTime).Seconds()),
	})
}

// CountFiles counts regular files under root (for accurate progress)
func CountFiles(root string) (int, error) {
	if _, err := os.Stat(root); err != nil {
		return 0, fmt.Errorf("directory not accessible: %s: %w", root, err)
	}

	count := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("error counting files in %s: %w", root, err)
	}

	return count, nil
}
