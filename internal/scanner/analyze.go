package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// ClassifyFunc maps a file extension (with leading dot) to a category name
type ClassifyFunc func(ext string) string

// CategoryStats aggregates the files of one category
type CategoryStats struct {
	Name    string  `json:"name" yaml:"name"`
	Count   int     `json:"count" yaml:"count"`
	Size    int64   `json:"size" yaml:"size"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// Analysis is the per-category breakdown of a directory tree
type Analysis struct {
	Directory  string          `json:"directory" yaml:"directory"`
	Categories []CategoryStats `json:"categories" yaml:"categories"` // size descending
	TotalFiles int             `json:"total_files" yaml:"total_files"`
	TotalSize  int64           `json:"total_size" yaml:"total_size"`
	Skipped    int             `json:"skipped" yaml:"skipped"`
}

// Category returns the stats for name, if present
func (a *Analysis) Category(name string) (CategoryStats, bool) {
	for _, c := range a.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return CategoryStats{}, false
}

// Suffix is the final extension of a file name. A leading dot belongs to the
// stem, so ".bashrc" has no extension.
func Suffix(name string) string {
	ext := filepath.Ext(name)
	if ext == name {
		return ""
	}
	return ext
}

// Analyze walks every regular file under root and aggregates count and size
// per category. Categories are sorted by size descending; ties keep the order
// in which the category was first seen.
func Analyze(root string, classify ClassifyFunc) (*Analysis, error) {
	if classify == nil {
		return nil, fmt.Errorf("analyze: nil classify function")
	}
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("directory not accessible: %s: %w", root, err)
	}

	analysis := &Analysis{Directory: root}
	index := make(map[string]int)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			analysis.Skipped++
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			analysis.Skipped++
			return nil
		}

		name := classify(Suffix(d.Name()))
		i, ok := index[name]
		if !ok {
			i = len(analysis.Categories)
			index[name] = i
			analysis.Categories = append(analysis.Categories, CategoryStats{Name: name})
		}

		analysis.Categories[i].Count++
		analysis.Categories[i].Size += info.Size()
		analysis.TotalFiles++
		analysis.TotalSize += info.Size()

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error analyzing %s: %w", root, err)
	}

	for i := range analysis.Categories {
		if analysis.TotalSize > 0 {
			analysis.Categories[i].Percent = float64(analysis.Categories[i].Size) / float64(analysis.TotalSize) * 100
		}
	}

	sort.SliceStable(analysis.Categories, func(i, j int) bool {
		return analysis.Categories[i].Size > analysis.Categories[j].Size
	})

	return analysis, nil
}
