package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// DuplicateGroup is a set of files with identical content
type DuplicateGroup struct {
	Hash  string          `json:"hash" yaml:"hash"`
	Size  int64           `json:"size" yaml:"size"`
	Files []DuplicateFile `json:"files" yaml:"files"` // Files[0] is kept, the rest are duplicates
}

// DuplicateFile is one member of a duplicate group
type DuplicateFile struct {
	Path string `json:"path" yaml:"path"`
	Size int64  `json:"size" yaml:"size"`
}

// Original returns the member that is kept
func (g DuplicateGroup) Original() DuplicateFile {
	return g.Files[0]
}

// Duplicates returns the members that are candidates for deletion
func (g DuplicateGroup) Duplicates() []DuplicateFile {
	return g.Files[1:]
}

// Paths returns member paths in keep-first order
func (g DuplicateGroup) Paths() []string {
	paths := make([]string, len(g.Files))
	for i, f := range g.Files {
		paths[i] = f.Path
	}
	return paths
}

// WastedSpace is the bytes that deleting the duplicates would free
func (g DuplicateGroup) WastedSpace() int64 {
	var total int64
	for _, f := range g.Duplicates() {
		total += f.Size
	}
	return total
}

// FindDuplicates walks the whole tree under root, hashes every regular file
// and returns groups of 2+ files sharing a digest. Symlinks are not followed
// or hashed. Unreadable files are left out of every group.
//
// Groups come back in the order their hash was first seen; WalkDir visits
// entries in lexical order so this is stable across platforms. Within a
// group, files are sorted by path descending and the first one is kept.
func FindDuplicates(root string, h *Hasher, progress ProgressFunc) ([]DuplicateGroup, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("directory not accessible: %s: %w", root, err)
	}

	var pr *ProgressReporter
	if progress != nil {
		pr = NewProgressReporter(progress, "hashing")
		total, err := CountFiles(root)
		if err == nil {
			pr.Start(total)
		}
	}

	groups := make(map[string]*DuplicateGroup)
	var order []string
	processed := 0

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subdirectory: skip it, keep scanning the rest
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			if path == root {
				return err
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		processed++
		pr.Update(processed, path)

		info, err := d.Info()
		if err != nil {
			return nil
		}

		digest, ok := h.Sum(path)
		if !ok {
			return nil
		}

		group, exists := groups[digest]
		if !exists {
			group = &DuplicateGroup{Hash: digest, Size: info.Size()}
			groups[digest] = group
			order = append(order, digest)
		}
		group.Files = append(group.Files, DuplicateFile{Path: path, Size: info.Size()})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning %s: %w", root, err)
	}

	var duplicates []DuplicateGroup
	for _, digest := range order {
		group := groups[digest]
		if len(group.Files) < 2 {
			continue
		}

		sort.SliceStable(group.Files, func(i, j int) bool {
			return group.Files[i].Path > group.Files[j].Path
		})
		duplicates = append(duplicates, *group)
	}

	return duplicates, nil
}

// GetDeleteList returns paths of files marked for deletion
func GetDeleteList(groups []DuplicateGroup) []string {
	var deleteList []string
	for _, group := range groups {
		for _, f := range group.Duplicates() {
			deleteList = append(deleteList, f.Path)
		}
	}
	return deleteList
}

// GetSpaceToFree calculates total bytes that deleting every duplicate frees
func GetSpaceToFree(groups []DuplicateGroup) int64 {
	var total int64
	for _, group := range groups {
		total += group.WastedSpace()
	}
	return total
}
