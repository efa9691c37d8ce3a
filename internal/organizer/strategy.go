package organizer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/Nomadcxx/tidysink/internal/ledger"
	"github.com/Nomadcxx/tidysink/internal/reporter"
	"github.com/Nomadcxx/tidysink/internal/scanner"
)

// FileEntry is a candidate file found directly under the target directory
type FileEntry struct {
	Path string
	Name string
	Info os.FileInfo
}

// Strategy decides where a file goes
type Strategy interface {
	// Name is the short strategy name ("type", "date", "size")
	Name() string
	// Target returns the destination subdirectory relative to dir and a
	// display label for the file
	Target(dir string, f FileEntry) (subdir string, label string, err error)
}

// ByType files into <dir>/<Category>/
type ByType struct {
	Classifier *Classifier
}

func (s ByType) Name() string { return "type" }

func (s ByType) Target(dir string, f FileEntry) (string, string, error) {
	category := s.Classifier.Classify(scanner.Suffix(f.Name))
	return category, category + "/", nil
}

// ByDate files into <dir>/<YYYY>/<MM>-<MonthName>/ from the modification time
type ByDate struct {
	Location *time.Location
}

func (s ByDate) Name() string { return "date" }

func (s ByDate) Target(dir string, f FileEntry) (string, string, error) {
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	mod := f.Info.ModTime().In(loc)

	year := fmt.Sprintf("%d", mod.Year())
	month := fmt.Sprintf("%02d-%s", int(mod.Month()), mod.Month().String())

	return filepath.Join(year, month), fmt.Sprintf("%s/%02d/", year, int(mod.Month())), nil
}

// BySize files into <dir>/<size label>/
type BySize struct {
	Table SizeTable
}

func (s BySize) Name() string { return "size" }

func (s BySize) Target(dir string, f FileEntry) (string, string, error) {
	table := s.Table
	if table == nil {
		table = DefaultSizeTable()
	}

	size := f.Info.Size()
	label, ok := table.Label(size)
	if !ok {
		return "", "", fmt.Errorf("no size range for %s (%d bytes)", f.Name, size)
	}
	return label, fmt.Sprintf("(%s) → %s/", reporter.FormatBytes(size), label), nil
}

// FileEvent is emitted for every file an organize pass handles
type FileEvent struct {
	Name        string
	Source      string
	Destination string
	Label       string
	DryRun      bool
}

// Tag is the console tag for the event
func (e FileEvent) Tag() string {
	if e.DryRun {
		return "WOULD MOVE"
	}
	return "MOVED"
}

// Options controls an organize pass
type Options struct {
	DryRun bool
	Ledger *ledger.Ledger
	OnFile func(FileEvent)
}

// Result summarizes an organize pass
type Result struct {
	Strategy  string
	Processed int
	Files     []FileEvent
	DryRun    bool
}

// Organize applies s to the regular files directly inside dir. A real pass
// clears the ledger first and persists it afterwards, even when a move fails
// partway. Dry runs count the files a real run would move.
func Organize(dir string, s Strategy, opts Options) (Result, error) {
	result := Result{Strategy: s.Name(), DryRun: opts.DryRun}

	if !opts.DryRun && opts.Ledger != nil {
		if err := opts.Ledger.Clear(); err != nil {
			return result, err
		}
	}

	files, err := listFiles(dir, opts.Ledger)
	if err != nil {
		return result, err
	}

	mover := NewMover(opts.Ledger)
	var runErr error

	for _, f := range files {
		subdir, label, err := s.Target(dir, f)
		if err != nil {
			runErr = err
			break
		}

		dst, err := mover.Move(f.Path, filepath.Join(dir, subdir, f.Name), opts.DryRun)
		if err != nil {
			runErr = err
			break
		}

		event := FileEvent{
			Name:        f.Name,
			Source:      f.Path,
			Destination: dst,
			Label:       label,
			DryRun:      opts.DryRun,
		}
		result.Files = append(result.Files, event)
		if opts.OnFile != nil {
			opts.OnFile(event)
		}
	}

	if opts.DryRun {
		result.Processed = len(result.Files)
	} else {
		result.Processed = mover.Processed()
		if opts.Ledger != nil {
			if err := opts.Ledger.Save(); err != nil && runErr == nil {
				runErr = fmt.Errorf("failed to save undo log: %w", err)
			}
		}
	}

	return result, runErr
}

// listFiles returns the regular files directly in dir sorted by name,
// leaving out the ledger's own backing file
func listFiles(dir string, l *ledger.Ledger) ([]FileEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	ledgerPath := ""
	if l != nil {
		ledgerPath = resolve(l.Path())
	}

	var files []FileEntry
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		if ledgerPath != "" && resolve(path) == ledgerPath {
			continue
		}

		files = append(files, FileEntry{Path: path, Name: entry.Name(), Info: info})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

func resolve(path string) string {
	if real, err := filepath.EvalSymlinks(path); err == nil {
		path = real
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path
}
