// Package daemon keeps a directory organized by re-running an organize
// strategy whenever new files land in it.
package daemon

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when none is configured
const DefaultDebounce = 500 * time.Millisecond

// Runner performs one organize pass and returns the number of files moved
type Runner func() (int, error)

// Config holds watch settings
type Config struct {
	Dir      string
	Strategy string
	Debounce time.Duration

	// Ignore lists files written by the passes themselves, such as the undo
	// ledger. Events on them never trigger a pass.
	Ignore []string
}

// Daemon watches one directory and organizes it after bursts of activity
type Daemon struct {
	config  Config
	run     Runner
	Logger  *log.Logger
	watcher *fsnotify.Watcher

	ignored map[string]bool

	mu       sync.Mutex
	timer    *time.Timer
	runs     int
	moved    int
	triggers chan struct{}
}

// New creates a daemon for cfg.Dir that calls run after each debounced burst
func New(cfg Config, run Runner) (*Daemon, error) {
	absDir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("could not resolve %s: %w", cfg.Dir, err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return nil, fmt.Errorf("could not watch %s: %w", absDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("could not watch %s: not a directory", absDir)
	}
	cfg.Dir = absDir

	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create file watcher: %w", err)
	}

	ignored := make(map[string]bool, len(cfg.Ignore))
	for _, path := range cfg.Ignore {
		if path != "" {
			ignored[resolvePath(path)] = true
		}
	}

	return &Daemon{
		config:   cfg,
		ignored:  ignored,
		run:      run,
		Logger:   log.New(os.Stderr, "[watch] ", log.LstdFlags),
		watcher:  fsw,
		triggers: make(chan struct{}, 1),
	}, nil
}

// Start organizes the directory once, then watches it until ctx is
// cancelled. Passes never overlap.
func (d *Daemon) Start(ctx context.Context) error {
	if err := d.watcher.Add(d.config.Dir); err != nil {
		d.watcher.Close()
		return fmt.Errorf("could not watch %s: %w", d.config.Dir, err)
	}

	d.Logger.Printf("Watching %s (strategy: %s, debounce: %s)", d.config.Dir, d.config.Strategy, d.config.Debounce)
	d.runOnce("startup")

	for {
		select {
		case <-ctx.Done():
			d.Logger.Println("Stopping watcher")
			d.mu.Lock()
			if d.timer != nil {
				d.timer.Stop()
			}
			d.mu.Unlock()
			return d.watcher.Close()

		case event, ok := <-d.watcher.Events:
			if !ok {
				return nil
			}
			d.handleEvent(event)

		case err, ok := <-d.watcher.Errors:
			if !ok {
				return nil
			}
			d.Logger.Printf("Error: %v", err)

		case <-d.triggers:
			d.runOnce("change")
		}
	}
}

func (d *Daemon) handleEvent(event fsnotify.Event) {
	// Only process create and write events
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	// Directly inside the watched directory only
	if filepath.Dir(event.Name) != d.config.Dir {
		return
	}

	if ignoredName(filepath.Base(event.Name)) || d.ignored[resolvePath(event.Name)] {
		return
	}

	// Category folders created by a pass must not trigger another one
	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return
	}

	d.Logger.Printf("Detected %s: %s", strings.ToLower(event.Op.String()), filepath.Base(event.Name))

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.config.Debounce, func() {
		select {
		case d.triggers <- struct{}{}:
		default:
		}
	})
}

// ignoredName reports hidden files and partial downloads
func ignoredName(name string) bool {
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
		return true
	}
	for _, suffix := range []string{".part", ".crdownload", ".tmp", ".download"} {
		if strings.HasSuffix(strings.ToLower(name), suffix) {
			return true
		}
	}
	return false
}

// resolvePath returns the absolute path with symlinks evaluated. Paths that
// do not exist yet are resolved through their parent directory.
func resolvePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	if dir, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
		return filepath.Join(dir, filepath.Base(abs))
	}
	return abs
}

func (d *Daemon) runOnce(reason string) {
	start := time.Now()
	moved, err := d.run()

	d.mu.Lock()
	d.runs++
	d.moved += moved
	d.mu.Unlock()

	if err != nil {
		d.Logger.Printf("Organize pass (%s) failed after %d files: %v", reason, moved, err)
		return
	}
	d.Logger.Printf("Organize pass (%s) moved %d files in %s", reason, moved, time.Since(start).Round(time.Millisecond))
}

// Runs returns the number of organize passes performed
func (d *Daemon) Runs() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.runs
}

// Moved returns the total number of files moved across passes
func (d *Daemon) Moved() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.moved
}

// Dir returns the absolute watched directory
func (d *Daemon) Dir() string {
	return d.config.Dir
}

// DefaultLogPath returns ~/.local/share/tidysink/watch.log
func DefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "tidysink", "watch.log")
	}
	return filepath.Join(home, ".local", "share", "tidysink", "watch.log")
}

// OpenLog opens path for appending and returns a logger writing to it and
// to extra, if given
func OpenLog(path string, extra io.Writer) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = f
	if extra != nil {
		w = io.MultiWriter(f, extra)
	}

	return log.New(w, "", log.LstdFlags), f, nil
}
