// Package ledger records file moves so the most recent session can be undone.
package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// TimestampLayout is the ISO-8601 layout used for record timestamps
const TimestampLayout = "2006-01-02T15:04:05.000000"

// OpMove is the only operation kind currently recorded
const OpMove = "move"

// Record is a single logged operation
type Record struct {
	Type        string `json:"type"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Timestamp   string `json:"timestamp"`
}

// Time parses the record timestamp in local time
func (r Record) Time() (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, r.Timestamp, time.Local)
}

// Outcome is the result of replaying one record
type Outcome struct {
	Record Record
	Err    error
}

// UndoResult accumulates per-record outcomes of an undo pass
type UndoResult struct {
	Undone   int
	Errors   int
	Outcomes []Outcome
}

// Ledger is the ordered list of moves from the latest session, persisted as
// a JSON array at a fixed path. The file is opened and closed on each call.
type Ledger struct {
	path    string
	records []Record
	now     func() time.Time
}

// DefaultPath returns ~/.local/share/tidysink/undo.json
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "tidysink", "undo.json"), nil
}

// New creates a ledger backed by the file at path
func New(path string) *Ledger {
	return &Ledger{
		path:    path,
		records: []Record{},
		now:     time.Now,
	}
}

// Path returns the backing file location
func (l *Ledger) Path() string {
	return l.path
}

// Len returns the number of in-memory records
func (l *Ledger) Len() int {
	return len(l.records)
}

// Records returns a copy of the in-memory records in append order
func (l *Ledger) Records() []Record {
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Append logs an operation with the current local time
func (l *Ledger) Append(opType, source, destination string) Record {
	rec := Record{
		Type:        opType,
		Source:      source,
		Destination: destination,
		Timestamp:   l.now().Format(TimestampLayout),
	}
	l.records = append(l.records, rec)
	return rec
}

// Last returns the newest record, if any
func (l *Ledger) Last() (Record, bool) {
	if len(l.records) == 0 {
		return Record{}, false
	}
	return l.records[len(l.records)-1], true
}

// Save writes all records as pretty-printed JSON
func (l *Ledger) Save() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create ledger directory: %w", err)
	}

	data, err := json.MarshalIndent(l.records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal undo log: %w", err)
	}

	if err := os.WriteFile(l.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write undo log: %w", err)
	}

	return nil
}

// Load replaces the in-memory records with the file contents. A missing or
// unparsable file leaves the ledger empty and returns false.
func (l *Ledger) Load() bool {
	data, err := os.ReadFile(l.path)
	if err != nil {
		l.records = []Record{}
		return false
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		l.records = []Record{}
		return false
	}

	if records == nil {
		records = []Record{}
	}
	l.records = records
	return true
}

// Clear empties the ledger and persists the empty state
func (l *Ledger) Clear() error {
	l.records = []Record{}
	return l.Save()
}

// UndoAll reloads the ledger and replays it newest-first, renaming each
// destination back to its source. Per-record failures are counted and the
// pass continues. The ledger is cleared afterwards.
func (l *Ledger) UndoAll() (UndoResult, error) {
	result := UndoResult{Outcomes: []Outcome{}}

	if !l.Load() || len(l.records) == 0 {
		return result, nil
	}

	for i := len(l.records) - 1; i >= 0; i-- {
		rec := l.records[i]
		err := revert(rec)

		if err != nil {
			result.Errors++
		} else {
			result.Undone++
		}
		result.Outcomes = append(result.Outcomes, Outcome{Record: rec, Err: err})
	}

	if err := l.Clear(); err != nil {
		return result, fmt.Errorf("failed to clear undo log: %w", err)
	}

	return result, nil
}

func revert(rec Record) error {
	switch rec.Type {
	case OpMove, "rename":
	default:
		return fmt.Errorf("cannot undo %q operation on %s", rec.Type, rec.Source)
	}

	if _, err := os.Lstat(rec.Destination); err != nil {
		return fmt.Errorf("file not found: %s", filepath.Base(rec.Destination))
	}

	if err := os.Rename(rec.Destination, rec.Source); err != nil {
		return fmt.Errorf("failed to restore %s: %w", filepath.Base(rec.Destination), err)
	}

	return nil
}
