// Package organizer sorts the files of a directory into category folders and
// ties together the duplicate finder, analyzer, cleaner and undo ledger
// behind a single entry point.
package organizer

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/Nomadcxx/tidysink/internal/cleaner"
	"github.com/Nomadcxx/tidysink/internal/ledger"
	"github.com/Nomadcxx/tidysink/internal/reporter"
	"github.com/Nomadcxx/tidysink/internal/scanner"
)

// ErrNotDirectory is returned when an operation is given something other
// than a directory
var ErrNotDirectory = scanner.ErrNotDirectory

// Settings configures an Organizer
type Settings struct {
	LedgerPath     string
	Algorithm      string
	Location       *time.Location
	ProtectedPaths []string
	OperationsLog  string
	MaxSizeGB      int64
	Rules          []Category
	Console        *reporter.Console
}

// Stats are running totals kept on the organizer
type Stats struct {
	FilesMoved      int
	DuplicatesFound int
	SpaceSaved      int64
	Categories      map[string]int
}

// Organizer is the entry point the CLI drives. It owns one ledger and one
// classifier and prints its own progress.
type Organizer struct {
	ledger     *ledger.Ledger
	classifier *Classifier
	hasher     *scanner.Hasher
	sizes      SizeTable
	location   *time.Location
	cleanCfg   cleaner.Config
	console    *reporter.Console
	stats      Stats
}

// New creates an organizer. It fails on an unknown hash algorithm or an
// invalid size table.
func New(s Settings) (*Organizer, error) {
	hasher, err := scanner.NewHasher(s.Algorithm)
	if err != nil {
		return nil, err
	}

	ledgerPath := s.LedgerPath
	if ledgerPath == "" {
		ledgerPath, err = ledger.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	console := s.Console
	if console == nil {
		console = reporter.Discard()
	}

	location := s.Location
	if location == nil {
		location = time.Local
	}

	cleanCfg := cleaner.DefaultConfig()
	if s.ProtectedPaths != nil {
		cleanCfg.ProtectedPaths = s.ProtectedPaths
	}
	cleanCfg.LogPath = s.OperationsLog
	cleanCfg.MaxSizeGB = s.MaxSizeGB
	cleanCfg.Hasher = hasher

	sizes := DefaultSizeTable()
	if err := sizes.Validate(); err != nil {
		return nil, err
	}

	o := &Organizer{
		ledger:     ledger.New(ledgerPath),
		classifier: NewClassifier(nil),
		hasher:     hasher,
		sizes:      sizes,
		location:   location,
		cleanCfg:   cleanCfg,
		console:    console,
		stats:      Stats{Categories: map[string]int{}},
	}

	for _, rule := range s.Rules {
		o.AddCustomRule(rule.Name, rule.Extensions)
	}

	return o, nil
}

// Ledger exposes the undo ledger
func (o *Organizer) Ledger() *ledger.Ledger {
	return o.ledger
}

// Hasher exposes the configured content hasher
func (o *Organizer) Hasher() *scanner.Hasher {
	return o.hasher
}

// Strategy returns the strategy registered under name
func (o *Organizer) Strategy(name string) (Strategy, error) {
	switch name {
	case "type":
		return ByType{Classifier: o.classifier}, nil
	case "date":
		return ByDate{Location: o.location}, nil
	case "size":
		return BySize{Table: o.sizes}, nil
	}
	return nil, fmt.Errorf("unknown strategy %q (use type, date or size)", name)
}

// StrategyNames lists the available organize strategies
func StrategyNames() []string {
	return []string{"type", "date", "size"}
}

// OrganizeByType moves files into <dir>/<Category>/
func (o *Organizer) OrganizeByType(dir string, dryRun bool) (int, error) {
	return o.OrganizeWith(dir, "type", dryRun)
}

// OrganizeByDate moves files into <dir>/<YYYY>/<MM>-<Month>/
func (o *Organizer) OrganizeByDate(dir string, dryRun bool) (int, error) {
	return o.OrganizeWith(dir, "date", dryRun)
}

// OrganizeBySize moves files into <dir>/<size label>/
func (o *Organizer) OrganizeBySize(dir string, dryRun bool) (int, error) {
	return o.OrganizeWith(dir, "size", dryRun)
}

// OrganizeWith runs the named strategy and returns the processed count
func (o *Organizer) OrganizeWith(dir, strategy string, dryRun bool) (int, error) {
	result, err := o.Organize(dir, strategy, dryRun)
	return result.Processed, err
}

// Organize runs the named strategy over dir and reports every file
func (o *Organizer) Organize(dir, strategy string, dryRun bool) (Result, error) {
	s, err := o.Strategy(strategy)
	if err != nil {
		return Result{}, err
	}

	if _, err := scanner.ValidateDirectory(dir, "organize", !dryRun); err != nil {
		return Result{}, err
	}

	prefix := ""
	if dryRun {
		prefix = "[DRY RUN] "
	}
	o.console.Header(fmt.Sprintf("%sOrganizing files by %s in: %s", prefix, s.Name(), dir))

	result, err := Organize(dir, s, Options{
		DryRun: dryRun,
		Ledger: o.ledger,
		OnFile: func(e FileEvent) {
			o.console.Item(e.Tag(), fmt.Sprintf("%s → %s", e.Name, e.Label))
			if !dryRun && filepath.Base(e.Destination) != e.Name {
				o.console.Debug("renamed to %s to avoid a collision", filepath.Base(e.Destination))
			}
		},
	})

	if !dryRun {
		o.stats.FilesMoved += result.Processed
		if s.Name() == "type" {
			for _, f := range result.Files {
				o.stats.Categories[filepath.Base(filepath.Dir(f.Destination))]++
			}
		}
	}

	if err != nil {
		o.console.Error("%v", err)
		o.console.Summary("Processed %d files before stopping", result.Processed)
		return result, err
	}

	o.console.Summary("Processed %d files", result.Processed)
	return result, nil
}

// FindDuplicates scans dir recursively and returns each duplicate group as
// paths, original first. With delete set, every non-original is removed.
func (o *Organizer) FindDuplicates(dir string, delete bool) ([][]string, error) {
	groups, _, err := o.FindDuplicateGroups(dir, delete, nil)
	if err != nil {
		return nil, err
	}

	out := make([][]string, len(groups))
	for i, g := range groups {
		out[i] = g.Paths()
	}
	return out, nil
}

// FindDuplicateGroups is FindDuplicates with full group detail, the deletion
// result and an optional progress callback
func (o *Organizer) FindDuplicateGroups(dir string, delete bool, progress scanner.ProgressFunc) ([]scanner.DuplicateGroup, cleaner.CleanResult, error) {
	var cleanResult cleaner.CleanResult

	if _, err := scanner.ValidateDirectory(dir, "find duplicates", delete); err != nil {
		return nil, cleanResult, err
	}

	prefix := ""
	if delete {
		prefix = "[DELETE MODE] "
	}
	o.console.Header(fmt.Sprintf("%sFinding duplicates in: %s", prefix, dir))
	o.console.Info("Scanning files (%s)...", o.hasher.Algorithm())

	groups, err := scanner.FindDuplicates(dir, o.hasher, progress)
	if err != nil {
		return nil, cleanResult, err
	}

	for _, group := range groups {
		o.console.Info("\nFound %d duplicates (%s each):", len(group.Files), reporter.FormatBytes(group.Original().Size))
		for i, file := range group.Files {
			tag := "DUPLICATE"
			if i == 0 {
				tag = "ORIGINAL"
			}
			o.console.Item(tag, reporter.RelPath(dir, file.Path))
		}
	}

	o.console.Separator()
	o.console.Info("Total duplicate sets: %d", len(groups))
	o.console.Info("Potential space savings: %s", reporter.FormatBytes(scanner.GetSpaceToFree(groups)))

	o.stats.DuplicatesFound = 0
	o.stats.SpaceSaved = 0

	if !delete {
		return groups, cleanResult, nil
	}

	cleanResult, err = o.DeleteDuplicateGroups(dir, groups)
	return groups, cleanResult, err
}

// DeleteDuplicateGroups removes every non-original file of groups found
// earlier under dir. Groups may come from a saved report, so each file is
// re-hashed first and anything no longer matching its group is kept.
func (o *Organizer) DeleteDuplicateGroups(dir string, groups []scanner.DuplicateGroup) (cleaner.CleanResult, error) {
	cfg := o.cleanCfg
	cfg.DryRun = false
	cleanResult, err := cleaner.DeleteDuplicates(groups, cfg)
	if err != nil {
		return cleanResult, err
	}

	for _, op := range cleanResult.Operations {
		if op.Completed {
			o.console.Item("DELETED", reporter.RelPath(dir, op.Source))
		}
	}
	for _, e := range cleanResult.Errors {
		o.console.Error("%v", e)
	}

	o.stats.DuplicatesFound = cleanResult.DuplicatesDeleted
	o.stats.SpaceSaved = cleanResult.SpaceFreed

	o.console.Summary("Deleted %d duplicate files", cleanResult.DuplicatesDeleted)
	o.console.Summary("Freed up %s", reporter.FormatBytes(cleanResult.SpaceFreed))

	return cleanResult, nil
}

// Analyze prints and returns the per-category breakdown of dir
func (o *Organizer) Analyze(dir string) (*scanner.Analysis, error) {
	if _, err := scanner.ValidateDirectory(dir, "analyze", false); err != nil {
		return nil, err
	}

	o.console.Header(fmt.Sprintf("Analyzing: %s", dir))

	analysis, err := scanner.Analyze(dir, o.classifier.Classify)
	if err != nil {
		return nil, err
	}

	if o.console.Level() != reporter.LogLevelQuiet {
		reporter.WriteAnalysisTable(o.console.Writer(), analysis)
	}
	if analysis.Skipped > 0 {
		o.console.Warn("Skipped %d unreadable entries", analysis.Skipped)
	}

	return analysis, nil
}

// CleanEmptyFolders removes empty directories below dir and returns how
// many were (or in dry run would be) removed
func (o *Organizer) CleanEmptyFolders(dir string, dryRun bool) (int, error) {
	if _, err := scanner.ValidateDirectory(dir, "clean", !dryRun); err != nil {
		return 0, err
	}

	prefix := ""
	if dryRun {
		prefix = "[DRY RUN] "
	}
	o.console.Header(fmt.Sprintf("%sCleaning empty folders in: %s", prefix, dir))

	result, err := cleaner.CleanEmptyDirs(dir, dryRun)
	if err != nil {
		return 0, err
	}

	tag := "DELETED"
	verb := "Removed"
	if dryRun {
		tag = "WOULD DELETE"
		verb = "Would remove"
	}
	for _, rel := range result.Removed {
		o.console.Item(tag, rel+"/")
	}
	for _, e := range result.Errors {
		o.console.Error("%v", e)
	}

	o.console.Summary("%s %d empty folders", verb, len(result.Removed))
	return len(result.Removed), nil
}

// PendingUndo loads the ledger and reports how many moves can be undone and
// when the last one happened. last is zero if its timestamp does not parse.
func (o *Organizer) PendingUndo() (count int, last time.Time) {
	if !o.ledger.Load() {
		return 0, time.Time{}
	}
	if rec, ok := o.ledger.Last(); ok {
		last, _ = rec.Time()
	}
	return o.ledger.Len(), last
}

// Undo reverses the last organize session
func (o *Organizer) Undo() (undone, errors int, err error) {
	result, err := o.ledger.UndoAll()
	if err != nil {
		return result.Undone, result.Errors, err
	}

	if len(result.Outcomes) == 0 {
		o.console.Info("No operations to undo")
		return 0, 0, nil
	}

	o.console.Separator()
	for _, outcome := range result.Outcomes {
		if outcome.Err != nil {
			o.console.Warn("%v", outcome.Err)
			continue
		}
		o.console.Item("RESTORED", fmt.Sprintf("%s → %s/",
			filepath.Base(outcome.Record.Destination), filepath.Dir(outcome.Record.Source)))
	}
	o.console.Separator()

	o.console.Summary("Undone: %d operations", result.Undone)
	if result.Errors > 0 {
		o.console.Warn("Errors: %d", result.Errors)
	}

	return result.Undone, result.Errors, nil
}

// Category classifies an extension with the current rules
func (o *Organizer) Category(ext string) string {
	return o.classifier.Classify(ext)
}

// AddCustomRule adds or replaces a session-only category rule
func (o *Organizer) AddCustomRule(category string, extensions []string) {
	o.classifier.AddRule(category, extensions)
}

// RemoveCustomRule deletes a custom rule, reporting whether it existed
func (o *Organizer) RemoveCustomRule(category string) bool {
	return o.classifier.RemoveRule(category)
}

// CustomRules returns the custom rules as a name to extensions map
func (o *Organizer) CustomRules() map[string][]string {
	out := make(map[string][]string)
	for _, rule := range o.classifier.CustomRules() {
		out[rule.Name] = rule.Extensions
	}
	return out
}

// Classifier exposes the rule set, for ordered listing
func (o *Organizer) Classifier() *Classifier {
	return o.classifier
}

// Stats returns a copy of the running totals
func (o *Organizer) Stats() Stats {
	categories := make(map[string]int, len(o.stats.Categories))
	for k, v := range o.stats.Categories {
		categories[k] = v
	}
	s := o.stats
	s.Categories = categories
	return s
}
