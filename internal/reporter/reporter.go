package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"

	"github.com/Nomadcxx/tidysink/internal/scanner"
)

// Report kinds
const (
	KindDuplicates = "duplicates"
	KindAnalysis   = "analysis"
)

// Report is a saved result of a duplicate scan or a directory analysis
type Report struct {
	ID        string    `json:"id" yaml:"id"`
	Kind      string    `json:"kind" yaml:"kind"`
	Directory string    `json:"directory" yaml:"directory"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	Algorithm          string                   `json:"algorithm,omitempty" yaml:"algorithm,omitempty"`
	Duplicates         []scanner.DuplicateGroup `json:"duplicates,omitempty" yaml:"duplicates,omitempty"`
	TotalDuplicates    int                      `json:"total_duplicates" yaml:"total_duplicates"`
	TotalFilesToDelete int                      `json:"total_files_to_delete" yaml:"total_files_to_delete"`
	SpaceToFree        int64                    `json:"space_to_free" yaml:"space_to_free"`
	DuplicatesDeleted  int                      `json:"duplicates_deleted,omitempty" yaml:"duplicates_deleted,omitempty"`
	SpaceFreed         int64                    `json:"space_freed,omitempty" yaml:"space_freed,omitempty"`

	Analysis *scanner.Analysis `json:"analysis,omitempty" yaml:"analysis,omitempty"`
}

// NewDuplicateReport builds a report from duplicate groups
func NewDuplicateReport(dir, algorithm string, groups []scanner.DuplicateGroup) Report {
	return Report{
		ID:                 ulid.Make().String(),
		Kind:               KindDuplicates,
		Directory:          dir,
		Timestamp:          time.Now(),
		Algorithm:          algorithm,
		Duplicates:         groups,
		TotalDuplicates:    len(groups),
		TotalFilesToDelete: len(scanner.GetDeleteList(groups)),
		SpaceToFree:        scanner.GetSpaceToFree(groups),
	}
}

// NewAnalysisReport builds a report from a directory analysis
func NewAnalysisReport(dir string, analysis *scanner.Analysis) Report {
	return Report{
		ID:        ulid.Make().String(),
		Kind:      KindAnalysis,
		Directory: dir,
		Timestamp: time.Now(),
		Analysis:  analysis,
	}
}

// GetReportDir returns the default report directory
func GetReportDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "tidysink", "reports")
	}
	return filepath.Join(home, ".local", "share", "tidysink", "reports")
}

// Generate saves the report as JSON in dir (GetReportDir when empty) under
// a timestamped name and returns the path
func Generate(report Report, dir string) (string, error) {
	if dir == "" {
		dir = GetReportDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	timestamp := report.Timestamp.Format("20060102_150405")
	filename := filepath.Join(dir, fmt.Sprintf("%s_%s.json", timestamp, report.Kind))

	if err := Save(report, filename); err != nil {
		return "", err
	}
	return filename, nil
}

// LatestReport returns the newest saved report in dir (GetReportDir when
// empty)
func LatestReport(dir string) (string, error) {
	if dir == "" {
		dir = GetReportDir()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("no reports found: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() && formatFor(entry.Name()) != "" {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no reports found in %s", dir)
	}

	// Timestamped names sort chronologically
	sort.Strings(names)
	return filepath.Join(dir, names[len(names)-1]), nil
}

func formatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	case ".txt":
		return "text"
	}
	return ""
}

// Save writes the report to path. The format follows the extension:
// .json, .yaml/.yml or .txt.
func Save(report Report, path string) error {
	var data []byte
	var err error

	switch formatFor(path) {
	case "json":
		data, err = json.MarshalIndent(report, "", "  ")
	case "yaml":
		data, err = yaml.Marshal(report)
	case "text":
		data = []byte(BuildReportContent(report))
	default:
		return fmt.Errorf("unsupported report format: %s (use .json, .yaml or .txt)", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// Load reads a JSON or YAML report
func Load(path string) (Report, error) {
	var report Report

	data, err := os.ReadFile(path)
	if err != nil {
		return report, fmt.Errorf("failed to read report: %w", err)
	}

	switch formatFor(path) {
	case "json":
		err = json.Unmarshal(data, &report)
	case "yaml":
		err = yaml.Unmarshal(data, &report)
	default:
		return report, fmt.Errorf("cannot load %s reports", filepath.Ext(path))
	}
	if err != nil {
		return report, fmt.Errorf("failed to parse report %s: %w", path, err)
	}

	return report, nil
}

// BuildReportContent renders the report as plain text
func BuildReportContent(report Report) string {
	var sb strings.Builder

	sb.WriteString("TIDYSINK REPORT\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("ID: %s\n", report.ID))
	sb.WriteString(fmt.Sprintf("Generated: %s\n", report.Timestamp.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Directory: %s\n", report.Directory))
	sb.WriteString("\n")

	switch report.Kind {
	case KindDuplicates:
		writeDuplicateContent(&sb, report)
	case KindAnalysis:
		if report.Analysis != nil {
			sb.WriteString("ANALYSIS\n")
			sb.WriteString(strings.Repeat("=", 80) + "\n")
			WriteAnalysisTable(&sb, report.Analysis)
		}
	}

	return sb.String()
}

func writeDuplicateContent(sb *strings.Builder, report Report) {
	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	if report.Algorithm != "" {
		sb.WriteString(fmt.Sprintf("Hash algorithm: %s\n", report.Algorithm))
	}
	sb.WriteString(fmt.Sprintf("Duplicate sets found: %s\n", humanize.Comma(int64(report.TotalDuplicates))))
	sb.WriteString(fmt.Sprintf("Files to delete: %s\n", humanize.Comma(int64(report.TotalFilesToDelete))))
	sb.WriteString(fmt.Sprintf("Space to free: %s\n", FormatBytes(report.SpaceToFree)))
	if report.DuplicatesDeleted > 0 {
		sb.WriteString(fmt.Sprintf("Deleted: %s files, %s freed\n",
			humanize.Comma(int64(report.DuplicatesDeleted)), FormatBytes(report.SpaceFreed)))
	}
	sb.WriteString("\n")

	if report.TotalDuplicates == 0 {
		return
	}

	sb.WriteString("TOP OFFENDERS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	for i, offender := range GetTopOffenders(report) {
		sb.WriteString(fmt.Sprintf("%d. %s - %d copies, %s to free\n",
			i+1, offender.Name, offender.Count, FormatBytes(offender.SpaceToFree)))
	}
	sb.WriteString("\n")

	sb.WriteString("DUPLICATES (DETAILED)\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	for _, group := range report.Duplicates {
		sb.WriteString(FormatDuplicateGroup(group, report.Directory))
		sb.WriteString("\n")
	}

	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString("DELETION LIST (DO NOT EDIT)\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	for _, path := range scanner.GetDeleteList(report.Duplicates) {
		sb.WriteString(path + "\n")
	}
}

// Offender represents a duplicate group with stats
type Offender struct {
	Name        string
	Count       int
	SpaceToFree int64
}

// GetTopOffenders returns the top 15 duplicate groups by space to free
func GetTopOffenders(report Report) []Offender {
	var offenders []Offender

	for _, group := range report.Duplicates {
		if len(group.Files) == 0 {
			continue
		}
		offenders = append(offenders, Offender{
			Name:        filepath.Base(group.Original().Path),
			Count:       len(group.Files),
			SpaceToFree: group.WastedSpace(),
		})
	}

	sort.SliceStable(offenders, func(i, j int) bool {
		return offenders[i].SpaceToFree > offenders[j].SpaceToFree
	})

	if len(offenders) > 15 {
		return offenders[:15]
	}
	return offenders
}

// FormatDuplicateGroup formats one duplicate group for display. Paths are
// shown relative to root when possible.
func FormatDuplicateGroup(group scanner.DuplicateGroup, root string) string {
	var sb strings.Builder

	size := int64(0)
	if len(group.Files) > 0 {
		size = group.Original().Size
	}
	sb.WriteString(fmt.Sprintf("%d copies (%s each):\n", len(group.Files), FormatBytes(size)))

	for i, file := range group.Files {
		marker := "  DELETE:"
		if i == 0 {
			marker = "  KEEP:  "
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", marker, RelPath(root, file.Path)))
	}

	return sb.String()
}

// WriteAnalysisTable writes the per-category breakdown as an aligned table
func WriteAnalysisTable(w io.Writer, a *scanner.Analysis) {
	fmt.Fprintf(w, "Total Files: %s\n", humanize.Comma(int64(a.TotalFiles)))
	fmt.Fprintf(w, "Total Size: %s\n\n", FormatBytes(a.TotalSize))

	fmt.Fprintf(w, "%-20s %-10s %-15s %s\n", "Category", "Files", "Size", "%")
	fmt.Fprintln(w, strings.Repeat("─", separatorWidth))

	for _, c := range a.Categories {
		fmt.Fprintf(w, "%-20s %-10s %-15s %5.1f%%\n",
			c.Name, humanize.Comma(int64(c.Count)), FormatBytes(c.Size), c.Percent)
	}
}

// RelPath returns path relative to root, or path itself when it is not
// below root
func RelPath(root, path string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
