package reporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportXLSX writes the report as a workbook: a Summary sheet plus either
// an Analysis sheet (one row per category) or a Duplicates sheet (one row
// per file)
func ExportXLSX(report Report, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	summary := [][]interface{}{
		{"Report ID", report.ID},
		{"Kind", report.Kind},
		{"Directory", report.Directory},
		{"Generated", report.Timestamp.Format("2006-01-02 15:04:05")},
	}

	var detailName string
	var detail [][]interface{}

	switch report.Kind {
	case KindAnalysis:
		if report.Analysis == nil {
			return fmt.Errorf("analysis report has no analysis data")
		}
		a := report.Analysis
		summary = append(summary,
			[]interface{}{"Total Files", a.TotalFiles},
			[]interface{}{"Total Size (bytes)", a.TotalSize},
			[]interface{}{"Total Size", FormatBytes(a.TotalSize)},
		)

		detailName = "Analysis"
		detail = append(detail, []interface{}{"Category", "Files", "Size (bytes)", "Size", "Percent"})
		for _, c := range a.Categories {
			detail = append(detail, []interface{}{c.Name, c.Count, c.Size, FormatBytes(c.Size), c.Percent})
		}

	case KindDuplicates:
		summary = append(summary,
			[]interface{}{"Algorithm", report.Algorithm},
			[]interface{}{"Duplicate Sets", report.TotalDuplicates},
			[]interface{}{"Files To Delete", report.TotalFilesToDelete},
			[]interface{}{"Space To Free (bytes)", report.SpaceToFree},
			[]interface{}{"Space To Free", FormatBytes(report.SpaceToFree)},
		)

		detailName = "Duplicates"
		detail = append(detail, []interface{}{"Set", "Hash", "Status", "Path", "Size (bytes)"})
		for i, group := range report.Duplicates {
			for j, file := range group.Files {
				status := "DELETE"
				if j == 0 {
					status = "KEEP"
				}
				detail = append(detail, []interface{}{i + 1, group.Hash, status, file.Path, file.Size})
			}
		}

	default:
		return fmt.Errorf("unknown report kind: %q", report.Kind)
	}

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, "Summary"); err != nil {
		return fmt.Errorf("could not rename sheet: %w", err)
	}
	if err := writeRows(f, "Summary", summary); err != nil {
		return err
	}

	if _, err := f.NewSheet(detailName); err != nil {
		return fmt.Errorf("could not create sheet %q: %w", detailName, err)
	}
	if err := writeRows(f, detailName, detail); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("could not save %s: %w", path, err)
	}

	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return fmt.Errorf("invalid cell coordinates: %w", err)
			}
			if err := f.SetCellValue(sheet, cellName, cell); err != nil {
				return fmt.Errorf("could not set cell %s: %w", cellName, err)
			}
		}
	}
	return nil
}
