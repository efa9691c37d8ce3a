package main

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Nomadcxx/tidysink/internal/config"
	"github.com/Nomadcxx/tidysink/internal/organizer"
	"github.com/Nomadcxx/tidysink/internal/reporter"
	"github.com/Nomadcxx/tidysink/internal/scanner"
	"github.com/Nomadcxx/tidysink/internal/ui"
)

// reportFlags are the output options shared by dupes and analyze
type reportFlags struct {
	path string
	save bool
	view bool
}

func (f *reportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.path, "report", "", "write the report to this file (.json, .yaml or .txt)")
	cmd.Flags().BoolVar(&f.save, "save", false, "save the report as JSON in "+reporter.GetReportDir())
	cmd.Flags().BoolVar(&f.view, "view", false, "open the report in the interactive viewer")
}

func (f *reportFlags) write(a *app, report reporter.Report) error {
	if f.path != "" {
		if err := reporter.Save(report, f.path); err != nil {
			return err
		}
		a.console.Summary("Report written to %s", f.path)
	}
	if f.save {
		path, err := reporter.Generate(report, "")
		if err != nil {
			return err
		}
		a.console.Summary("Report saved to %s", path)
	}
	return nil
}

func newDupesCmd(a *app) *cobra.Command {
	var (
		del       bool
		yes       bool
		algorithm string
		rf        reportFlags
	)

	cmd := &cobra.Command{
		Use:   "dupes <dir>",
		Short: "Find files with identical content, optionally deleting the copies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			if algorithm != "" {
				cfg.Duplicates.Algorithm = algorithm
			}

			o, err := a.newOrganizer(cmd)
			if err != nil {
				return err
			}

			// Ask up front unless the viewer will decide
			if del && !yes && !rf.view && !a.confirmDelete(cmd) {
				a.console.Info("Deletion cancelled.")
				return nil
			}

			progress, finish := a.hashProgress(cmd)
			groups, result, err := o.FindDuplicateGroups(dir, del && !rf.view, progress)
			finish()
			if err != nil {
				return err
			}

			report := reporter.NewDuplicateReport(dir, o.Hasher().Algorithm(), groups)
			report.DuplicatesDeleted = result.DuplicatesDeleted
			report.SpaceFreed = result.SpaceFreed

			if rf.view {
				shouldDelete, err := ui.Run(report, del)
				if err != nil {
					return err
				}
				if shouldDelete && (yes || a.confirmDelete(cmd)) {
					result, err = o.DeleteDuplicateGroups(dir, groups)
					if err != nil {
						return err
					}
					report.DuplicatesDeleted = result.DuplicatesDeleted
					report.SpaceFreed = result.SpaceFreed
				}
			}

			if err := rf.write(a, report); err != nil {
				return err
			}
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d files could not be deleted", len(result.Errors))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&del, "delete", false, "delete every copy except the original of each set")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation before deleting")
	cmd.Flags().StringVar(&algorithm, "algorithm", "", "hash algorithm (md5, sha1, sha256, sha512)")
	rf.register(cmd)

	return cmd
}

// confirmDelete requires the user to type DELETE
func (a *app) confirmDelete(cmd *cobra.Command) bool {
	a.console.Warn("WARNING: duplicate files will be permanently deleted.")
	return a.prompt(cmd, "Type 'DELETE' to confirm: ") == "DELETE"
}

// hashProgress returns a progress callback drawing a bar on stderr and a
// function that finishes the bar. Quiet mode draws nothing.
func (a *app) hashProgress(cmd *cobra.Command) (scanner.ProgressFunc, func()) {
	if a.console.Level() == reporter.LogLevelQuiet {
		return nil, func() {}
	}

	var bar *progressbar.ProgressBar
	progress := func(p scanner.ScanProgress) {
		if bar == nil {
			total := p.Total
			if total == 0 {
				total = -1
			}
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionSetDescription("Hashing"),
				progressbar.OptionShowCount(),
				progressbar.OptionSetPredictTime(false),
				progressbar.OptionThrottle(100*time.Millisecond),
				progressbar.OptionClearOnFinish(),
			)
		}
		_ = bar.Set(p.Current)
	}

	finish := func() {
		if bar != nil {
			_ = bar.Finish()
		}
	}
	return progress, finish
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		xlsx string
		rf   reportFlags
	)

	cmd := &cobra.Command{
		Use:   "analyze <dir>",
		Short: "Show how many files and bytes each category takes up",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			o, err := a.newOrganizer(cmd)
			if err != nil {
				return err
			}

			analysis, err := o.Analyze(dir)
			if err != nil {
				return err
			}
			report := reporter.NewAnalysisReport(dir, analysis)

			if err := rf.write(a, report); err != nil {
				return err
			}
			if xlsx != "" {
				if err := reporter.ExportXLSX(report, xlsx); err != nil {
					return err
				}
				a.console.Summary("Workbook written to %s", xlsx)
			}

			if rf.view {
				_, err := ui.Run(report, false)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&xlsx, "xlsx", "", "export the analysis as an Excel workbook")
	rf.register(cmd)

	return cmd
}

func newViewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view [report-file]",
		Short: "Open a saved report in the interactive viewer (latest when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				latest, err := reporter.LatestReport("")
				if err != nil {
					return err
				}
				path = latest
			}

			report, err := reporter.Load(path)
			if err != nil {
				return fmt.Errorf("error loading report: %w", err)
			}

			shouldDelete, err := ui.Run(report, report.Kind == reporter.KindDuplicates && report.DuplicatesDeleted == 0)
			if err != nil || !shouldDelete {
				return err
			}

			// files are re-hashed before deletion with the report's algorithm
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			if report.Algorithm != "" {
				cfg.Duplicates.Algorithm = report.Algorithm
			}
			o, err := a.newOrganizer(cmd)
			if err != nil {
				return err
			}
			if !a.confirmDelete(cmd) {
				a.console.Info("Deletion cancelled.")
				return nil
			}
			_, err = o.DeleteDuplicateGroups(report.Directory, report.Duplicates)
			return err
		},
	}
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show configuration file location and effective values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfgFile
			if path == "" {
				var err error
				if path, err = config.ConfigPath(); err != nil {
					return err
				}
			}

			_, statErr := os.Stat(path)
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Configuration file: %s\n", path)
			if os.IsNotExist(statErr) {
				fmt.Fprintln(out, "(created with defaults)")
			}

			ledgerPath, _ := cfg.LedgerPath()
			fmt.Fprintf(out, "Undo ledger: %s\n", ledgerPath)
			fmt.Fprintf(out, "Strategies: %v\n\n", organizer.StrategyNames())

			fmt.Fprintln(out, "Effective configuration (file, then TIDYSINK_* environment, then flags):")
			return toml.NewEncoder(out).Encode(cfg)
		},
	}
}
