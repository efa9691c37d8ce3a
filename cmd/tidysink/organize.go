package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Nomadcxx/tidysink/internal/daemon"
	"github.com/Nomadcxx/tidysink/internal/organizer"
)

func newOrganizeCmd(a *app) *cobra.Command {
	var (
		by      string
		dryRun  bool
		confirm bool
	)

	cmd := &cobra.Command{
		Use:   "organize <dir>",
		Short: "Move the files of a directory into folders by type, date or size",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			o, err := a.newOrganizer(cmd)
			if err != nil {
				return err
			}

			if confirm && !dryRun {
				return fmt.Errorf("--confirm requires --dry-run")
			}

			result, err := o.Organize(dir, by, dryRun)
			if err != nil {
				return err
			}

			if !confirm || result.Processed == 0 {
				return nil
			}

			if !a.confirm(cmd, fmt.Sprintf("\nProceed with moving %d files?", result.Processed)) {
				a.console.Info("Cancelled, nothing was moved.")
				return nil
			}

			_, err = o.Organize(dir, by, false)
			return err
		},
	}

	cmd.Flags().StringVar(&by, "by", "type", "organize strategy: "+strings.Join(organizer.StrategyNames(), ", "))
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be moved without moving anything")
	cmd.Flags().BoolVar(&confirm, "confirm", false, "after a dry run, ask whether to perform it")

	return cmd
}

func newUndoCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Reverse the moves of the last organize run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := a.newOrganizer(cmd)
			if err != nil {
				return err
			}

			count, last := o.PendingUndo()
			if count == 0 {
				a.console.Info("No operations to undo")
				return nil
			}

			if last.IsZero() {
				a.console.Info("Found %s operations to undo", humanize.Comma(int64(count)))
			} else {
				a.console.Info("Found %s operations to undo, last one %s (%s)",
					humanize.Comma(int64(count)), humanize.Time(last), last.Format("2006-01-02 15:04:05"))
			}

			if !yes && !a.confirm(cmd, "Undo these operations?") {
				a.console.Info("Undo cancelled.")
				return nil
			}

			_, failed, err := o.Undo()
			if err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d operations could not be undone", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	return cmd
}

func newCleanCmd(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "clean <dir>",
		Short: "Remove empty folders below a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := a.newOrganizer(cmd)
			if err != nil {
				return err
			}

			_, err = o.CleanEmptyFolders(args[0], dryRun)
			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be removed without removing anything")

	return cmd
}

func newRulesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List category rules used by organize --by type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := a.newOrganizer(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			classifier := o.Classifier()

			fmt.Fprintln(out, "Built-in categories:")
			for _, c := range classifier.BuiltinRules() {
				fmt.Fprintf(out, "  %-14s %s\n", c.Name, strings.Join(c.Extensions, " "))
			}

			custom := classifier.CustomRules()
			fmt.Fprintf(out, "\nCustom rules (%d):\n", len(custom))
			if len(custom) == 0 {
				fmt.Fprintln(out, "  none (add with --rule \"Name=.ext1,.ext2\" or [[rules]] in the config file)")
				return nil
			}
			sort.SliceStable(custom, func(i, j int) bool { return custom[i].Name < custom[j].Name })
			for _, c := range custom {
				fmt.Fprintf(out, "  %-14s %s\n", c.Name, strings.Join(c.Extensions, " "))
			}
			fmt.Fprintln(out, "\nCustom rules are checked before built-in categories.")
			return nil
		},
	}
}

func newWatchCmd(a *app) *cobra.Command {
	var (
		by       string
		debounce time.Duration
		logFile  string
	)

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Keep a directory organized as new files arrive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			o, err := a.newOrganizer(cmd)
			if err != nil {
				return err
			}

			if by == "" {
				by = cfg.Watch.Strategy
			}
			if _, err := o.Strategy(by); err != nil {
				return err
			}
			if debounce == 0 {
				debounce = cfg.Debounce()
			}

			watchCfg := daemon.Config{
				Dir:      dir,
				Strategy: by,
				Debounce: debounce,
				Ignore:   []string{o.Ledger().Path(), logFile},
			}
			d, err := daemon.New(watchCfg, func() (int, error) {
				result, err := o.Organize(dir, by, false)
				return result.Processed, err
			})
			if err != nil {
				return err
			}

			if logFile != "" {
				logger, closer, err := daemon.OpenLog(logFile, cmd.ErrOrStderr())
				if err != nil {
					return fmt.Errorf("failed to open log file: %w", err)
				}
				defer closer.Close()
				d.Logger = logger
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := d.Start(ctx); err != nil {
				return err
			}
			a.console.Summary("Watched %s: %d passes, %d files moved", d.Dir(), d.Runs(), d.Moved())
			return nil
		},
	}

	cmd.Flags().StringVar(&by, "by", "", "organize strategy (default from config [watch] strategy)")
	cmd.Flags().DurationVar(&debounce, "debounce", 0, "quiet period before organizing (default from config [watch] debounce_ms)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "also append watch log lines to this file, e.g. "+daemon.DefaultLogPath())

	return cmd
}
