package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/tidysink/internal/config"
	"github.com/Nomadcxx/tidysink/internal/organizer"
	"github.com/Nomadcxx/tidysink/internal/reporter"
	"github.com/Nomadcxx/tidysink/internal/ui"
)

var (
	// Version information (set via -ldflags during build)
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// app carries global flag values and lazily built state for one command run
type app struct {
	cfgFile string
	undoLog string
	rules   []string
	quiet   bool
	verbose bool
	noColor bool

	cfg     *config.Config
	console *reporter.Console
	input   *bufio.Reader
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "tidysink",
		Short:         "Organize, deduplicate and tidy local directories",
		Long:          getLongDescription(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.config/tidysink/config.toml)")
	flags.StringVar(&a.undoLog, "undo-log", "", "undo ledger file (default is $HOME/.local/share/tidysink/undo.json)")
	flags.StringArrayVar(&a.rules, "rule", nil, `custom category for this run, e.g. "Notes=.md,.org" (repeatable)`)
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "only print summaries, warnings and errors")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "print debug lines")
	flags.BoolVar(&a.noColor, "no-color", false, "disable coloured output")
	rootCmd.MarkFlagsMutuallyExclusive("quiet", "verbose")

	rootCmd.AddCommand(
		newOrganizeCmd(a),
		newDupesCmd(a),
		newAnalyzeCmd(a),
		newCleanCmd(a),
		newUndoCmd(a),
		newRulesCmd(a),
		newWatchCmd(a),
		newViewCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func getLongDescription() string {
	return ui.FormatASCIIHeaderWithSubtext("tidysink "+version) + "\n\n" +
		"tidysink sorts the files of a directory into folders by type, date or size,\n" +
		"finds and removes duplicate files, analyzes what takes up space and can undo\n" +
		"the last organize run."
}

// loadConfig reads the config file, then applies environment and flag
// overrides in that order
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}

	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	cfg.ApplyEnv()

	if a.undoLog != "" {
		cfg.Undo.LogFile = a.undoLog
	}
	switch {
	case a.quiet:
		cfg.Log.Level = "quiet"
	case a.verbose:
		cfg.Log.Level = "verbose"
	}
	if a.noColor {
		cfg.Log.Color = false
	}

	for _, raw := range a.rules {
		rule, err := config.ParseRule(raw)
		if err != nil {
			return nil, err
		}
		cfg.Rules = upsertRule(cfg.Rules, rule)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, _ := reporter.ParseLogLevel(cfg.Log.Level)
	a.console = reporter.NewConsole(cmd.OutOrStdout(), level, cfg.Log.Color)
	a.cfg = cfg
	return cfg, nil
}

// upsertRule replaces a rule of the same name so flags override the file
func upsertRule(rules []config.RuleConfig, rule config.RuleConfig) []config.RuleConfig {
	for i := range rules {
		if rules[i].Name == rule.Name {
			rules[i] = rule
			return rules
		}
	}
	return append(rules, rule)
}

// newOrganizer builds the organizer from the effective config
func (a *app) newOrganizer(cmd *cobra.Command) (*organizer.Organizer, error) {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	ledgerPath, err := cfg.LedgerPath()
	if err != nil {
		return nil, err
	}
	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	rules := make([]organizer.Category, 0, len(cfg.Rules))
	for _, r := range cfg.Rules {
		rules = append(rules, organizer.Category{Name: r.Name, Extensions: r.Extensions})
	}

	return organizer.New(organizer.Settings{
		LedgerPath:     ledgerPath,
		Algorithm:      cfg.Duplicates.Algorithm,
		Location:       location,
		ProtectedPaths: cfg.Duplicates.ProtectedPaths,
		OperationsLog:  cfg.Duplicates.OperationsLog,
		MaxSizeGB:      cfg.Duplicates.MaxSizeGB,
		Rules:          rules,
		Console:        a.console,
	})
}

// prompt prints question and returns the trimmed answer line
func (a *app) prompt(cmd *cobra.Command, question string) string {
	if a.input == nil {
		a.input = bufio.NewReader(cmd.InOrStdin())
	}

	fmt.Fprint(cmd.OutOrStdout(), question)
	line, err := a.input.ReadString('\n')
	if err != nil && err != io.EOF {
		return ""
	}
	return strings.TrimSpace(line)
}

// confirm asks a yes/no question, defaulting to no
func (a *app) confirm(cmd *cobra.Command, question string) bool {
	switch strings.ToLower(a.prompt(cmd, question+" [y/N]: ")) {
	case "y", "yes":
		return true
	}
	return false
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tidysink %s\n", version)
			fmt.Fprintf(out, "  Commit:     %s\n", commit)
			fmt.Fprintf(out, "  Built:      %s\n", buildTime)
		},
	}
}
