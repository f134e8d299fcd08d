package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/styleguard/styleguard/internal/ast"
	"github.com/styleguard/styleguard/internal/color"
	internalconfig "github.com/styleguard/styleguard/internal/config"
	"github.com/styleguard/styleguard/internal/diag"
	"github.com/styleguard/styleguard/internal/lang"
	langcss "github.com/styleguard/styleguard/internal/lang/css"
	langpython "github.com/styleguard/styleguard/internal/lang/python"
	"github.com/styleguard/styleguard/internal/report"
	"github.com/styleguard/styleguard/internal/rule"
	"github.com/styleguard/styleguard/internal/rules"
	"github.com/styleguard/styleguard/internal/runner"
	"github.com/styleguard/styleguard/pkg/logger"
)

// errViolationsFound signals exit code 1 without printing an error; the
// violations themselves are the output.
var errViolationsFound = errors.New("violations found")

var (
	fixFlag     bool
	diffFlag    bool
	formatFlag  string
	configFlag  string
	rulesFlag   []string
	workersFlag int
	debugFlag   bool
)

var lintCmd = &cobra.Command{
	Use:   "lint [paths...]",
	Short: "Check files for style guide violations",
	Long: `Check the given files, directories or glob patterns for style guide
violations. Directories are walked recursively for supported extensions
(.css, .scss, .py).

With --fix, violations that have a safe mechanical correction are
rewritten in place. With --fix --diff, the rewrites are printed as
unified diffs instead of being written.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().BoolVar(&fixFlag, "fix", false, "Apply safe fixes and rewrite files")
	lintCmd.Flags().BoolVar(&diffFlag, "diff", false, "With --fix, print diffs instead of writing files")
	lintCmd.Flags().StringVar(&formatFlag, "format", "text", "Output format: text or json")
	lintCmd.Flags().StringVarP(&configFlag, "config", "c", "", "Path to config file (default: .styleguard.toml)")
	lintCmd.Flags().StringSliceVar(&rulesFlag, "rules", nil, "Comma-separated rule ids to run; others are disabled")
	lintCmd.Flags().IntVar(&workersFlag, "workers", 0, "Maximum concurrent file checks (0: one per CPU)")
	lintCmd.Flags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
}

func runLint(cmd *cobra.Command, args []string) error {
	if diffFlag && !fixFlag {
		return errors.New("--diff requires --fix")
	}

	if formatFlag != "text" && formatFlag != "json" {
		return errors.Newf("unknown format %q (want text or json)", formatFlag)
	}

	registry, err := rules.DefaultRegistry()
	if err != nil {
		return err
	}

	resolved, err := loadResolvedConfig(cmd, registry)
	if err != nil {
		return err
	}

	if err := applyRulesFilter(registry, resolved); err != nil {
		return err
	}

	level := logger.LevelError
	if debugFlag {
		level = logger.LevelDebug
	}

	log := logger.New(os.Stderr, level)

	adapters := map[lang.Language]ast.Adapter{
		lang.CSS:    langcss.New(lang.CSS),
		lang.SCSS:   langcss.New(lang.SCSS),
		lang.Python: langpython.New(),
	}

	opts := runner.Options{
		Fix:           fixFlag,
		DryRun:        diffFlag,
		Workers:       resolved.Workers,
		FixIterations: resolved.FixIterations,
		Policy:        resolved.Policy,
		RuleOptions:   resolved.Options,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run, err := runner.New(registry, adapters, opts, log).Run(ctx, args)
	if err != nil {
		return err
	}

	if err := renderReport(run); err != nil {
		return err
	}

	// A run where nothing could be checked is an internal failure, not a
	// violations outcome.
	if run.AllParseFailed() {
		return errors.New("all files failed to parse")
	}

	if run.HasErrors() {
		return errViolationsFound
	}

	return nil
}

func loadResolvedConfig(cmd *cobra.Command, registry *rule.Registry) (*internalconfig.Resolved, error) {
	loader, err := internalconfig.NewLoader()
	if err != nil {
		return nil, err
	}

	if configFlag != "" {
		loader.SetConfigFile(configFlag)
	}

	flags := map[string]any{}
	if cmd.Flags().Changed("workers") {
		flags["global.workers"] = workersFlag
	}

	cfg, err := loader.Load(flags)
	if err != nil {
		return nil, err
	}

	return internalconfig.Resolve(cfg, registry)
}

// applyRulesFilter disables every rule not named by --rules. Unknown ids
// in the flag abort the run the same way unknown ids in config do.
func applyRulesFilter(registry *rule.Registry, resolved *internalconfig.Resolved) error {
	if len(rulesFlag) == 0 {
		return nil
	}

	wanted := make(map[string]bool, len(rulesFlag))

	for _, id := range rulesFlag {
		id = strings.TrimSpace(id)
		if _, ok := registry.Get(id); !ok {
			return errors.Wrapf(internalconfig.ErrUnknownRule, "%s", id)
		}

		wanted[id] = true
	}

	for _, rl := range registry.All() {
		if !wanted[rl.ID()] {
			resolved.Policy.Disabled[rl.ID()] = true
		}
	}

	return nil
}

func renderReport(run *diag.RunReport) error {
	if formatFlag == "json" {
		return report.NewJSONFormatter().Format(os.Stdout, run)
	}

	if fixFlag && diffFlag {
		if err := report.NewDiffFormatter().Format(os.Stdout, run); err != nil {
			return err
		}
	}

	useColor := color.Profile(noColorFlag) && color.IsTerminal(os.Stdout)

	return report.NewTextFormatter(useColor).Format(os.Stdout, run)
}
