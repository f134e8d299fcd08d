package main

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/styleguard/styleguard/internal/lang"
	"github.com/styleguard/styleguard/internal/rules"
)

var rulesLanguage string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the built-in rules",
	Long:  "List every built-in rule with its languages, category, default severity and description.",
	RunE:  runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)

	rulesCmd.Flags().StringVar(
		&rulesLanguage,
		"language",
		"",
		"Only list rules for one language (css, scss or python)",
	)
}

func runRules(_ *cobra.Command, _ []string) error {
	registry, err := rules.DefaultRegistry()
	if err != nil {
		return err
	}

	listed := registry.All()

	if rulesLanguage != "" {
		l := lang.Language(rulesLanguage)
		if !l.Valid() {
			return errors.Newf("unknown language %q", rulesLanguage)
		}

		listed = registry.ForLanguage(l)
	}

	t := tablewriter.NewTable(os.Stdout)
	t.Header([]string{"ID", "Languages", "Category", "Severity", "Description"})

	for _, rl := range listed {
		langs := make([]string, 0, len(rl.Languages()))
		for _, l := range rl.Languages() {
			langs = append(langs, l.String())
		}

		if err := t.Append([]string{
			rl.ID(),
			strings.Join(langs, ", "),
			rl.Category(),
			string(rl.Severity()),
			rl.Description(),
		}); err != nil {
			return err
		}
	}

	return t.Render()
}
