// Package main provides the CLI entry point for styleguard.
package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

const (
	// ExitClean means no error-severity violations remain.
	ExitClean = 0

	// ExitViolations means error-severity violations were found.
	ExitViolations = 1

	// ExitUsage means a configuration or usage error aborted the run
	// before or during checking.
	ExitUsage = 2
)

var noColorFlag bool

func main() {
	os.Exit(mainWithExitCode())
}

func mainWithExitCode() (exitCode int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Error: unexpected crash: %v\n", r)

			exitCode = ExitUsage
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errViolationsFound) {
			return ExitViolations
		}

		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return ExitUsage
	}

	return ExitClean
}

var rootCmd = &cobra.Command{
	Use:   "styleguard",
	Short: "Style guide conformance checker for CSS, SCSS and Python",
	Long: `styleguard checks CSS, SCSS and Python sources against the project
style guide and can rewrite files to fix violations that have a safe,
mechanical correction.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(
		&noColorFlag,
		"no-color",
		false,
		"Disable colored output",
	)
}
