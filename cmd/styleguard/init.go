package main

import (
	"fmt"

	"github.com/spf13/cobra"

	internalconfig "github.com/styleguard/styleguard/internal/config"
	"github.com/styleguard/styleguard/pkg/config"
)

var forceFlag bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter configuration file",
	Long: `Create a .styleguard.toml in the current directory holding the
default settings, ready to edit.

Use --force to overwrite an existing configuration file.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVarP(
		&forceFlag,
		"force",
		"f",
		false,
		"Overwrite existing configuration file",
	)
}

func runInit(cmd *cobra.Command, _ []string) error {
	writer, err := internalconfig.NewWriter()
	if err != nil {
		return err
	}

	path, err := writer.WriteProject(config.Default(), forceFlag)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)

	return nil
}
