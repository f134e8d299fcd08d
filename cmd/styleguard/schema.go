package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/styleguard/styleguard/internal/schema"
)

var schemaCompact bool

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the configuration JSON Schema",
	Long:  "Print a JSON Schema describing the .styleguard.toml configuration format.",
	RunE:  runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)

	schemaCmd.Flags().BoolVar(
		&schemaCompact,
		"compact",
		false,
		"Print compact JSON instead of indented",
	)
}

func runSchema(_ *cobra.Command, _ []string) error {
	data, err := schema.GenerateJSON(!schemaCompact)
	if err != nil {
		return err
	}

	_, err = os.Stdout.Write(data)

	return err
}
