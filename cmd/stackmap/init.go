package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/stackmap/internal/script"
)

// exampleScript is written by init --example.
var exampleScript = script.Script{
	Name: "example",
	Steps: []script.Step{
		{Op: script.OpInsert, Kind: "int", Value: "3"},
		{Op: script.OpInsert, Kind: "string", Value: "hello"},
		{Op: script.OpTags},
		{Op: script.OpInsert, Kind: "int", Value: "4"},
		{Op: script.OpClone, Branch: "snapshot"},
		{Op: script.OpRemove, Kind: "string"},
		{Op: script.OpGet, Kind: "string"},
		{Op: script.OpSwitch, Branch: "snapshot"},
		{Op: script.OpGet, Kind: "string"},
		{Op: script.OpLen},
	},
}

func newInitCmd(a *app) *cobra.Command {
	var example string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the configuration and the run journal",
		Long: `Init writes config.yaml if it is missing and creates the journal in the
data directory. With --example it also writes a starter script.

Example:
  stackmap init
  stackmap init --example demo.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := a.openJournal()
			if err != nil {
				return err
			}
			path := j.Path()
			if err := j.Close(); err != nil {
				return fmt.Errorf("close journal: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Journal ready at %s\n", path)

			if example == "" {
				return nil
			}
			if err := writeExample(example); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote example script to %s\n", example)
			return nil
		},
	}

	cmd.Flags().StringVar(&example, "example", "", "also write an example script to this path")
	return cmd
}

// writeExample refuses to overwrite an existing file.
func writeExample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return userErr(fmt.Errorf("%s already exists", path))
	}
	data, err := yaml.Marshal(&exampleScript)
	if err != nil {
		return fmt.Errorf("marshal example: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
