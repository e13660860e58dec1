package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stackmap/internal/script"
)

type kindOutput struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func newKindsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the value kinds scripts can use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var kinds []kindOutput
			for _, k := range script.Kinds() {
				kinds = append(kinds, kindOutput{Name: k.Name(), Type: k.Tag().String()})
			}
			if a.json {
				return printJSON(cmd, kinds)
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "KIND\tGO TYPE")
			for _, k := range kinds {
				fmt.Fprintf(tw, "%s\t%s\n", k.Name, k.Type)
			}
			return tw.Flush()
		},
	}
}
