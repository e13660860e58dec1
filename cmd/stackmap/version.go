package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stackmap/pkg/stackmap"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the stackmap version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "stackmap", stackmap.Version)
		},
	}
}
