package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stackmap/internal/journal"
	"github.com/mesh-intelligence/stackmap/internal/script"
)

type showOutput struct {
	Run   *journal.Run        `json:"run"`
	Steps []script.StepResult `json:"steps"`
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a journaled run step by step",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := a.openJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			run, err := j.Run(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, journal.ErrRunNotFound) {
					return userErr(err)
				}
				return err
			}
			steps, err := j.Steps(cmd.Context(), run.ID)
			if err != nil {
				return fmt.Errorf("load steps: %w", err)
			}

			if a.json {
				return printJSON(cmd, showOutput{Run: run, Steps: steps})
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Run:      %s\n", run.ID)
			fmt.Fprintf(w, "Script:   %s\n", run.Script)
			fmt.Fprintf(w, "Started:  %s\n", formatTime(run.StartedAt))
			fmt.Fprintf(w, "Finished: %s\n", formatTime(run.FinishedAt))
			fmt.Fprintf(w, "Final:    branch %s, len %d: %s\n\n", run.Branch, run.FinalLen, strings.Join(run.Frames, " > "))
			return writeSteps(w, steps)
		},
	}
}
