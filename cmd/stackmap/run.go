package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/mesh-intelligence/stackmap/internal/journal"
	"github.com/mesh-intelligence/stackmap/internal/script"
)

type runOutput struct {
	RunID string        `json:"run_id,omitempty"`
	Trace *script.Trace `json:"trace"`
}

func newRunCmd(a *app) *cobra.Command {
	var noJournal bool

	cmd := &cobra.Command{
		Use:   "run <script.yaml>",
		Short: "Replay a script and print what each step did",
		Long: `Run replays a YAML script against an empty container.

Every step reports its outcome, the value it saw and the container length
afterwards. Unless --no-journal is set or journal is false in config.yaml,
the run is recorded in the data directory.

Example:
  stackmap run demo.yaml
  stackmap run demo.yaml --json
  stackmap run demo.yaml --no-journal`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := script.ParseFile(args[0])
			if err != nil {
				return userErr(err)
			}

			runner := script.NewRunner(klog.Background().WithName("runner"))
			trace, err := runner.Run(cmd.Context(), s)
			if err != nil {
				if errors.Is(err, script.ErrInvalidValue) {
					return userErr(err)
				}
				return err
			}

			out := runOutput{Trace: trace}
			if !noJournal && a.cfg.GetBool(cfgKeyJournal) {
				out.RunID, err = a.record(cmd, trace)
				if err != nil {
					return err
				}
			}

			if a.json {
				return printJSON(cmd, out)
			}
			w := cmd.OutOrStdout()
			if err := writeSteps(w, trace.Steps); err != nil {
				return err
			}
			fmt.Fprintf(w, "\nbranch %s, len %d: %s\n", trace.Branch, trace.FinalLen, strings.Join(trace.Frames, " > "))
			if out.RunID != "" {
				fmt.Fprintf(w, "run %s\n", out.RunID)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noJournal, "no-journal", false, "do not record the run")
	return cmd
}

func (a *app) record(cmd *cobra.Command, trace *script.Trace) (string, error) {
	j, err := a.openJournal()
	if err != nil {
		return "", err
	}
	defer j.Close()

	id, err := j.Record(cmd.Context(), trace)
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	klog.V(1).InfoS("recorded run", "id", id, "journal", j.Path())
	return id, nil
}

func (a *app) openJournal() (*journal.Journal, error) {
	dataDir, err := a.resolveDataDir()
	if err != nil {
		return nil, err
	}
	j, err := journal.Open(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return j, nil
}
