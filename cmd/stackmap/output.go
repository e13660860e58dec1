package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stackmap/internal/script"
)

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// writeSteps prints step results as a table.
func writeSteps(w io.Writer, steps []script.StepResult) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tOP\tKIND\tBRANCH\tOUTCOME\tVALUE\tLEN")
	for _, st := range steps {
		value := st.Value
		if st.Tags != nil {
			value = "[" + strings.Join(st.Tags, ", ") + "]"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%d\n",
			st.Index, st.Op, dash(st.Kind), st.Branch, st.Outcome, dash(value), st.Len)
	}
	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatTime(t time.Time) string {
	return t.Local().Format(time.DateTime)
}
