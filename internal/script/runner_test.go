package script

import (
	"context"
	"testing"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runYAML(t *testing.T, src string) *Trace {
	t.Helper()
	s, err := Parse([]byte(src))
	require.NoError(t, err)

	trace, err := NewRunner(testr.New(t)).Run(context.Background(), s)
	require.NoError(t, err)
	return trace
}

func outcomes(tr *Trace) []string {
	out := make([]string, len(tr.Steps))
	for i, st := range tr.Steps {
		out[i] = st.Outcome
	}
	return out
}

func TestRunOverwrites(t *testing.T) {
	tr := runYAML(t, `
name: overwrite
steps:
  - {op: insert, kind: int, value: 1}
  - {op: insert, kind: int, value: 2}
  - {op: insert, kind: int, value: 3}
  - {op: get, kind: int}
  - {op: get, kind: string}
  - {op: len}
`)

	assert.Equal(t, []string{OutcomeFresh, OutcomeExisted, OutcomeExisted, OutcomePresent, OutcomeAbsent, OutcomeOK}, outcomes(tr))
	assert.Equal(t, "1", tr.Steps[1].Value)
	assert.Equal(t, "2", tr.Steps[2].Value)
	assert.Equal(t, "3", tr.Steps[3].Value)
	assert.Equal(t, "1", tr.Steps[5].Value)
	assert.Equal(t, 1, tr.FinalLen)
	assert.Equal(t, "overwrite", tr.Script)
	assert.False(t, tr.Finished.Before(tr.Started))
}

func TestRunBranches(t *testing.T) {
	tr := runYAML(t, `
name: branches
steps:
  - {op: insert, kind: int, value: 3}
  - {op: clone, branch: copy}
  - {op: remove, kind: int}
  - {op: switch, branch: copy}
  - {op: get, kind: int}
`)

	remove := tr.Steps[2]
	assert.Equal(t, OutcomeRemoved, remove.Outcome)
	assert.Equal(t, "3", remove.Value)
	assert.Equal(t, 0, remove.Len)
	assert.Equal(t, MainBranch, remove.Branch)

	assert.Equal(t, "copy", tr.Steps[1].Value)

	get := tr.Steps[4]
	assert.Equal(t, OutcomePresent, get.Outcome)
	assert.Equal(t, "3", get.Value)
	assert.Equal(t, "copy", get.Branch)
	assert.Equal(t, "copy", tr.Branch)
	assert.Equal(t, []string{"fresh(int)", "empty"}, tr.Frames)
}

func TestRunTags(t *testing.T) {
	tr := runYAML(t, `
name: tags
steps:
  - {op: insert, kind: int, value: 1}
  - {op: insert, kind: int, value: 2}
  - {op: insert, kind: unit}
  - {op: insert, kind: string, value: hi}
  - {op: tags}
`)

	assert.Equal(t, []string{"string", "struct {}"}, tr.Steps[4].Tags)
}

func TestRunRemoveMissing(t *testing.T) {
	tr := runYAML(t, `
name: missing
steps:
  - {op: insert, kind: bool, value: "true"}
  - {op: remove, kind: string}
  - {op: contains, kind: bool}
  - {op: inner}
  - {op: contains, kind: bool}
  - {op: clear}
`)

	assert.Equal(t, []string{OutcomeFresh, OutcomeNotFound, OutcomePresent, OutcomeOK, OutcomePresent, OutcomeOK}, outcomes(tr))
	assert.Equal(t, 1, tr.Steps[1].Len)
	assert.Equal(t, 0, tr.FinalLen)
	assert.Equal(t, []string{"empty"}, tr.Frames)
}

func TestRunInvalidValue(t *testing.T) {
	s, err := Parse([]byte("name: bad\nsteps:\n  - {op: len}\n  - {op: insert, kind: int, value: x}\n"))
	require.NoError(t, err)

	_, err = NewRunner(testr.New(t)).Run(context.Background(), s)
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.Contains(t, err.Error(), "step 2")
}

func TestRunCanceled(t *testing.T) {
	s, err := Parse([]byte("name: c\nsteps:\n  - {op: len}\n"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = NewRunner(testr.New(t)).Run(ctx, s)
	assert.ErrorIs(t, err, context.Canceled)
}
