package script

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-logr/logr"

	"github.com/mesh-intelligence/stackmap/pkg/stackmap"
)

// Trace is the record of one script run.
type Trace struct {
	Script   string       `json:"script"`
	Started  time.Time    `json:"started"`
	Finished time.Time    `json:"finished"`
	Steps    []StepResult `json:"steps"`

	// Branch is the branch active when the run ended. Frames describes its
	// container, outermost frame first.
	Branch   string   `json:"branch"`
	FinalLen int      `json:"final_len"`
	Frames   []string `json:"frames"`
}

// StepResult is what one step did. Branch and Len describe the active
// container after the step. For clone, Value names the new branch.
type StepResult struct {
	Index   int      `json:"index"`
	Op      string   `json:"op"`
	Kind    string   `json:"kind,omitempty"`
	Branch  string   `json:"branch"`
	Outcome string   `json:"outcome"`
	Value   string   `json:"value,omitempty"`
	Len     int      `json:"len"`
	Tags    []string `json:"tags,omitempty"`
}

// Runner replays scripts.
type Runner struct {
	log logr.Logger
}

// NewRunner returns a Runner that logs each step at V(1).
func NewRunner(log logr.Logger) *Runner {
	return &Runner{log: log}
}

// run holds the containers of one replay, one per branch.
type run struct {
	active   string
	branches map[string]stackmap.Map
}

func (r *run) current() stackmap.Map {
	return r.branches[r.active]
}

func (r *run) set(m stackmap.Map) {
	r.branches[r.active] = m
}

// Run validates s and replays it on an empty container. The context is
// checked before each step.
func (r *Runner) Run(ctx context.Context, s *Script) (*Trace, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	state := &run{
		active:   MainBranch,
		branches: map[string]stackmap.Map{MainBranch: stackmap.Empty{}},
	}
	trace := &Trace{
		Script:  s.Name,
		Started: time.Now().UTC(),
		Steps:   make([]StepResult, 0, len(s.Steps)),
	}
	log := r.log.WithValues("script", s.Name)

	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		res, err := state.apply(st)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		res.Index = i + 1
		log.V(1).Info("step", "index", res.Index, "op", res.Op, "kind", res.Kind,
			"branch", res.Branch, "outcome", res.Outcome, "len", res.Len)
		trace.Steps = append(trace.Steps, res)
	}

	final := state.current()
	trace.Finished = time.Now().UTC()
	trace.Branch = state.active
	trace.FinalLen = final.Len()
	for f := range stackmap.Frames(final) {
		trace.Frames = append(trace.Frames, f.String())
	}
	return trace, nil
}

func (r *run) apply(st Step) (StepResult, error) {
	res := StepResult{Op: st.Op, Kind: st.Kind, Outcome: OutcomeOK}
	cur := r.current()

	var kind Kind
	if kindOps[st.Op] {
		k, err := LookupKind(st.Kind)
		if err != nil {
			return res, err
		}
		kind = k
	}

	switch st.Op {
	case OpInsert:
		m, eff, err := kind.insert(cur, st.Value)
		if err != nil {
			return res, err
		}
		r.set(m)
		res.Outcome, res.Value = eff.outcome, eff.value
	case OpRemove:
		m, eff := kind.remove(cur)
		r.set(m)
		res.Outcome, res.Value = eff.outcome, eff.value
	case OpGet:
		v, ok := kind.get(cur)
		res.Outcome, res.Value = presence(ok), v
	case OpContains:
		_, ok := kind.get(cur)
		res.Outcome = presence(ok)
	case OpInner:
		r.set(cur.Inner())
	case OpClear:
		r.set(cur.Clear())
	case OpTags:
		res.Tags = []string{}
		for tag := range cur.TypeTags() {
			res.Tags = append(res.Tags, tag.String())
		}
	case OpLen:
		res.Value = strconv.Itoa(cur.Len())
	case OpClone:
		r.branches[st.Branch] = cur.Clone()
		res.Value = st.Branch
	case OpSwitch:
		if _, ok := r.branches[st.Branch]; !ok {
			return res, fmt.Errorf("%w: %q", ErrUnknownBranch, st.Branch)
		}
		r.active = st.Branch
	default:
		return res, fmt.Errorf("%w: %q", ErrUnknownOp, st.Op)
	}

	res.Branch = r.active
	res.Len = r.current().Len()
	return res, nil
}

func presence(ok bool) string {
	if ok {
		return OutcomePresent
	}
	return OutcomeAbsent
}
