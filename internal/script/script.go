// Package script replays YAML operation scripts against a stackmap container
// and records what each operation did.
package script

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Script errors.
var (
	ErrInvalidScript = errors.New("invalid script")
	ErrUnknownOp     = errors.New("unknown operation")
	ErrUnknownKind   = errors.New("unknown kind")
	ErrInvalidValue  = errors.New("invalid value")
	ErrUnknownBranch = errors.New("unknown branch")
	ErrMissingField  = errors.New("missing field")
)

// Operation names.
const (
	OpInsert   = "insert"
	OpRemove   = "remove"
	OpGet      = "get"
	OpContains = "contains"
	OpInner    = "inner"
	OpClear    = "clear"
	OpTags     = "tags"
	OpLen      = "len"
	OpClone    = "clone"
	OpSwitch   = "switch"
)

// MainBranch is the branch every run starts on.
const MainBranch = "main"

// kindOps lists the operations that need a kind.
var kindOps = map[string]bool{
	OpInsert:   true,
	OpRemove:   true,
	OpGet:      true,
	OpContains: true,
}

var knownOps = map[string]bool{
	OpInsert:   true,
	OpRemove:   true,
	OpGet:      true,
	OpContains: true,
	OpInner:    true,
	OpClear:    true,
	OpTags:     true,
	OpLen:      true,
	OpClone:    true,
	OpSwitch:   true,
}

// Script is a named sequence of operations.
type Script struct {
	Name  string `yaml:"name" json:"name"`
	Steps []Step `yaml:"steps" json:"steps"`
}

// Step is one operation. Kind is required for insert, remove, get and
// contains; Branch for clone and switch.
type Step struct {
	Op     string `yaml:"op" json:"op"`
	Kind   string `yaml:"kind,omitempty" json:"kind,omitempty"`
	Value  string `yaml:"value,omitempty" json:"value,omitempty"`
	Branch string `yaml:"branch,omitempty" json:"branch,omitempty"`
}

// Parse decodes and validates a script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ParseFile reads and parses the script at path.
func ParseFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return Parse(data)
}

// Validate checks that every step names a known operation and kind, and that
// switch only targets branches created by an earlier clone.
func (s *Script) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidScript)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalidScript)
	}

	branches := map[string]bool{MainBranch: true}
	for i, st := range s.Steps {
		if err := st.validate(branches); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		if st.Op == OpClone {
			branches[st.Branch] = true
		}
	}
	return nil
}

func (st Step) validate(branches map[string]bool) error {
	if !knownOps[st.Op] {
		return fmt.Errorf("%w: %q", ErrUnknownOp, st.Op)
	}
	if kindOps[st.Op] {
		if st.Kind == "" {
			return fmt.Errorf("%w: kind", ErrMissingField)
		}
		if _, err := LookupKind(st.Kind); err != nil {
			return err
		}
	}
	switch st.Op {
	case OpClone:
		if st.Branch == "" {
			return fmt.Errorf("%w: branch", ErrMissingField)
		}
	case OpSwitch:
		if st.Branch == "" {
			return fmt.Errorf("%w: branch", ErrMissingField)
		}
		if !branches[st.Branch] {
			return fmt.Errorf("%w: %q", ErrUnknownBranch, st.Branch)
		}
	}
	return nil
}
