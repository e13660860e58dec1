package script

import (
	"cmp"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/stackmap/pkg/stackmap"
)

// Step outcomes.
const (
	OutcomeFresh    = "fresh"
	OutcomeExisted  = "existed"
	OutcomeRemoved  = "removed"
	OutcomeNotFound = "not_found"
	OutcomePresent  = "present"
	OutcomeAbsent   = "absent"
	OutcomeOK       = "ok"
)

// Kind binds a script-level name to one Go type stored in the container.
type Kind struct {
	name   string
	tag    stackmap.TypeTag
	insert func(m stackmap.Map, raw string) (stackmap.Map, effect, error)
	remove func(m stackmap.Map) (stackmap.Map, effect)
	get    func(m stackmap.Map) (string, bool)
}

// effect is what an operation did, formatted for the trace.
type effect struct {
	outcome string
	value   string
}

// Name returns the name scripts use for the kind.
func (k Kind) Name() string { return k.name }

// Tag returns the type tag of the kind's Go type.
func (k Kind) Tag() stackmap.TypeTag { return k.tag }

func newKind[T any](name string, parse func(string) (T, error), format func(T) string) Kind {
	return Kind{
		name: name,
		tag:  stackmap.TagOf[T](),
		insert: func(m stackmap.Map, raw string) (stackmap.Map, effect, error) {
			v, err := parse(raw)
			if err != nil {
				return m, effect{}, fmt.Errorf("%w: %s %q: %v", ErrInvalidValue, name, raw, err)
			}
			f := stackmap.Insert(m, v)
			if old, ok := f.Old(); ok {
				return f, effect{outcome: OutcomeExisted, value: format(old)}, nil
			}
			return f, effect{outcome: OutcomeFresh, value: format(v)}, nil
		},
		remove: func(m stackmap.Map) (stackmap.Map, effect) {
			f := stackmap.Remove[T](m)
			if v, ok := f.Value(); ok {
				return f, effect{outcome: OutcomeRemoved, value: format(v)}
			}
			return f, effect{outcome: OutcomeNotFound}
		},
		get: func(m stackmap.Map) (string, bool) {
			v, ok := stackmap.Get[T](m)
			if !ok {
				return "", false
			}
			return format(v), true
		},
	}
}

var registry = map[string]Kind{}

func register(k Kind) {
	registry[k.name] = k
}

func init() {
	register(newKind("int", strconv.Atoi, strconv.Itoa))
	register(newKind("string",
		func(s string) (string, error) { return s, nil },
		func(s string) string { return s }))
	register(newKind("bool", strconv.ParseBool, strconv.FormatBool))
	register(newKind("float",
		func(s string) (float64, error) { return strconv.ParseFloat(s, 64) },
		func(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }))
	register(newKind("unit", parseUnit, func(struct{}) string { return "()" }))
	register(newKind("uuid", parseUUID, uuid.UUID.String))
	register(newKind("bytes", hex.DecodeString, hex.EncodeToString))
}

func parseUnit(s string) (struct{}, error) {
	if s != "" && s != "()" {
		return struct{}{}, errors.New("unit takes no value")
	}
	return struct{}{}, nil
}

// parseUUID accepts a UUID string, or "new" for a fresh UUID v7.
func parseUUID(s string) (uuid.UUID, error) {
	if s == "new" {
		return uuid.NewV7()
	}
	return uuid.Parse(s)
}

// Kinds returns the registered kinds sorted by name.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(registry))
	for _, k := range registry {
		kinds = append(kinds, k)
	}
	slices.SortFunc(kinds, func(a, b Kind) int {
		return cmp.Compare(a.name, b.name)
	})
	return kinds
}

// LookupKind returns the kind registered under name.
func LookupKind(name string) (Kind, error) {
	k, ok := registry[name]
	if !ok {
		return Kind{}, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
	return k, nil
}
