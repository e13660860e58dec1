package stackmap

import "reflect"

// TypeTag identifies a Go type. Tags are comparable with ==.
// The zero TypeTag is NoType.
type TypeTag struct {
	t reflect.Type
}

// NoType is the sentinel tag. No Go type maps to it.
var NoType TypeTag

// TagOf returns the tag for T.
func TagOf[T any]() TypeTag {
	return TypeTag{t: reflect.TypeFor[T]()}
}

// IsNone reports whether t is the sentinel.
func (t TypeTag) IsNone() bool {
	return t.t == nil
}

// Type returns the reflect.Type behind t, or nil for NoType.
func (t TypeTag) Type() reflect.Type {
	return t.t
}

func (t TypeTag) String() string {
	if t.t == nil {
		return "<none>"
	}
	return t.t.String()
}
