package stackmap

import (
	"reflect"
	"time"

	"github.com/mohae/deepcopy"
)

// cloneValue copies v for Clone. Nil values are returned as they are, so a
// Clone method is never called on a nil receiver.
func cloneValue[T any](v T) T {
	if isNil(any(v)) {
		return v
	}
	if c, ok := any(v).(interface{ Clone() T }); ok {
		return c.Clone()
	}
	if !deepCopyable(reflect.TypeOf(any(v)), map[reflect.Type]bool{}) {
		return v
	}
	if c, ok := deepcopy.Copy(v).(T); ok {
		return c
	}
	return v
}

// isNil reports whether v is nil or a nil pointer, map, slice, func, channel
// or interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

var timeType = reflect.TypeFor[time.Time]()

// deepCopyable reports whether deepcopy reproduces every field of t.
// Unexported struct fields would come back zeroed, and interface fields may
// hide them.
func deepCopyable(t reflect.Type, seen map[reflect.Type]bool) bool {
	if t == timeType || seen[t] {
		return true
	}
	seen[t] = true

	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Array:
		return deepCopyable(t.Elem(), seen)
	case reflect.Map:
		return deepCopyable(t.Key(), seen) && deepCopyable(t.Elem(), seen)
	case reflect.Interface:
		return false
	case reflect.Struct:
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() || !deepCopyable(f.Type, seen) {
				return false
			}
		}
	}
	return true
}
