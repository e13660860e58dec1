package stackmap

import "iter"

// InsertOutcome says what an insert frame records.
type InsertOutcome int

const (
	// InsertFresh means the type was not present; the frame holds the value.
	InsertFresh InsertOutcome = iota
	// InsertExisted means the type was present. The new value was written
	// into the existing slot and the frame carries the displaced value.
	InsertExisted
	// InsertNone means the frame holds nothing. A fresh frame becomes one
	// when a later Remove extracts its value.
	InsertNone
)

func (o InsertOutcome) String() string {
	switch o {
	case InsertFresh:
		return "fresh"
	case InsertExisted:
		return "existed"
	case InsertNone:
		return "none"
	default:
		return "unknown"
	}
}

// Inserted is the frame returned by Insert.
type Inserted[T any] struct {
	outcome InsertOutcome
	inner   Map
	value   *T // live slot, InsertFresh only
	old     T  // displaced value, InsertExisted only
}

var _ Map = (*Inserted[int])(nil)

// Insert stores value in m and returns the new container. If m already holds
// a T, that value is replaced in place and returned by Old on the result.
// m must not be used after the call.
func Insert[T any](m Map, value T) *Inserted[T] {
	m = orEmpty(m)
	if p := lookup[T](m); p != nil {
		old := *p
		*p = value
		return &Inserted[T]{outcome: InsertExisted, inner: m, old: old}
	}
	return &Inserted[T]{outcome: InsertFresh, inner: m, value: &value}
}

// Outcome reports whether the insert was fresh or an overwrite.
func (f *Inserted[T]) Outcome() InsertOutcome {
	return f.outcome
}

// Old returns the value displaced by an overwrite.
func (f *Inserted[T]) Old() (T, bool) {
	if f.outcome != InsertExisted {
		var zero T
		return zero, false
	}
	return f.old, true
}

// Value returns the value held by a fresh frame.
func (f *Inserted[T]) Value() (T, bool) {
	if f.outcome != InsertFresh {
		var zero T
		return zero, false
	}
	return *f.value, true
}

func (f *Inserted[T]) Inner() Map {
	return f.inner
}

func (f *Inserted[T]) Len() int {
	if f.outcome == InsertFresh {
		return f.inner.Len() + 1
	}
	return f.inner.Len()
}

func (f *Inserted[T]) IsEmpty() bool {
	return f.Len() == 0
}

func (f *Inserted[T]) TypeTagAt(depth int) TypeTag {
	switch {
	case depth < 0:
		return NoType
	case depth > 0:
		return f.inner.TypeTagAt(depth - 1)
	case f.outcome == InsertFresh:
		return TagOf[T]()
	default:
		return NoType
	}
}

func (f *Inserted[T]) TypeTags() iter.Seq[TypeTag] {
	return typeTags(f)
}

func (f *Inserted[T]) Clear() Empty {
	return Empty{}
}

func (f *Inserted[T]) Clone() Map {
	c := &Inserted[T]{outcome: f.outcome, inner: f.inner.Clone()}
	switch f.outcome {
	case InsertFresh:
		v := cloneValue(*f.value)
		c.value = &v
	case InsertExisted:
		c.old = cloneValue(f.old)
	}
	return c
}

func (f *Inserted[T]) String() string {
	return render(f)
}

func (f *Inserted[T]) slot(tag TypeTag) any {
	if f.outcome == InsertFresh && tag == TagOf[T]() {
		return f.value
	}
	return f.inner.slot(tag)
}

func (f *Inserted[T]) take(tag TypeTag) (Map, any) {
	if f.outcome == InsertFresh && tag == TagOf[T]() {
		return &Inserted[T]{outcome: InsertNone, inner: f.inner}, f.value
	}
	rest, s := f.inner.take(tag)
	if s == nil {
		return nil, nil
	}
	c := *f
	c.inner = rest
	return &c, s
}

func (f *Inserted[T]) frame() FrameInfo {
	info := FrameInfo{Tag: TagOf[T]()}
	switch f.outcome {
	case InsertFresh:
		info.Kind = FrameFresh
	case InsertExisted:
		info.Kind = FrameExisted
	default:
		info.Kind = FrameNone
	}
	return info
}
