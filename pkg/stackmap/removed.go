package stackmap

import "iter"

// RemoveOutcome says whether a remove found its value.
type RemoveOutcome int

const (
	// RemoveFound means the value was extracted; the frame carries it.
	RemoveFound RemoveOutcome = iota
	// RemoveNotFound means the container held no value of the type.
	RemoveNotFound
)

func (o RemoveOutcome) String() string {
	switch o {
	case RemoveFound:
		return "removed"
	case RemoveNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Removed is the frame returned by Remove. On RemoveFound it wraps the
// remainder of the container, which no longer holds the value.
type Removed[T any] struct {
	outcome RemoveOutcome
	inner   Map
	value   T
}

var _ Map = (*Removed[int])(nil)

// Remove extracts the value of type T from m. The whole chain is searched.
// m must not be used after the call.
func Remove[T any](m Map) *Removed[T] {
	m = orEmpty(m)
	tag := TagOf[T]()
	rest, s := m.take(tag)
	if s == nil {
		return &Removed[T]{outcome: RemoveNotFound, inner: m}
	}
	p, ok := s.(*T)
	if !ok {
		slotMismatch(tag, s)
		return &Removed[T]{outcome: RemoveNotFound, inner: m}
	}
	return &Removed[T]{outcome: RemoveFound, inner: rest, value: *p}
}

// Outcome reports whether the value was found.
func (f *Removed[T]) Outcome() RemoveOutcome {
	return f.outcome
}

// Value returns the extracted value.
func (f *Removed[T]) Value() (T, bool) {
	if f.outcome != RemoveFound {
		var zero T
		return zero, false
	}
	return f.value, true
}

func (f *Removed[T]) Inner() Map {
	return f.inner
}

func (f *Removed[T]) Len() int {
	return f.inner.Len()
}

func (f *Removed[T]) IsEmpty() bool {
	return f.Len() == 0
}

func (f *Removed[T]) TypeTagAt(depth int) TypeTag {
	if depth <= 0 {
		return NoType
	}
	return f.inner.TypeTagAt(depth - 1)
}

func (f *Removed[T]) TypeTags() iter.Seq[TypeTag] {
	return typeTags(f)
}

func (f *Removed[T]) Clear() Empty {
	return Empty{}
}

func (f *Removed[T]) Clone() Map {
	c := &Removed[T]{outcome: f.outcome, inner: f.inner.Clone()}
	if f.outcome == RemoveFound {
		c.value = cloneValue(f.value)
	}
	return c
}

func (f *Removed[T]) String() string {
	return render(f)
}

func (f *Removed[T]) slot(tag TypeTag) any {
	return f.inner.slot(tag)
}

func (f *Removed[T]) take(tag TypeTag) (Map, any) {
	rest, s := f.inner.take(tag)
	if s == nil {
		return nil, nil
	}
	c := *f
	c.inner = rest
	return &c, s
}

func (f *Removed[T]) frame() FrameInfo {
	info := FrameInfo{Kind: FrameRemoved, Tag: TagOf[T]()}
	if f.outcome == RemoveNotFound {
		info.Kind = FrameNotFound
	}
	return info
}
