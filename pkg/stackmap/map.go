package stackmap

import (
	"iter"
	"strings"
)

// Map is a container state: Empty, *Inserted[T] or *Removed[T].
// The interface is sealed; only this package implements it.
type Map interface {
	// Inner unwraps one frame, dropping its payload. Empty returns itself.
	Inner() Map

	// Len returns the number of live values.
	Len() int

	// IsEmpty reports whether Len is zero.
	IsEmpty() bool

	// TypeTagAt returns the tag of the fresh-insert frame at depth, counting
	// the outermost frame as 0. It returns NoType if the frame at depth is
	// any other kind of frame or depth is past the end of the chain.
	TypeTagAt(depth int) TypeTag

	// TypeTags yields TypeTagAt(0), TypeTagAt(1), ... up to the first
	// NoType. Only the outermost run of fresh-insert frames is reported.
	TypeTags() iter.Seq[TypeTag]

	// Clear drops every frame.
	Clear() Empty

	// Clone returns an independent copy of the whole chain. Values that
	// implement Clone() T are copied through it. Others are deep-copied by
	// reflection when every field is exported, and copied by assignment
	// otherwise; such types should implement Clone.
	Clone() Map

	String() string

	// slot returns the live *T cell for tag, or nil.
	slot(tag TypeTag) any
	// take returns a copy of the chain with the live cell for tag detached,
	// and that cell. It returns (nil, nil) when no cell matches.
	take(tag TypeTag) (Map, any)
	// frame describes this frame; Depth is left zero.
	frame() FrameInfo
}

// Empty is the container with no values. Its zero value is ready to use.
type Empty struct{}

var _ Map = Empty{}

func (Empty) Inner() Map { return Empty{} }
func (Empty) Len() int { return 0 }
func (Empty) IsEmpty() bool { return true }
func (Empty) TypeTagAt(int) TypeTag { return NoType }
func (e Empty) TypeTags() iter.Seq[TypeTag] { return typeTags(e) }
func (Empty) Clear() Empty { return Empty{} }
func (Empty) Clone() Map { return Empty{} }
func (e Empty) String() string { return render(e) }

func (Empty) slot(TypeTag) any { return nil }
func (Empty) take(TypeTag) (Map, any) { return nil, nil }
func (Empty) frame() FrameInfo { return FrameInfo{Kind: FrameEmpty} }

// Get returns the value of type T held by m.
func Get[T any](m Map) (T, bool) {
	if p := lookup[T](m); p != nil {
		return *p, true
	}
	var zero T
	return zero, false
}

// GetMut returns a pointer to the live value of type T held by m. Writes
// through the pointer change the value without changing the chain.
func GetMut[T any](m Map) (*T, bool) {
	p := lookup[T](m)
	return p, p != nil
}

// Contains reports whether m holds a value of type T.
func Contains[T any](m Map) bool {
	return lookup[T](m) != nil
}

func lookup[T any](m Map) *T {
	tag := TagOf[T]()
	s := orEmpty(m).slot(tag)
	if s == nil {
		return nil
	}
	p, ok := s.(*T)
	if !ok {
		slotMismatch(tag, s)
		return nil
	}
	return p
}

func orEmpty(m Map) Map {
	if m == nil {
		return Empty{}
	}
	return m
}

func typeTags(m Map) iter.Seq[TypeTag] {
	return func(yield func(TypeTag) bool) {
		for depth := 0; ; depth++ {
			tag := m.TypeTagAt(depth)
			if tag.IsNone() || !yield(tag) {
				return
			}
		}
	}
}

// render formats the chain outermost first, e.g. "fresh(int) > empty".
func render(m Map) string {
	var sb strings.Builder
	for f := range Frames(m) {
		if f.Depth > 0 {
			sb.WriteString(" > ")
		}
		sb.WriteString(f.String())
	}
	return sb.String()
}
