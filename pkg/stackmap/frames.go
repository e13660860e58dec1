package stackmap

import (
	"fmt"
	"iter"
)

// FrameKind classifies a frame in the chain.
type FrameKind int

const (
	FrameEmpty FrameKind = iota
	FrameFresh
	FrameExisted
	FrameNone
	FrameRemoved
	FrameNotFound
)

func (k FrameKind) String() string {
	switch k {
	case FrameEmpty:
		return "empty"
	case FrameFresh:
		return "fresh"
	case FrameExisted:
		return "existed"
	case FrameNone:
		return "none"
	case FrameRemoved:
		return "removed"
	case FrameNotFound:
		return "not_found"
	default:
		return fmt.Sprintf("FrameKind(%d)", int(k))
	}
}

// FrameInfo describes one frame. Tag is the type the frame was created for,
// or NoType for Empty.
type FrameInfo struct {
	Depth int
	Kind  FrameKind
	Tag   TypeTag
}

func (f FrameInfo) String() string {
	if f.Kind == FrameEmpty {
		return f.Kind.String()
	}
	return fmt.Sprintf("%s(%s)", f.Kind, f.Tag)
}

// Frames yields every frame of m from the outermost inward, ending with the
// Empty terminator.
func Frames(m Map) iter.Seq[FrameInfo] {
	return func(yield func(FrameInfo) bool) {
		cur := orEmpty(m)
		for depth := 0; ; depth++ {
			info := cur.frame()
			info.Depth = depth
			if !yield(info) || info.Kind == FrameEmpty {
				return
			}
			cur = cur.Inner()
		}
	}
}
