package sprite

// DefaultFrameDuration is the duration in milliseconds assigned to newly
// appended frames.
const DefaultFrameDuration = 100

// Frame is one animation frame. Its position is its 1-based index in the
// document's frame sequence.
type Frame struct {
	Duration int // milliseconds

	props *Properties
}

// Properties returns the frame's bag for the given namespace.
func (f *Frame) Properties(ns string) map[string]any { return f.Props().Namespace(ns) }

// Props returns the frame's full property set.
func (f *Frame) Props() *Properties {
	if f.props == nil {
		f.props = NewProperties()
	}
	return f.props
}

// AniDir is a tag's playback direction.
type AniDir uint8

const (
	Forward AniDir = iota
	Reverse
	PingPong
	PingPongReverse
)

// Tag names an inclusive frame range.
type Tag struct {
	Name      string
	From      int // 1-based
	To        int // 1-based, >= From
	Direction AniDir
	Repeats   int

	props *Properties
}

// Properties returns the tag's bag for the given namespace.
func (t *Tag) Properties(ns string) map[string]any { return t.Props().Namespace(ns) }

// Props returns the tag's full property set.
func (t *Tag) Props() *Properties {
	if t.props == nil {
		t.props = NewProperties()
	}
	return t.props
}

// Slice is a named region with optional 9-slice center and pivot.
type Slice struct {
	Name   string
	Bounds Rect
	Center Rect
	Pivot  Point

	props *Properties
}

// Properties returns the slice's bag for the given namespace.
func (s *Slice) Properties(ns string) map[string]any { return s.Props().Namespace(ns) }

// Props returns the slice's full property set.
func (s *Slice) Props() *Properties {
	if s.props == nil {
		s.props = NewProperties()
	}
	return s.props
}
