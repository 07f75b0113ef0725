package sprite

import "fmt"

// Point is a 2D integer coordinate.
type Point struct {
	X int
	Y int
}

// String returns the point as "(x,y)".
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Size is a 2D integer extent.
type Size struct {
	W int
	H int
}

// String returns the size as "WxH".
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.W, s.H)
}

// Rect is an axis-aligned integer rectangle.
type Rect struct {
	X int
	Y int
	W int
	H int
}

// String returns the rectangle as "(x,y WxH)".
func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}

// IsEmpty returns true if the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.W <= 0 || r.H <= 0
}

// Grid describes a tileset's tile geometry.
type Grid struct {
	Origin   Point
	TileSize Size
}
