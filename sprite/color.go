package sprite

import "fmt"

// ColorMode identifies the pixel format of a document or image.
type ColorMode uint8

const (
	ModeRGB ColorMode = iota
	ModeGrayscale
	ModeIndexed
	ModeTilemap
)

// String returns the color mode name.
func (m ColorMode) String() string {
	switch m {
	case ModeRGB:
		return "rgb"
	case ModeGrayscale:
		return "grayscale"
	case ModeIndexed:
		return "indexed"
	case ModeTilemap:
		return "tilemap"
	default:
		return "unknown"
	}
}

// BytesPerPixel returns the pixel stride for the mode.
// Tilemap cells are 32-bit tile indices.
func (m ColorMode) BytesPerPixel() int {
	switch m {
	case ModeRGB:
		return 4
	case ModeGrayscale:
		return 2
	case ModeIndexed:
		return 1
	case ModeTilemap:
		return 4
	default:
		return 0
	}
}

// Color is a packed 32-bit RGBA pixel value, laid out as
// A<<24 | B<<16 | G<<8 | R.
type Color uint32

// RGBA builds a color from its components.
func RGBA(r, g, b, a uint8) Color {
	return Color(uint32(a)<<24 | uint32(b)<<16 | uint32(g)<<8 | uint32(r))
}

// R returns the red component.
func (c Color) R() uint8 { return uint8(c) }

// G returns the green component.
func (c Color) G() uint8 { return uint8(c >> 8) }

// B returns the blue component.
func (c Color) B() uint8 { return uint8(c >> 16) }

// A returns the alpha component.
func (c Color) A() uint8 { return uint8(c >> 24) }

// Packed returns the raw packed pixel value.
func (c Color) Packed() uint32 { return uint32(c) }

// String returns the color as "rgba(r,g,b,a)".
func (c Color) String() string {
	return fmt.Sprintf("rgba(%d,%d,%d,%d)", c.R(), c.G(), c.B(), c.A())
}
