package snap

import (
	"github.com/Tessella/spritevault/sprite"
)

// ============================================================
// Plain value codecs
// ============================================================

var (
	pointFields = []string{"X", "Y"}
	sizeFields  = []string{"W", "H"}
	rectFields  = []string{"X", "Y", "W", "H"}
	gridFields  = []string{"Origin", "TileSize"}
)

type pointCodec struct{}

func (pointCodec) Tag() string { return "point" }

func (pointCodec) Matches(v any) bool {
	_, ok := v.(sprite.Point)
	return ok
}

func (pointCodec) Encode(v any, ctx *Context) (*Node, error) {
	return encodeFields(v, pointFields, ctx)
}

func (pointCodec) Decode(data *Node, ctx *Context) (any, error) {
	var p sprite.Point
	err := decodeFields(data, &p, pointFields, ctx)
	return p, err
}

type sizeCodec struct{}

func (sizeCodec) Tag() string { return "size" }

func (sizeCodec) Matches(v any) bool {
	_, ok := v.(sprite.Size)
	return ok
}

func (sizeCodec) Encode(v any, ctx *Context) (*Node, error) {
	return encodeFields(v, sizeFields, ctx)
}

func (sizeCodec) Decode(data *Node, ctx *Context) (any, error) {
	var s sprite.Size
	err := decodeFields(data, &s, sizeFields, ctx)
	return s, err
}

type rectCodec struct{}

func (rectCodec) Tag() string { return "rect" }

func (rectCodec) Matches(v any) bool {
	_, ok := v.(sprite.Rect)
	return ok
}

func (rectCodec) Encode(v any, ctx *Context) (*Node, error) {
	return encodeFields(v, rectFields, ctx)
}

func (rectCodec) Decode(data *Node, ctx *Context) (any, error) {
	var r sprite.Rect
	err := decodeFields(data, &r, rectFields, ctx)
	return r, err
}

type gridCodec struct{}

func (gridCodec) Tag() string { return "grid" }

func (gridCodec) Matches(v any) bool {
	_, ok := v.(sprite.Grid)
	return ok
}

func (gridCodec) Encode(v any, ctx *Context) (*Node, error) {
	return encodeFields(v, gridFields, ctx)
}

func (gridCodec) Decode(data *Node, ctx *Context) (any, error) {
	var g sprite.Grid
	err := decodeFields(data, &g, gridFields, ctx)
	return g, err
}

// colorCodec stores a color as its packed 32-bit pixel integer.
type colorCodec struct{}

func (colorCodec) Tag() string { return "color" }

func (colorCodec) Matches(v any) bool {
	_, ok := v.(sprite.Color)
	return ok
}

func (colorCodec) Encode(v any, ctx *Context) (*Node, error) {
	return Int(int64(v.(sprite.Color).Packed())), nil
}

func (colorCodec) Decode(data *Node, ctx *Context) (any, error) {
	packed, err := data.AsInt()
	if err != nil {
		return nil, err
	}
	return sprite.Color(uint32(packed)), nil
}
