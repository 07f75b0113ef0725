package snap

import (
	"fmt"
	"path/filepath"

	"github.com/Tessella/spritevault/sprite"
)

// paletteCodec serializes the document palette. During store the color
// list moves to a palette-<frame>.gpl sidecar.
type paletteCodec struct{}

func (paletteCodec) Tag() string { return "palette" }

func (paletteCodec) Matches(v any) bool {
	_, ok := v.(*sprite.Palette)
	return ok
}

func (paletteCodec) Encode(v any, ctx *Context) (*Node, error) {
	p := v.(*sprite.Palette)
	colors := List()
	for _, c := range p.Colors {
		colors.Append(Int(int64(c.Packed())))
	}
	return Map(
		Field("frame", Int(int64(p.Frame))),
		Field("colors", colors),
	), nil
}

func (paletteCodec) Decode(data *Node, ctx *Context) (any, error) {
	frame, err := data.GetInt("frame")
	if err != nil {
		return nil, err
	}
	colorsNode := data.Get("colors")
	if colorsNode.Kind() == KindRef {
		return nil, fmt.Errorf("spritevault: palette payload %s was never re-inflated", colorsNode.refVal)
	}
	items, err := colorsNode.AsList()
	if err != nil {
		return nil, err
	}
	p := &sprite.Palette{Frame: int(frame)}
	for i, item := range items {
		packed, err := item.AsInt()
		if err != nil {
			return nil, fmt.Errorf("color %d: %w", i, err)
		}
		p.Colors = append(p.Colors, sprite.Color(uint32(packed)))
	}
	return p, nil
}

func (paletteCodec) sidecarName(data *Node) (string, error) {
	frame, err := data.GetInt("frame")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("palette-%d.gpl", frame), nil
}

func (c paletteCodec) Externalize(data *Node, dir string) error {
	colorsNode := data.Get("colors")
	if colorsNode.Kind() != KindList {
		return nil // already externalized
	}
	name, err := c.sidecarName(data)
	if err != nil {
		return err
	}
	items, _ := colorsNode.AsList()
	p := &sprite.Palette{}
	for _, item := range items {
		packed, err := item.AsInt()
		if err != nil {
			return err
		}
		p.Colors = append(p.Colors, sprite.Color(uint32(packed)))
	}
	if err := saveGPLAtomic(p, filepath.Join(dir, name)); err != nil {
		return err
	}
	data.Set("colors", NewRef("file", name))
	return nil
}

func (c paletteCodec) Reinflate(data *Node, dir string) error {
	colorsNode := data.Get("colors")
	if colorsNode.Kind() != KindRef {
		return nil
	}
	ref := colorsNode.refVal
	if ref.Prefix != "file" {
		return fmt.Errorf("spritevault: palette payload has non-file reference %q", ref)
	}
	p, err := sprite.LoadGPL(filepath.Join(dir, ref.Value))
	if err != nil {
		return err
	}
	colors := List()
	for _, c := range p.Colors {
		colors.Append(Int(int64(c.Packed())))
	}
	data.Set("colors", colors)
	return nil
}
