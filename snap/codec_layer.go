package snap

import (
	"fmt"

	"github.com/Tessella/spritevault/sprite"
)

var (
	celFields   = []string{"Frame", "Position", "Opacity", "ZIndex"}
	layerFields = []string{"Name", "Opacity", "Blend", "Visible"}
)

// celCodec serializes one cel. The image is never inlined: it is
// deduplicated through the pass's resource table and stored as a "res:"
// reference, so cels sharing a linked image encode it exactly once.
type celCodec struct{}

func (celCodec) Tag() string { return "cel" }

func (celCodec) Matches(v any) bool {
	_, ok := v.(*sprite.Cel)
	return ok
}

func (celCodec) Encode(v any, ctx *Context) (*Node, error) {
	cel := v.(*sprite.Cel)
	data, err := encodeFields(cel, celFields, ctx)
	if err != nil {
		return nil, err
	}
	ref, err := encodeImageRef(cel.Image, ctx)
	if err != nil {
		return nil, err
	}
	data.Set("image", ref)
	if err := encodeProps(data, cel.Props(), ctx); err != nil {
		return nil, err
	}
	return data, nil
}

func (celCodec) Decode(data *Node, ctx *Context) (any, error) {
	if ctx.Layer == nil {
		return nil, fmt.Errorf("spritevault: cel decode needs a target layer")
	}
	frame, err := data.GetInt("frame")
	if err != nil {
		return nil, err
	}
	img, err := resolveImageRef(data.Get("image"), ctx)
	if err != nil {
		return nil, err
	}
	cel, err := ctx.Layer.NewCel(int(frame), img)
	if err != nil {
		return nil, err
	}
	if err := decodeFields(data, cel, celFields, ctx); err != nil {
		return nil, err
	}
	if err := decodeProps(data, cel.Props(), ctx); err != nil {
		return nil, err
	}
	return cel, nil
}

// layerCodec is the tree codec for the three layer variants. A decoded
// layer passes through the states created (document factory, appended at
// the root), populated (fields, cels, children) and attached (children
// re-parented in encoded order). Attachment is explicit because the
// factory only ever appends; it never creates "at" a parent.
type layerCodec struct{}

func (layerCodec) Tag() string { return "layer" }

func (layerCodec) Matches(v any) bool {
	_, ok := v.(*sprite.Layer)
	return ok
}

func (layerCodec) Encode(v any, ctx *Context) (*Node, error) {
	l := v.(*sprite.Layer)
	data := Map(Field("kind", Str(l.Kind().String())))
	fields, err := encodeFields(l, layerFields, ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range fields.mapVal {
		data.Set(e.Key, e.Value)
	}

	switch l.Kind() {
	case sprite.LayerGroup:
		children := List()
		for _, child := range l.Children() {
			env, err := Serialize(child, ctx)
			if err != nil {
				return nil, fmt.Errorf("layer %q: %w", child.Name, err)
			}
			children.Append(env)
		}
		data.Set("children", children)

	case sprite.LayerTilemap:
		tsEnv, err := Serialize(l.Tileset(), ctx)
		if err != nil {
			return nil, fmt.Errorf("layer %q tileset: %w", l.Name, err)
		}
		data.Set("tileset", tsEnv)
		if err := encodeCels(data, l, ctx); err != nil {
			return nil, err
		}

	default:
		if err := encodeCels(data, l, ctx); err != nil {
			return nil, err
		}
	}

	if err := encodeProps(data, l.Props(), ctx); err != nil {
		return nil, err
	}
	return data, nil
}

func encodeCels(data *Node, l *sprite.Layer, ctx *Context) error {
	cels := List()
	for _, cel := range l.Cels() {
		env, err := Serialize(cel, ctx)
		if err != nil {
			return fmt.Errorf("layer %q frame %d: %w", l.Name, cel.Frame, err)
		}
		cels.Append(env)
	}
	data.Set("cels", cels)
	return nil
}

func (layerCodec) Decode(data *Node, ctx *Context) (any, error) {
	if ctx.Doc == nil {
		return nil, fmt.Errorf("spritevault: layer decode needs a target document")
	}
	kind, err := data.GetStr("kind")
	if err != nil {
		return nil, err
	}

	// Created: the factory appends the new layer at the root stack.
	var l *sprite.Layer
	switch kind {
	case sprite.LayerNormal.String():
		l = ctx.Doc.NewLayer("")
	case sprite.LayerGroup.String():
		l = ctx.Doc.NewGroup("")
	case sprite.LayerTilemap.String():
		v, err := Deserialize(data.Get("tileset"), ctx)
		if err != nil {
			return nil, err
		}
		ts, ok := v.(*sprite.Tileset)
		if !ok {
			return nil, fmt.Errorf("spritevault: tileset field decoded to %T", v)
		}
		l = ctx.Doc.NewTilemapLayer("", ts)
	default:
		return nil, fmt.Errorf("spritevault: unknown layer kind %q", kind)
	}

	// Populated: plain fields, properties, cels.
	if err := decodeFields(data, l, layerFields, ctx); err != nil {
		return nil, err
	}
	if err := decodeProps(data, l.Props(), ctx); err != nil {
		return nil, err
	}
	celEnvs, err := data.GetList("cels")
	if err != nil {
		return nil, err
	}
	celCtx := ctx.child()
	celCtx.Layer = l
	for _, env := range celEnvs {
		if _, err := Deserialize(env, celCtx); err != nil {
			return nil, fmt.Errorf("layer %q: %w", l.Name, err)
		}
	}

	// Attached: children are decoded free-standing at the root, then
	// explicitly re-parented in encoded order.
	childEnvs, err := data.GetList("children")
	if err != nil {
		return nil, err
	}
	for _, env := range childEnvs {
		v, err := Deserialize(env, ctx)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", l.Name, err)
		}
		child, ok := v.(*sprite.Layer)
		if !ok {
			return nil, fmt.Errorf("spritevault: group child decoded to %T", v)
		}
		if err := child.SetParent(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}
