package snap

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Tessella/spritevault/sprite"
)

// documentCodec is the top-level assembler. It owns the one resource
// table for an entire document pass and orders sub-serializations so that
// reconstruction preconditions hold: frames exist before cels and tags
// reference them, groups exist before their children attach.
type documentCodec struct{}

func (documentCodec) Tag() string { return "document" }

func (documentCodec) Matches(v any) bool {
	_, ok := v.(*sprite.Document)
	return ok
}

func (documentCodec) Encode(v any, ctx *Context) (*Node, error) {
	doc := v.(*sprite.Document)
	if ctx.Resources == nil {
		ctx.Resources = NewResourceTable()
	}

	data := Map(
		Field("width", Int(int64(doc.Width()))),
		Field("height", Int(int64(doc.Height()))),
		Field("colorMode", Int(int64(doc.Mode()))),
	)

	frames := List()
	for i, f := range doc.Frames() {
		env, err := Serialize(f, ctx)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i+1, err)
		}
		env.Data().Set("position", Int(int64(i+1)))
		frames.Append(env)
	}
	data.Set("frames", frames)

	tags := List()
	for _, t := range doc.Tags() {
		env, err := Serialize(t, ctx)
		if err != nil {
			return nil, fmt.Errorf("tag %q: %w", t.Name, err)
		}
		tags.Append(env)
	}
	data.Set("tags", tags)

	slices := List()
	for _, s := range doc.Slices() {
		env, err := Serialize(s, ctx)
		if err != nil {
			return nil, fmt.Errorf("slice %q: %w", s.Name, err)
		}
		slices.Append(env)
	}
	data.Set("slices", slices)

	// Layers populate the shared resource table as they recurse.
	layers := List()
	for _, l := range doc.Layers() {
		env, err := Serialize(l, ctx)
		if err != nil {
			return nil, fmt.Errorf("layer %q: %w", l.Name, err)
		}
		layers.Append(env)
	}
	data.Set("layers", layers)
	data.Set("images", ctx.Resources.Node())

	if doc.Palette() != nil {
		env, err := Serialize(doc.Palette(), ctx)
		if err != nil {
			return nil, err
		}
		data.Set("palette", env)
	} else {
		data.Set("palette", Null())
	}

	if err := encodeProps(data, doc.Props(), ctx); err != nil {
		return nil, err
	}

	ctx.Log.Debug("encoded document",
		zap.Int("frames", doc.FrameCount()),
		zap.Int("layers", len(doc.Layers())),
		zap.Int("resources", ctx.Resources.Len()))
	return data, nil
}

func (documentCodec) Decode(data *Node, ctx *Context) (any, error) {
	width, err := data.GetInt("width")
	if err != nil {
		return nil, err
	}
	height, err := data.GetInt("height")
	if err != nil {
		return nil, err
	}
	mode, err := data.GetInt("colorMode")
	if err != nil {
		return nil, err
	}

	// Shell: fresh document, default layer discarded.
	doc := sprite.NewDocument(int(width), int(height), sprite.ColorMode(mode))
	doc.RemoveLayer(doc.Layers()[0])

	dctx := ctx.child()
	dctx.Doc = doc
	dctx.Resources, err = ResourceTableFromNode(data.Get("images"))
	if err != nil {
		return nil, err
	}

	// Back-fill: frames can only be appended one past the current end, so
	// every position up to the highest referenced one must exist before
	// durations, tags and cels apply.
	target, err := highestFramePosition(data)
	if err != nil {
		return nil, err
	}
	for doc.FrameCount() < target {
		doc.AppendFrame()
	}

	frameEnvs, err := data.GetList("frames")
	if err != nil {
		return nil, err
	}
	for _, env := range frameEnvs {
		if _, err := Deserialize(env, dctx); err != nil {
			return nil, err
		}
	}

	tagEnvs, err := data.GetList("tags")
	if err != nil {
		return nil, err
	}
	for _, env := range tagEnvs {
		if _, err := Deserialize(env, dctx); err != nil {
			return nil, err
		}
	}

	sliceEnvs, err := data.GetList("slices")
	if err != nil {
		return nil, err
	}
	for _, env := range sliceEnvs {
		if _, err := Deserialize(env, dctx); err != nil {
			return nil, err
		}
	}

	layerEnvs, err := data.GetList("layers")
	if err != nil {
		return nil, err
	}
	for _, env := range layerEnvs {
		if _, err := Deserialize(env, dctx); err != nil {
			return nil, err
		}
	}

	if pal := data.Get("palette"); !pal.IsNull() {
		v, err := Deserialize(pal, dctx)
		if err != nil {
			return nil, err
		}
		p, ok := v.(*sprite.Palette)
		if !ok {
			return nil, fmt.Errorf("spritevault: palette field decoded to %T", v)
		}
		doc.SetPalette(p)
	}

	if err := decodeProps(data, doc.Props(), dctx); err != nil {
		return nil, err
	}

	ctx.Log.Debug("decoded document",
		zap.Int("frames", doc.FrameCount()),
		zap.Int("layers", len(doc.Layers())),
		zap.Int("resources", dctx.Resources.Len()))
	return doc, nil
}

// highestFramePosition scans the encoded tree for every 1-based frame
// reference: frame positions, tag ranges and cel frames.
func highestFramePosition(data *Node) (int, error) {
	max := 0
	note := func(n *Node) {
		if n != nil && n.Kind() == KindInt && int(n.intVal) > max {
			max = int(n.intVal)
		}
	}
	err := Walk(data, func(tag string, d *Node) error {
		switch tag {
		case "frame":
			note(d.Get("position"))
		case "tag":
			note(d.Get("to"))
		case "cel":
			note(d.Get("frame"))
		}
		return nil
	})
	return max, err
}
