package snap

import (
	"fmt"

	"github.com/Tessella/spritevault/sprite"
)

// ============================================================
// Frame / tag / slice codecs
// ============================================================

var (
	frameFields = []string{"Duration"}
	tagFields   = []string{"Name", "From", "To", "Direction", "Repeats"}
	sliceFields = []string{"Name", "Bounds", "Center", "Pivot"}
)

// frameCodec serializes one frame. The document assembler stamps the
// 1-based "position" field into each frame envelope, since a frame does
// not know its own index.
type frameCodec struct{}

func (frameCodec) Tag() string { return "frame" }

func (frameCodec) Matches(v any) bool {
	_, ok := v.(*sprite.Frame)
	return ok
}

func (frameCodec) Encode(v any, ctx *Context) (*Node, error) {
	f := v.(*sprite.Frame)
	data, err := encodeFields(f, frameFields, ctx)
	if err != nil {
		return nil, err
	}
	if err := encodeProps(data, f.Props(), ctx); err != nil {
		return nil, err
	}
	return data, nil
}

func (frameCodec) Decode(data *Node, ctx *Context) (any, error) {
	var frame *sprite.Frame
	if ctx.Doc != nil {
		pos, err := data.GetInt("position")
		if err != nil {
			return nil, err
		}
		frame = ctx.Doc.Frame(int(pos))
		if frame == nil {
			return nil, fmt.Errorf("spritevault: frame position %d not present in document", pos)
		}
	} else {
		frame = &sprite.Frame{Duration: sprite.DefaultFrameDuration}
	}
	if err := decodeFields(data, frame, frameFields, ctx); err != nil {
		return nil, err
	}
	if err := decodeProps(data, frame.Props(), ctx); err != nil {
		return nil, err
	}
	return frame, nil
}

type tagCodec struct{}

func (tagCodec) Tag() string { return "tag" }

func (tagCodec) Matches(v any) bool {
	_, ok := v.(*sprite.Tag)
	return ok
}

func (tagCodec) Encode(v any, ctx *Context) (*Node, error) {
	t := v.(*sprite.Tag)
	data, err := encodeFields(t, tagFields, ctx)
	if err != nil {
		return nil, err
	}
	if err := encodeProps(data, t.Props(), ctx); err != nil {
		return nil, err
	}
	return data, nil
}

func (tagCodec) Decode(data *Node, ctx *Context) (any, error) {
	var tag *sprite.Tag
	if ctx.Doc != nil {
		from, err := data.GetInt("from")
		if err != nil {
			return nil, err
		}
		to, err := data.GetInt("to")
		if err != nil {
			return nil, err
		}
		tag, err = ctx.Doc.NewTag(int(from), int(to))
		if err != nil {
			return nil, err
		}
	} else {
		tag = &sprite.Tag{}
	}
	if err := decodeFields(data, tag, tagFields, ctx); err != nil {
		return nil, err
	}
	if err := decodeProps(data, tag.Props(), ctx); err != nil {
		return nil, err
	}
	return tag, nil
}

type sliceCodec struct{}

func (sliceCodec) Tag() string { return "slice" }

func (sliceCodec) Matches(v any) bool {
	_, ok := v.(*sprite.Slice)
	return ok
}

func (sliceCodec) Encode(v any, ctx *Context) (*Node, error) {
	s := v.(*sprite.Slice)
	data, err := encodeFields(s, sliceFields, ctx)
	if err != nil {
		return nil, err
	}
	if err := encodeProps(data, s.Props(), ctx); err != nil {
		return nil, err
	}
	return data, nil
}

func (sliceCodec) Decode(data *Node, ctx *Context) (any, error) {
	var slice *sprite.Slice
	if ctx.Doc != nil {
		name, err := data.GetStr("name")
		if err != nil {
			return nil, err
		}
		slice = ctx.Doc.NewSlice(name)
	} else {
		slice = &sprite.Slice{}
	}
	if err := decodeFields(data, slice, sliceFields, ctx); err != nil {
		return nil, err
	}
	if err := decodeProps(data, slice.Props(), ctx); err != nil {
		return nil, err
	}
	return slice, nil
}
