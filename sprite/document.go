package sprite

import "fmt"

// Document is a layered, animated image document.
type Document struct {
	width  int
	height int
	mode   ColorMode

	frames   []*Frame
	layers   []*Layer // root stack, in sequence order
	tags     []*Tag
	slices   []*Slice
	tilesets []*Tileset
	palette  *Palette
	props    *Properties
}

// NewDocument creates a document with one default frame and one default
// layer, mirroring the host editor's "new sprite" behavior.
func NewDocument(width, height int, mode ColorMode) *Document {
	d := &Document{
		width:  width,
		height: height,
		mode:   mode,
		props:  NewProperties(),
	}
	d.frames = append(d.frames, &Frame{Duration: DefaultFrameDuration})
	d.NewLayer("Layer 1")
	return d
}

// Width returns the canvas width.
func (d *Document) Width() int { return d.width }

// Height returns the canvas height.
func (d *Document) Height() int { return d.height }

// Mode returns the document color mode.
func (d *Document) Mode() ColorMode { return d.mode }

// Properties returns the document's bag for the given namespace.
func (d *Document) Properties(ns string) map[string]any { return d.props.Namespace(ns) }

// Props returns the document's full property set.
func (d *Document) Props() *Properties { return d.props }

// ============================================================
// Frames
// ============================================================

// Frames returns the frame sequence.
func (d *Document) Frames() []*Frame { return d.frames }

// FrameCount returns the number of frames.
func (d *Document) FrameCount() int { return len(d.frames) }

// Frame returns the frame at a 1-based position, or nil.
func (d *Document) Frame(pos int) *Frame {
	if pos < 1 || pos > len(d.frames) {
		return nil
	}
	return d.frames[pos-1]
}

// AppendFrame creates a default-duration frame at the end of the sequence.
// Frames can only ever be appended one past the current end.
func (d *Document) AppendFrame() *Frame {
	f := &Frame{Duration: DefaultFrameDuration}
	d.frames = append(d.frames, f)
	return f
}

// ============================================================
// Layers
// ============================================================

// Layers returns the root layer stack in sequence order.
func (d *Document) Layers() []*Layer { return d.layers }

// NewLayer appends a plain layer to the root stack.
func (d *Document) NewLayer(name string) *Layer {
	return d.appendLayer(name, LayerNormal, nil)
}

// NewGroup appends a group layer to the root stack.
func (d *Document) NewGroup(name string) *Layer {
	return d.appendLayer(name, LayerGroup, nil)
}

// NewTilemapLayer appends a tilemap layer bound to a tileset.
func (d *Document) NewTilemapLayer(name string, ts *Tileset) *Layer {
	return d.appendLayer(name, LayerTilemap, ts)
}

func (d *Document) appendLayer(name string, kind LayerKind, ts *Tileset) *Layer {
	l := &Layer{
		Name:    name,
		Opacity: 255,
		Visible: true,
		kind:    kind,
		doc:     d,
		tileset: ts,
	}
	d.layers = append(d.layers, l)
	return l
}

// RemoveLayer detaches a layer from its container. Used to discard the
// default layer of a freshly created document.
func (d *Document) RemoveLayer(l *Layer) {
	l.detach()
	l.parent = nil
}

// ============================================================
// Tags, slices, tilesets, palette
// ============================================================

// Tags returns the tag list in creation order.
func (d *Document) Tags() []*Tag { return d.tags }

// NewTag creates a tag over an existing inclusive frame range.
func (d *Document) NewTag(from, to int) (*Tag, error) {
	if from < 1 || to < from || to > len(d.frames) {
		return nil, fmt.Errorf("sprite: tag range %d..%d outside 1..%d", from, to, len(d.frames))
	}
	t := &Tag{From: from, To: to}
	d.tags = append(d.tags, t)
	return t, nil
}

// Slices returns the slice list in creation order.
func (d *Document) Slices() []*Slice { return d.slices }

// NewSlice creates a named slice.
func (d *Document) NewSlice(name string) *Slice {
	s := &Slice{Name: name}
	d.slices = append(d.slices, s)
	return s
}

// Tilesets returns the tileset list in creation order.
func (d *Document) Tilesets() []*Tileset { return d.tilesets }

// NewTileset creates an empty tileset with the given grid geometry.
func (d *Document) NewTileset(g Grid) *Tileset {
	ts := &Tileset{grid: g}
	d.tilesets = append(d.tilesets, ts)
	return ts
}

// Palette returns the document palette, or nil.
func (d *Document) Palette() *Palette { return d.palette }

// SetPalette replaces the document palette.
func (d *Document) SetPalette(p *Palette) { d.palette = p }
