package sprite

import "fmt"

// LayerKind discriminates the layer variants.
type LayerKind uint8

const (
	LayerNormal LayerKind = iota
	LayerGroup
	LayerTilemap
)

// String returns the kind name.
func (k LayerKind) String() string {
	switch k {
	case LayerNormal:
		return "layer"
	case LayerGroup:
		return "group"
	case LayerTilemap:
		return "tilemap"
	default:
		return "unknown"
	}
}

// BlendMode selects how a layer composites over the stack below it.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendDarken
	BlendLighten
	BlendAddition
	BlendDifference
)

// Cel binds an image to one frame of one layer.
type Cel struct {
	Frame    int // 1-based frame position
	Position Point
	Opacity  int
	ZIndex   int
	Image    *Image

	props *Properties
}

// Properties returns the cel's bag for the given namespace.
func (c *Cel) Properties(ns string) map[string]any { return c.Props().Namespace(ns) }

// Props returns the cel's full property set.
func (c *Cel) Props() *Properties {
	if c.props == nil {
		c.props = NewProperties()
	}
	return c.props
}

// Layer is one node of the layer stack: a plain layer, a group with
// ordered children, or a tilemap layer bound to a tileset.
type Layer struct {
	Name    string
	Opacity int
	Blend   BlendMode
	Visible bool

	kind    LayerKind
	doc     *Document
	parent  *Layer
	childs  []*Layer
	tileset *Tileset
	cels    []*Cel
	props   *Properties
}

// Kind returns the layer variant.
func (l *Layer) Kind() LayerKind { return l.kind }

// Parent returns the enclosing group, or nil for a root layer.
func (l *Layer) Parent() *Layer { return l.parent }

// Children returns a group's ordered child layers.
func (l *Layer) Children() []*Layer { return l.childs }

// Tileset returns a tilemap layer's tileset.
func (l *Layer) Tileset() *Tileset { return l.tileset }

// Cels returns the layer's cels in creation order.
func (l *Layer) Cels() []*Cel { return l.cels }

// Properties returns the layer's bag for the given namespace.
func (l *Layer) Properties(ns string) map[string]any { return l.Props().Namespace(ns) }

// Props returns the layer's full property set.
func (l *Layer) Props() *Properties {
	if l.props == nil {
		l.props = NewProperties()
	}
	return l.props
}

// Cel returns the cel at a frame position, or nil.
func (l *Layer) Cel(frame int) *Cel {
	for _, c := range l.cels {
		if c.Frame == frame {
			return c
		}
	}
	return nil
}

// NewCel creates a cel for an existing frame position. The frame must
// already exist in the document.
func (l *Layer) NewCel(frame int, img *Image) (*Cel, error) {
	if l.kind == LayerGroup {
		return nil, fmt.Errorf("sprite: group %q cannot own cels", l.Name)
	}
	if img == nil {
		return nil, fmt.Errorf("sprite: cel on layer %q needs an image", l.Name)
	}
	if l.doc == nil {
		return nil, fmt.Errorf("sprite: layer %q is not attached to a document", l.Name)
	}
	if frame < 1 || frame > len(l.doc.frames) {
		return nil, fmt.Errorf("sprite: cel references frame %d of %d", frame, len(l.doc.frames))
	}
	c := &Cel{Frame: frame, Opacity: 255, Image: img}
	l.cels = append(l.cels, c)
	return c, nil
}

// SetParent moves the layer under a group, or back to the document root
// when parent is nil. The layer is appended at the destination, preserving
// the order of earlier attachments.
func (l *Layer) SetParent(parent *Layer) error {
	if parent != nil && parent.kind != LayerGroup {
		return fmt.Errorf("sprite: layer %q is not a group", parent.Name)
	}
	if parent == l {
		return fmt.Errorf("sprite: layer %q cannot parent itself", l.Name)
	}
	l.detach()
	l.parent = parent
	if parent == nil {
		l.doc.layers = append(l.doc.layers, l)
	} else {
		parent.childs = append(parent.childs, l)
	}
	return nil
}

// detach removes the layer from its current container.
func (l *Layer) detach() {
	var siblings *[]*Layer
	if l.parent != nil {
		siblings = &l.parent.childs
	} else {
		siblings = &l.doc.layers
	}
	for i, s := range *siblings {
		if s == l {
			*siblings = append((*siblings)[:i], (*siblings)[i+1:]...)
			return
		}
	}
}
