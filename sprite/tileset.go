package sprite

// Tile is one entry of a tileset.
type Tile struct {
	Image *Image

	props *Properties
}

// Properties returns the tile's bag for the given namespace.
func (t *Tile) Properties(ns string) map[string]any { return t.Props().Namespace(ns) }

// Props returns the tile's full property set.
func (t *Tile) Props() *Properties {
	if t.props == nil {
		t.props = NewProperties()
	}
	return t.props
}

// Tileset is an ordered tile collection addressed by index. There is no
// length query in the host contract; callers enumerate by probing Tile(i)
// until it returns nil.
type Tileset struct {
	Name      string
	BaseIndex int

	grid  Grid
	tiles []*Tile
}

// Grid returns the tileset's tile geometry.
func (ts *Tileset) Grid() Grid { return ts.grid }

// Tile returns the tile at index i, or nil past the end.
func (ts *Tileset) Tile(i int) *Tile {
	if i < 0 || i >= len(ts.tiles) {
		return nil
	}
	return ts.tiles[i]
}

// NewTile appends a tile.
func (ts *Tileset) NewTile(img *Image) *Tile {
	t := &Tile{Image: img}
	ts.tiles = append(ts.tiles, t)
	return t
}
