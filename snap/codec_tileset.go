package snap

import (
	"fmt"

	"github.com/Tessella/spritevault/sprite"
)

var tilesetFields = []string{"Name", "BaseIndex"}

// tilesetCodec serializes a tileset and its tiles. The host contract has
// no tile count query, so encoding enumerates by probing sequential
// indices until the first hole.
type tilesetCodec struct{}

func (tilesetCodec) Tag() string { return "tileset" }

func (tilesetCodec) Matches(v any) bool {
	_, ok := v.(*sprite.Tileset)
	return ok
}

func (tilesetCodec) Encode(v any, ctx *Context) (*Node, error) {
	ts := v.(*sprite.Tileset)
	data, err := encodeFields(ts, tilesetFields, ctx)
	if err != nil {
		return nil, err
	}
	gridEnv, err := Serialize(ts.Grid(), ctx)
	if err != nil {
		return nil, err
	}
	data.Set("grid", gridEnv)

	tiles := List()
	for i := 0; ; i++ {
		tile := ts.Tile(i)
		if tile == nil {
			break
		}
		env, err := Serialize(tile, ctx)
		if err != nil {
			return nil, fmt.Errorf("tile %d: %w", i, err)
		}
		tiles.Append(env)
	}
	data.Set("tiles", tiles)
	return data, nil
}

func (tilesetCodec) Decode(data *Node, ctx *Context) (any, error) {
	if ctx.Doc == nil {
		return nil, fmt.Errorf("spritevault: tileset decode needs a target document")
	}
	v, err := Deserialize(data.Get("grid"), ctx)
	if err != nil {
		return nil, err
	}
	grid, ok := v.(sprite.Grid)
	if !ok {
		return nil, fmt.Errorf("spritevault: grid field decoded to %T", v)
	}
	ts := ctx.Doc.NewTileset(grid)
	if err := decodeFields(data, ts, tilesetFields, ctx); err != nil {
		return nil, err
	}

	tileEnvs, err := data.GetList("tiles")
	if err != nil {
		return nil, err
	}
	tileCtx := ctx.child()
	tileCtx.Tileset = ts
	for i, env := range tileEnvs {
		if _, err := Deserialize(env, tileCtx); err != nil {
			return nil, fmt.Errorf("tile %d: %w", i, err)
		}
	}
	return ts, nil
}

// tileCodec serializes one tile: an image reference plus properties.
// Tile images deduplicate through the same resource table as cel images.
type tileCodec struct{}

func (tileCodec) Tag() string { return "tile" }

func (tileCodec) Matches(v any) bool {
	_, ok := v.(*sprite.Tile)
	return ok
}

func (tileCodec) Encode(v any, ctx *Context) (*Node, error) {
	tile := v.(*sprite.Tile)
	ref, err := encodeImageRef(tile.Image, ctx)
	if err != nil {
		return nil, err
	}
	data := Map(Field("image", ref))
	if err := encodeProps(data, tile.Props(), ctx); err != nil {
		return nil, err
	}
	return data, nil
}

func (tileCodec) Decode(data *Node, ctx *Context) (any, error) {
	if ctx.Tileset == nil {
		return nil, fmt.Errorf("spritevault: tile decode needs a target tileset")
	}
	img, err := resolveImageRef(data.Get("image"), ctx)
	if err != nil {
		return nil, err
	}
	tile := ctx.Tileset.NewTile(img)
	if err := decodeProps(data, tile.Props(), ctx); err != nil {
		return nil, err
	}
	return tile, nil
}
