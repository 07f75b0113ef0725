package snap

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/klauspost/compress/zstd"

	"github.com/Tessella/spritevault/sprite"
)

// SidecarImageDir is the snapshot subdirectory holding image sidecars.
const SidecarImageDir = "images"

// imageCodec serializes bitmaps. In memory the payload is the raw pixel
// buffer; during store the Externalize hook moves it to a sidecar file
// under images/ (PNG for bitmap modes, zstd-compressed raw cells for
// tilemap mode) and leaves a "file:" reference behind.
type imageCodec struct{}

func (imageCodec) Tag() string { return "image" }

func (imageCodec) Matches(v any) bool {
	_, ok := v.(*sprite.Image)
	return ok
}

func (imageCodec) Encode(v any, ctx *Context) (*Node, error) {
	img := v.(*sprite.Image)
	return Map(
		Field("id", Int(int64(img.ID()))),
		Field("width", Int(int64(img.Width()))),
		Field("height", Int(int64(img.Height()))),
		Field("colorMode", Int(int64(img.Mode()))),
		Field("data", Bytes(img.Pix())),
	), nil
}

func (imageCodec) Decode(data *Node, ctx *Context) (any, error) {
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
	payload := data.Get("data")
	if payload.Kind() == KindRef {
		return nil, fmt.Errorf("spritevault: image payload %s was never re-inflated", payload.refVal)
	}
	pix, err := payload.AsBytes()
	if err != nil {
		return nil, err
	}
	img := sprite.NewImage(int(width), int(height), sprite.ColorMode(mode))
	if err := img.SetPix(append([]byte(nil), pix...)); err != nil {
		return nil, err
	}
	return img, nil
}

// sidecarName derives the sidecar file name from the id embedded in the
// payload, so store and load agree without extra bookkeeping.
func (imageCodec) sidecarName(data *Node) (string, sprite.ColorMode, error) {
	id, err := data.GetInt("id")
	if err != nil {
		return "", 0, err
	}
	mode, err := data.GetInt("colorMode")
	if err != nil {
		return "", 0, err
	}
	m := sprite.ColorMode(mode)
	if m == sprite.ModeTilemap {
		return filepath.Join(SidecarImageDir, fmt.Sprintf("img-%d.bin.zst", id)), m, nil
	}
	return filepath.Join(SidecarImageDir, fmt.Sprintf("img-%d.png", id)), m, nil
}

func (c imageCodec) Externalize(data *Node, dir string) error {
	payload := data.Get("data")
	if payload.Kind() != KindBytes {
		return nil // already externalized
	}
	name, mode, err := c.sidecarName(data)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(dir, SidecarImageDir), 0o755); err != nil {
		return fmt.Errorf("spritevault: %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)

	if mode == sprite.ModeTilemap {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return err
		}
		compressed := enc.EncodeAll(payload.bytesVal, nil)
		enc.Close()
		if err := writeFileAtomic(path, compressed); err != nil {
			return err
		}
	} else {
		width, err := data.GetInt("width")
		if err != nil {
			return err
		}
		height, err := data.GetInt("height")
		if err != nil {
			return err
		}
		img := sprite.NewImage(int(width), int(height), mode)
		if err := img.SetPix(payload.bytesVal); err != nil {
			return err
		}
		if err := savePNGAtomic(img, path); err != nil {
			return err
		}
	}
	data.Set("data", NewRef("file", filepath.ToSlash(name)))
	return nil
}

func (c imageCodec) Reinflate(data *Node, dir string) error {
	payload := data.Get("data")
	if payload.Kind() != KindRef {
		return nil // inline payload, nothing external
	}
	ref := payload.refVal
	if ref.Prefix != "file" {
		return fmt.Errorf("spritevault: image payload has non-file reference %q", ref)
	}
	path := filepath.Join(dir, filepath.FromSlash(ref.Value))

	_, mode, err := c.sidecarName(data)
	if err != nil {
		return err
	}
	if mode == sprite.ModeTilemap {
		compressed, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("spritevault: %s: %w", path, err)
		}
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return err
		}
		raw, err := dec.DecodeAll(compressed, nil)
		dec.Close()
		if err != nil {
			return fmt.Errorf("spritevault: %s: %w", path, err)
		}
		data.Set("data", Bytes(raw))
		return nil
	}

	width, err := data.GetInt("width")
	if err != nil {
		return err
	}
	height, err := data.GetInt("height")
	if err != nil {
		return err
	}
	img, err := sprite.LoadPNG(path, int(width), int(height), mode)
	if err != nil {
		return err
	}
	data.Set("data", Bytes(img.Pix()))
	return nil
}

// encodeImageRef deduplicates an image through the pass's resource table
// and returns the reference node owners store in place of the envelope.
// The intrinsic image id is only the dedup key; the stored id is the
// pass-local sequence number, so identical documents snapshot identically
// regardless of how many images the process created before.
func encodeImageRef(img *sprite.Image, ctx *Context) (*Node, error) {
	if img == nil {
		return nil, fmt.Errorf("spritevault: cel or tile has no image")
	}
	key := strconv.FormatUint(img.ID(), 10)
	if id, ok := ctx.Resources.InternedID(key); ok {
		return NewRef("res", id), nil
	}
	seq := ctx.Resources.Len() + 1
	env, err := Serialize(img, ctx)
	if err != nil {
		return nil, err
	}
	env.Data().Set("id", Int(int64(seq)))
	id := fmt.Sprintf("img-%d", seq)
	ctx.Resources.Add(id, env)
	ctx.Resources.Intern(key, id)
	return NewRef("res", id), nil
}

// resolveImageRef resolves a "res:" reference back to the shared decoded
// image.
func resolveImageRef(n *Node, ctx *Context) (*sprite.Image, error) {
	ref, err := n.AsRef()
	if err != nil {
		return nil, err
	}
	v, err := ctx.Resources.Resolve(ref.Value, ctx)
	if err != nil {
		return nil, err
	}
	img, ok := v.(*sprite.Image)
	if !ok {
		return nil, fmt.Errorf("spritevault: resource %q decoded to %T, want image", ref.Value, v)
	}
	return img, nil
}
