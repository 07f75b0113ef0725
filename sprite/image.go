package sprite

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"sync/atomic"
)

var nextImageID atomic.Uint64

// Image is a bitmap owned by cels and tiles. Every image carries an
// intrinsic process-wide id, which the serialization engine uses as the
// deduplication key for shared images.
//
// The pixel buffer layout follows the color mode:
//   - ModeRGB:       4 bytes per pixel (R, G, B, A)
//   - ModeGrayscale: 2 bytes per pixel (value, alpha)
//   - ModeIndexed:   1 byte per pixel (palette index)
//   - ModeTilemap:   4 bytes per cell (little-endian tile index)
type Image struct {
	id     uint64
	width  int
	height int
	mode   ColorMode
	pix    []byte
}

// NewImage creates a zero-filled image.
func NewImage(width, height int, mode ColorMode) *Image {
	return &Image{
		id:     nextImageID.Add(1),
		width:  width,
		height: height,
		mode:   mode,
		pix:    make([]byte, width*height*mode.BytesPerPixel()),
	}
}

// ID returns the image's intrinsic id.
func (im *Image) ID() uint64 { return im.id }

// Width returns the width in pixels.
func (im *Image) Width() int { return im.width }

// Height returns the height in pixels.
func (im *Image) Height() int { return im.height }

// Mode returns the pixel format.
func (im *Image) Mode() ColorMode { return im.mode }

// Pix returns the raw pixel buffer.
func (im *Image) Pix() []byte { return im.pix }

// SetPix replaces the pixel buffer. The buffer length must match the
// image geometry.
func (im *Image) SetPix(pix []byte) error {
	want := im.width * im.height * im.mode.BytesPerPixel()
	if len(pix) != want {
		return fmt.Errorf("sprite: pixel buffer size %d, want %d", len(pix), want)
	}
	im.pix = pix
	return nil
}

// PutPixel writes one pixel. For ModeRGB only; a convenience for tests
// and demo content.
func (im *Image) PutPixel(x, y int, c Color) {
	if im.mode != ModeRGB || x < 0 || y < 0 || x >= im.width || y >= im.height {
		return
	}
	off := (y*im.width + x) * 4
	im.pix[off] = c.R()
	im.pix[off+1] = c.G()
	im.pix[off+2] = c.B()
	im.pix[off+3] = c.A()
}

// SavePNG writes the image to path. Tilemap images have no bitmap
// representation and are rejected.
func (im *Image) SavePNG(path string) error {
	if im.mode == ModeTilemap {
		return fmt.Errorf("sprite: tilemap image has no PNG form")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("sprite: save %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, im.toStd()); err != nil {
		return fmt.Errorf("sprite: save %s: %w", path, err)
	}
	return nil
}

// toStd converts the pixel buffer to a standard library image. Grayscale
// packs (value, alpha) into NRGBA so the alpha channel survives; indexed
// stores the palette index in the gray channel.
func (im *Image) toStd() image.Image {
	switch im.mode {
	case ModeGrayscale:
		out := image.NewNRGBA(image.Rect(0, 0, im.width, im.height))
		for i := 0; i < im.width*im.height; i++ {
			v, a := im.pix[i*2], im.pix[i*2+1]
			out.Pix[i*4] = v
			out.Pix[i*4+1] = v
			out.Pix[i*4+2] = v
			out.Pix[i*4+3] = a
		}
		return out
	case ModeIndexed:
		out := image.NewGray(image.Rect(0, 0, im.width, im.height))
		copy(out.Pix, im.pix)
		return out
	default:
		out := image.NewNRGBA(image.Rect(0, 0, im.width, im.height))
		copy(out.Pix, im.pix)
		return out
	}
}

// LoadPNG reads a PNG written by SavePNG back into a fresh image with the
// given color mode.
func LoadPNG(path string, width, height int, mode ColorMode) (*Image, error) {
	if mode == ModeTilemap {
		return nil, fmt.Errorf("sprite: tilemap image has no PNG form")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sprite: load %s: %w", path, err)
	}
	defer f.Close()
	src, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("sprite: load %s: %w", path, err)
	}
	b := src.Bounds()
	if b.Dx() != width || b.Dy() != height {
		return nil, fmt.Errorf("sprite: load %s: geometry %dx%d, want %dx%d",
			path, b.Dx(), b.Dy(), width, height)
	}
	im := NewImage(width, height, mode)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			i := y*width + x
			switch mode {
			case ModeRGB:
				im.pix[i*4] = c.R
				im.pix[i*4+1] = c.G
				im.pix[i*4+2] = c.B
				im.pix[i*4+3] = c.A
			case ModeGrayscale:
				im.pix[i*2] = c.R
				im.pix[i*2+1] = c.A
			case ModeIndexed:
				im.pix[i] = c.R
			}
		}
	}
	return im, nil
}
