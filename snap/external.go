package snap

import (
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/Tessella/spritevault/sprite"
)

// writeFileAtomic writes data through a uniquely named temp file and a
// rename, so an aborted store never leaves a truncated sidecar behind.
func writeFileAtomic(path string, data []byte) error {
	tmp := fmt.Sprintf("%s.%s.tmp", path, uuid.NewString())
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("spritevault: %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("spritevault: %s: %w", path, err)
	}
	return nil
}

// savePNGAtomic routes Image.SavePNG through the same temp-and-rename
// scheme.
func savePNGAtomic(img *sprite.Image, path string) error {
	tmp := fmt.Sprintf("%s.%s.tmp", path, uuid.NewString())
	if err := img.SavePNG(tmp); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("spritevault: %s: %w", path, err)
	}
	return nil
}

// saveGPLAtomic routes Palette.SaveGPL through the same temp-and-rename
// scheme.
func saveGPLAtomic(p *sprite.Palette, path string) error {
	tmp := fmt.Sprintf("%s.%s.tmp", path, uuid.NewString())
	if err := p.SaveGPL(tmp); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("spritevault: %s: %w", path, err)
	}
	return nil
}
