package sprite

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Palette is an ordered color list, optionally tied to a frame position
// (0 when the palette applies to the whole document).
type Palette struct {
	Frame  int
	Colors []Color
}

// NewPalette creates a palette for frame 0.
func NewPalette(colors ...Color) *Palette {
	return &Palette{Colors: colors}
}

// SaveGPL writes the palette in GIMP palette format. Alpha is preserved
// through the "Channels: RGBA" extension.
func (p *Palette) SaveGPL(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("sprite: save %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "GIMP Palette")
	fmt.Fprintln(w, "Channels: RGBA")
	fmt.Fprintln(w, "#")
	for i, c := range p.Colors {
		fmt.Fprintf(w, "%3d %3d %3d %3d\tIndex %d\n", c.R(), c.G(), c.B(), c.A(), i)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("sprite: save %s: %w", path, err)
	}
	return nil
}

// LoadGPL reads a palette written by SaveGPL. Plain three-channel GPL
// files load with full alpha.
func LoadGPL(path string) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sprite: load %s: %w", path, err)
	}
	defer f.Close()

	p := &Palette{}
	sc := bufio.NewScanner(f)
	first := true
	rgba := false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if first {
			if line != "GIMP Palette" {
				return nil, fmt.Errorf("sprite: load %s: not a GIMP palette", path)
			}
			first = false
			continue
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "Channels:") {
			rgba = strings.Contains(line, "RGBA")
			continue
		}
		if strings.Contains(line, ":") && !strings.ContainsAny(line[:1], "0123456789") {
			// Header lines such as "Name: ..." or "Columns: ...".
			continue
		}
		var r, g, b, a int
		a = 255
		if rgba {
			if _, err := fmt.Sscanf(line, "%d %d %d %d", &r, &g, &b, &a); err != nil {
				return nil, fmt.Errorf("sprite: load %s: bad entry %q", path, line)
			}
		} else {
			if _, err := fmt.Sscanf(line, "%d %d %d", &r, &g, &b); err != nil {
				return nil, fmt.Errorf("sprite: load %s: bad entry %q", path, line)
			}
		}
		p.Colors = append(p.Colors, RGBA(uint8(r), uint8(g), uint8(b), uint8(a)))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("sprite: load %s: %w", path, err)
	}
	return p, nil
}
