package sprite

import (
	"os"
	"path/filepath"
	"testing"
)

// ============================================================
// Color Tests
// ============================================================

func TestColor_Components(t *testing.T) {
	tests := []struct {
		r, g, b, a uint8
	}{
		{0, 0, 0, 0},
		{255, 255, 255, 255},
		{255, 125, 0, 255},
		{1, 2, 3, 4},
	}

	for _, tt := range tests {
		c := RGBA(tt.r, tt.g, tt.b, tt.a)
		if c.R() != tt.r || c.G() != tt.g || c.B() != tt.b || c.A() != tt.a {
			t.Errorf("RGBA(%d,%d,%d,%d) decomposed to (%d,%d,%d,%d)",
				tt.r, tt.g, tt.b, tt.a, c.R(), c.G(), c.B(), c.A())
		}
	}
}

func TestColor_PackedRoundTrip(t *testing.T) {
	c := RGBA(255, 125, 0, 255)
	if got := Color(c.Packed()); got != c {
		t.Errorf("repacking %v gave %v", c, got)
	}
}

// ============================================================
// Document Tests
// ============================================================

func TestDocument_Defaults(t *testing.T) {
	doc := NewDocument(16, 16, ModeRGB)
	if doc.FrameCount() != 1 {
		t.Errorf("fresh document has %d frames, want 1", doc.FrameCount())
	}
	if len(doc.Layers()) != 1 {
		t.Errorf("fresh document has %d layers, want 1", len(doc.Layers()))
	}
	if d := doc.Frame(1).Duration; d != DefaultFrameDuration {
		t.Errorf("default frame duration %d, want %d", d, DefaultFrameDuration)
	}
	if doc.Frame(0) != nil || doc.Frame(2) != nil {
		t.Error("out-of-range frame positions should be nil")
	}
}

func TestDocument_AppendFrame(t *testing.T) {
	doc := NewDocument(16, 16, ModeRGB)
	f2 := doc.AppendFrame()
	f2.Duration = 250
	if doc.FrameCount() != 2 {
		t.Fatalf("frame count %d, want 2", doc.FrameCount())
	}
	if doc.Frame(2) != f2 {
		t.Error("Frame(2) is not the appended frame")
	}
}

func TestDocument_NewTagValidatesRange(t *testing.T) {
	doc := NewDocument(16, 16, ModeRGB)
	doc.AppendFrame()

	if _, err := doc.NewTag(1, 2); err != nil {
		t.Errorf("NewTag(1,2) with 2 frames failed: %v", err)
	}
	for _, bad := range [][2]int{{0, 1}, {2, 1}, {1, 3}} {
		if _, err := doc.NewTag(bad[0], bad[1]); err == nil {
			t.Errorf("NewTag(%d,%d) should fail", bad[0], bad[1])
		}
	}
}

// ============================================================
// Layer Tests
// ============================================================

func TestLayer_SetParent(t *testing.T) {
	doc := NewDocument(16, 16, ModeRGB)
	group := doc.NewGroup("g")
	a := doc.NewLayer("a")
	b := doc.NewLayer("b")

	if err := a.SetParent(group); err != nil {
		t.Fatalf("SetParent: %v", err)
	}
	if err := b.SetParent(group); err != nil {
		t.Fatalf("SetParent: %v", err)
	}

	kids := group.Children()
	if len(kids) != 2 || kids[0] != a || kids[1] != b {
		t.Fatalf("children order wrong: %v", kids)
	}
	if a.Parent() != group || b.Parent() != group {
		t.Error("parent link not set")
	}
	// a and b must have left the root stack.
	for _, l := range doc.Layers() {
		if l == a || l == b {
			t.Error("re-parented layer still on root stack")
		}
	}

	// Back to the root: appended at the end.
	if err := a.SetParent(nil); err != nil {
		t.Fatalf("SetParent(nil): %v", err)
	}
	root := doc.Layers()
	if root[len(root)-1] != a {
		t.Error("layer not appended to root stack")
	}
	if len(group.Children()) != 1 || group.Children()[0] != b {
		t.Error("group still holds moved layer")
	}
}

func TestLayer_SetParentRejectsNonGroup(t *testing.T) {
	doc := NewDocument(16, 16, ModeRGB)
	plain := doc.NewLayer("plain")
	child := doc.NewLayer("child")
	if err := child.SetParent(plain); err == nil {
		t.Error("SetParent on a non-group should fail")
	}
}

func TestLayer_NewCelValidatesFrame(t *testing.T) {
	doc := NewDocument(16, 16, ModeRGB)
	l := doc.Layers()[0]
	img := NewImage(16, 16, ModeRGB)

	if _, err := l.NewCel(1, img); err != nil {
		t.Errorf("NewCel(1): %v", err)
	}
	if _, err := l.NewCel(2, img); err == nil {
		t.Error("NewCel(2) with 1 frame should fail")
	}
	group := doc.NewGroup("g")
	if _, err := group.NewCel(1, img); err == nil {
		t.Error("NewCel on a group should fail")
	}
	if _, err := l.NewCel(1, nil); err == nil {
		t.Error("NewCel without an image should fail")
	}
}

// ============================================================
// Tileset Tests
// ============================================================

func TestTileset_TileProbing(t *testing.T) {
	doc := NewDocument(16, 16, ModeRGB)
	ts := doc.NewTileset(Grid{TileSize: Size{W: 8, H: 8}})
	ts.NewTile(NewImage(8, 8, ModeRGB))
	ts.NewTile(NewImage(8, 8, ModeRGB))

	count := 0
	for i := 0; ; i++ {
		if ts.Tile(i) == nil {
			break
		}
		count++
	}
	if count != 2 {
		t.Errorf("probed %d tiles, want 2", count)
	}
	if ts.Tile(-1) != nil {
		t.Error("negative index should be nil")
	}
}

// ============================================================
// Image Tests
// ============================================================

func TestImage_IntrinsicIDsAreUnique(t *testing.T) {
	a := NewImage(4, 4, ModeRGB)
	b := NewImage(4, 4, ModeRGB)
	if a.ID() == b.ID() {
		t.Error("two images share an intrinsic id")
	}
}

func TestImage_PNGRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		mode ColorMode
		fill func(pix []byte)
	}{
		{"rgb", ModeRGB, func(pix []byte) {
			for i := range pix {
				pix[i] = byte(i * 7)
			}
		}},
		{"grayscale", ModeGrayscale, func(pix []byte) {
			for i := range pix {
				pix[i] = byte(255 - i)
			}
		}},
		{"indexed", ModeIndexed, func(pix []byte) {
			for i := range pix {
				pix[i] = byte(i % 16)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := NewImage(5, 3, tt.mode)
			tt.fill(img.Pix())
			path := filepath.Join(t.TempDir(), "img.png")

			if err := img.SavePNG(path); err != nil {
				t.Fatalf("SavePNG: %v", err)
			}
			back, err := LoadPNG(path, 5, 3, tt.mode)
			if err != nil {
				t.Fatalf("LoadPNG: %v", err)
			}
			if string(back.Pix()) != string(img.Pix()) {
				t.Error("pixel buffer changed across PNG round trip")
			}
		})
	}
}

func TestImage_TilemapHasNoPNGForm(t *testing.T) {
	img := NewImage(4, 4, ModeTilemap)
	if err := img.SavePNG(filepath.Join(t.TempDir(), "x.png")); err == nil {
		t.Error("SavePNG should reject tilemap images")
	}
}

func TestImage_SetPixValidatesSize(t *testing.T) {
	img := NewImage(4, 4, ModeRGB)
	if err := img.SetPix(make([]byte, 3)); err == nil {
		t.Error("SetPix with wrong size should fail")
	}
}

// ============================================================
// Palette Tests
// ============================================================

func TestPalette_GPLRoundTrip(t *testing.T) {
	p := NewPalette(
		RGBA(0, 0, 0, 255),
		RGBA(255, 125, 0, 255),
		RGBA(10, 20, 30, 128),
	)
	path := filepath.Join(t.TempDir(), "pal.gpl")
	if err := p.SaveGPL(path); err != nil {
		t.Fatalf("SaveGPL: %v", err)
	}
	back, err := LoadGPL(path)
	if err != nil {
		t.Fatalf("LoadGPL: %v", err)
	}
	if len(back.Colors) != len(p.Colors) {
		t.Fatalf("loaded %d colors, want %d", len(back.Colors), len(p.Colors))
	}
	for i := range p.Colors {
		if back.Colors[i] != p.Colors[i] {
			t.Errorf("color %d: got %v, want %v", i, back.Colors[i], p.Colors[i])
		}
	}
}

func TestPalette_LoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.gpl")
	if err := os.WriteFile(path, []byte("not a palette\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadGPL(path); err == nil {
		t.Error("LoadGPL should reject a non-GPL file")
	}
}

// ============================================================
// Properties Tests
// ============================================================

func TestProperties_Namespaces(t *testing.T) {
	p := NewProperties()
	p.Namespace("")["x"] = int64(1)
	p.Namespace("com.b")["y"] = "two"
	p.Namespace("com.a")["z"] = true
	p.Namespace("empty") // created but left empty

	got := p.Namespaces()
	want := []string{"", "com.a", "com.b"}
	if len(got) != len(want) {
		t.Fatalf("namespaces %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("namespaces %v, want %v", got, want)
		}
	}
}

func TestProperties_CopyFrom(t *testing.T) {
	src := NewProperties()
	src.Namespace("")["a"] = int64(1)
	src.Namespace("ns")["b"] = "x"

	dst := NewProperties()
	dst.Namespace("")["a"] = int64(9)
	dst.CopyFrom(src)

	if dst.Namespace("")["a"] != int64(1) {
		t.Error("CopyFrom should overwrite existing keys")
	}
	if dst.Namespace("ns")["b"] != "x" {
		t.Error("CopyFrom should merge namespaces")
	}
}
