package snap

import (
	"testing"

	"github.com/Tessella/spritevault/sprite"
)

// buildTestDocument assembles the reference scenario used across the
// document tests: three frames, a plain layer with a linked cel image, a
// group holding one child, a tilemap layer, plus tags, slices, palette
// and a document property.
func buildTestDocument(t *testing.T) *sprite.Document {
	t.Helper()
	doc := sprite.NewDocument(32, 32, sprite.ModeRGB)
	doc.AppendFrame()
	doc.AppendFrame().Duration = 300

	bg := doc.Layers()[0]
	bg.Name = "Background"
	linked := sprite.NewImage(32, 32, sprite.ModeRGB)
	linked.PutPixel(0, 0, sprite.RGBA(255, 0, 0, 255))
	for frame := 1; frame <= 2; frame++ {
		if _, err := bg.NewCel(frame, linked); err != nil {
			t.Fatal(err)
		}
	}

	group := doc.NewGroup("Props")
	child := doc.NewLayer("Sparks")
	if err := child.SetParent(group); err != nil {
		t.Fatal(err)
	}
	sparkImg := sprite.NewImage(32, 32, sprite.ModeRGB)
	if _, err := child.NewCel(2, sparkImg); err != nil {
		t.Fatal(err)
	}

	ts := doc.NewTileset(sprite.Grid{TileSize: sprite.Size{W: 8, H: 8}})
	ts.Name = "floor tiles"
	ts.NewTile(sprite.NewImage(8, 8, sprite.ModeRGB))
	floor := doc.NewTilemapLayer("Floor", ts)
	cells := sprite.NewImage(4, 4, sprite.ModeTilemap)
	if _, err := floor.NewCel(3, cells); err != nil {
		t.Fatal(err)
	}

	if _, err := doc.NewTag(1, 2); err != nil {
		t.Fatal(err)
	}
	doc.Tags()[0].Name = "idle"
	doc.NewSlice("hitbox").Bounds = sprite.Rect{X: 2, Y: 2, W: 8, H: 8}
	doc.SetPalette(sprite.NewPalette(
		sprite.RGBA(0, 0, 0, 255),
		sprite.RGBA(255, 125, 0, 255),
	))
	doc.Properties("")["author"] = "tests"
	return doc
}

func encodeDocument(t *testing.T, doc *sprite.Document) (*Node, *Context) {
	t.Helper()
	ctx := NewContext()
	env, err := Serialize(doc, ctx)
	if err != nil {
		t.Fatalf("serialize document: %v", err)
	}
	return env, ctx
}

func decodeDocument(t *testing.T, env *Node) *sprite.Document {
	t.Helper()
	v, err := Deserialize(env, NewContext())
	if err != nil {
		t.Fatalf("deserialize document: %v", err)
	}
	doc, ok := v.(*sprite.Document)
	if !ok {
		t.Fatalf("decoded to %T", v)
	}
	return doc
}

func TestDocumentCodec_RoundTrip(t *testing.T) {
	in := buildTestDocument(t)
	env, _ := encodeDocument(t, in)
	out := decodeDocument(t, env)

	if out.Width() != 32 || out.Height() != 32 || out.Mode() != sprite.ModeRGB {
		t.Errorf("canvas %dx%d %v", out.Width(), out.Height(), out.Mode())
	}
	if out.FrameCount() != 3 {
		t.Fatalf("frames %d, want 3", out.FrameCount())
	}
	if d := out.Frame(3).Duration; d != 300 {
		t.Errorf("frame 3 duration %d, want 300", d)
	}

	layers := out.Layers()
	if len(layers) != 3 {
		t.Fatalf("root layers %d, want 3", len(layers))
	}
	names := []string{"Background", "Props", "Floor"}
	for i, want := range names {
		if layers[i].Name != want {
			t.Errorf("layer %d is %q, want %q", i, layers[i].Name, want)
		}
	}

	group := layers[1]
	if group.Kind() != sprite.LayerGroup || len(group.Children()) != 1 {
		t.Fatalf("group shape wrong: %v children", len(group.Children()))
	}
	if group.Children()[0].Name != "Sparks" {
		t.Errorf("child %q", group.Children()[0].Name)
	}
	if group.Children()[0].Parent() != group {
		t.Error("child not re-parented")
	}

	floor := layers[2]
	if floor.Kind() != sprite.LayerTilemap || floor.Tileset() == nil {
		t.Fatal("tilemap layer lost its tileset")
	}
	if floor.Tileset().Name != "floor tiles" {
		t.Errorf("tileset name %q", floor.Tileset().Name)
	}
	if floor.Cel(3) == nil {
		t.Error("tilemap cel at frame 3 missing")
	}

	if len(out.Tags()) != 1 || out.Tags()[0].Name != "idle" {
		t.Error("tag lost")
	}
	if len(out.Slices()) != 1 || out.Slices()[0].Name != "hitbox" {
		t.Error("slice lost")
	}
	if out.Palette() == nil || len(out.Palette().Colors) != 2 {
		t.Fatal("palette lost")
	}
	if out.Palette().Colors[1] != sprite.RGBA(255, 125, 0, 255) {
		t.Errorf("palette color %v", out.Palette().Colors[1])
	}
	if out.Properties("")["author"] != "tests" {
		t.Error("document property lost")
	}
}

func TestDocumentCodec_LinkedCelsShareOneImage(t *testing.T) {
	in := buildTestDocument(t)
	env, ctx := encodeDocument(t, in)

	// The linked Background image, the Sparks image, the tile image and
	// the tilemap cell buffer: four distinct resources for six owners.
	if got := ctx.Resources.Len(); got != 4 {
		t.Fatalf("resource table holds %d entries, want 4", got)
	}

	out := decodeDocument(t, env)
	bg := out.Layers()[0]
	c1, c2 := bg.Cel(1), bg.Cel(2)
	if c1 == nil || c2 == nil {
		t.Fatal("background cels missing")
	}
	if c1.Image != c2.Image {
		t.Error("linked cels decoded to two image instances")
	}
	if c1.Image.Pix()[0] != 255 {
		t.Error("pixel data lost")
	}
}

func TestDocumentCodec_GroupChildrenKeepOrder(t *testing.T) {
	doc := sprite.NewDocument(8, 8, sprite.ModeRGB)
	group := doc.NewGroup("g")
	a := doc.NewLayer("a")
	b := doc.NewLayer("b")
	for _, l := range []*sprite.Layer{a, b} {
		if err := l.SetParent(group); err != nil {
			t.Fatal(err)
		}
	}

	env, _ := encodeDocument(t, doc)
	out := decodeDocument(t, env)

	var outGroup *sprite.Layer
	for _, l := range out.Layers() {
		if l.Kind() == sprite.LayerGroup {
			outGroup = l
		}
	}
	if outGroup == nil {
		t.Fatal("group lost")
	}
	kids := outGroup.Children()
	if len(kids) != 2 || kids[0].Name != "a" || kids[1].Name != "b" {
		t.Fatalf("children order wrong: %v", kids)
	}
	for _, kid := range kids {
		if kid.Parent() != outGroup {
			t.Errorf("child %q not parented to the group", kid.Name)
		}
	}
}

func TestDocumentCodec_SnapshotIsStable(t *testing.T) {
	// Encoding the reconstruction of a snapshot must reproduce the
	// snapshot, even though reconstruction mints fresh intrinsic image ids.
	in := buildTestDocument(t)
	env1, _ := encodeDocument(t, in)
	text1, err := EmitJSON(env1)
	if err != nil {
		t.Fatal(err)
	}

	env2, _ := encodeDocument(t, decodeDocument(t, env1))
	text2, err := EmitJSON(env2)
	if err != nil {
		t.Fatal(err)
	}
	if string(text1) != string(text2) {
		t.Error("snapshot changed across a reconstruct/re-encode cycle")
	}
}

func TestDocumentCodec_FrameBackFill(t *testing.T) {
	// Drop the intermediate frame envelopes from the snapshot. The
	// assembler must still materialize every position up to the highest
	// referenced frame so tags and cels land correctly.
	in := buildTestDocument(t)
	env, _ := encodeDocument(t, in)

	frames, err := env.Data().GetList("frames")
	if err != nil {
		t.Fatal(err)
	}
	env.Data().Set("frames", List(frames[2])) // keep only position 3

	out := decodeDocument(t, env)
	if out.FrameCount() != 3 {
		t.Fatalf("frames %d, want 3 back-filled", out.FrameCount())
	}
	if d := out.Frame(1).Duration; d != sprite.DefaultFrameDuration {
		t.Errorf("back-filled frame duration %d", d)
	}
	if d := out.Frame(3).Duration; d != 300 {
		t.Errorf("explicit frame duration %d, want 300", d)
	}
}

func TestHighestFramePosition(t *testing.T) {
	in := buildTestDocument(t)
	env, _ := encodeDocument(t, in)

	got, err := highestFramePosition(env.Data())
	if err != nil {
		t.Fatal(err)
	}
	if got != 3 {
		t.Errorf("highest position %d, want 3", got)
	}
}

func TestWalk_VisitsNestedEnvelopes(t *testing.T) {
	in := buildTestDocument(t)
	env, _ := encodeDocument(t, in)

	counts := map[string]int{}
	err := Walk(env, func(tag string, data *Node) error {
		counts[tag]++
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	// Layer envelopes live in a list; the child layer inside the group's
	// "children" list must be reached too.
	if counts["layer"] != 4 {
		t.Errorf("visited %d layer envelopes, want 4", counts["layer"])
	}
	if counts["cel"] != 4 {
		t.Errorf("visited %d cel envelopes, want 4", counts["cel"])
	}
	if counts["image"] != 4 {
		t.Errorf("visited %d image envelopes, want 4", counts["image"])
	}
	if counts["document"] != 1 || counts["palette"] != 1 {
		t.Error("top-level envelopes missed")
	}
}

func TestDocumentCodec_EmptyDocument(t *testing.T) {
	in := sprite.NewDocument(8, 8, sprite.ModeIndexed)
	env, _ := encodeDocument(t, in)
	out := decodeDocument(t, env)

	if out.FrameCount() != 1 {
		t.Errorf("frames %d, want 1", out.FrameCount())
	}
	if len(out.Layers()) != 1 || out.Layers()[0].Name != "Layer 1" {
		t.Errorf("layers %v", out.Layers())
	}
	if out.Palette() != nil {
		t.Error("empty document grew a palette")
	}
}
