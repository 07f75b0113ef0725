// spritevault - sprite document snapshot tool
//
// Usage:
//
//	spritevault inspect <dir>   Summarize a stored snapshot
//	spritevault verify <dir>    Load, reconstruct and re-store a snapshot,
//	                            then compare the two text trees
//	spritevault demo <dir>      Build a sample document and store it
//
// Global flags:
//
//	--config FILE   TOML configuration (property allow-list, logging)
//	--verbose       Development logging to stderr
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/Tessella/spritevault/snap"
	"github.com/Tessella/spritevault/sprite"
	"github.com/Tessella/spritevault/store"
)

const version = "0.3.0"

func main() {
	app := cli.NewApp()
	app.Name = "spritevault"
	app.Usage = "snapshot and reconstruct layered sprite documents"
	app.Version = version
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config", Usage: "TOML configuration `FILE`"},
		cli.BoolFlag{Name: "verbose", Usage: "development logging to stderr"},
	}
	app.Commands = []cli.Command{
		{
			Name:      "inspect",
			Usage:     "summarize a stored snapshot",
			ArgsUsage: "<dir>",
			Action:    runInspect,
		},
		{
			Name:      "verify",
			Usage:     "round-trip a snapshot and compare the text trees",
			ArgsUsage: "<dir>",
			Action:    runVerify,
		},
		{
			Name:      "demo",
			Usage:     "build a sample document and store it",
			ArgsUsage: "<dir>",
			Action:    runDemo,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "spritevault: %v\n", err)
		os.Exit(1)
	}
}

func buildOptions(c *cli.Context) (store.Options, error) {
	var opts store.Options
	if path := c.GlobalString("config"); path != "" {
		cfg, err := store.LoadConfig(path)
		if err != nil {
			return opts, err
		}
		opts, err = cfg.Options()
		if err != nil {
			return opts, err
		}
	}
	if c.GlobalBool("verbose") && opts.Logger == nil {
		log, err := zap.NewDevelopment()
		if err != nil {
			return opts, err
		}
		opts.Logger = log
	}
	return opts, nil
}

func snapshotDir(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one snapshot directory argument")
	}
	return c.Args().Get(0), nil
}

// ============================================================
// inspect
// ============================================================

func runInspect(c *cli.Context) error {
	dir, err := snapshotDir(c)
	if err != nil {
		return err
	}
	opts, err := buildOptions(c)
	if err != nil {
		return err
	}
	env, err := store.Load(dir, opts)
	if err != nil {
		return err
	}
	tag, data, err := env.AsEnvelope()
	if err != nil || tag != "document" {
		return fmt.Errorf("%s does not hold a document snapshot", dir)
	}

	width, _ := data.GetInt("width")
	height, _ := data.GetInt("height")
	mode, _ := data.GetInt("colorMode")
	frames, _ := data.GetList("frames")
	tags, _ := data.GetList("tags")
	slices, _ := data.GetList("slices")
	layers, _ := data.GetList("layers")

	fmt.Printf("document %dx%d (%s)\n", width, height, sprite.ColorMode(mode))
	fmt.Printf("frames: %d  tags: %d  slices: %d\n", len(frames), len(tags), len(slices))
	fmt.Println("layers:")
	for _, env := range layers {
		printLayer(env, 1)
	}
	if images := data.Get("images"); images != nil {
		fmt.Printf("resources: %d\n", images.Len())
	}
	return nil
}

func printLayer(env *snap.Node, depth int) {
	tag, data, err := env.AsEnvelope()
	if err != nil || tag != "layer" {
		return
	}
	name, _ := data.GetStr("name")
	kind, _ := data.GetStr("kind")
	indent := strings.Repeat("  ", depth)
	cels, _ := data.GetList("cels")
	if len(cels) > 0 {
		fmt.Printf("%s%s %q (%d cels)\n", indent, kind, name, len(cels))
	} else {
		fmt.Printf("%s%s %q\n", indent, kind, name)
	}
	children, _ := data.GetList("children")
	for _, child := range children {
		printLayer(child, depth+1)
	}
}

// ============================================================
// verify
// ============================================================

func runVerify(c *cli.Context) error {
	dir, err := snapshotDir(c)
	if err != nil {
		return err
	}
	opts, err := buildOptions(c)
	if err != nil {
		return err
	}

	original, err := os.ReadFile(filepath.Join(dir, store.SnapshotFileName))
	if err != nil {
		return err
	}
	doc, err := store.LoadDocument(dir, opts)
	if err != nil {
		return err
	}

	tmp, err := os.MkdirTemp("", "spritevault-verify-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	if err := store.StoreDocument(tmp, doc, opts); err != nil {
		return err
	}
	restored, err := os.ReadFile(filepath.Join(tmp, store.SnapshotFileName))
	if err != nil {
		return err
	}

	equal, err := snap.JSONEqual(original, restored)
	if err != nil {
		return err
	}
	if !equal {
		return fmt.Errorf("%s: re-stored snapshot differs from original", dir)
	}
	fmt.Printf("%s: ok\n", dir)
	return nil
}

// ============================================================
// demo
// ============================================================

func runDemo(c *cli.Context) error {
	dir, err := snapshotDir(c)
	if err != nil {
		return err
	}
	opts, err := buildOptions(c)
	if err != nil {
		return err
	}
	if err := store.StoreDocument(dir, buildDemoDocument(), opts); err != nil {
		return err
	}
	fmt.Printf("stored demo snapshot in %s\n", dir)
	return nil
}

func buildDemoDocument() *sprite.Document {
	doc := sprite.NewDocument(32, 32, sprite.ModeRGB)
	doc.AppendFrame().Duration = 150
	doc.AppendFrame()

	bg := doc.Layers()[0]
	bg.Name = "Background"
	img := sprite.NewImage(32, 32, sprite.ModeRGB)
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.PutPixel(x, y, sprite.RGBA(uint8(x*8), uint8(y*8), 64, 255))
		}
	}
	// A linked cel: both frames share one image.
	bg.NewCel(1, img)
	bg.NewCel(2, img)

	group := doc.NewGroup("Props")
	fg := doc.NewLayer("Sparks")
	fg.NewCel(1, sprite.NewImage(32, 32, sprite.ModeRGB))
	fg.SetParent(group)

	ts := doc.NewTileset(sprite.Grid{TileSize: sprite.Size{W: 8, H: 8}})
	ts.NewTile(sprite.NewImage(8, 8, sprite.ModeRGB))
	tiles := doc.NewTilemapLayer("Floor", ts)
	tilemap := sprite.NewImage(4, 4, sprite.ModeTilemap)
	tiles.NewCel(3, tilemap)

	tag, _ := doc.NewTag(1, 2)
	tag.Name = "idle"
	slice := doc.NewSlice("hitbox")
	slice.Bounds = sprite.Rect{X: 4, Y: 4, W: 24, H: 24}

	doc.SetPalette(sprite.NewPalette(
		sprite.RGBA(0, 0, 0, 255),
		sprite.RGBA(255, 125, 0, 255),
		sprite.RGBA(255, 255, 255, 255),
	))
	doc.Properties("")["author"] = "demo"
	return doc
}
