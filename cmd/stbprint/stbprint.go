// Command stbprint prints the tiles, illustrations and animations of a
// character to the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/common-nighthawk/go-figure"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-stb/character"
	"badc0de.net/pkg/go-stb/compositor"
	"badc0de.net/pkg/go-stb/editor"
	"badc0de.net/pkg/go-stb/palette"
	"badc0de.net/pkg/go-stb/presets"
)

var (
	characterPath = flag.String("character", "", "path to a character .json file to print")
	presetName    = flag.String("preset", "", "name of a preset character to fetch and print")
	presetBaseURL = flag.String("preset_base_url", "", "URL under which preset characters are published as <name>.json")
	animName      = flag.String("anim", "", "animation to print")
	frameIdx      = flag.Int("frame", -1, "frame of -anim to print; all frames when negative")
	tileName      = flag.String("tile", "", "tile to print")
	illustration  = flag.String("illustration", "", "illustration to print: token, small or large")
	swap          = flag.Int("swap", 0, "color swap to draw with")
	zoom          = flag.Int("zoom", 1, "size of one character pixel in printed pixels")
	boxes         = flag.Bool("boxes", false, "whether to draw hitboxes, hurtboxes and the origin on frames")
	play          = flag.Bool("play", false, "whether to play -anim until interrupted")
	background    = flag.String("background", "", "background color as #rrggbb; transparent when empty")
	banner        = flag.Bool("banner", true, "whether to print the character name as a banner")
)

func load(ctx context.Context) (*character.Document, error) {
	s := editor.NewSession()
	switch {
	case *characterPath != "":
		data, err := os.ReadFile(*characterPath)
		if err != nil {
			return nil, errors.Wrap(err, "reading character")
		}
		if err := s.Import(data); err != nil {
			return nil, err
		}
	case *presetName != "":
		if err := s.FetchPreset(ctx, presets.NewClient(*presetBaseURL), *presetName); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("pass -character or -preset")
	}
	return s.Document(), nil
}

func drawOptions(d *character.Document) (compositor.DrawOptions, error) {
	slots, err := palette.Resolve(&d.ColorSwaps, *swap)
	if err != nil {
		return compositor.DrawOptions{}, err
	}
	opts := compositor.DrawOptions{
		Zoom:     *zoom,
		Palettes: slots,
		Tiles:    &d.Tileset,
		Boxes:    *boxes,
	}
	if *background != "" {
		bg, err := palette.ParseHex(*background)
		if err != nil {
			return opts, err
		}
		opts.Background = bg
	}
	return opts, nil
}

// summary lists what can be printed.
func summary(d *character.Document) {
	fmt.Printf("tiles: %s\n", strings.Join(d.Tileset.Names, " "))
	for _, a := range d.AllAnimations() {
		fmt.Printf("animation %q: %d frames\n", a.Name, len(a.Frames))
	}
	fmt.Printf("color swaps: %d\n", d.ColorSwaps.Len())
}

func run(ctx context.Context) error {
	d, err := load(ctx)
	if err != nil {
		return err
	}
	opts, err := drawOptions(d)
	if err != nil {
		return err
	}
	if *banner {
		figure.NewFigure(d.Name, "", true).Print()
		fmt.Println()
	}

	printed := false
	if *tileName != "" {
		t, ok := d.Tile(*tileName)
		if !ok {
			return errors.Wrapf(character.ErrNotFound, "tile %q", *tileName)
		}
		out(compositor.DrawTile(t, opts))
		printed = true
	}
	if *illustration != "" {
		k, err := character.ParseIllustrationKind(*illustration)
		if err != nil {
			return err
		}
		out(compositor.DrawIllustration(d.Illustration(k), k, opts))
		printed = true
	}
	if *animName != "" {
		a, ok := d.Animation(*animName)
		if !ok {
			return errors.Wrapf(character.ErrNotFound, "animation %q", *animName)
		}
		if *play {
			return playAnimation(ctx, d, a, opts)
		}
		if err := printFrames(a, opts); err != nil {
			return err
		}
		printed = true
	}
	if !printed {
		summary(d)
	}
	return nil
}

func printFrames(a *character.Animation, opts compositor.DrawOptions) error {
	rect := compositor.AnimationRect(a, compositor.RectOptions{IncludeBoxes: *boxes, IncludeOrigin: true})
	for i := range a.Frames {
		if *frameIdx >= 0 && i != *frameIdx {
			continue
		}
		fmt.Printf("frame %d, %d ticks\n", i, a.Frames[i].Duration)
		out(compositor.DrawFrame(&a.Frames[i], &rect, opts))
	}
	if *frameIdx >= len(a.Frames) {
		return errors.Wrapf(character.ErrNotFound, "frame %d of %q", *frameIdx, a.Name)
	}
	return nil
}

func main() {
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx); err != nil {
		glog.Errorf("stbprint: %v", err)
		stop()
		os.Exit(1)
	}
}
