package main

import (
	"context"
	"fmt"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-stb/character"
	"badc0de.net/pkg/go-stb/compositor"
	"badc0de.net/pkg/go-stb/player"
)

const (
	clearScreen = "\x1b[2J"
	cursorHome  = "\x1b[H"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
)

// playAnimation redraws the animation in place until ctx is done.
func playAnimation(ctx context.Context, d *character.Document, a *character.Animation, opts compositor.DrawOptions) error {
	if len(a.Frames) == 0 {
		return errors.Errorf("animation %q has no frames", a.Name)
	}
	latest := player.NewLatest()
	p := player.New(latest)
	gen := p.Start(&d.Tileset, a, player.Options{
		Zoom:       opts.Zoom,
		Background: opts.Background,
		Palettes:   opts.Palettes,
		Boxes:      opts.Boxes,
	})
	defer p.Stop()
	glog.V(2).Infof("stbprint: playing %q as generation %d", a.Name, gen)

	fmt.Print(clearScreen + hideCursor)
	defer fmt.Print(showCursor)
	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			return nil
		case f := <-latest.C():
			fmt.Print(cursorHome)
			out(f.Image)
			fmt.Printf("%s frame %d/%d  ", a.Name, f.Position+1, len(a.Frames))
		}
	}
}
