package compositor

import (
	"image"
	"image/color"
	"image/draw"

	"badc0de.net/pkg/go-stb/character"
	"badc0de.net/pkg/go-stb/palette"
)

// DrawOptions describe how frames, tiles and illustrations are painted.
type DrawOptions struct {
	// Zoom is the size of one tile pixel in image pixels. Zero means 1.
	Zoom       int
	Background color.Color
	Palettes   palette.Slots
	Tiles      TileLookup
	// Boxes overlays the hitbox, hurtbox and origin on frames.
	Boxes bool
}

func (o *DrawOptions) zoom() int {
	if o.Zoom < 1 {
		return 1
	}
	return o.Zoom
}

// canvas allocates an image of size (w, h) tile pixels, filled with the
// background color.
func canvas(w, h int, opts *DrawOptions) *image.RGBA {
	z := opts.zoom()
	img := image.NewRGBA(image.Rect(0, 0, w*z, h*z))
	if opts.Background != nil {
		draw.Draw(img, img.Bounds(), &image.Uniform{opts.Background}, image.ZP, draw.Src)
	}
	return img
}

// pixelWriter paints zoomed tile pixels into img.
func pixelWriter(img *image.RGBA, zoom int) WritePixel {
	return func(x, y int, c color.Color) {
		dst := image.Rect(x*zoom, y*zoom, (x+1)*zoom, (y+1)*zoom)
		draw.Draw(img, dst, &image.Uniform{c}, image.ZP, draw.Over)
	}
}

// DrawFrame renders a frame cropped to rect, by default the frame's own
// bounds. The crop never exceeds MaxRect. Background sprites are drawn
// first, then foreground sprites, each layer in list order.
func DrawFrame(f *character.Frame, rect *image.Rectangle, opts DrawOptions) *image.RGBA {
	r := FrameRect(f, RectOptions{})
	if rect != nil {
		r = *rect
	}
	r = r.Intersect(MaxRect)
	img := canvas(r.Dx(), r.Dy(), &opts)
	write := pixelWriter(img, opts.zoom())
	origin := image.Pt(-r.Min.X, -r.Min.Y)

	if opts.Tiles != nil {
		for _, foreground := range []bool{false, true} {
			for i := range f.Sprites {
				if f.Sprites[i].Foreground == foreground {
					DrawSprite(&f.Sprites[i], opts.Tiles, &opts.Palettes, origin, write)
				}
			}
		}
	}
	if opts.Boxes {
		drawBoxes(img, f, r.Min, opts.zoom())
	}
	return img
}

// DrawTile renders a single tile with the primary palette.
func DrawTile(t *character.Tile, opts DrawOptions) *image.RGBA {
	img := canvas(character.TileSize, character.TileSize, &opts)
	DrawTilePixels(t, opts.Palettes[0], false, false, 0, 0, pixelWriter(img, opts.zoom()))
	return img
}

// DrawIllustration renders the tile grid of an illustration with the
// primary palette.
func DrawIllustration(il *character.Illustration, k character.IllustrationKind, opts DrawOptions) *image.RGBA {
	cols, rows := k.Size()
	img := canvas(cols*character.TileSize, rows*character.TileSize, &opts)
	write := pixelWriter(img, opts.zoom())
	for i := range il.Tiles {
		if i >= cols*rows {
			break
		}
		x, y := (i%cols)*character.TileSize, (i/cols)*character.TileSize
		DrawTilePixels(&il.Tiles[i], opts.Palettes[0], false, false, x, y, write)
	}
	return img
}
