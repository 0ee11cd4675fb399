package compositor

import (
	"image"
	"image/color"

	"github.com/golang/glog"

	"badc0de.net/pkg/go-stb/character"
	"badc0de.net/pkg/go-stb/palette"
)

// TileLookup resolves tile names. *character.Document implements it.
type TileLookup interface {
	Tile(name string) (*character.Tile, bool)
}

// WritePixel receives one opaque tile pixel in destination coordinates.
type WritePixel func(x, y int, c color.Color)

// DrawTilePixels maps every non-transparent pixel of a tile to the
// destination, mirrored as requested, and hands it to write.
func DrawTilePixels(t *character.Tile, p palette.Palette, flipX, flipY bool, originX, originY int, write WritePixel) {
	for yy := range t {
		for xx, value := range t[yy] {
			if value == 0 || int(value) > len(p) {
				continue
			}
			x, y := xx, yy
			if flipX {
				x = character.TileSize - 1 - x
			}
			if flipY {
				y = character.TileSize - 1 - y
			}
			write(originX+x, originY+y, p[value-1])
		}
	}
}

// DrawSprite draws a sprite with its position offset by origin. Sprites
// referring to unknown tiles are skipped.
func DrawSprite(s *character.Sprite, tiles TileLookup, slots *palette.Slots, origin image.Point, write WritePixel) {
	t, ok := tiles.Tile(s.Tile)
	if !ok {
		glog.V(2).Infof("skipping sprite of missing tile %q", s.Tile)
		return
	}
	DrawTilePixels(t, slots.Sprite(s.Attr), s.FlipX(), s.FlipY(), origin.X+s.X, origin.Y+s.Y, write)
}
