package character

import (
	"github.com/pkg/errors"
)

// IllustrationKind names one of the three fixed-size illustrations.
type IllustrationKind int

const (
	IllustrationToken IllustrationKind = iota
	IllustrationSmall
	IllustrationLarge
)

func (k IllustrationKind) String() string {
	switch k {
	case IllustrationToken:
		return "token"
	case IllustrationSmall:
		return "small"
	case IllustrationLarge:
		return "large"
	}
	return "bad value"
}

// Size returns the illustration dimensions in tiles.
func (k IllustrationKind) Size() (cols, rows int) {
	switch k {
	case IllustrationToken:
		return 1, 1
	case IllustrationSmall:
		return 2, 2
	case IllustrationLarge:
		return 6, 8
	}
	return 0, 0
}

// ParseIllustrationKind accepts the names returned by IllustrationKind.String.
func ParseIllustrationKind(s string) (IllustrationKind, error) {
	for _, k := range []IllustrationKind{IllustrationToken, IllustrationSmall, IllustrationLarge} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, errors.Wrapf(ErrNotFound, "illustration %q", s)
}

// Illustration returns the illustration of the given kind, or nil.
func (d *Document) Illustration(k IllustrationKind) *Illustration {
	switch k {
	case IllustrationToken:
		return &d.IllustrationToken
	case IllustrationSmall:
		return &d.IllustrationSmall
	case IllustrationLarge:
		return &d.IllustrationLarge
	}
	return nil
}

// TileAt returns the tile covering pixel (x, y) of an illustration of the
// given kind, and the pixel position within that tile.
func (il *Illustration) TileAt(k IllustrationKind, x, y int) (t *Tile, tx, ty int, ok bool) {
	cols, rows := k.Size()
	if x < 0 || y < 0 || x >= cols*TileSize || y >= rows*TileSize {
		return nil, 0, 0, false
	}
	idx := (y/TileSize)*cols + x/TileSize
	if idx >= len(il.Tiles) {
		return nil, 0, 0, false
	}
	return &il.Tiles[idx], x % TileSize, y % TileSize, true
}
