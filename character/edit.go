package character

import (
	"github.com/pkg/errors"
)

// TileIndex returns the position of the named tile in the tileset, or -1.
func (d *Document) TileIndex(name string) int {
	for i, n := range d.Tileset.Names {
		if n == name {
			return i
		}
	}
	return -1
}

// Tile returns the named tile.
func (ts *Tileset) Tile(name string) (*Tile, bool) {
	for i, n := range ts.Names {
		if n == name && i < len(ts.Tiles) {
			return &ts.Tiles[i], true
		}
	}
	return nil, false
}

// Tile returns the named tile of the tileset.
func (d *Document) Tile(name string) (*Tile, bool) {
	return d.Tileset.Tile(name)
}

// AddTile appends a blank tile.
func (d *Document) AddTile(name string) error {
	if name == "" {
		return errors.Wrap(ErrInvalid, "empty tile name")
	}
	if d.TileIndex(name) >= 0 {
		return errors.Wrapf(ErrDuplicateName, "tile %q", name)
	}
	d.Tileset.Names = append(d.Tileset.Names, name)
	d.Tileset.Tiles = append(d.Tileset.Tiles, Tile{})
	return nil
}

// RenameTile renames a tile and every sprite referring to it.
func (d *Document) RenameTile(old, name string) error {
	i := d.TileIndex(old)
	if i < 0 {
		return errors.Wrapf(ErrNotFound, "tile %q", old)
	}
	if old == name {
		return nil
	}
	if name == "" {
		return errors.Wrap(ErrInvalid, "empty tile name")
	}
	if d.TileIndex(name) >= 0 {
		return errors.Wrapf(ErrDuplicateName, "tile %q", name)
	}
	d.Tileset.Names[i] = name
	for _, a := range d.AllAnimations() {
		for fi := range a.Frames {
			sprites := a.Frames[fi].Sprites
			for si := range sprites {
				if sprites[si].Tile == old {
					sprites[si].Tile = name
				}
			}
		}
	}
	return nil
}

// TileUsers returns the names of animations with a sprite referring to the
// named tile.
func (d *Document) TileUsers(name string) []string {
	var users []string
	for _, a := range d.AllAnimations() {
	frames:
		for _, f := range a.Frames {
			for _, s := range f.Sprites {
				if s.Tile == name {
					users = append(users, a.Name)
					break frames
				}
			}
		}
	}
	return users
}

// DeleteTile removes a tile no sprite refers to.
func (d *Document) DeleteTile(name string) error {
	i := d.TileIndex(name)
	if i < 0 {
		return errors.Wrapf(ErrNotFound, "tile %q", name)
	}
	if users := d.TileUsers(name); len(users) > 0 {
		return errors.Wrapf(ErrTileInUse, "tile %q used by %v", name, users)
	}
	d.Tileset.Names = append(d.Tileset.Names[:i], d.Tileset.Names[i+1:]...)
	d.Tileset.Tiles = append(d.Tileset.Tiles[:i], d.Tileset.Tiles[i+1:]...)
	return nil
}

// Animation looks up an animation by name, mandatory ones included.
func (d *Document) Animation(name string) (*Animation, bool) {
	for _, a := range d.AllAnimations() {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// IsMandatory reports whether a is one of the document's mandatory
// animations.
func (d *Document) IsMandatory(a *Animation) bool {
	for _, m := range d.Mandatory() {
		if m == a {
			return true
		}
	}
	return false
}

// AddAnimation appends an empty animation to the collection.
func (d *Document) AddAnimation(name string) error {
	if name == "" {
		return errors.Wrap(ErrInvalid, "empty animation name")
	}
	if _, ok := d.Animation(name); ok {
		return errors.Wrapf(ErrDuplicateName, "animation %q", name)
	}
	d.Animations = append(d.Animations, Animation{Name: name})
	return nil
}

// RenameAnimation renames any animation, mandatory ones included.
func (d *Document) RenameAnimation(old, name string) error {
	a, ok := d.Animation(old)
	if !ok {
		return errors.Wrapf(ErrNotFound, "animation %q", old)
	}
	if old == name {
		return nil
	}
	if name == "" {
		return errors.Wrap(ErrInvalid, "empty animation name")
	}
	if _, ok := d.Animation(name); ok {
		return errors.Wrapf(ErrDuplicateName, "animation %q", name)
	}
	a.Name = name
	return nil
}

// DeleteAnimation removes an animation of the collection.
func (d *Document) DeleteAnimation(name string) error {
	a, ok := d.Animation(name)
	if !ok {
		return errors.Wrapf(ErrNotFound, "animation %q", name)
	}
	if d.IsMandatory(a) {
		return errors.Wrapf(ErrMandatoryAnimation, "animation %q", name)
	}
	for i := range d.Animations {
		if &d.Animations[i] == a {
			d.Animations = append(d.Animations[:i], d.Animations[i+1:]...)
			break
		}
	}
	return nil
}

// Edge names one side of a Box.
type Edge int

const (
	Left Edge = iota
	Top
	Right
	Bottom
)

func (e Edge) String() string {
	switch e {
	case Left:
		return "left"
	case Top:
		return "top"
	case Right:
		return "right"
	case Bottom:
		return "bottom"
	}
	return "bad value"
}

// Set moves one edge of the box. An edit that would invert an axis is
// rejected and the box keeps its prior value.
func (b *Box) Set(e Edge, v int) error {
	n := *b
	switch e {
	case Left:
		n.Left = v
	case Top:
		n.Top = v
	case Right:
		n.Right = v
	case Bottom:
		n.Bottom = v
	default:
		return errors.Errorf("bad edge %d", int(e))
	}
	if !n.Valid() {
		return errors.Wrapf(ErrInvertedBox, "%s=%d", e, v)
	}
	*b = n
	return nil
}
