package character

import (
	"encoding/json"
)

// TileSize is the width and height of a tile, in pixels.
const TileSize = 8

// Sprite positions and box edges are signed bytes.
const (
	MinCoord = -128
	MaxCoord = 127
)

// InCoordRange reports whether v fits a sprite position or box edge.
func InCoordRange(v int) bool {
	return v >= MinCoord && v <= MaxCoord
}

// Sprite attribute bits.
const (
	AttrPaletteSlot = 0x01
	AttrFlipX       = 0x40
	AttrFlipY       = 0x80
)

// Tile is an 8x8 grid of color indices. Index 0 is transparent, 1 to 3 pick
// a color from a palette. Rows come first: t[y][x].
type Tile [TileSize][TileSize]uint8

// Valid reports whether every pixel of the tile holds a value in [0,3].
func (t *Tile) Valid() bool {
	for y := range t {
		for x := range t[y] {
			if t[y][x] > 3 {
				return false
			}
		}
	}
	return true
}

// Sprite places one tile of the tileset in a frame.
type Sprite struct {
	Tile       string
	X, Y       int
	Attr       uint8
	Foreground bool
}

func (s Sprite) FlipX() bool      { return s.Attr&AttrFlipX != 0 }
func (s Sprite) FlipY() bool      { return s.Attr&AttrFlipY != 0 }
func (s Sprite) PaletteSlot() int { return int(s.Attr & AttrPaletteSlot) }

func (s *Sprite) ToggleFlipX()       { s.Attr ^= AttrFlipX }
func (s *Sprite) ToggleFlipY()       { s.Attr ^= AttrFlipY }
func (s *Sprite) TogglePaletteSlot() { s.Attr ^= AttrPaletteSlot }
func (s *Sprite) ToggleForeground()  { s.Foreground = !s.Foreground }

// Box is an axis-aligned rectangle with inclusive edges.
type Box struct {
	Left, Top, Right, Bottom int
}

// Valid reports whether no axis of the box is inverted.
func (b Box) Valid() bool {
	return b.Left <= b.Right && b.Top <= b.Bottom
}

// Hurtbox is the vulnerable region of a frame.
type Hurtbox struct {
	Box
}

// HitboxKind discriminates Hitbox variants.
type HitboxKind int

const (
	DirectHitbox HitboxKind = iota
	CustomHitbox
)

func (k HitboxKind) String() string {
	switch k {
	case DirectHitbox:
		return "direct"
	case CustomHitbox:
		return "custom"
	}
	return "bad value"
}

// Hitbox is the attacking region of a frame.
//
// Direct hitboxes use Damages and the base/force knockback pairs. Custom
// hitboxes name a routine of the game engine and pass it Values; both are
// opaque to the editor.
type Hitbox struct {
	Kind HitboxKind
	Box
	Enabled bool

	Damages      int
	BaseH, BaseV int
	ForceH       int
	ForceV       int

	Routine string
	Values  [5]int
}

// Frame is one timed step of an animation.
type Frame struct {
	// Duration is expressed in display ticks and is at least 1.
	Duration int
	Sprites  []Sprite
	Hitbox   *Hitbox
	Hurtbox  *Hurtbox
}

// ToggleHitbox installs a default direct hitbox, or removes the hitbox.
func (f *Frame) ToggleHitbox(on bool) {
	if (f.Hitbox != nil) == on {
		return
	}
	if !on {
		f.Hitbox = nil
		return
	}
	f.Hitbox = &Hitbox{
		Kind:    DirectHitbox,
		Damages: 1,
		Enabled: true,
	}
}

// ToggleHurtbox installs a zeroed hurtbox, or removes the hurtbox.
func (f *Frame) ToggleHurtbox(on bool) {
	if (f.Hurtbox != nil) == on {
		return
	}
	if !on {
		f.Hurtbox = nil
		return
	}
	f.Hurtbox = &Hurtbox{}
}

// Animation is a looping sequence of frames.
type Animation struct {
	Name   string
	Frames []Frame
}

// Swap selects colors of the master color table. Entries 0 to 2 color
// pixel values 1 to 3; value 0 is always transparent. Entry 3 is stored
// but never drawn.
type Swap [4]uint8

// ColorSwaps lists the alternative palettes of a character. The same swap
// index is used across the three categories.
type ColorSwaps struct {
	Primary   []Swap
	Secondary []Swap
	Alternate []Swap
}

// Len returns the number of swaps usable across all categories.
func (c *ColorSwaps) Len() int {
	n := len(c.Primary)
	if len(c.Secondary) < n {
		n = len(c.Secondary)
	}
	if len(c.Alternate) < n {
		n = len(c.Alternate)
	}
	return n
}

// Tileset is the named collection of tiles sprites refer to. Names and
// Tiles are parallel slices.
type Tileset struct {
	Names []string
	Tiles []Tile
}

// Illustration is a fixed-size grid of tiles stored row-major.
type Illustration struct {
	Tiles []Tile
}

// Document is a whole character.
type Document struct {
	Name    string
	Tileset Tileset

	IllustrationToken Illustration
	IllustrationSmall Illustration
	IllustrationLarge Illustration

	Animations          []Animation
	VictoryAnimation    Animation
	DefeatAnimation     Animation
	MenuSelectAnimation Animation

	ColorSwaps ColorSwaps

	// States are opaque to the editor; they are only reordered.
	States         []json.RawMessage
	SourceCode     string
	NetloadRoutine string
}

// New returns an empty character with blank illustrations, empty mandatory
// animations and one color swap.
func New(name string) *Document {
	d := &Document{
		Name:                name,
		VictoryAnimation:    Animation{Name: "victory"},
		DefeatAnimation:     Animation{Name: "defeat"},
		MenuSelectAnimation: Animation{Name: "menu_select"},
		ColorSwaps: ColorSwaps{
			Primary:   []Swap{{0x08, 0x1a, 0x20, 0}},
			Secondary: []Swap{{0x0d, 0x16, 0x30, 0}},
			Alternate: []Swap{{0x0d, 0x11, 0x31, 0}},
		},
	}
	for _, k := range []IllustrationKind{IllustrationToken, IllustrationSmall, IllustrationLarge} {
		cols, rows := k.Size()
		d.Illustration(k).Tiles = make([]Tile, cols*rows)
	}
	return d
}

// Mandatory returns the three animations every character must have.
func (d *Document) Mandatory() []*Animation {
	return []*Animation{&d.VictoryAnimation, &d.DefeatAnimation, &d.MenuSelectAnimation}
}

// AllAnimations returns the animation collection followed by the mandatory
// animations.
func (d *Document) AllAnimations() []*Animation {
	all := make([]*Animation, 0, len(d.Animations)+3)
	for i := range d.Animations {
		all = append(all, &d.Animations[i])
	}
	return append(all, d.Mandatory()...)
}
