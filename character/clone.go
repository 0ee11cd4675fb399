package character

import (
	"encoding/json"
)

// Clone returns a copy of the frame sharing no memory with f.
func (f *Frame) Clone() Frame {
	c := Frame{Duration: f.Duration}
	if f.Sprites != nil {
		c.Sprites = make([]Sprite, len(f.Sprites))
		copy(c.Sprites, f.Sprites)
	}
	if f.Hitbox != nil {
		hb := *f.Hitbox
		c.Hitbox = &hb
	}
	if f.Hurtbox != nil {
		hb := *f.Hurtbox
		c.Hurtbox = &hb
	}
	return c
}

// Clone returns a copy of the animation sharing no memory with a.
func (a *Animation) Clone() Animation {
	c := Animation{Name: a.Name}
	if a.Frames != nil {
		c.Frames = make([]Frame, len(a.Frames))
		for i := range a.Frames {
			c.Frames[i] = a.Frames[i].Clone()
		}
	}
	return c
}

func cloneTiles(in []Tile) []Tile {
	if in == nil {
		return nil
	}
	out := make([]Tile, len(in))
	copy(out, in) // Tile is an array; copy is deep
	return out
}

func cloneSwaps(in []Swap) []Swap {
	if in == nil {
		return nil
	}
	out := make([]Swap, len(in))
	copy(out, in)
	return out
}

// Clone returns a copy of the tileset sharing no memory with ts.
func (ts *Tileset) Clone() Tileset {
	c := Tileset{Tiles: cloneTiles(ts.Tiles)}
	if ts.Names != nil {
		c.Names = make([]string, len(ts.Names))
		copy(c.Names, ts.Names)
	}
	return c
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	c := &Document{
		Name:                d.Name,
		Tileset:             d.Tileset.Clone(),
		IllustrationToken:   Illustration{Tiles: cloneTiles(d.IllustrationToken.Tiles)},
		IllustrationSmall:   Illustration{Tiles: cloneTiles(d.IllustrationSmall.Tiles)},
		IllustrationLarge:   Illustration{Tiles: cloneTiles(d.IllustrationLarge.Tiles)},
		VictoryAnimation:    d.VictoryAnimation.Clone(),
		DefeatAnimation:     d.DefeatAnimation.Clone(),
		MenuSelectAnimation: d.MenuSelectAnimation.Clone(),
		ColorSwaps: ColorSwaps{
			Primary:   cloneSwaps(d.ColorSwaps.Primary),
			Secondary: cloneSwaps(d.ColorSwaps.Secondary),
			Alternate: cloneSwaps(d.ColorSwaps.Alternate),
		},
		SourceCode:     d.SourceCode,
		NetloadRoutine: d.NetloadRoutine,
	}
	if d.Animations != nil {
		c.Animations = make([]Animation, len(d.Animations))
		for i := range d.Animations {
			c.Animations[i] = d.Animations[i].Clone()
		}
	}
	if d.States != nil {
		c.States = make([]json.RawMessage, len(d.States))
		for i, s := range d.States {
			if s != nil {
				c.States[i] = append(json.RawMessage(nil), s...)
			}
		}
	}
	return c
}
