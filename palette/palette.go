// Package palette resolves color swaps of a character to drawable colors.
package palette

import (
	"fmt"
	"image/color"
	"strings"

	gookit "github.com/gookit/color"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-stb/character"
)

// Master is the 64-entry color table swaps index into. Entry 0 is
// transparent.
var Master = [64]color.NRGBA{
	{},
	rgb(0x0000fc), rgb(0x0000bc), rgb(0x4428bc), rgb(0x940084), rgb(0xa80020), rgb(0xa81000), rgb(0x881400),
	rgb(0x503000), rgb(0x007800), rgb(0x006800), rgb(0x005800), rgb(0x004058), rgb(0x000000), rgb(0x000000),
	rgb(0x000000),
	rgb(0xbcbcbc), rgb(0x0078f8), rgb(0x0058f8), rgb(0x6844fc), rgb(0xd800cc), rgb(0xe40058), rgb(0xf83800),
	rgb(0xe45c10), rgb(0xac7c00), rgb(0x00b800), rgb(0x00a800), rgb(0x00a844), rgb(0x008888), rgb(0x000000),
	rgb(0x000000), rgb(0x000000),
	rgb(0xf8f8f8), rgb(0x3cbcfc), rgb(0x6888fc), rgb(0x9878f8), rgb(0xf878f8), rgb(0xf85898), rgb(0xf87858),
	rgb(0xfca044), rgb(0xf8b800), rgb(0xb8f818), rgb(0x58d854), rgb(0x58f898), rgb(0x00e8d8), rgb(0x787878),
	rgb(0x000000), rgb(0x000000),
	rgb(0xfcfcfc), rgb(0xa4e4fc), rgb(0xb8b8f8), rgb(0xd8b8f8), rgb(0xf8b8f8), rgb(0xf8a4c0), rgb(0xf0d0b0),
	rgb(0xfce0a8), rgb(0xf8d878), rgb(0xd8f878), rgb(0xb8f8b8), rgb(0xb8f8d8), rgb(0x00fcfc), rgb(0xf8d8f8),
	rgb(0x000000), rgb(0x000000),
}

func rgb(v uint32) color.NRGBA {
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

// Palette holds the colors of pixel values 1 to 3.
type Palette [3]color.NRGBA

// At returns the color of a tile pixel value. Value 0 is transparent.
func (p Palette) At(value uint8) color.NRGBA {
	if value == 0 || int(value) > len(p) {
		return color.NRGBA{}
	}
	return p[value-1]
}

// FromSwap looks up the colors of a swap in the master table. Pixel
// value v takes swap entry v-1.
func FromSwap(s character.Swap) Palette {
	var p Palette
	for i := range p {
		p[i] = Master[s[i]&0x3f]
	}
	return p
}

// Slots are the palettes of one color swap: primary, secondary and
// alternate. Sprites pick one of the first two through their attribute.
type Slots [3]Palette

// Sprite returns the palette selected by a sprite attribute.
func (s *Slots) Sprite(attr uint8) Palette {
	return s[attr&character.AttrPaletteSlot]
}

// Resolve returns the palettes of the given color swap index.
func Resolve(cs *character.ColorSwaps, swap int) (Slots, error) {
	var s Slots
	if swap < 0 || swap >= cs.Len() {
		return s, errors.Errorf("color swap %d out of range [0,%d)", swap, cs.Len())
	}
	s[0] = FromSwap(cs.Primary[swap])
	s[1] = FromSwap(cs.Secondary[swap])
	s[2] = FromSwap(cs.Alternate[swap])
	return s, nil
}

// All resolves every color swap usable across the three categories.
func All(cs *character.ColorSwaps) []Slots {
	all := make([]Slots, cs.Len())
	for i := range all {
		all[i], _ = Resolve(cs, i)
	}
	return all
}

// ParseHex parses colors written as #rrggbb or #rgb.
func ParseHex(s string) (color.NRGBA, error) {
	v := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(v) == 3 {
		v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]})
	}
	if len(v) != 6 {
		return color.NRGBA{}, errors.Errorf("bad color %q", s)
	}
	c := gookit.HexToRGB(v)
	if len(c) != 3 {
		return color.NRGBA{}, errors.Errorf("bad color %q", s)
	}
	return color.NRGBA{R: uint8(c[0]), G: uint8(c[1]), B: uint8(c[2]), A: 0xff}, nil
}

// Hex formats a color as #rrggbb.
func Hex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}
