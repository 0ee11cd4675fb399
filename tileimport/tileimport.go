// Package tileimport turns images into tiles.
//
// Any registered image format is accepted. PNG and Aseprite decoders are
// always registered; multi-frame Aseprite files are decoded as an atlas of
// their frames.
package tileimport

import (
	"image"
	"image/color"
	_ "image/png"
	"io"
	"sort"

	_ "github.com/askeladdk/aseprite"
	"github.com/ericpauley/go-quantize/quantize"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-stb/character"
)

// opaqueThreshold is the 16-bit alpha at and above which a pixel is drawn.
const opaqueThreshold = 0x8000

// Decode decodes an image and slices it into tiles.
func Decode(r io.Reader) ([]character.Tile, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, "tileimport: decoding image")
	}
	tiles := Slice(img)
	glog.Infof("tileimport: %s image of %v yielded %d tiles", format, img.Bounds().Size(), len(tiles))
	return tiles, nil
}

func opaque(c color.Color) bool {
	_, _, _, a := c.RGBA()
	return a >= opaqueThreshold
}

func luma(c color.Color) uint32 {
	r, g, b, _ := c.RGBA()
	return 299*r + 587*g + 114*b
}

func toOpaque(c color.Color) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = 0xff
	return n
}

// reduce returns at most three colors representing the opaque pixels of
// img, ordered from dark to light.
func reduce(img image.Image) color.Palette {
	b := img.Bounds()
	var pixels []color.NRGBA
	distinct := make(map[color.NRGBA]bool)
	var pal color.Palette
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.At(x, y)
			if !opaque(c) {
				continue
			}
			n := toOpaque(c)
			pixels = append(pixels, n)
			if !distinct[n] {
				distinct[n] = true
				pal = append(pal, n)
			}
		}
	}
	if len(pal) > 3 {
		// Quantize a strip of the opaque pixels only, so transparency does
		// not leak into the palette.
		strip := image.NewNRGBA(image.Rect(0, 0, len(pixels), 1))
		for i, n := range pixels {
			strip.SetNRGBA(i, 0, n)
		}
		pal = quantize.MedianCutQuantizer{}.Quantize(make(color.Palette, 0, 3), strip)
	}
	sort.SliceStable(pal, func(i, j int) bool { return luma(pal[i]) < luma(pal[j]) })
	return pal
}

// Slice cuts an image into 8x8 cells, left to right and top to bottom.
// Transparent pixels become 0; the opaque pixels of the whole image are
// reduced to three colors, ordered from dark to light as values 1 to 3.
// Cells without opaque pixels are skipped.
func Slice(img image.Image) []character.Tile {
	b := img.Bounds()
	pal := reduce(img)
	if len(pal) == 0 {
		return nil
	}

	var tiles []character.Tile
	for ty := b.Min.Y; ty < b.Max.Y; ty += character.TileSize {
		for tx := b.Min.X; tx < b.Max.X; tx += character.TileSize {
			var t character.Tile
			empty := true
			for y := 0; y < character.TileSize; y++ {
				for x := 0; x < character.TileSize; x++ {
					p := image.Pt(tx+x, ty+y)
					if !p.In(b) {
						continue
					}
					c := img.At(p.X, p.Y)
					if !opaque(c) {
						continue
					}
					empty = false
					t[y][x] = uint8(pal.Index(toOpaque(c)) + 1)
				}
			}
			if !empty {
				tiles = append(tiles, t)
			}
		}
	}
	return tiles
}
