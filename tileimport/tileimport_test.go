package tileimport

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"badc0de.net/pkg/go-stb/ttesting"
)

var (
	dark  = color.NRGBA{0x10, 0x10, 0x10, 0xff}
	mid   = color.NRGBA{0x80, 0x40, 0x40, 0xff}
	light = color.NRGBA{0xf0, 0xf0, 0xe0, 0xff}
)

// testImage is 20x8: a three color cell, a blank cell, and a cell with a
// single light pixel at the image's right edge.
func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 20, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			switch {
			case y < 2:
				img.SetNRGBA(x, y, light)
			case y < 5:
				img.SetNRGBA(x, y, dark)
			case y < 7:
				img.SetNRGBA(x, y, mid)
			}
		}
	}
	img.SetNRGBA(3, 7, color.NRGBA{0xff, 0xff, 0xff, 0x20})
	img.SetNRGBA(19, 0, light)
	return img
}

func TestSlice(t *testing.T) {
	tiles := Slice(testImage())
	ttesting.AssertEqualInt(t, "tile count", len(tiles), 2)
	if len(tiles) != 2 {
		return
	}
	ttesting.AssertEqualInt(t, "light", int(tiles[0][0][0]), 3)
	ttesting.AssertEqualInt(t, "dark", int(tiles[0][3][5]), 1)
	ttesting.AssertEqualInt(t, "mid", int(tiles[0][6][7]), 2)
	ttesting.AssertEqualInt(t, "translucent", int(tiles[0][7][3]), 0)
	ttesting.AssertEqualInt(t, "edge pixel", int(tiles[1][0][3]), 3)
	ttesting.AssertEqualInt(t, "outside image", int(tiles[1][0][4]), 0)
	for _, tile := range tiles {
		if !tile.Valid() {
			t.Errorf("invalid tile %v", tile)
		}
	}
}

func TestSliceQuantizes(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			v := uint8(y*32 + x*2)
			img.SetNRGBA(x, y, color.NRGBA{v, v, v, 0xff})
		}
	}
	tiles := Slice(img)
	ttesting.AssertEqualInt(t, "tile count", len(tiles), 1)
	if len(tiles) != 1 {
		return
	}
	if !tiles[0].Valid() {
		t.Errorf("invalid tile %v", tiles[0])
	}
	ttesting.AssertEqualInt(t, "darkest", int(tiles[0][0][0]), 1)
	ttesting.AssertEqualInt(t, "lightest", int(tiles[0][7][7]), 3)
}

func TestSliceTransparent(t *testing.T) {
	if tiles := Slice(image.NewNRGBA(image.Rect(0, 0, 16, 16))); len(tiles) != 0 {
		t.Errorf("got %d tiles from a transparent image", len(tiles))
	}
}

func TestDecodePNG(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, testImage()); err != nil {
		t.Fatal(err)
	}
	tiles, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	ttesting.AssertEqualInt(t, "tile count", len(tiles), 2)

	if _, err := Decode(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Errorf("Decode of garbage succeeded")
	}
}
