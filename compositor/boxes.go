package compositor

import (
	"image"
	"image/color"
	"image/draw"

	"badc0de.net/pkg/go-stb/character"
)

var (
	hitboxColor  = color.NRGBA{0xff, 0x00, 0x00, 0xff}
	hurtboxColor = color.NRGBA{0x00, 0x00, 0xff, 0xff}
	originColor  = color.NRGBA{0x00, 0xa0, 0x00, 0xff}
	// boxFillAlpha is the opacity of the area inside a box outline.
	boxFillAlpha = uint8(0x40)
)

func drawBoxes(img *image.RGBA, f *character.Frame, min image.Point, zoom int) {
	toImage := func(r image.Rectangle) image.Rectangle {
		r = r.Sub(min)
		return image.Rect(r.Min.X*zoom, r.Min.Y*zoom, r.Max.X*zoom, r.Max.Y*zoom)
	}
	if f.Hurtbox != nil {
		outline(img, toImage(boxRect(f.Hurtbox.Box)), hurtboxColor)
	}
	if f.Hitbox != nil {
		outline(img, toImage(boxRect(f.Hitbox.Box)), hitboxColor)
	}

	o := toImage(pixelRect(Origin))
	c := o.Min.Add(image.Pt(zoom/2, zoom/2))
	draw.Draw(img, image.Rect(o.Min.X, c.Y, o.Max.X, c.Y+1), &image.Uniform{originColor}, image.ZP, draw.Src)
	draw.Draw(img, image.Rect(c.X, o.Min.Y, c.X+1, o.Max.Y), &image.Uniform{originColor}, image.ZP, draw.Src)
}

// outline paints a translucent fill and a one pixel border.
func outline(img *image.RGBA, r image.Rectangle, c color.NRGBA) {
	fill := c
	fill.A = boxFillAlpha
	draw.Draw(img, r, &image.Uniform{fill}, image.ZP, draw.Over)

	border := &image.Uniform{c}
	draw.Draw(img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), border, image.ZP, draw.Src)
	draw.Draw(img, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), border, image.ZP, draw.Src)
	draw.Draw(img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), border, image.ZP, draw.Src)
	draw.Draw(img, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), border, image.ZP, draw.Src)
}
