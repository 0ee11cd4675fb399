package imageprint

import (
	"bytes"
	"fmt"
	"image"
	ic "image/color"
	"io"

	"github.com/bradfitz/iter"
)

const (
	upperHalf = "▀"
	lowerHalf = "▄"
)

func opaque(c ic.Color) (r, g, b uint8, ok bool) {
	cR, cG, cB, cA := c.RGBA()
	return uint8(cR >> 8), uint8(cG >> 8), uint8(cB >> 8), cA >= 0x8000
}

// FprintHalfBlocks draws two pixel rows per line of text with half block
// characters and 24bit color escape sequences. Lines end in CRLF so the
// output also works on terminals in raw mode.
func FprintHalfBlocks(w io.Writer, i image.Image) error {
	b := i.Bounds()
	buf := &bytes.Buffer{}
	for row := range iter.N((b.Dy() + 1) / 2) {
		y := b.Min.Y + 2*row
		for x := b.Min.X; x < b.Max.X; x++ {
			tr, tg, tb, top := opaque(i.At(x, y))
			var br, bg, bb uint8
			bottom := false
			if y+1 < b.Max.Y {
				br, bg, bb, bottom = opaque(i.At(x, y+1))
			}
			switch {
			case top && bottom:
				fmt.Fprintf(buf, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm%s", tr, tg, tb, br, bg, bb, upperHalf)
			case top:
				fmt.Fprintf(buf, "\x1b[0m\x1b[38;2;%d;%d;%dm%s", tr, tg, tb, upperHalf)
			case bottom:
				fmt.Fprintf(buf, "\x1b[0m\x1b[38;2;%d;%d;%dm%s", br, bg, bb, lowerHalf)
			default:
				buf.WriteString("\x1b[0m ")
			}
		}
		buf.WriteString("\x1b[0m\r\n")
	}
	_, err := w.Write(buf.Bytes())
	return err
}
