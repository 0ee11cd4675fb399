// Package imageprint prints images on terminals.
//
// This package has an API with no stability guarantees.
package imageprint

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	ic "image/color"
	"image/png"
	"io"

	"github.com/gookit/color"
)

func shade(w io.Writer, col ic.Color, escapesTrueColor, blanks, noColor bool) {
	cR, cG, cB, cA := col.RGBA()
	if cA == 0 {
		fmt.Fprintf(w, "\x1b[0m  ")
		return
	}

	cell := "  "
	if !blanks {
		a := ((cR + cG + cB) / 3) >> 8
		switch {
		case a < 32:
			cell = ".."
		case a < 64:
			cell = "--"
		case a < 128:
			cell = "=="
		default:
			cell = "##"
		}
	}

	switch {
	case noColor:
		fmt.Fprint(w, cell)
	case escapesTrueColor:
		fmt.Fprintf(w, "\x1b[48;2;%d;%d;%dm%s\x1b[0m", uint8(cR>>8), uint8(cG>>8), uint8(cB>>8), cell)
	default:
		fmt.Fprint(w, color.RGB(uint8(cR>>8), uint8(cG>>8), uint8(cB>>8), true).Sprint(cell))
	}
}

func printRows(w io.Writer, i image.Image, escapesTrueColor, blanks, noColor bool) error {
	buf := &bytes.Buffer{}
	for y := i.Bounds().Min.Y; y < i.Bounds().Max.Y; y++ {
		for x := i.Bounds().Min.X; x < i.Bounds().Max.X; x++ {
			shade(buf, i.At(x, y), escapesTrueColor, blanks, noColor)
		}
		if !noColor {
			buf.WriteString("\x1b[0m")
		}
		buf.WriteString("\n")
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Fprint256Color draws an image using 256color'd ascii art.
func Fprint256Color(w io.Writer, i image.Image, blanks bool) error {
	return printRows(w, i, false, blanks, false)
}

// Fprint24bit draws an image using 24bit color escape sequences by changing background.
func Fprint24bit(w io.Writer, i image.Image, blanks bool) error {
	return printRows(w, i, true, blanks, false)
}

// FprintNoColor draws an image without using color escape sequences. Only makes sense with blanks=false.
func FprintNoColor(w io.Writer, i image.Image, blanks bool) error {
	return printRows(w, i, false, blanks, true)
}

// FprintITerm draws an image using iTerm2's escape sequences.
//
// https://www.iterm2.com/documentation-images.html
func FprintITerm(w io.Writer, i image.Image, fn string) error {
	if !isTermItermWez() {
		return nil
	}
	name := base64.StdEncoding.EncodeToString([]byte(fn))
	b := &bytes.Buffer{}
	bEnc := base64.NewEncoder(base64.StdEncoding, b)
	if err := png.Encode(bEnc, i); err != nil {
		return err
	}
	bEnc.Close()
	_, err := fmt.Fprintf(w, "\n\033]1337;File=name=%s;inline=1;size=%d,width=%dpx;height=%dpx:%s\a\n", name, b.Len(), i.Bounds().Size().X, i.Bounds().Size().Y, b.String())
	return err
}
