package imageprint

import (
	"image"

	"github.com/nfnt/resize"
	"golang.org/x/crypto/ssh/terminal"
)

// TermSize is a terminal size in character cells and, when the terminal
// reports it, in pixels.
type TermSize struct {
	WSRow, WSCol       uint
	WSXPixel, WSYPixel uint
}

func stdinTermSize() (TermSize, error) {
	w, h, err := terminal.GetSize(0)
	if err != nil {
		return TermSize{}, err
	}
	return TermSize{WSRow: uint(h), WSCol: uint(w)}, nil
}

// Fit shrinks img so it fits the terminal. With native set, the image is
// fitted to the pixel size of the terminal (for renderers that draw real
// images); otherwise each pixel is assumed to take two cells horizontally.
//
// Images that already fit are returned unchanged. Nearest neighbour
// sampling keeps the edges of pixel art sharp.
func Fit(img image.Image, ts TermSize, native bool) image.Image {
	maxW, maxH := ts.WSCol/2, ts.WSRow
	if native && ts.WSXPixel != 0 && ts.WSYPixel != 0 {
		maxW, maxH = ts.WSXPixel, ts.WSYPixel
	}
	if maxW == 0 || maxH == 0 {
		return img
	}
	return resize.Thumbnail(maxW, maxH, img, resize.NearestNeighbor)
}
