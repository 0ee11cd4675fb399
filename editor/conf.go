package editor

import (
	"image/color"

	"badc0de.net/pkg/go-stb/character"
	"badc0de.net/pkg/go-stb/palette"
)

// Tool is the active pointer tool.
type Tool int

const (
	Brush Tool = iota
	Select
)

func (t Tool) String() string {
	switch t {
	case Brush:
		return "brush"
	case Select:
		return "select"
	}
	return "bad value"
}

// Grid is the grid overlay mode.
type Grid int

const (
	GridOff Grid = iota
	GridTiles
	GridPixels
)

func (g Grid) String() string {
	switch g {
	case GridOff:
		return "off"
	case GridTiles:
		return "tiles"
	case GridPixels:
		return "pixels"
	}
	return "bad value"
}

// ZoomLevels are the zoom values ZoomStep moves between.
var ZoomLevels = []int{2, 4, 8, 16, 24, 32, 48}

// DefaultBackground is painted where pixels are transparent.
var DefaultBackground = color.NRGBA{0x80, 0xff, 0xff, 0xff}

// Conf holds the editor settings that are not part of the document.
type Conf struct {
	// Color is the manually selected pixel value.
	Color uint8
	// ColorModifier is xored into Color while drawing.
	ColorModifier uint8
	// ColorSwap is the index of the color swap used for display.
	ColorSwap  int
	Background color.NRGBA
	// Zoom is the display size of one pixel.
	Zoom  int
	Tool  Tool
	Grid  Grid
	Boxes bool
}

func NewConf() *Conf {
	return &Conf{
		Background: DefaultBackground,
		Zoom:       16,
		Tool:       Brush,
		Grid:       GridTiles,
		Boxes:      true,
	}
}

// DrawColor is the pixel value painted by the brush.
func (c *Conf) DrawColor() uint8 {
	return (c.Color ^ c.ColorModifier) & 0x3
}

// SetModifiers updates the color modifier from the state of the Control
// and Shift keys.
func (c *Conf) SetModifiers(ctrl, shift bool) {
	c.ColorModifier = 0
	if ctrl {
		c.ColorModifier |= 1
	}
	if shift {
		c.ColorModifier |= 2
	}
}

// ZoomStep moves the zoom by step levels from the level closest to the
// current zoom, stopping at the smallest and largest levels.
func (c *Conf) ZoomStep(step int) {
	closest := 0
	for i, z := range ZoomLevels {
		if abs(z-c.Zoom) < abs(ZoomLevels[closest]-c.Zoom) {
			closest = i
		}
	}
	i := closest + step
	if i < 0 {
		i = 0
	}
	if i > len(ZoomLevels)-1 {
		i = len(ZoomLevels) - 1
	}
	c.Zoom = ZoomLevels[i]
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// CycleGrid switches to the next grid mode.
func (c *Conf) CycleGrid() {
	c.Grid = (c.Grid + 1) % 3
}

func (c *Conf) ToggleBoxes() {
	c.Boxes = !c.Boxes
}

// Palettes resolves the selected color swap of d.
func (c *Conf) Palettes(d *character.Document) (palette.Slots, error) {
	return palette.Resolve(&d.ColorSwaps, c.ColorSwap)
}
