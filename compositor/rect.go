package compositor

import (
	"image"

	"badc0de.net/pkg/go-stb/character"
)

// Origin is the ground-level anchor every frame is positioned against.
var Origin = image.Pt(0, 16)

// MaxRect bounds every frame canvas. Sprites and boxes within the
// coordinate range of a character fit inside it.
var MaxRect = image.Rect(character.MinCoord, character.MinCoord,
	character.MaxCoord+character.TileSize, character.MaxCoord+character.TileSize)

// RectOptions tune the bounds computed by FrameRect and AnimationRect.
type RectOptions struct {
	// IncludeBoxes extends the bounds over the hitbox and hurtbox.
	IncludeBoxes bool
	// IncludeOrigin extends the bounds over Origin.
	IncludeOrigin bool
	// Margin inflates non-empty bounds on all sides.
	Margin int
}

func boxRect(b character.Box) image.Rectangle {
	return image.Rect(b.Left, b.Top, b.Right+1, b.Bottom+1)
}

func pixelRect(p image.Point) image.Rectangle {
	return image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))}
}

// FrameRect returns the bounds of a frame in frame coordinates. A frame
// with nothing to include yields the empty rectangle.
func FrameRect(f *character.Frame, opts RectOptions) image.Rectangle {
	var r image.Rectangle
	for _, s := range f.Sprites {
		r = r.Union(image.Rect(s.X, s.Y, s.X+character.TileSize, s.Y+character.TileSize))
	}
	if opts.IncludeBoxes {
		if f.Hitbox != nil {
			r = r.Union(boxRect(f.Hitbox.Box))
		}
		if f.Hurtbox != nil {
			r = r.Union(boxRect(f.Hurtbox.Box))
		}
	}
	if opts.IncludeOrigin {
		r = r.Union(pixelRect(Origin))
	}
	if r.Empty() {
		return image.Rectangle{}
	}
	return r.Inset(-opts.Margin)
}

// AnimationRect returns the union of the bounds of every frame with at
// least one sprite, inflated once by the margin.
func AnimationRect(a *character.Animation, opts RectOptions) image.Rectangle {
	margin := opts.Margin
	opts.Margin = 0
	var r image.Rectangle
	for i := range a.Frames {
		if len(a.Frames[i].Sprites) == 0 {
			continue
		}
		r = r.Union(FrameRect(&a.Frames[i], opts))
	}
	if r.Empty() {
		return image.Rectangle{}
	}
	return r.Inset(-margin)
}
