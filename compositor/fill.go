package compositor

import (
	"image"

	"badc0de.net/pkg/go-stb/character"
)

// FloodFillTile replaces the 4-connected region of the seed pixel's value
// with value. It returns the number of changed pixels; filling a region
// with its own value changes nothing.
func FloodFillTile(t *character.Tile, x, y int, value uint8) int {
	if x < 0 || y < 0 || x >= character.TileSize || y >= character.TileSize {
		return 0
	}
	seed := t[y][x]
	if seed == value {
		return 0
	}

	changed := 0
	stack := []image.Point{{x, y}}
	t[y][x] = value
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		changed++
		for _, d := range []image.Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			n := p.Add(d)
			if n.X < 0 || n.Y < 0 || n.X >= character.TileSize || n.Y >= character.TileSize {
				continue
			}
			if t[n.Y][n.X] != seed {
				continue
			}
			// Painting on push marks the pixel visited.
			t[n.Y][n.X] = value
			stack = append(stack, n)
		}
	}
	return changed
}
