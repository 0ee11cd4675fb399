package ttesting

import (
	"image"
	"image/color"
	"testing"
)

func AssertEqualInt(t *testing.T, name string, got, want int) {
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %d; want %d", got, want)
		}
	})
}

func AssertEqualString(t *testing.T, name string, got, want string) {
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %q; want %q", got, want)
		}
	})
}

func AssertEqualBool(t *testing.T, name string, got, want bool) {
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %v; want %v", got, want)
		}
	})
}

func AssertEqualRect(t *testing.T, name string, got, want image.Rectangle) {
	t.Run(name, func(t *testing.T) {
		if !got.Eq(want) {
			t.Errorf("got %v; want %v", got, want)
		}
	})
}

// AssertEqualColor compares colors by their premultiplied RGBA values.
func AssertEqualColor(t *testing.T, name string, got, want color.Color) {
	t.Run(name, func(t *testing.T) {
		gr, gg, gb, ga := got.RGBA()
		wr, wg, wb, wa := want.RGBA()
		if gr != wr || gg != wg || gb != wb || ga != wa {
			t.Errorf("got %v; want %v", got, want)
		}
	})
}
