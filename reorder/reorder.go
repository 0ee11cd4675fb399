// Package reorder moves list elements by index, the way drag and drop
// reorders rows of the editor.
package reorder

import (
	"github.com/pkg/errors"
)

var ErrOutOfRange = errors.New("index out of range")

// Move removes the element at src and reinserts it so that it ends up at
// index dst. Other elements keep their relative order.
func Move[S ~[]E, E any](s S, src, dst int) error {
	if src < 0 || src >= len(s) || dst < 0 || dst >= len(s) {
		return errors.Wrapf(ErrOutOfRange, "move %d to %d in list of %d", src, dst, len(s))
	}
	if src == dst {
		return nil
	}
	e := s[src]
	if src < dst {
		copy(s[src:dst], s[src+1:dst+1])
	} else {
		copy(s[dst+1:src+1], s[dst:src])
	}
	s[dst] = e
	return nil
}

// Side tells on which half of a target element a drop happened.
type Side int

const (
	Before Side = iota
	After
)

func (s Side) String() string {
	if s == Before {
		return "before"
	}
	return "after"
}

// SideOf returns Before when pointer lies in the first half of the element
// spanning [start, start+extent), After otherwise.
func SideOf(pointer, start, extent int) Side {
	if 2*(pointer-start) < extent {
		return Before
	}
	return After
}

// DropIndex translates a drop of element src on one side of element target
// into the destination index for Move.
func DropIndex(src, target int, side Side) int {
	p := target
	if side == After {
		p++
	}
	if src < p {
		return p - 1
	}
	return p
}
