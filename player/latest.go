package player

import (
	"image"
)

// Frame is one presented bitmap.
type Frame struct {
	Position int
	Image    image.Image
}

// Latest is a Presenter keeping only the most recently presented frame, for
// consumers that draw at their own pace. Present never blocks.
type Latest struct {
	ch chan Frame
}

func NewLatest() *Latest {
	return &Latest{ch: make(chan Frame, 1)}
}

// Present replaces any frame not yet received.
func (l *Latest) Present(position int, img image.Image) {
	select {
	case <-l.ch:
	default:
	}
	l.ch <- Frame{Position: position, Image: img}
}

// C delivers presented frames.
func (l *Latest) C() <-chan Frame {
	return l.ch
}
