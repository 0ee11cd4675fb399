// Package player plays animations by cycling precomposited frame bitmaps
// at a fixed tick rate.
package player

import (
	"context"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"

	"badc0de.net/pkg/go-stb/character"
	"badc0de.net/pkg/go-stb/compositor"
	"badc0de.net/pkg/go-stb/palette"
)

// TickRate is the number of display ticks per second.
const TickRate = 60

// TickInterval is the nominal time between two ticks.
const TickInterval = time.Second / TickRate

// Presenter receives the bitmap of the frame at position whenever the
// displayed frame changes. It is called with the player locked and must
// not call back into the Player.
type Presenter interface {
	Present(position int, img image.Image)
}

// PresenterFunc adapts a function to a Presenter.
type PresenterFunc func(position int, img image.Image)

func (f PresenterFunc) Present(position int, img image.Image) { f(position, img) }

// Ticker is the source of display ticks.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

type timeTicker struct {
	*time.Ticker
}

func (t timeTicker) Chan() <-chan time.Time { return t.C }

func newTimeTicker(d time.Duration) Ticker {
	return timeTicker{time.NewTicker(d)}
}

// Options control how frames are composited.
type Options struct {
	// Rect crops every frame. The empty rectangle selects the animation
	// bounds including the origin.
	Rect       image.Rectangle
	Zoom       int
	Background color.Color
	Palettes   palette.Slots
	Boxes      bool
}

// Player plays one animation at a time.
type Player struct {
	presenter Presenter
	newTicker func(time.Duration) Ticker

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
}

// New returns a stopped player presenting to p.
func New(p Presenter) *Player {
	return &Player{presenter: p, newTicker: newTimeTicker}
}

// Start stops the current playback and plays anim. The tileset is used to
// resolve sprite tiles. Both are copied, so callers may keep editing them.
// An animation without frames is not played. Start returns the generation
// of the new playback.
func (p *Player) Start(tileset *character.Tileset, anim *character.Animation, opts Options) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	gen := p.generation

	if len(anim.Frames) == 0 {
		glog.V(2).Infof("player: %q has no frames", anim.Name)
		return gen
	}

	a := anim.Clone()
	ts := tileset.Clone()
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	go func() {
		bitmaps, err := precompute(ctx, &ts, &a, opts)
		if err != nil {
			glog.V(2).Infof("player: precompute of generation %d abandoned: %v", gen, err)
			return
		}
		p.ready(ctx, gen, newSchedule(&a), bitmaps)
	}()
	return gen
}

// Stop ends playback. No frame is presented once Stop returns.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Player) stopLocked() {
	p.generation++
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// ready starts ticking the bitmaps of generation gen unless a newer
// playback was requested meanwhile.
func (p *Player) ready(ctx context.Context, gen uint64, s *schedule, bitmaps []image.Image) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.generation {
		glog.V(2).Infof("player: discarding bitmaps of generation %d, current is %d", gen, p.generation)
		return false
	}
	go p.run(ctx, gen, p.newTicker(TickInterval), s, bitmaps)
	return true
}

func (p *Player) run(ctx context.Context, gen uint64, t Ticker, s *schedule, bitmaps []image.Image) {
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.Chan():
			pos, changed := s.tick()
			if changed && !p.present(gen, pos, bitmaps[pos]) {
				return
			}
		}
	}
}

func (p *Player) present(gen uint64, pos int, img image.Image) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.generation {
		return false
	}
	p.presenter.Present(pos, img)
	return true
}

// precompute composites every frame of a concurrently.
func precompute(ctx context.Context, tiles compositor.TileLookup, a *character.Animation, opts Options) ([]image.Image, error) {
	rect := opts.Rect
	if rect.Empty() {
		rect = compositor.AnimationRect(a, compositor.RectOptions{IncludeOrigin: true, IncludeBoxes: opts.Boxes})
	}
	if rect.Empty() {
		// No frame has a sprite; show the origin alone.
		rect = compositor.FrameRect(&character.Frame{}, compositor.RectOptions{IncludeOrigin: true})
	}
	dopts := compositor.DrawOptions{
		Zoom:       opts.Zoom,
		Background: opts.Background,
		Palettes:   opts.Palettes,
		Tiles:      tiles,
		Boxes:      opts.Boxes,
	}

	bitmaps := make([]image.Image, len(a.Frames))
	g, ctx := errgroup.WithContext(ctx)
	for i := range a.Frames {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			bitmaps[i] = compositor.DrawFrame(&a.Frames[i], &rect, dopts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bitmaps, nil
}
