package player

import (
	"context"
	"image"
	"image/color"
	"reflect"
	"sync"
	"testing"
	"time"

	"badc0de.net/pkg/go-stb/character"
	"badc0de.net/pkg/go-stb/ttesting"
)

func animation(durations ...int) *character.Animation {
	a := &character.Animation{Name: "test"}
	for _, d := range durations {
		a.Frames = append(a.Frames, character.Frame{
			Duration: d,
			Sprites:  []character.Sprite{{Tile: "t", X: len(a.Frames)}},
		})
	}
	return a
}

func TestSchedule(t *testing.T) {
	s := newSchedule(animation(2, 3, 1))
	var positions, presented []int
	for i := 0; i < 7; i++ {
		pos, changed := s.tick()
		positions = append(positions, pos)
		if changed {
			presented = append(presented, i+1)
		}
	}
	if want := []int{0, 0, 1, 1, 1, 2, 0}; !reflect.DeepEqual(positions, want) {
		t.Errorf("positions: got %v; want %v", positions, want)
	}
	if want := []int{1, 3, 6, 7}; !reflect.DeepEqual(presented, want) {
		t.Errorf("presented on ticks %v; want %v", presented, want)
	}
}

func TestScheduleSingleFrame(t *testing.T) {
	s := newSchedule(animation(3))
	for i := 0; i < 10; i++ {
		pos, _ := s.tick()
		ttesting.AssertEqualInt(t, "position", pos, 0)
	}
}

type fakeTicker struct {
	c       chan time.Time
	stopped chan struct{}
	once    sync.Once
}

func (f *fakeTicker) Chan() <-chan time.Time { return f.c }
func (f *fakeTicker) Stop()                  { f.once.Do(func() { close(f.stopped) }) }

type presentation struct {
	position int
	img      image.Image
}

func newTestPlayer() (*Player, chan *fakeTicker, chan presentation) {
	tickers := make(chan *fakeTicker, 8)
	presented := make(chan presentation, 64)
	p := New(PresenterFunc(func(pos int, img image.Image) {
		select {
		case presented <- presentation{pos, img}:
		default:
		}
	}))
	p.newTicker = func(time.Duration) Ticker {
		ft := &fakeTicker{c: make(chan time.Time), stopped: make(chan struct{})}
		tickers <- ft
		return ft
	}
	return p, tickers, presented
}

func waitTicker(t *testing.T, tickers chan *fakeTicker) *fakeTicker {
	t.Helper()
	select {
	case ft := <-tickers:
		return ft
	case <-time.After(5 * time.Second):
		t.Fatalf("ticker not started")
	}
	return nil
}

func testTileset() *character.Tileset {
	ts := &character.Tileset{Names: []string{"t"}, Tiles: make([]character.Tile, 1)}
	ts.Tiles[0][0][0] = 1
	return ts
}

func TestPlayback(t *testing.T) {
	p, tickers, presented := newTestPlayer()
	opts := Options{Background: color.Black}
	p.Start(testTileset(), animation(2, 3, 1), opts)
	ft := waitTicker(t, tickers)

	// The tick after the last one is only sent to make sure the last one
	// was fully handled.
	for i := 0; i < 8; i++ {
		ft.c <- time.Now()
	}
	var got []int
	for len(got) < 4 {
		select {
		case pr := <-presented:
			got = append(got, pr.position)
			ttesting.AssertEqualRect(t, "bitmap bounds", pr.img.Bounds(), image.Rect(0, 0, 10, 17))
		case <-time.After(5 * time.Second):
			t.Fatalf("got presentations %v; want 4", got)
		}
	}
	if want := []int{0, 1, 2, 0}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v; want %v", got, want)
	}

	p.Stop()
	select {
	case <-ft.stopped:
	case <-time.After(5 * time.Second):
		t.Fatalf("ticker not stopped")
	}
	select {
	case pr := <-presented:
		t.Errorf("presentation %d after stop", pr.position)
	default:
	}
}

// feed ticks ft until its playback ends.
func feed(ft *fakeTicker) {
	for {
		select {
		case ft.c <- time.Now():
		case <-ft.stopped:
			return
		}
	}
}

func TestRestartPresentsNewest(t *testing.T) {
	p, tickers, presented := newTestPlayer()
	first := animation(1)
	second := animation(1, 1)

	p.Start(testTileset(), first, Options{Rect: image.Rect(0, 0, 1, 1)})
	gen := p.Start(testTileset(), second, Options{Rect: image.Rect(0, 0, 2, 2)})
	defer p.Stop()

	// The first playback may or may not have started ticking before it
	// was replaced.
	for i := 0; i < 10; i++ {
		select {
		case ft := <-tickers:
			go feed(ft)
			continue
		case pr := <-presented:
			ttesting.AssertEqualRect(t, "bounds of second animation", pr.img.Bounds(), image.Rect(0, 0, 2, 2))
		case <-time.After(5 * time.Second):
			t.Fatalf("nothing presented")
		}
	}
	p.mu.Lock()
	ttesting.AssertEqualInt(t, "generation", int(p.generation), int(gen))
	p.mu.Unlock()
}

func TestReadyDiscardsStaleGeneration(t *testing.T) {
	p, tickers, _ := newTestPlayer()
	p.generation = 5
	a := animation(1)
	if p.ready(context.Background(), 4, newSchedule(a), []image.Image{image.NewRGBA(image.Rect(0, 0, 1, 1))}) {
		t.Errorf("stale bitmaps accepted")
	}
	select {
	case <-tickers:
		t.Errorf("ticker started for stale generation")
	default:
	}
}

func TestPlaybackWithoutSprites(t *testing.T) {
	p, tickers, presented := newTestPlayer()
	a := &character.Animation{Name: "blank", Frames: []character.Frame{{Duration: 1}, {Duration: 1}}}
	p.Start(testTileset(), a, Options{Zoom: 3, Background: color.Black})
	defer p.Stop()
	go feed(waitTicker(t, tickers))

	select {
	case pr := <-presented:
		ttesting.AssertEqualRect(t, "origin-sized bitmap", pr.img.Bounds(), image.Rect(0, 0, 3, 3))
	case <-time.After(5 * time.Second):
		t.Fatalf("nothing presented")
	}
}

func TestStartWithoutFrames(t *testing.T) {
	p, _, _ := newTestPlayer()
	before := p.generation
	gen := p.Start(testTileset(), &character.Animation{Name: "empty"}, Options{})
	ttesting.AssertEqualInt(t, "generation bumped", int(gen), int(before)+1)
	if p.cancel != nil {
		t.Errorf("playback scheduled for an empty animation")
	}
}

func TestLatestKeepsNewest(t *testing.T) {
	l := NewLatest()
	a := image.NewRGBA(image.Rect(0, 0, 1, 1))
	b := image.NewRGBA(image.Rect(0, 0, 2, 2))
	l.Present(0, a)
	l.Present(1, b)

	select {
	case f := <-l.C():
		ttesting.AssertEqualInt(t, "position", f.Position, 1)
		ttesting.AssertEqualRect(t, "image", f.Image.Bounds(), b.Bounds())
	default:
		t.Fatal("no frame presented")
	}
	select {
	case f := <-l.C():
		t.Errorf("stale frame %d delivered", f.Position)
	default:
	}
}
