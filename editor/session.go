// Package editor implements an editing session over a character document.
//
// Every change to the document goes through the session, which reports it
// to the undo history.
package editor

import (
	"context"
	"io"
	"strconv"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-stb/character"
	"badc0de.net/pkg/go-stb/compositor"
	"badc0de.net/pkg/go-stb/history"
	"badc0de.net/pkg/go-stb/presets"
	"badc0de.net/pkg/go-stb/reorder"
	"badc0de.net/pkg/go-stb/store"
	"badc0de.net/pkg/go-stb/tileimport"
)

// Target selects the pixels a tool applies to: a tile of the tileset, or
// an illustration.
type Target struct {
	Tile           string
	Illustration   character.IllustrationKind
	IsIllustration bool
}

func TileTarget(name string) Target { return Target{Tile: name} }

func IllustrationTarget(k character.IllustrationKind) Target {
	return Target{Illustration: k, IsIllustration: true}
}

func (t Target) String() string {
	if t.IsIllustration {
		return "illustration " + t.Illustration.String()
	}
	return "tile " + strconv.Quote(t.Tile)
}

// Session owns the document being edited. It is not safe for concurrent
// use.
type Session struct {
	Conf *Conf

	doc     *character.Document
	history *history.Manager
}

// NewSession returns a session editing an empty character.
func NewSession() *Session {
	s := &Session{Conf: NewConf()}
	s.history = history.New(func() *character.Document { return s.doc }, history.DefaultLimit)
	s.Load(character.New("new"))
	return s
}

// Document returns the live document. Callers must change it only through
// Edit.
func (s *Session) Document() *character.Document {
	return s.doc
}

// Load replaces the document and starts a new history.
func (s *Session) Load(d *character.Document) {
	s.doc = d
	s.history.Reset()
	s.history.OnMutation()
	if s.Conf.ColorSwap >= d.ColorSwaps.Len() {
		s.Conf.ColorSwap = 0
	}
	glog.V(2).Infof("editor: loaded %q", d.Name)
}

// Edit runs fn on the live document and records the change. fn must leave
// the document untouched when it returns an error.
func (s *Session) Edit(fn func(d *character.Document) error) error {
	if err := fn(s.doc); err != nil {
		return err
	}
	s.history.OnMutation()
	return nil
}

func (s *Session) GestureStart() { s.history.GestureStart() }
func (s *Session) GestureEnd()   { s.history.GestureEnd() }

// Undo restores the state before the last recorded change. It reports
// whether anything was undone.
func (s *Session) Undo() bool {
	d, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.doc = d
	s.history.OnMutation()
	return true
}

// tileAt resolves a pixel of a target to a tile and the pixel within it.
func (s *Session) tileAt(t Target, x, y int) (*character.Tile, int, int, error) {
	if t.IsIllustration {
		il := s.doc.Illustration(t.Illustration)
		if il == nil {
			return nil, 0, 0, errors.Wrapf(character.ErrNotFound, "%v", t)
		}
		tile, tx, ty, ok := il.TileAt(t.Illustration, x, y)
		if !ok {
			return nil, 0, 0, errors.Errorf("pixel %d,%d outside %v", x, y, t)
		}
		return tile, tx, ty, nil
	}
	tile, ok := s.doc.Tile(t.Tile)
	if !ok {
		return nil, 0, 0, errors.Wrapf(character.ErrNotFound, "%v", t)
	}
	if x < 0 || y < 0 || x >= character.TileSize || y >= character.TileSize {
		return nil, 0, 0, errors.Errorf("pixel %d,%d outside %v", x, y, t)
	}
	return tile, x, y, nil
}

// Paint sets one pixel of the target to the draw color.
func (s *Session) Paint(t Target, x, y int) error {
	tile, tx, ty, err := s.tileAt(t, x, y)
	if err != nil {
		return err
	}
	value := s.Conf.DrawColor()
	if tile[ty][tx] == value {
		return nil
	}
	return s.Edit(func(*character.Document) error {
		tile[ty][tx] = value
		return nil
	})
}

// Fill flood fills the region of the pixel with the draw color, within the
// tile holding the pixel.
func (s *Session) Fill(t Target, x, y int) error {
	tile, tx, ty, err := s.tileAt(t, x, y)
	if err != nil {
		return err
	}
	value := s.Conf.DrawColor()
	if tile[ty][tx] == value {
		return nil
	}
	return s.Edit(func(*character.Document) error {
		compositor.FloodFillTile(tile, tx, ty, value)
		return nil
	})
}

// MoveTile reorders the tileset.
func (s *Session) MoveTile(src, dst int) error {
	return s.Edit(func(d *character.Document) error {
		if len(d.Tileset.Names) != len(d.Tileset.Tiles) {
			return errors.Wrap(character.ErrInvalid, "tileset names and tiles differ in length")
		}
		if err := reorder.Move(d.Tileset.Names, src, dst); err != nil {
			return err
		}
		return reorder.Move(d.Tileset.Tiles, src, dst)
	})
}

func (s *Session) animation(name string) (*character.Animation, error) {
	a, ok := s.doc.Animation(name)
	if !ok {
		return nil, errors.Wrapf(character.ErrNotFound, "animation %q", name)
	}
	return a, nil
}

// MoveFrame reorders the frames of the named animation.
func (s *Session) MoveFrame(anim string, src, dst int) error {
	a, err := s.animation(anim)
	if err != nil {
		return err
	}
	return s.Edit(func(*character.Document) error {
		return reorder.Move(a.Frames, src, dst)
	})
}

// MoveSprite reorders the sprites of a frame of the named animation.
func (s *Session) MoveSprite(anim string, frame, src, dst int) error {
	a, err := s.animation(anim)
	if err != nil {
		return err
	}
	if frame < 0 || frame >= len(a.Frames) {
		return errors.Wrapf(reorder.ErrOutOfRange, "frame %d of %q", frame, anim)
	}
	return s.Edit(func(*character.Document) error {
		return reorder.Move(a.Frames[frame].Sprites, src, dst)
	})
}

// MoveAnimation reorders the animation collection.
func (s *Session) MoveAnimation(src, dst int) error {
	return s.Edit(func(d *character.Document) error {
		return reorder.Move(d.Animations, src, dst)
	})
}

// MoveState reorders the states.
func (s *Session) MoveState(src, dst int) error {
	return s.Edit(func(d *character.Document) error {
		return reorder.Move(d.States, src, dst)
	})
}

// ImportTiles appends the tiles sliced from an image, named prefix
// followed by a number, and returns the new names.
func (s *Session) ImportTiles(r io.Reader, prefix string) ([]string, error) {
	tiles, err := tileimport.Decode(r)
	if err != nil {
		return nil, err
	}
	var names []string
	err = s.Edit(func(d *character.Document) error {
		n := 0
		for range tiles {
			for d.TileIndex(prefix+strconv.Itoa(n)) >= 0 {
				n++
			}
			names = append(names, prefix+strconv.Itoa(n))
			n++
		}
		d.Tileset.Names = append(d.Tileset.Names, names...)
		d.Tileset.Tiles = append(d.Tileset.Tiles, tiles...)
		return nil
	})
	return names, err
}

// Import replaces the document with a serialized one. Invalid data leaves
// the session untouched.
func (s *Session) Import(data []byte) error {
	d, err := character.Import(data)
	if err != nil {
		return err
	}
	s.Load(d)
	return nil
}

// Export serializes the document and returns the file name to offer it
// under.
func (s *Session) Export() ([]byte, string, error) {
	data, err := character.Export(s.doc)
	if err != nil {
		return nil, "", errors.Wrapf(err, "exporting %q", s.doc.Name)
	}
	return data, s.doc.FileName(), nil
}

// Save stores the document under its name.
func (s *Session) Save(st store.Store) error {
	data, _, err := s.Export()
	if err != nil {
		return err
	}
	if err := st.Set(s.doc.Name, data); err != nil {
		glog.Errorf("editor: saving %q: %v", s.doc.Name, err)
		return errors.Wrapf(err, "saving %q", s.doc.Name)
	}
	glog.Infof("editor: saved %q", s.doc.Name)
	return nil
}

// Open loads the named document from a store.
func (s *Session) Open(st store.Store, name string) error {
	data, err := st.Get(name)
	if err != nil {
		glog.Errorf("editor: opening %q: %v", name, err)
		return errors.Wrapf(err, "opening %q", name)
	}
	return errors.Wrapf(s.Import(data), "opening %q", name)
}

// FetchPreset loads the named preset.
func (s *Session) FetchPreset(ctx context.Context, c *presets.Client, name string) error {
	d, err := c.Fetch(ctx, name)
	if err != nil {
		glog.Errorf("editor: fetching preset %q: %v", name, err)
		return err
	}
	s.Load(d)
	return nil
}
