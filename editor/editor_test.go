package editor

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-stb/character"
	"badc0de.net/pkg/go-stb/presets"
	"badc0de.net/pkg/go-stb/store"
	"badc0de.net/pkg/go-stb/ttesting"
)

func TestConfZoomStep(t *testing.T) {
	c := NewConf()
	ttesting.AssertEqualInt(t, "default", c.Zoom, 16)
	c.ZoomStep(1)
	ttesting.AssertEqualInt(t, "in", c.Zoom, 24)
	c.ZoomStep(10)
	ttesting.AssertEqualInt(t, "clamped in", c.Zoom, 48)
	c.ZoomStep(-100)
	ttesting.AssertEqualInt(t, "clamped out", c.Zoom, 2)
	c.Zoom = 30
	c.ZoomStep(-1)
	ttesting.AssertEqualInt(t, "from closest", c.Zoom, 24)
}

func TestConfColor(t *testing.T) {
	c := NewConf()
	c.Color = 1
	c.SetModifiers(false, true)
	ttesting.AssertEqualInt(t, "shift", int(c.DrawColor()), 3)
	c.SetModifiers(true, false)
	ttesting.AssertEqualInt(t, "ctrl", int(c.DrawColor()), 0)
	c.SetModifiers(false, false)
	ttesting.AssertEqualInt(t, "none", int(c.DrawColor()), 1)
}

func TestConfToggles(t *testing.T) {
	c := NewConf()
	var grids []string
	for i := 0; i < 3; i++ {
		grids = append(grids, c.Grid.String())
		c.CycleGrid()
	}
	if want := []string{"tiles", "pixels", "off"}; !reflect.DeepEqual(grids, want) {
		t.Errorf("grids: got %v; want %v", grids, want)
	}
	c.ToggleBoxes()
	ttesting.AssertEqualBool(t, "boxes", c.Boxes, false)
	ttesting.AssertEqualColor(t, "background", c.Background, color.NRGBA{0x80, 0xff, 0xff, 0xff})
}

func newTestSession(t *testing.T) *Session {
	s := NewSession()
	d := character.New("sinbad")
	d.Tileset.Names = []string{"a", "b", "c"}
	d.Tileset.Tiles = make([]character.Tile, 3)
	d.Tileset.Tiles[1][0][0] = 1
	d.Animations = []character.Animation{{Name: "idle", Frames: []character.Frame{
		{Duration: 1, Sprites: []character.Sprite{{Tile: "a"}, {Tile: "b"}}},
		{Duration: 2},
	}}}
	s.Load(d)
	return s
}

func TestPaintUndo(t *testing.T) {
	s := newTestSession(t)
	s.Conf.Color = 2

	if err := s.Paint(TileTarget("a"), 3, 4); err != nil {
		t.Fatalf("Paint: %v", err)
	}
	tile, _ := s.Document().Tile("a")
	ttesting.AssertEqualInt(t, "painted", int(tile[4][3]), 2)

	if !s.Undo() {
		t.Fatalf("Undo failed")
	}
	tile, _ = s.Document().Tile("a")
	ttesting.AssertEqualInt(t, "undone", int(tile[4][3]), 0)
	if s.Undo() {
		t.Errorf("Undo past the loaded document succeeded")
	}

	if err := s.Paint(TileTarget("missing"), 0, 0); errors.Cause(err) != character.ErrNotFound {
		t.Errorf("Paint on missing tile: got %v; want %v", err, character.ErrNotFound)
	}
	if err := s.Paint(TileTarget("a"), 8, 0); err == nil {
		t.Errorf("Paint outside the tile succeeded")
	}
}

func TestStrokeIsOneUndo(t *testing.T) {
	s := newTestSession(t)
	s.Conf.Color = 3

	s.GestureStart()
	for x := 0; x < 16; x++ {
		if err := s.Paint(IllustrationTarget(character.IllustrationSmall), x, 9); err != nil {
			t.Fatalf("Paint: %v", err)
		}
	}
	s.GestureEnd()
	d := s.Document()
	ttesting.AssertEqualInt(t, "bottom left tile", int(d.IllustrationSmall.Tiles[2][1][0]), 3)
	ttesting.AssertEqualInt(t, "bottom right tile", int(d.IllustrationSmall.Tiles[3][1][7]), 3)

	s.Undo()
	d = s.Document()
	ttesting.AssertEqualInt(t, "stroke undone", int(d.IllustrationSmall.Tiles[3][1][7]), 0)
}

func TestFill(t *testing.T) {
	s := newTestSession(t)
	s.Conf.Color = 1
	if err := s.Fill(IllustrationTarget(character.IllustrationLarge), 47, 63); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	d := s.Document()
	last := d.IllustrationLarge.Tiles[47]
	ttesting.AssertEqualInt(t, "filled", int(last[0][0]), 1)
	ttesting.AssertEqualInt(t, "neighbor tile untouched", int(d.IllustrationLarge.Tiles[46][7][7]), 0)
}

func TestMoves(t *testing.T) {
	s := newTestSession(t)
	if err := s.MoveTile(1, 0); err != nil {
		t.Fatalf("MoveTile: %v", err)
	}
	d := s.Document()
	if want := []string{"b", "a", "c"}; !reflect.DeepEqual(d.Tileset.Names, want) {
		t.Errorf("names: got %v; want %v", d.Tileset.Names, want)
	}
	ttesting.AssertEqualInt(t, "tile moved with name", int(d.Tileset.Tiles[0][0][0]), 1)

	if err := s.MoveSprite("idle", 0, 0, 1); err != nil {
		t.Fatalf("MoveSprite: %v", err)
	}
	ttesting.AssertEqualString(t, "sprite", d.Animations[0].Frames[0].Sprites[0].Tile, "b")
	if err := s.MoveFrame("idle", 1, 0); err != nil {
		t.Fatalf("MoveFrame: %v", err)
	}
	ttesting.AssertEqualInt(t, "frame", d.Animations[0].Frames[0].Duration, 2)
	if err := s.MoveFrame("nope", 1, 0); errors.Cause(err) != character.ErrNotFound {
		t.Errorf("MoveFrame of missing animation: got %v", err)
	}
	if err := s.MoveTile(0, 3); err == nil {
		t.Errorf("MoveTile out of range succeeded")
	}

	for i := 0; i < 3; i++ {
		s.Undo()
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(s.Document().Tileset.Names, want) {
		t.Errorf("names after undo: got %v; want %v", s.Document().Tileset.Names, want)
	}
}

func TestImportExport(t *testing.T) {
	s := newTestSession(t)
	data, name, err := s.Export()
	if err != nil {
		t.Fatal(err)
	}
	ttesting.AssertEqualString(t, "file name", name, "sinbad.json")

	before := s.Document()
	if err := s.Import([]byte(`{"tileset": {}}`)); errors.Cause(err) != character.ErrInvalid {
		t.Errorf("Import: got %v; want %v", err, character.ErrInvalid)
	}
	if s.Document() != before {
		t.Errorf("document replaced by invalid import")
	}

	if err := s.Import(data); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if !reflect.DeepEqual(s.Document(), before) {
		t.Errorf("imported document differs")
	}
	if s.Undo() {
		t.Errorf("history survived import")
	}
}

func TestSaveOpen(t *testing.T) {
	s := newTestSession(t)
	st := store.NewMemory()
	if err := s.Save(st); err != nil {
		t.Fatal(err)
	}
	saved := s.Document()

	other := NewSession()
	if err := other.Open(st, "nobody"); errors.Cause(err) != store.ErrNotFound {
		t.Errorf("Open missing: got %v; want %v", err, store.ErrNotFound)
	}
	if err := other.Open(st, "sinbad"); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(other.Document(), saved) {
		t.Errorf("opened document differs")
	}
}

func TestFetchPreset(t *testing.T) {
	kiki, _ := character.Export(character.New("kiki"))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/kiki.json" {
			http.NotFound(w, r)
			return
		}
		w.Write(kiki)
	}))
	defer srv.Close()
	c := presets.NewClient(srv.URL)

	s := newTestSession(t)
	if err := s.FetchPreset(context.Background(), c, "pepper"); err == nil {
		t.Errorf("missing preset loaded")
	}
	ttesting.AssertEqualString(t, "unchanged", s.Document().Name, "sinbad")
	if err := s.FetchPreset(context.Background(), c, "kiki"); err != nil {
		t.Fatal(err)
	}
	ttesting.AssertEqualString(t, "loaded", s.Document().Name, "kiki")
}

func TestImportTiles(t *testing.T) {
	s := newTestSession(t)
	s.Document().AddTile("imported1")

	img := image.NewNRGBA(image.Rect(0, 0, 24, 8))
	img.SetNRGBA(0, 0, color.NRGBA{0, 0, 0, 0xff})
	img.SetNRGBA(17, 5, color.NRGBA{0xff, 0xff, 0xff, 0xff})
	buf := &bytes.Buffer{}
	png.Encode(buf, img)

	names, err := s.ImportTiles(buf, "imported")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"imported0", "imported2"}; !reflect.DeepEqual(names, want) {
		t.Errorf("got names %v; want %v", names, want)
	}
	d := s.Document()
	ttesting.AssertEqualInt(t, "tile count", len(d.Tileset.Tiles), 6)
	ttesting.AssertEqualInt(t, "name count", len(d.Tileset.Names), 6)
	tile, _ := d.Tile("imported2")
	ttesting.AssertEqualInt(t, "white pixel", int(tile[5][1]), 2)
}
