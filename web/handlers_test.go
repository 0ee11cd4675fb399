package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"badc0de.net/pkg/go-stb/character"
	"badc0de.net/pkg/go-stb/palette"
	"badc0de.net/pkg/go-stb/presets"
	"badc0de.net/pkg/go-stb/store"
	"badc0de.net/pkg/go-stb/ttesting"
)

func testDocument(t *testing.T) *character.Document {
	t.Helper()
	d := character.New("kiki")
	if err := d.AddTile("body"); err != nil {
		t.Fatalf("AddTile: %v", err)
	}
	d.Tileset.Tiles[0][0][0] = 1
	d.Tileset.Tiles[0][7][7] = 3
	if err := d.AddAnimation("idle"); err != nil {
		t.Fatalf("AddAnimation: %v", err)
	}
	a, _ := d.Animation("idle")
	a.Frames = []character.Frame{
		{Duration: 3, Sprites: []character.Sprite{{Tile: "body", X: 0, Y: 8}}},
		{Duration: 1, Sprites: []character.Sprite{{Tile: "body", X: 1, Y: 8}}},
	}
	return d
}

type testServer struct {
	t      *testing.T
	router *mux.Router
	store  *store.Memory
}

func newTestServer(t *testing.T, pc *presets.Client) *testServer {
	s := &testServer{t: t, router: mux.NewRouter(), store: store.NewMemory()}
	NewHandler(s.store, pc).RegisterRoutes(s.router)
	return s
}

func (s *testServer) do(method, path string, body []byte, header http.Header) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, bytes.NewReader(body))
	for k, v := range header {
		r.Header[k] = v
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, r)
	return w
}

func (s *testServer) put(d *character.Document) {
	s.t.Helper()
	data, err := character.Export(d)
	if err != nil {
		s.t.Fatalf("Export: %v", err)
	}
	if err := s.store.Set(d.Name, data); err != nil {
		s.t.Fatalf("Set: %v", err)
	}
}

func TestDocumentLifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	data, err := character.Export(testDocument(t))
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	w := s.do(http.MethodGet, "/characters", nil, nil)
	ttesting.AssertEqualInt(t, "empty index status", w.Code, http.StatusOK)
	ttesting.AssertEqualString(t, "empty index", w.Body.String(), "{}")

	w = s.do(http.MethodPost, "/characters", data, nil)
	ttesting.AssertEqualInt(t, "create status", w.Code, http.StatusCreated)
	ttesting.AssertEqualString(t, "create location", w.Header().Get("Location"), "/characters/kiki")

	w = s.do(http.MethodPost, "/characters", data, nil)
	ttesting.AssertEqualInt(t, "second create status", w.Code, http.StatusCreated)
	ttesting.AssertEqualString(t, "second create location", w.Header().Get("Location"), "/characters/kiki_1")

	w = s.do(http.MethodGet, "/characters", nil, nil)
	var idx map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &idx); err != nil {
		t.Fatalf("index: %v", err)
	}
	ttesting.AssertEqualInt(t, "index size", len(idx), 2)

	w = s.do(http.MethodGet, "/characters/kiki_1", nil, nil)
	ttesting.AssertEqualInt(t, "get status", w.Code, http.StatusOK)
	d, err := character.Import(w.Body.Bytes())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	ttesting.AssertEqualString(t, "stored name", d.Name, "kiki_1")

	w = s.do(http.MethodGet, "/characters/kiki/export", nil, nil)
	ttesting.AssertEqualInt(t, "export status", w.Code, http.StatusOK)
	ttesting.AssertEqualString(t, "export disposition", w.Header().Get("Content-Disposition"), `attachment; filename="kiki.json"`)

	w = s.do(http.MethodPut, "/characters/kiki", []byte(`{"name": ""}`), nil)
	ttesting.AssertEqualInt(t, "invalid put status", w.Code, http.StatusBadRequest)

	w = s.do(http.MethodPut, "/characters/renamed", data, nil)
	ttesting.AssertEqualInt(t, "put status", w.Code, http.StatusNoContent)
	w = s.do(http.MethodGet, "/characters/renamed", nil, nil)
	d, err = character.Import(w.Body.Bytes())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	ttesting.AssertEqualString(t, "put name follows path", d.Name, "renamed")

	w = s.do(http.MethodDelete, "/characters/kiki", nil, nil)
	ttesting.AssertEqualInt(t, "delete status", w.Code, http.StatusNoContent)
	w = s.do(http.MethodGet, "/characters/kiki", nil, nil)
	ttesting.AssertEqualInt(t, "get deleted status", w.Code, http.StatusNotFound)
	w = s.do(http.MethodDelete, "/characters/kiki", nil, nil)
	ttesting.AssertEqualInt(t, "delete deleted status", w.Code, http.StatusNotFound)
}

func decodePNG(t *testing.T, w *httptest.ResponseRecorder) image.Image {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	img, err := png.Decode(w.Body)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	return img
}

func TestTileImage(t *testing.T) {
	s := newTestServer(t, nil)
	d := testDocument(t)
	s.put(d)
	slots, err := palette.Resolve(&d.ColorSwaps, 0)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	w := s.do(http.MethodGet, "/characters/kiki/tiles/body.png?zoom=2", nil, nil)
	img := decodePNG(t, w)
	ttesting.AssertEqualRect(t, "bounds", img.Bounds(), image.Rect(0, 0, 16, 16))
	ttesting.AssertEqualColor(t, "value 1", img.At(1, 1), slots[0].At(1))
	ttesting.AssertEqualColor(t, "value 3", img.At(15, 15), slots[0].At(3))
	ttesting.AssertEqualColor(t, "transparent", img.At(8, 8), color.Transparent)

	w = s.do(http.MethodGet, "/characters/kiki/tiles/body.png?slot=1", nil, nil)
	img = decodePNG(t, w)
	ttesting.AssertEqualColor(t, "secondary slot", img.At(0, 0), slots[1].At(1))

	etag := w.Header().Get("ETag")
	if !strings.HasPrefix(etag, `W/"`) {
		t.Errorf("ETag %q is not weak", etag)
	}
	w = s.do(http.MethodGet, "/characters/kiki/tiles/body.png?slot=1", nil, http.Header{"If-None-Match": {etag}})
	ttesting.AssertEqualInt(t, "conditional status", w.Code, http.StatusNotModified)

	s.put(d)
	w = s.do(http.MethodGet, "/characters/kiki/tiles/body.png?slot=1", nil, http.Header{"If-None-Match": {etag}})
	ttesting.AssertEqualInt(t, "status after update", w.Code, http.StatusOK)

	for _, tc := range []struct {
		name string
		path string
		want int
	}{
		{"missing tile", "/characters/kiki/tiles/nope.png", http.StatusNotFound},
		{"missing character", "/characters/nope/tiles/body.png", http.StatusNotFound},
		{"bad zoom", "/characters/kiki/tiles/body.png?zoom=0", http.StatusBadRequest},
		{"bad swap", "/characters/kiki/tiles/body.png?swap=5", http.StatusBadRequest},
		{"bad slot", "/characters/kiki/tiles/body.png?slot=3", http.StatusBadRequest},
		{"bad illustration", "/characters/kiki/illustrations/huge.png", http.StatusNotFound},
		{"missing animation", "/characters/kiki/animations/nope.gif", http.StatusNotFound},
		{"missing frame", "/characters/kiki/animations/idle/frames/2.png", http.StatusNotFound},
		{"empty animation", "/characters/kiki/animations/victory.gif", http.StatusNotFound},
	} {
		w := s.do(http.MethodGet, tc.path, nil, nil)
		ttesting.AssertEqualInt(t, tc.name, w.Code, tc.want)
	}
}

func TestIllustrationImage(t *testing.T) {
	s := newTestServer(t, nil)
	s.put(testDocument(t))

	w := s.do(http.MethodGet, "/characters/kiki/illustrations/large.png", nil, nil)
	img := decodePNG(t, w)
	ttesting.AssertEqualRect(t, "bounds", img.Bounds(), image.Rect(0, 0, 48, 64))
}

func TestFrameImage(t *testing.T) {
	s := newTestServer(t, nil)
	s.put(testDocument(t))

	w := s.do(http.MethodGet, "/characters/kiki/animations/idle/frames/0.png", nil, nil)
	img := decodePNG(t, w)
	// Sprite at (0,8)-(8,16) plus the origin pixel at (0,16).
	ttesting.AssertEqualRect(t, "bounds", img.Bounds(), image.Rect(0, 0, 8, 9))
}

func TestAnimationGIF(t *testing.T) {
	s := newTestServer(t, nil)
	s.put(testDocument(t))

	w := s.do(http.MethodGet, "/characters/kiki/animations/idle.gif?zoom=2", nil, nil)
	ttesting.AssertEqualInt(t, "status", w.Code, http.StatusOK)
	ttesting.AssertEqualString(t, "content type", w.Header().Get("Content-Type"), "image/gif")
	g, err := gif.DecodeAll(w.Body)
	if err != nil {
		t.Fatalf("gif.DecodeAll: %v", err)
	}
	ttesting.AssertEqualInt(t, "frames", len(g.Image), 2)
	ttesting.AssertEqualInt(t, "first delay", g.Delay[0], 5)
	ttesting.AssertEqualInt(t, "second delay", g.Delay[1], 2)
	// Union of both frames, (0,8)-(9,17), zoomed.
	ttesting.AssertEqualRect(t, "first bounds", g.Image[0].Bounds(), image.Rect(0, 0, 18, 18))
	ttesting.AssertEqualRect(t, "second bounds", g.Image[1].Bounds(), image.Rect(0, 0, 18, 18))
}

func TestGIFDelay(t *testing.T) {
	for _, tc := range []struct {
		ticks, want int
	}{
		{1, 2},
		{2, 3},
		{3, 5},
		{6, 10},
		{60, 100},
	} {
		ttesting.AssertEqualInt(t, fmt.Sprintf("%d ticks", tc.ticks), gifDelay(tc.ticks), tc.want)
	}
}

func TestThumbnails(t *testing.T) {
	s := newTestServer(t, nil)
	s.put(testDocument(t))

	w := s.do(http.MethodGet, "/characters/kiki/animations/idle/thumbnails", nil, nil)
	ttesting.AssertEqualInt(t, "status", w.Code, http.StatusOK)
	var urls []string
	if err := json.Unmarshal(w.Body.Bytes(), &urls); err != nil {
		t.Fatalf("json: %v", err)
	}
	ttesting.AssertEqualInt(t, "count", len(urls), 2)
	for _, u := range urls {
		if !strings.HasPrefix(u, "data:image/png;base64,") {
			t.Errorf("thumbnail %.40q is not a PNG data URL", u)
		}
	}
}

func TestTileImport(t *testing.T) {
	s := newTestServer(t, nil)
	s.put(testDocument(t))

	img := image.NewNRGBA(image.Rect(0, 0, 16, 8))
	img.Set(0, 0, color.NRGBA{0, 0, 0, 0xff})
	img.Set(9, 1, color.NRGBA{0xff, 0xff, 0xff, 0xff})
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}

	w := s.do(http.MethodPost, "/characters/kiki/tiles/import?prefix=imp", buf.Bytes(), nil)
	ttesting.AssertEqualInt(t, "status", w.Code, http.StatusOK)
	var names []string
	if err := json.Unmarshal(w.Body.Bytes(), &names); err != nil {
		t.Fatalf("json: %v", err)
	}
	ttesting.AssertEqualInt(t, "new tiles", len(names), 2)

	w = s.do(http.MethodGet, "/characters/kiki", nil, nil)
	d, err := character.Import(w.Body.Bytes())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	ttesting.AssertEqualInt(t, "tileset size", len(d.Tileset.Tiles), 3)

	w = s.do(http.MethodPost, "/characters/kiki/tiles/import", []byte("not an image"), nil)
	ttesting.AssertEqualInt(t, "garbage status", w.Code, http.StatusBadRequest)
}

func TestPresets(t *testing.T) {
	data, err := character.Export(testDocument(t))
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/kiki.json" {
			http.NotFound(w, r)
			return
		}
		w.Write(data)
	}))
	defer upstream.Close()

	s := newTestServer(t, presets.NewClient(upstream.URL))
	w := s.do(http.MethodGet, "/presets/kiki", nil, nil)
	ttesting.AssertEqualInt(t, "status", w.Code, http.StatusOK)
	d, err := character.Import(w.Body.Bytes())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	ttesting.AssertEqualString(t, "name", d.Name, "kiki")

	w = s.do(http.MethodGet, "/presets/pepper", nil, nil)
	ttesting.AssertEqualInt(t, "missing preset status", w.Code, http.StatusNotFound)

	w = s.do(http.MethodGet, "/presets", nil, nil)
	ttesting.AssertEqualInt(t, "list status", w.Code, http.StatusOK)

	unconfigured := newTestServer(t, nil)
	w = unconfigured.do(http.MethodGet, "/presets/kiki", nil, nil)
	ttesting.AssertEqualInt(t, "unconfigured status", w.Code, http.StatusNotFound)
}
