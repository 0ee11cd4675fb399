package web

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/png"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/andybons/gogif"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/vincent-petithory/dataurl"

	"badc0de.net/pkg/go-stb/character"
	"badc0de.net/pkg/go-stb/compositor"
	"badc0de.net/pkg/go-stb/palette"
	"badc0de.net/pkg/go-stb/player"
)

// maxZoom bounds the zoom accepted by image handlers.
const maxZoom = 48

// renderParams are the query parameters shared by image handlers.
type renderParams struct {
	zoom  int
	swap  int
	slot  int
	boxes bool
}

func (p renderParams) String() string {
	return fmt.Sprintf("%d.%d.%d.%t", p.zoom, p.swap, p.slot, p.boxes)
}

func parseRenderParams(r *http.Request) (renderParams, error) {
	q := r.URL.Query()
	var p renderParams
	var err error
	if p.zoom, err = atoiDefault(q.Get("zoom"), 1); err != nil || p.zoom < 1 || p.zoom > maxZoom {
		return p, errors.Errorf("zoom must be a number in [1,%d]", maxZoom)
	}
	if p.swap, err = atoiDefault(q.Get("swap"), 0); err != nil || p.swap < 0 {
		return p, errors.New("swap must be a non-negative number")
	}
	if p.slot, err = atoiDefault(q.Get("slot"), 0); err != nil || p.slot < 0 || p.slot > 2 {
		return p, errors.New("slot must be 0, 1 or 2")
	}
	if b := q.Get("boxes"); b != "" {
		if p.boxes, err = strconv.ParseBool(b); err != nil {
			return p, errors.New("boxes must be a boolean")
		}
	}
	return p, nil
}

// imageRequest is the common prologue of image handlers: it parses the
// parameters, answers conditional requests and loads the document. A nil
// document means the response has been written.
func (h *Handler) imageRequest(w http.ResponseWriter, r *http.Request, kind, mime string) (*character.Document, renderParams, palette.Slots) {
	vars := mux.Vars(r)
	name := vars["name"]
	p, err := parseRenderParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, p, palette.Slots{}
	}

	var updated time.Time
	if idx, err := h.store.Index(); err == nil {
		updated = idx[name]
	}
	etag := fmt.Sprintf(`W/"%d:%s:%s:%d:%s:%s:%s:%s"`, generation, kind, name, updated.UnixNano(), vars["tile"]+vars["kind"]+vars["anim"], vars["idx"], p, mime)
	if !updated.IsZero() && r.Header.Get("If-None-Match") == etag {
		w.Header().Set("Cache-Control", "public; max-age=3600")
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return nil, p, palette.Slots{}
	}

	d, _, err := h.load(name)
	if err != nil {
		httpError(w, r, err)
		return nil, p, palette.Slots{}
	}
	slots, err := palette.Resolve(&d.ColorSwaps, p.swap)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, p, palette.Slots{}
	}
	if !updated.IsZero() {
		w.Header().Set("Cache-Control", "public; max-age=3600")
		w.Header().Set("ETag", etag)
		w.Header().Set("Last-Modified", updated.UTC().Format(http.TimeFormat))
	}
	return d, p, slots
}

func writePNG(w http.ResponseWriter, img image.Image) {
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *Handler) tileHandler(w http.ResponseWriter, r *http.Request) {
	d, p, slots := h.imageRequest(w, r, "tile", "image/png")
	if d == nil {
		return
	}
	t, ok := d.Tile(mux.Vars(r)["tile"])
	if !ok {
		http.Error(w, "no such tile", http.StatusNotFound)
		return
	}
	writePNG(w, compositor.DrawTile(t, compositor.DrawOptions{
		Zoom:     p.zoom,
		Palettes: palette.Slots{slots[p.slot]},
	}))
}

func (h *Handler) illustrationHandler(w http.ResponseWriter, r *http.Request) {
	d, p, slots := h.imageRequest(w, r, "illustration", "image/png")
	if d == nil {
		return
	}
	k, err := character.ParseIllustrationKind(mux.Vars(r)["kind"])
	if err != nil {
		httpError(w, r, err)
		return
	}
	writePNG(w, compositor.DrawIllustration(d.Illustration(k), k, compositor.DrawOptions{
		Zoom:     p.zoom,
		Palettes: palette.Slots{slots[p.slot]},
	}))
}

// animation looks up the animation named in the request. Mandatory
// animations are found by name like the others.
func animation(w http.ResponseWriter, d *character.Document, name string) *character.Animation {
	a, ok := d.Animation(name)
	if !ok {
		http.Error(w, "no such animation", http.StatusNotFound)
		return nil
	}
	return a
}

func (h *Handler) frameHandler(w http.ResponseWriter, r *http.Request) {
	d, p, slots := h.imageRequest(w, r, "frame", "image/png")
	if d == nil {
		return
	}
	a := animation(w, d, mux.Vars(r)["anim"])
	if a == nil {
		return
	}
	idx, err := strconv.Atoi(mux.Vars(r)["idx"])
	if err != nil || idx >= len(a.Frames) {
		http.Error(w, "no such frame", http.StatusNotFound)
		return
	}
	f := &a.Frames[idx]
	rect := compositor.FrameRect(f, compositor.RectOptions{IncludeBoxes: p.boxes, IncludeOrigin: true})
	writePNG(w, compositor.DrawFrame(f, &rect, compositor.DrawOptions{
		Zoom:     p.zoom,
		Palettes: slots,
		Tiles:    &d.Tileset,
		Boxes:    p.boxes,
	}))
}

// animationFrames composites every frame of a over the bounds of the whole
// animation.
func animationFrames(d *character.Document, a *character.Animation, p renderParams, slots palette.Slots) []*image.RGBA {
	rect := compositor.AnimationRect(a, compositor.RectOptions{IncludeBoxes: p.boxes, IncludeOrigin: true})
	if rect.Empty() {
		rect = compositor.FrameRect(&character.Frame{}, compositor.RectOptions{IncludeOrigin: true})
	}
	imgs := make([]*image.RGBA, len(a.Frames))
	for i := range a.Frames {
		imgs[i] = compositor.DrawFrame(&a.Frames[i], &rect, compositor.DrawOptions{
			Zoom:     p.zoom,
			Palettes: slots,
			Tiles:    &d.Tileset,
			Boxes:    p.boxes,
		})
	}
	return imgs
}

// gifDelay converts a duration in display ticks to hundredths of a second.
// Browsers treat delays below 2 as a default, so 2 is the minimum.
func gifDelay(ticks int) int {
	delay := int(math.Round(float64(ticks) * 100 / player.TickRate))
	if delay < 2 {
		delay = 2
	}
	return delay
}

func (h *Handler) animationGIFHandler(w http.ResponseWriter, r *http.Request) {
	d, p, slots := h.imageRequest(w, r, "animation", "image/gif")
	if d == nil {
		return
	}
	a := animation(w, d, mux.Vars(r)["anim"])
	if a == nil {
		return
	}
	if len(a.Frames) == 0 {
		http.Error(w, "animation has no frames", http.StatusNotFound)
		return
	}

	g := gif.GIF{}
	quantizer := gogif.MedianCutQuantizer{NumColor: 255} // Up to 255 colors plus 1 space for transparency.
	for i, img := range animationFrames(d, a, p, slots) {
		pal := image.NewPaletted(img.Bounds(), nil)
		quantizer.Quantize(pal, img.Bounds(), img, image.ZP)

		// Index 0 is transparent, so empty pixels of the frame default to it.
		palTransparent := image.NewPaletted(img.Bounds(), append(color.Palette{color.Transparent}, pal.Palette...))
		draw.Draw(palTransparent, img.Bounds(), img, image.ZP, draw.Over)

		g.Image = append(g.Image, palTransparent)
		g.Delay = append(g.Delay, gifDelay(a.Frames[i].Duration))
		g.Disposal = append(g.Disposal, gif.DisposalBackground)
	}
	g.BackgroundIndex = 0

	buf := &bytes.Buffer{}
	if err := gif.EncodeAll(buf, &g); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/gif")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// thumbnailsHandler returns the frames of an animation as a JSON list of
// PNG data URLs, for use as thumbnails in frame lists.
func (h *Handler) thumbnailsHandler(w http.ResponseWriter, r *http.Request) {
	d, p, slots := h.imageRequest(w, r, "thumbnails", "application/json")
	if d == nil {
		return
	}
	a := animation(w, d, mux.Vars(r)["anim"])
	if a == nil {
		return
	}
	urls := make([]string, 0, len(a.Frames))
	for _, img := range animationFrames(d, a, p, slots) {
		buf := &bytes.Buffer{}
		if err := png.Encode(buf, img); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		urls = append(urls, dataurl.New(buf.Bytes(), "image/png").String())
	}
	writeJSON(w, http.StatusOK, urls)
}
