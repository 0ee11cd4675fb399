// Package web serves stored characters over HTTP: documents as JSON and
// their tiles, illustrations and animations as images.
package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-stb/character"
	"badc0de.net/pkg/go-stb/editor"
	"badc0de.net/pkg/go-stb/presets"
	"badc0de.net/pkg/go-stb/store"
)

// maxBodySize bounds uploaded documents and images.
const maxBodySize = 16 << 20

// generation is bumped whenever the way images are generated changes.
const generation = 1

type Handler struct {
	// docLock serializes read-modify-write cycles on the store.
	docLock sync.Mutex
	store   store.Store
	presets *presets.Client
}

// NewHandler constructs a web handler serving the characters of st. The
// preset client may be nil, in which case presets are not served.
func NewHandler(st store.Store, pc *presets.Client) *Handler {
	return &Handler{
		store:   st,
		presets: pc,
	}
}

// status maps an error to the HTTP status code describing it.
func status(err error) int {
	switch errors.Cause(err) {
	case character.ErrInvalid, character.ErrInvertedBox:
		return http.StatusBadRequest
	case character.ErrNotFound, store.ErrNotFound, os.ErrNotExist:
		return http.StatusNotFound
	case character.ErrDuplicateName, character.ErrTileInUse, character.ErrMandatoryAnimation:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func httpError(w http.ResponseWriter, r *http.Request, err error) {
	code := status(err)
	if code == http.StatusInternalServerError {
		glog.Errorf("web: %s %s: %v", r.Method, r.URL.Path, err)
	}
	http.Error(w, err.Error(), code)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(b)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	buf := &bytes.Buffer{}
	if _, err := io.Copy(buf, http.MaxBytesReader(w, r.Body, maxBodySize)); err != nil {
		return nil, errors.Wrapf(character.ErrInvalid, "reading body: %v", err)
	}
	return buf.Bytes(), nil
}

// load returns the named document and the time it was last stored.
func (h *Handler) load(name string) (*character.Document, time.Time, error) {
	data, err := h.store.Get(name)
	if err != nil {
		return nil, time.Time{}, err
	}
	d, err := character.Import(data)
	if err != nil {
		return nil, time.Time{}, errors.Wrapf(err, "stored document %q", name)
	}
	var updated time.Time
	if idx, err := h.store.Index(); err == nil {
		updated = idx[name]
	}
	return d, updated, nil
}

func (h *Handler) save(d *character.Document) error {
	data, err := character.Export(d)
	if err != nil {
		return err
	}
	return h.store.Set(d.Name, data)
}

func location(name string) string {
	return "/characters/" + url.PathEscape(name)
}

func (h *Handler) indexHandler(w http.ResponseWriter, r *http.Request) {
	idx, err := h.store.Index()
	if err != nil {
		httpError(w, r, err)
		return
	}
	out := make(map[string]string, len(idx))
	for name, t := range idx {
		out[name] = t.UTC().Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) createHandler(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		httpError(w, r, err)
		return
	}
	d, err := character.Import(data)
	if err != nil {
		httpError(w, r, err)
		return
	}

	h.docLock.Lock()
	defer h.docLock.Unlock()

	name, err := store.UniqueName(h.store, d.Name)
	if err != nil {
		httpError(w, r, err)
		return
	}
	d.Name = name
	if err := h.save(d); err != nil {
		httpError(w, r, err)
		return
	}
	glog.Infof("web: created %q", name)
	w.Header().Set("Location", location(name))
	writeJSON(w, http.StatusCreated, map[string]string{"name": name})
}

func (h *Handler) getHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	data, err := h.store.Get(name)
	if err != nil {
		httpError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) putHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	data, err := readBody(w, r)
	if err != nil {
		httpError(w, r, err)
		return
	}
	d, err := character.Import(data)
	if err != nil {
		httpError(w, r, err)
		return
	}
	d.Name = name

	h.docLock.Lock()
	defer h.docLock.Unlock()

	if err := h.save(d); err != nil {
		httpError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	h.docLock.Lock()
	defer h.docLock.Unlock()

	if err := h.store.Remove(name); err != nil {
		httpError(w, r, err)
		return
	}
	glog.Infof("web: removed %q", name)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) exportHandler(w http.ResponseWriter, r *http.Request) {
	d, updated, err := h.load(mux.Vars(r)["name"])
	if err != nil {
		httpError(w, r, err)
		return
	}
	s := editor.NewSession()
	s.Load(d)
	data, fn, err := s.Export()
	if err != nil {
		httpError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fn))
	if !updated.IsZero() {
		w.Header().Set("Last-Modified", updated.UTC().Format(http.TimeFormat))
	}
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// tileImportHandler slices the uploaded image into tiles and appends them
// to the tileset. The new tile names are returned.
func (h *Handler) tileImportHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	prefix := r.URL.Query().Get("prefix")
	if prefix == "" {
		prefix = "tile"
	}

	h.docLock.Lock()
	defer h.docLock.Unlock()

	d, _, err := h.load(name)
	if err != nil {
		httpError(w, r, err)
		return
	}
	s := editor.NewSession()
	s.Load(d)
	names, err := s.ImportTiles(http.MaxBytesReader(w, r.Body, maxBodySize), prefix)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.save(s.Document()); err != nil {
		httpError(w, r, err)
		return
	}
	glog.Infof("web: imported %d tiles into %q", len(names), name)
	writeJSON(w, http.StatusOK, names)
}

func (h *Handler) presetListHandler(w http.ResponseWriter, r *http.Request) {
	if h.presets == nil {
		http.Error(w, "presets are not configured", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, presets.Names)
}

func (h *Handler) presetHandler(w http.ResponseWriter, r *http.Request) {
	if h.presets == nil {
		http.Error(w, "presets are not configured", http.StatusNotFound)
		return
	}
	d, err := h.presets.Fetch(r.Context(), mux.Vars(r)["preset"])
	if err != nil {
		if status(err) == http.StatusInternalServerError {
			glog.Errorf("web: preset: %v", err)
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		httpError(w, r, err)
		return
	}
	data, err := character.Export(d)
	if err != nil {
		httpError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public; max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func atoiDefault(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/characters", h.indexHandler).Methods(http.MethodGet)
	r.HandleFunc("/characters", h.createHandler).Methods(http.MethodPost)
	r.HandleFunc("/characters/{name}", h.getHandler).Methods(http.MethodGet)
	r.HandleFunc("/characters/{name}", h.putHandler).Methods(http.MethodPut)
	r.HandleFunc("/characters/{name}", h.deleteHandler).Methods(http.MethodDelete)
	r.HandleFunc("/characters/{name}/export", h.exportHandler).Methods(http.MethodGet)
	r.HandleFunc("/characters/{name}/tiles/import", h.tileImportHandler).Methods(http.MethodPost)
	r.HandleFunc("/characters/{name}/tiles/{tile}.png", h.tileHandler).Methods(http.MethodGet)
	r.HandleFunc("/characters/{name}/illustrations/{kind}.png", h.illustrationHandler).Methods(http.MethodGet)
	r.HandleFunc("/characters/{name}/animations/{anim}.gif", h.animationGIFHandler).Methods(http.MethodGet)
	r.HandleFunc("/characters/{name}/animations/{anim}/frames/{idx:[0-9]+}.png", h.frameHandler).Methods(http.MethodGet)
	r.HandleFunc("/characters/{name}/animations/{anim}/thumbnails", h.thumbnailsHandler).Methods(http.MethodGet)
	r.HandleFunc("/presets", h.presetListHandler).Methods(http.MethodGet)
	r.HandleFunc("/presets/{preset}", h.presetHandler).Methods(http.MethodGet)
}
