// Package presets fetches the preset characters published over HTTP.
package presets

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"badc0de.net/pkg/go-stb/character"
)

// Names lists the presets offered by default.
var Names = []string{"sinbad", "kiki", "pepper"}

const (
	// maxDocumentSize bounds the size of a fetched document.
	maxDocumentSize = 16 << 20
	fetchTimeout    = 30 * time.Second
)

// Client fetches documents named <BaseURL>/<name>.json. Documents are
// fetched once and cached; concurrent fetches of one name share a request.
type Client struct {
	BaseURL string
	// HTTP is used for requests, or http.DefaultClient when nil.
	HTTP *http.Client

	group singleflight.Group
	mu    sync.Mutex
	cache map[string]*character.Document
}

func NewClient(baseURL string) *Client {
	return &Client{BaseURL: baseURL}
}

// URL returns the location of the named preset.
func (c *Client) URL(name string) (string, error) {
	if c.BaseURL == "" {
		return "", errors.New("no preset base URL configured")
	}
	if name == "" || strings.ContainsAny(name, "/\\") {
		return "", errors.Errorf("bad preset name %q", name)
	}
	return strings.TrimSuffix(c.BaseURL, "/") + "/" + url.PathEscape(name) + ".json", nil
}

// Fetch returns a copy of the named preset.
func (c *Client) Fetch(ctx context.Context, name string) (*character.Document, error) {
	c.mu.Lock()
	if d, ok := c.cache[name]; ok {
		c.mu.Unlock()
		return d.Clone(), nil
	}
	c.mu.Unlock()

	ch := c.group.DoChan(name, func() (interface{}, error) {
		// Shared by every waiter, so no single caller may cancel it.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		d, err := c.fetch(ctx, name)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.cache == nil {
			c.cache = make(map[string]*character.Document)
		}
		c.cache[name] = d
		c.mu.Unlock()
		return d, nil
	})
	select {
	case <-ctx.Done():
		return nil, errors.Wrapf(ctx.Err(), "presets: fetching %q", name)
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		glog.V(2).Infof("presets: fetched %q (shared: %v)", name, r.Shared)
		return r.Val.(*character.Document).Clone(), nil
	}
}

func (c *Client) fetch(ctx context.Context, name string) (*character.Document, error) {
	u, err := c.URL(name)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "presets: request for %q", name)
	}
	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	response, err := hc.Do(req)
	if err != nil {
		glog.Errorf("presets: fetching %q: %v", u, err)
		return nil, errors.Wrapf(err, "presets: fetching %q", name)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		e := os.ErrInvalid
		if response.StatusCode == http.StatusNotFound {
			e = os.ErrNotExist
		}
		glog.Errorf("presets: fetching %q: http response.StatusCode=%v, want 200", u, response.StatusCode)
		return nil, errors.Wrapf(e, "presets: fetching %q: http response.StatusCode=%v, want 200", name, response.StatusCode)
	}

	buf := &bytes.Buffer{}
	if _, err := io.Copy(buf, io.LimitReader(response.Body, maxDocumentSize)); err != nil {
		return nil, errors.Wrapf(err, "presets: reading %q", name)
	}
	d, err := character.Import(buf.Bytes())
	if err != nil {
		return nil, errors.Wrapf(err, "presets: %q", name)
	}
	glog.Infof("presets: loaded %q from %s", d.Name, u)
	return d, nil
}
