package store

import (
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

const indexFileName = "index.json"

// Dir is a Store keeping one file per key in a directory, plus an index
// file.
type Dir struct {
	path string
	now  func() time.Time

	mu sync.Mutex
}

// NewDir opens or creates a store in the directory at path.
func NewDir(path string) (*Dir, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating store directory %q", path)
	}
	return &Dir{path: path, now: time.Now}, nil
}

// Path returns the directory of the store.
func (d *Dir) Path() string { return d.path }

func (d *Dir) fileName(key string) string {
	return filepath.Join(d.path, url.PathEscape(key)+".character")
}

// writeFile replaces the named file without exposing partial contents.
func writeFile(name string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(name), ".tmp-")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), name)
}

func (d *Dir) readIndex() (map[string]time.Time, error) {
	idx := make(map[string]time.Time)
	data, err := os.ReadFile(filepath.Join(d.path, indexFileName))
	if os.IsNotExist(err) {
		return idx, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading index")
	}
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, errors.Wrap(err, "decoding index")
	}
	return idx, nil
}

func (d *Dir) writeIndex(idx map[string]time.Time) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding index")
	}
	return errors.Wrap(writeFile(filepath.Join(d.path, indexFileName), append(data, '\n')), "writing index")
}

func (d *Dir) Get(key string) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	data, err := os.ReadFile(d.fileName(key))
	if os.IsNotExist(err) {
		return nil, errors.Wrapf(ErrNotFound, "key %q", key)
	}
	return data, errors.Wrapf(err, "reading %q", key)
}

func (d *Dir) Set(key string, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	idx, err := d.readIndex()
	if err != nil {
		return err
	}
	if err := writeFile(d.fileName(key), data); err != nil {
		return errors.Wrapf(err, "writing %q", key)
	}
	idx[key] = d.now().UTC()
	glog.V(2).Infof("store: set %q (%d bytes) in %s", key, len(data), d.path)
	return d.writeIndex(idx)
}

func (d *Dir) Remove(key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	idx, err := d.readIndex()
	if err != nil {
		return err
	}
	_, indexed := idx[key]
	err = os.Remove(d.fileName(key))
	if os.IsNotExist(err) && !indexed {
		return errors.Wrapf(ErrNotFound, "key %q", key)
	}
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing %q", key)
	}
	delete(idx, key)
	return d.writeIndex(idx)
}

func (d *Dir) Index() (map[string]time.Time, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.readIndex()
}
