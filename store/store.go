// Package store persists serialized characters under names and keeps an
// index of when each was last updated.
package store

import (
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("not found")

// MaxUniqueAttempts bounds the suffixes tried by UniqueName.
const MaxUniqueAttempts = 1000

// Store is a key/value store of serialized characters. Writes are last
// write wins.
type Store interface {
	// Get returns ErrNotFound as the cause for absent keys.
	Get(key string) ([]byte, error)
	Set(key string, data []byte) error
	Remove(key string) error
	// Index maps every key to the time it was last set.
	Index() (map[string]time.Time, error)
}

// UniqueName returns name, or name with a numeric suffix, such that it is
// not yet present in s.
func UniqueName(s Store, name string) (string, error) {
	idx, err := s.Index()
	if err != nil {
		return "", errors.Wrap(err, "reading index")
	}
	for i := 0; i < MaxUniqueAttempts; i++ {
		candidate := name
		if i > 0 {
			candidate += "_" + strconv.Itoa(i)
		}
		if _, ok := idx[candidate]; !ok {
			return candidate, nil
		}
	}
	return "", errors.Errorf("no unique name for %q after %d attempts", name, MaxUniqueAttempts)
}

// Names returns the keys of an index, most recently updated first.
func Names(idx map[string]time.Time) []string {
	names := make([]string, 0, len(idx))
	for n := range idx {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		ti, tj := idx[names[i]], idx[names[j]]
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return names[i] < names[j]
	})
	return names
}

type memoryEntry struct {
	data    []byte
	updated time.Time
}

// Memory is a Store kept in memory.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *Memory) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "key %q", key)
	}
	return append([]byte(nil), e.data...), nil
}

func (m *Memory) Set(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{data: append([]byte(nil), data...), updated: m.now()}
	return nil
}

func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key]; !ok {
		return errors.Wrapf(ErrNotFound, "key %q", key)
	}
	delete(m.entries, key)
	return nil
}

func (m *Memory) Index() (map[string]time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := make(map[string]time.Time, len(m.entries))
	for k, e := range m.entries {
		idx[k] = e.updated
	}
	return idx, nil
}
