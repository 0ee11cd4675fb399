// Package history keeps a bounded stack of document snapshots and
// coalesces the mutations of a gesture into a single entry.
package history

import (
	"github.com/golang/glog"

	"badc0de.net/pkg/go-stb/character"
)

// DefaultLimit is the number of snapshots retained by default.
const DefaultLimit = 20

// State of the gesture tracking.
type State int

const (
	Idle State = iota
	GestureOpenNoChange
	GestureOpenChanged
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case GestureOpenNoChange:
		return "gesture open"
	case GestureOpenChanged:
		return "gesture open, changed"
	}
	return "bad value"
}

// Manager records snapshots of the document returned by its source.
//
// The newest snapshot is the current state of the document, so undoing
// requires at least two entries. A Manager is not safe for concurrent use.
type Manager struct {
	source func() *character.Document
	limit  int
	state  State
	// stack is ordered most recent first.
	stack []*character.Document
}

// New returns a Manager snapshotting the documents returned by source and
// keeping at most limit snapshots. A limit below 1 uses DefaultLimit.
func New(source func() *character.Document, limit int) *Manager {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Manager{source: source, limit: limit}
}

func (m *Manager) State() State { return m.state }

// Depth returns the number of snapshots held.
func (m *Manager) Depth() int { return len(m.stack) }

// Reset drops every snapshot and closes any open gesture.
func (m *Manager) Reset() {
	m.stack = nil
	m.state = Idle
}

func (m *Manager) push() {
	doc := m.source()
	if doc == nil {
		return
	}
	m.stack = append([]*character.Document{doc.Clone()}, m.stack...)
	if len(m.stack) > m.limit {
		for i := m.limit; i < len(m.stack); i++ {
			m.stack[i] = nil
		}
		m.stack = m.stack[:m.limit]
	}
	glog.V(2).Infof("history: pushed snapshot, depth %d", len(m.stack))
}

// GestureStart opens a gesture. Mutations until GestureEnd are committed
// as one snapshot.
func (m *Manager) GestureStart() {
	m.state = GestureOpenNoChange
}

// OnMutation must be called after every change of the document.
func (m *Manager) OnMutation() {
	switch m.state {
	case Idle:
		m.push()
	case GestureOpenNoChange:
		m.state = GestureOpenChanged
	}
}

// GestureEnd closes the gesture, committing it if anything changed.
func (m *Manager) GestureEnd() {
	if m.state == GestureOpenChanged {
		m.push()
	}
	m.state = Idle
}

// Undo discards the current state and returns the previous snapshot. The
// caller installs it as the live document and reports that as a mutation,
// which makes it the new current state. Undo does nothing during a gesture
// or without a previous snapshot.
func (m *Manager) Undo() (*character.Document, bool) {
	if m.state != Idle || len(m.stack) < 2 {
		return nil, false
	}
	prev := m.stack[1]
	m.stack[0], m.stack[1] = nil, nil
	m.stack = m.stack[2:]
	return prev, true
}
