// Package workspace manages several editing sessions, one per open image,
// and serializes access to each of them.
package workspace

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Fepozopo/imged/pkg/editor"
)

var (
	ErrUnknownSession   = errors.New("unknown session")
	ErrAmbiguousSession = errors.New("ambiguous session id")
	ErrNoActiveSession  = errors.New("no active session")
)

type entry struct {
	mu   sync.Mutex
	name string
	sess *editor.Session
}

// Info describes one open session.
type Info struct {
	ID     string
	Name   string
	Active bool
}

// Manager owns the open sessions. It is safe for concurrent use; each
// session is guarded by its own lock.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	order    []string
	active   string
	factory  func() *editor.Session
}

// New returns an empty Manager. factory builds each new session; nil
// uses editor.New with defaults.
func New(factory func() *editor.Session) *Manager {
	if factory == nil {
		factory = func() *editor.Session { return editor.New() }
	}
	return &Manager{
		sessions: make(map[string]*entry),
		factory:  factory,
	}
}

// Open creates a session labelled name, makes it active and returns its id.
func (m *Manager) Open(name string) string {
	id := uuid.NewString()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = &entry{name: name, sess: m.factory()}
	m.order = append(m.order, id)
	m.active = id
	return id
}

// Close discards a session. If it was active, the most recently opened
// remaining session becomes active.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, err := m.resolveLocked(id)
	if err != nil {
		return err
	}
	delete(m.sessions, id)
	m.order = slices.DeleteFunc(m.order, func(s string) bool { return s == id })
	if m.active == id {
		m.active = ""
		if n := len(m.order); n > 0 {
			m.active = m.order[n-1]
		}
	}
	return nil
}

// Resolve expands a unique id prefix to the full id.
func (m *Manager) Resolve(prefix string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.resolveLocked(prefix)
}

func (m *Manager) resolveLocked(prefix string) (string, error) {
	if _, ok := m.sessions[prefix]; ok {
		return prefix, nil
	}
	if prefix == "" {
		return "", ErrUnknownSession
	}
	var match string
	for _, id := range m.order {
		if strings.HasPrefix(id, prefix) {
			if match != "" {
				return "", fmt.Errorf("%w: %q", ErrAmbiguousSession, prefix)
			}
			match = id
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %q", ErrUnknownSession, prefix)
	}
	return match, nil
}

// SetActive selects the session subsequent DoActive calls operate on.
func (m *Manager) SetActive(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, err := m.resolveLocked(id)
	if err != nil {
		return err
	}
	m.active = id
	return nil
}

// Active returns the active session id, or "" when none is open.
func (m *Manager) Active() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// Rename changes the label shown for a session.
func (m *Manager) Rename(id, name string) error {
	return m.withEntry(id, func(e *entry) error {
		e.name = name
		return nil
	})
}

// List returns the open sessions in the order they were opened.
func (m *Manager) List() []Info {
	m.mu.RLock()
	ids := slices.Clone(m.order)
	active := m.active
	entries := make([]*entry, len(ids))
	for i, id := range ids {
		entries[i] = m.sessions[id]
	}
	m.mu.RUnlock()

	out := make([]Info, len(ids))
	for i, e := range entries {
		e.mu.Lock()
		out[i] = Info{ID: ids[i], Name: e.name, Active: ids[i] == active}
		e.mu.Unlock()
	}
	return out
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order)
}

// Do runs fn with exclusive access to the session id.
func (m *Manager) Do(id string, fn func(*editor.Session) error) error {
	return m.withEntry(id, func(e *entry) error { return fn(e.sess) })
}

// DoActive runs fn with exclusive access to the active session.
func (m *Manager) DoActive(fn func(*editor.Session) error) error {
	id := m.Active()
	if id == "" {
		return ErrNoActiveSession
	}
	return m.Do(id, fn)
}

func (m *Manager) withEntry(id string, fn func(*entry) error) error {
	m.mu.RLock()
	id, err := m.resolveLocked(id)
	var e *entry
	if err == nil {
		e = m.sessions[id]
	}
	m.mu.RUnlock()
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e)
}
