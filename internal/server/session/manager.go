package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/substratehq/graphview/pkg/logger"
	"github.com/substratehq/graphview/pkg/substrate"
)

// ErrNotFound reports an unknown or expired session id.
var ErrNotFound = errors.New("session: not found")

const janitorInterval = time.Minute

// Manager tracks live sessions and evicts idle ones.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	ttl         time.Duration
	renderScale float64
	done        chan struct{}
	closeOnce   sync.Once
}

// NewManager starts a manager whose sessions expire after ttl of inactivity.
func NewManager(ttl time.Duration, renderScale float64) *Manager {
	if renderScale <= 0 {
		renderScale = 1.0
	}
	m := &Manager{
		sessions:    make(map[string]*Session),
		ttl:         ttl,
		renderScale: renderScale,
		done:        make(chan struct{}),
	}
	go m.janitor()
	return m
}

// Create loads the basket's collections and opens a fresh session over them.
func (m *Manager) Create(ctx context.Context, source substrate.Source, basketID string) (*Session, error) {
	snap, err := source.LoadSnapshot(ctx, basketID)
	if err != nil {
		return nil, fmt.Errorf("failed to open session for basket %s: %w", basketID, err)
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	s := newSession(id, snap, m.renderScale)

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	logger.Info("[Session] Opened", "session_id", id, "basket_id", basketID, "nodes", len(s.Graph().Nodes))
	return s, nil
}

// Get returns a live session and refreshes its idle timer.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	s.touch()
	return s, nil
}

// Remove discards a session.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.close()
	}
}

// Close stops the janitor and releases every session.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
	})

	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
}

func (m *Manager) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.evictIdle()
		}
	}
}

func (m *Manager) evictIdle() {
	cutoff := time.Now().Add(-m.ttl)

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		logger.Debug("[Session] Expired", "session_id", s.ID)
		s.close()
	}
}
