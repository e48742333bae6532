package live

import (
	"errors"
	"sync"
	"time"

	"github.com/filament-ui/filament/pkg/runtime"
)

// ErrTooManySessions is returned by Create when the session limit is
// reached.
var ErrTooManySessions = errors.New("live: session limit reached")

// Manager tracks active sessions, enforces the session limit, and sweeps
// idle sessions past their TTL.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	cfg *config

	sweepOnce sync.Once
	done      chan struct{}
}

// NewManager creates a session manager. Callers normally get one from
// NewServer, but it can be used standalone for embedding live sessions
// in an existing HTTP server.
func NewManager(opts ...Option) *Manager {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Manager{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		done:     make(chan struct{}),
	}
}

// Create mounts a new session for the component.
func (m *Manager) Create(c *runtime.Component, props runtime.Props) (*Session, error) {
	m.mu.Lock()
	if m.cfg.maxSessions > 0 && len(m.sessions) >= m.cfg.maxSessions {
		m.mu.Unlock()
		return nil, ErrTooManySessions
	}
	m.mu.Unlock()

	// The mount itself runs outside the lock; concurrent creates may
	// briefly overshoot the limit by the number of in-flight mounts.
	s := newSession(c, props, m.cfg, m.remove)

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	if m.cfg.metrics != nil {
		m.cfg.metrics.SessionStarted()
	}
	m.cfg.logger.Debug("session created", "session", s.id)

	m.sweepOnce.Do(func() {
		go m.sweepLoop()
	})

	return s, nil
}

// Get returns the session with the given ID, or nil.
func (m *Manager) Get(id string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// Len reports the number of active sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) remove(s *Session) {
	m.mu.Lock()
	_, present := m.sessions[s.id]
	delete(m.sessions, s.id)
	m.mu.Unlock()

	if present && m.cfg.metrics != nil {
		m.cfg.metrics.SessionEnded()
	}
}

func (m *Manager) sweepLoop() {
	ticker := time.NewTicker(m.cfg.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.sweep()
		case <-m.done:
			return
		}
	}
}

func (m *Manager) sweep() {
	if m.cfg.sessionTTL <= 0 {
		return
	}

	m.mu.RLock()
	var expired []*Session
	for _, s := range m.sessions {
		if s.Expired(m.cfg.sessionTTL) {
			expired = append(expired, s)
		}
	}
	m.mu.RUnlock()

	for _, s := range expired {
		m.cfg.logger.Debug("sweeping idle session", "session", s.id, "idle", time.Since(s.LastActive()))
		s.Close()
	}
}

// Close shuts every session down and stops the sweeper.
func (m *Manager) Close() {
	select {
	case <-m.done:
	default:
		close(m.done)
	}

	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
