package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rl1809/primo-pizza/internal/core/service"
	"github.com/rl1809/primo-pizza/internal/logging"
)

const DefaultIdleTTL = 2 * time.Hour

type entry struct {
	session  *Session
	lastSeen time.Time
}

// Manager keeps one Session per client token. Sessions idle for longer than
// the TTL are dropped by Sweep.
type Manager struct {
	svc    *service.Services
	logger *zap.Logger
	ttl    time.Duration
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

func NewManager(svc *service.Services, ttl time.Duration, logger *zap.Logger) *Manager {
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	return &Manager{
		svc:      svc,
		logger:   logging.OrNop(logger),
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// Get returns the session for id. An empty or unknown id gets a new session
// under a freshly minted id, never the one the client offered. The returned
// id is the one the caller must present next time.
func (m *Manager) Get(id string) (string, *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if e, ok := m.sessions[id]; ok && id != "" {
		e.lastSeen = now
		return id, e.session
	}

	id = uuid.NewString()
	s := New(m.svc, m.logger)
	m.sessions[id] = &entry{session: s, lastSeen: now}
	return id, s
}

func (m *Manager) Drop(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Sweep removes idle sessions and returns how many were removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.ttl)
	removed := 0
	for id, e := range m.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
