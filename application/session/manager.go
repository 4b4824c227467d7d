package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"scanorder/domain/cart"
	"scanorder/domain/order"
	"scanorder/domain/shared"
	"scanorder/pkg/logger"

	"go.uber.org/zap"
)

const maxSessionIDLength = 128

// Limits bounds the open sessions a Manager keeps in memory. A zero field
// disables that bound.
type Limits struct {
	// MaxOpen opening one more session evicts the least recently used
	MaxOpen int
	// IdleTimeout sessions unused for this long are evicted on the next Get
	IdleTimeout time.Duration
}

// DefaultLimits used by NewManager
var DefaultLimits = Limits{MaxOpen: 1000, IdleTimeout: 30 * time.Minute}

// RepositoryFactory builds the repositories backing one session
type RepositoryFactory func(sessionID string) (cart.Repository, order.Repository)

// Manager registry of open sessions, one per table or device.
// Evicting a session only drops it from memory; what the store holds is kept,
// and the next Get opens it again.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*entry
	repos    RepositoryFactory
	opts     []Option
	limits   Limits
	now      func() time.Time
	log      *zap.Logger
}

type entry struct {
	session  *Session
	lastUsed time.Time
}

// NewManager opts apply to every session the manager opens
func NewManager(repos RepositoryFactory, opts ...Option) *Manager {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger
	if log == nil {
		log = logger.Get()
	}

	return &Manager{
		sessions: make(map[string]*entry),
		repos:    repos,
		opts:     opts,
		limits:   DefaultLimits,
		now:      time.Now,
		log:      log.Named("sessions"),
	}
}

// WithLimits replaces DefaultLimits
func (m *Manager) WithLimits(l Limits) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limits = l
	return m
}

// Get returns the open session for id, opening it from the store on first use
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.evictIdle(now)

	if e, ok := m.sessions[id]; ok {
		e.lastUsed = now
		return e.session, nil
	}

	cartRepo, orderRepo := m.repos(id)
	opts := append(append([]Option(nil), m.opts...), WithID(id))
	s, err := Open(ctx, cartRepo, orderRepo, opts...)
	if err != nil {
		return nil, err
	}

	if m.limits.MaxOpen > 0 {
		for len(m.sessions) >= m.limits.MaxOpen {
			m.evictOldest()
		}
	}
	m.sessions[id] = &entry{session: s, lastUsed: now}
	return s, nil
}

func (m *Manager) evictIdle(now time.Time) {
	if m.limits.IdleTimeout <= 0 {
		return
	}
	for id, e := range m.sessions {
		if now.Sub(e.lastUsed) >= m.limits.IdleTimeout {
			m.evict(id, "idle")
		}
	}
}

func (m *Manager) evictOldest() {
	var oldest string
	var at time.Time
	for id, e := range m.sessions {
		if oldest == "" || e.lastUsed.Before(at) {
			oldest, at = id, e.lastUsed
		}
	}
	m.evict(oldest, "capacity")
}

func (m *Manager) evict(id, reason string) {
	delete(m.sessions, id)
	m.log.Info("Session evicted", zap.String("session_id", id), zap.String("reason", reason))
}

// OpenSingle opens the session stored under the bare keys, the layout of a
// single-device deployment. It is not registered with the manager.
func (m *Manager) OpenSingle(ctx context.Context) (*Session, error) {
	cartRepo, orderRepo := m.repos("")
	return Open(ctx, cartRepo, orderRepo, m.opts...)
}

// Lookup returns an already open session without touching the store
func (m *Manager) Lookup(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	return e.session, true
}

// End forgets the session. Its persisted state stays in the store.
func (m *Manager) End(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	return ok
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// ValidateID session ids become part of store keys
func ValidateID(id string) error {
	switch {
	case id == "":
		return shared.NewValidationError("session", "sessionId", "session id is required")
	case len(id) > maxSessionIDLength:
		return shared.NewValidationError("session", "sessionId", "session id is too long")
	case strings.ContainsAny(id, ": \t\r\n/"):
		return shared.NewValidationError("session", "sessionId", "session id contains a reserved character")
	}
	return nil
}
