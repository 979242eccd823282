package calculator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many sessions")
)

const (
	DefaultSessionTTL    = 30 * time.Minute
	DefaultMaxSessions   = 10000
	defaultSweepInterval = time.Minute
)

type storedSession struct {
	mu       sync.Mutex
	session  *Session
	lastUsed time.Time
}

// Store keeps the sessions of HTTP and WebSocket clients. Each session has
// its own lock, so requests for one session are serialized while different
// sessions run in parallel.
type Store struct {
	engine *Engine
	ttl    time.Duration
	max    int
	now    func() time.Time
	logger *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*storedSession
}

type StoreOption func(*Store)

// WithTTL sets how long an untouched session is kept.
func WithTTL(d time.Duration) StoreOption {
	return func(s *Store) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithMaxSessions caps the number of live sessions.
func WithMaxSessions(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.max = n
		}
	}
}

func WithStoreLogger(l *zap.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

func withClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

func NewStore(engine *Engine, opts ...StoreOption) *Store {
	s := &Store{
		engine:   engine,
		ttl:      DefaultSessionTTL,
		max:      DefaultMaxSessions,
		now:      time.Now,
		logger:   zap.NewNop(),
		sessions: make(map[string]*storedSession),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Engine() *Engine { return s.engine }

// Create starts a new session and returns its snapshot.
func (s *Store) Create() (SessionResponse, error) {
	id := uuid.NewString()
	entry := &storedSession{session: NewSession(s.engine), lastUsed: s.now()}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sessions) >= s.max {
		return SessionResponse{}, ErrTooManySessions
	}
	s.sessions[id] = entry
	return snapshot(id, entry.session), nil
}

// With runs fn on the session while holding its lock and returns the
// snapshot taken afterwards. The snapshot is returned even when fn fails.
func (s *Store) With(id string, fn func(*Session) error) (SessionResponse, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return SessionResponse{}, ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	var err error
	if fn != nil {
		err = fn(entry.session)
	}
	entry.lastUsed = s.now()
	return snapshot(id, entry.session), err
}

// Get returns the current snapshot of a session.
func (s *Store) Get(id string) (SessionResponse, error) {
	return s.With(id, nil)
}

// Delete removes a session. It reports whether the session existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep evicts sessions idle for longer than the TTL and returns how many
// were removed.
func (s *Store) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, entry := range s.sessions {
		if !entry.mu.TryLock() {
			continue // in use
		}
		idle := entry.lastUsed.Before(cutoff)
		entry.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps idle sessions every interval until ctx is cancelled.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Info("evicted idle sessions",
					zap.Int("evicted", n),
					zap.Int("active", s.Len()),
				)
			}
		}
	}
}

// Collector exposes the number of live sessions as a Prometheus gauge.
func (s *Store) Collector() prometheus.Collector {
	return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "calculator_active_sessions",
		Help: "Number of live calculator sessions.",
	}, func() float64 { return float64(s.Len()) })
}
