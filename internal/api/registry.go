package api

import (
	"cmp"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/ceoabdo/Wheel-Of-Fortune/internal/game"
	"github.com/ceoabdo/Wheel-Of-Fortune/internal/metrics"
	"github.com/ceoabdo/Wheel-Of-Fortune/internal/store"
)

// ErrSessionLimit is returned when the registry is full.
var ErrSessionLimit = errors.New("api: session limit reached")

// Session is a live game held by the server.
type Session struct {
	ID        string
	Name      string
	Animation string
	CreatedAt time.Time

	Game     *game.Game
	Feed     *Feed
	recorder *store.Recorder
}

func (s *Session) response() SessionResponse {
	return SessionResponse{
		ID:        s.ID,
		Name:      s.Name,
		Animation: s.Animation,
		CreatedAt: s.CreatedAt,
		State:     s.Game.Snapshot(),
	}
}

// close stops the game and flushes its pending events.
func (s *Session) close() {
	s.Game.Close()
	if s.recorder != nil {
		_ = s.recorder.Close()
	}
}

// Registry holds the live sessions of a server.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	max      int
	metrics  *metrics.Metrics
}

// NewRegistry creates a registry that holds at most max sessions
// (max <= 0 means unbounded).
func NewRegistry(max int, m *metrics.Metrics) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		max:      max,
		metrics:  m,
	}
}

func (r *Registry) Add(s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.max > 0 && len(r.sessions) >= r.max {
		return ErrSessionLimit
	}
	r.sessions[s.ID] = s
	r.reportLocked()
	return nil
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *Registry) Remove(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
		r.reportLocked()
	}
	return s, ok
}

// List returns the live sessions, oldest first.
func (r *Registry) List() []*Session {
	r.mu.RLock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b *Session) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Drain removes and returns every session.
func (r *Registry) Drain() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Session, 0, len(r.sessions))
	for id, s := range r.sessions {
		out = append(out, s)
		delete(r.sessions, id)
	}
	r.reportLocked()
	return out
}

func (r *Registry) reportLocked() {
	if r.metrics != nil {
		r.metrics.SetActiveSessions(len(r.sessions))
	}
}
