package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type entry struct {
	sess     *Session
	lastSeen time.Time
}

// Registry maps tab ids to sessions.
type Registry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entry
	now      func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[uuid.UUID]*entry),
		now:      time.Now,
	}
}

// Create registers a fresh anonymous session.
func (r *Registry) Create() (uuid.UUID, *Session) {
	id := uuid.New()
	s := New()
	r.mu.Lock()
	r.sessions[id] = &entry{sess: s, lastSeen: r.now()}
	r.mu.Unlock()
	return id, s
}

// Get returns the session for id and marks it as seen.
func (r *Registry) Get(id uuid.UUID) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = r.now()
	return e.sess, true
}

func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than maxIdle and returns how many
// were removed.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			e.sess.Clear()
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}
