// Package session holds the authenticated identity of one console tab.
//
// A Session is either Anonymous or Authenticated(role). Login moves it to
// Authenticated; Logout or an authorization failure reported by the
// transport moves it back. There are no intermediate states.
package session

import (
	"sync"
	"time"

	"go-inventory-console/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Session is safe for concurrent use.
type Session struct {
	mu        sync.RWMutex
	token     string
	role      string
	expiresAt time.Time

	now func() time.Time
}

func New() *Session {
	return &Session{now: time.Now}
}

// Start records a successful login. When token is a JWT with an exp claim
// the session expires with it; the signature is not checked here, that is
// the backend's job.
func (s *Session) Start(token, role string) {
	var exp time.Time
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		if e, err := claims.GetExpirationTime(); err == nil && e != nil {
			exp = e.Time
		}
	}

	s.mu.Lock()
	s.token = token
	s.role = role
	s.expiresAt = exp
	s.mu.Unlock()
}

// Clear drops token and role.
func (s *Session) Clear() {
	s.mu.Lock()
	s.token = ""
	s.role = ""
	s.expiresAt = time.Time{}
	s.mu.Unlock()
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	if s.token == "" {
		return Anonymous
	}
	if !s.expiresAt.IsZero() && !s.now().Before(s.expiresAt) {
		return Anonymous
	}
	return Authenticated
}

func (s *Session) IsAuthenticated() bool {
	return s.State() == Authenticated
}

// Token returns the bearer token, or "" when anonymous.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.stateLocked() != Authenticated {
		return ""
	}
	return s.token
}

// Role returns the backend role name, or "" when anonymous.
func (s *Session) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.stateLocked() != Authenticated {
		return ""
	}
	return s.role
}

// RoleID returns the console role id for the current role.
func (s *Session) RoleID() string {
	return model.RoleIDFor(s.Role())
}

// HasRole reports whether the session is authenticated with the backend
// role name or its console id.
func (s *Session) HasRole(role string) bool {
	id := s.RoleID()
	return id != "" && id == model.RoleIDFor(role)
}

// CanEdit looks the current role up in roles.
func (s *Session) CanEdit(roles []model.Role) bool {
	r := model.FindRole(roles, s.RoleID())
	return r != nil && r.Permissions.CanEdit
}
