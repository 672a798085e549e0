package session

import (
	"testing"
	"time"

	"go-inventory-console/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})
	s, err := tok.SignedString([]byte("test"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestSession_Lifecycle(t *testing.T) {
	s := New()
	if s.State() != Anonymous || s.Token() != "" || s.Role() != "" {
		t.Fatalf("new session should be anonymous")
	}

	s.Start("opaque-token", model.BackendRoleManager)
	if s.State() != Authenticated {
		t.Fatalf("expected authenticated")
	}
	if s.Token() != "opaque-token" || s.Role() != model.BackendRoleManager || s.RoleID() != model.RoleManager {
		t.Fatalf("unexpected session %q %q %q", s.Token(), s.Role(), s.RoleID())
	}

	s.Clear()
	if s.State() != Anonymous || s.Token() != "" || s.Role() != "" {
		t.Fatalf("clear should return to anonymous")
	}
}

func TestSession_ExpiredJWT(t *testing.T) {
	s := New()
	s.Start(signed(t, time.Now().Add(-time.Minute)), model.BackendRoleOperator)
	if s.IsAuthenticated() {
		t.Fatalf("expired token should be anonymous")
	}
	if s.Token() != "" {
		t.Fatalf("expired token should not be handed out")
	}

	s.Start(signed(t, time.Now().Add(time.Hour)), model.BackendRoleOperator)
	if !s.IsAuthenticated() || s.RoleID() != model.RoleOperator {
		t.Fatalf("fresh token should authenticate")
	}

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if s.IsAuthenticated() {
		t.Fatalf("token should expire with the clock")
	}
}

func TestSession_Permissions(t *testing.T) {
	roles := []model.Role{
		{ID: model.RoleManager, Permissions: model.Permissions{CanEdit: true}},
		{ID: model.RoleOperator},
	}
	s := New()
	if s.CanEdit(roles) || s.HasRole(model.BackendRoleManager) {
		t.Fatalf("anonymous session has no permissions")
	}
	s.Start("t", model.BackendRoleManager)
	if !s.CanEdit(roles) || !s.HasRole(model.BackendRoleManager) || !s.HasRole(model.RoleManager) {
		t.Fatalf("manager should edit")
	}
	s.Start("t", model.BackendRoleOperator)
	if s.CanEdit(roles) || s.HasRole(model.BackendRoleManager) {
		t.Fatalf("operator should not edit")
	}
	s.Start("t", "Auditor")
	if s.HasRole("Auditor") {
		t.Fatalf("unknown roles never match")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	base := time.Now()
	r.now = func() time.Time { return base }

	idA, a := r.Create()
	idB, _ := r.Create()
	a.Start("tok", model.BackendRoleManager)

	if got, ok := r.Get(idA); !ok || got != a {
		t.Fatalf("expected session A")
	}
	if r.Len() != 2 {
		t.Fatalf("expected 2 sessions")
	}

	r.now = func() time.Time { return base.Add(10 * time.Minute) }
	r.Get(idB)
	if removed := r.Sweep(5 * time.Minute); removed != 1 {
		t.Fatalf("expected 1 idle session swept, got %d", removed)
	}
	if _, ok := r.Get(idA); ok {
		t.Fatalf("session A should be gone")
	}
	if a.IsAuthenticated() {
		t.Fatalf("swept session should be cleared")
	}

	r.Remove(idB)
	if r.Len() != 0 {
		t.Fatalf("expected empty registry")
	}
}
