package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager("secret", time.Hour)
	id := uuid.New()

	token, err := m.GenerateToken(id, "manager", "WarehouseManager")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != id || claims.Username != "manager" || claims.Role != "WarehouseManager" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestManager_Rejects(t *testing.T) {
	m := NewManager("secret", time.Hour)
	token, _ := m.GenerateToken(uuid.New(), "operator", "WarehouseOperator")

	if _, err := NewManager("other", time.Hour).ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
	if _, err := m.ValidateToken(""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := m.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to fail, got %v", err)
	}
}
