package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-inventory-console/internal/client"
	"go-inventory-console/internal/fixture"
	"go-inventory-console/internal/session"
	"go-inventory-console/pkg/config"
)

func TestFallback_ReadsUseFixtures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	svc := New(config.ClientConfig{BaseURL: srv.URL, RequestTimeout: time.Second, FallbackLocal: true},
		Deps{Session: session.New(), Fixtures: fixture.New()})

	rows, err := svc.GetInventory(context.Background())
	if err != nil {
		t.Fatalf("inventory: %v", err)
	}
	if len(rows) == 0 {
		t.Fatalf("expected fixture rows")
	}
}

func TestFallback_UnauthorizedIsNotMasked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "expired", http.StatusUnauthorized)
	}))
	defer srv.Close()

	sess := session.New()
	sess.Start("stale", "WarehouseOperator")
	svc := New(config.ClientConfig{BaseURL: srv.URL, FallbackLocal: true},
		Deps{Session: sess, Fixtures: fixture.New()})

	if _, err := svc.GetInventory(context.Background()); !errors.Is(err, client.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if sess.IsAuthenticated() {
		t.Fatalf("session should be cleared")
	}
}
