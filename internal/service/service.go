// Package service is the uniform set of inventory operations used by the
// console and the CLI, backed either by the bundled fixtures or by the REST
// backend.
package service

import (
	"context"
	"errors"
	"net/http"

	"go-inventory-console/internal/client"
	"go-inventory-console/internal/fixture"
	"go-inventory-console/internal/metrics"
	"go-inventory-console/internal/model"
	"go-inventory-console/internal/session"
	"go-inventory-console/pkg/config"
	"go-inventory-console/pkg/logger"

	"go.uber.org/zap"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTransferRejected   = errors.New("transfer rejected by backend")
)

// Data source labels used in logs and metrics.
const (
	ModeLocal  = "local"
	ModeRemote = "remote"
)

type InventoryService interface {
	GetRoles(ctx context.Context) ([]model.Role, error)
	GetInventory(ctx context.Context) ([]model.InventoryRow, error)
	GetWarehouses(ctx context.Context) ([]model.Warehouse, error)
	Login(ctx context.Context, username, password string) (*model.LoginResult, error)
	Logout(ctx context.Context) error
	TransferProduct(ctx context.Context, req model.TransferRequest) (*model.TransferResult, error)
	ExportReport(ctx context.Context) (*model.Report, error)
}

// Deps are the collaborators shared by both implementations. Session is owned
// by the caller; the service only moves it between states.
type Deps struct {
	Session        *session.Session
	Fixtures       *fixture.Store
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
	HTTPClient     *http.Client
	OnUnauthorized func()
}

// New picks the implementation selected by cfg.UseLocal. With
// cfg.FallbackLocal, remote reads are retried against the fixtures.
func New(cfg config.ClientConfig, deps Deps) InventoryService {
	if deps.Session == nil {
		deps.Session = session.New()
	}
	if deps.Fixtures == nil {
		deps.Fixtures = fixture.New()
	}
	deps.Logger = logger.OrNop(deps.Logger)

	local := NewLocal(deps.Fixtures, deps.Session, deps.Logger, deps.Metrics)
	if cfg.UseLocal {
		return local
	}

	c := client.New(client.Options{
		BaseURL:        cfg.BaseURL,
		HTTPClient:     deps.HTTPClient,
		Timeout:        cfg.RequestTimeout,
		Session:        deps.Session,
		Logger:         deps.Logger,
		Metrics:        deps.Metrics,
		OnUnauthorized: deps.OnUnauthorized,
	})
	remote := NewRemote(c, deps.Fixtures, deps.Logger, deps.Metrics)
	if cfg.FallbackLocal {
		return WithFallback(remote, local, deps.Logger)
	}
	return remote
}
