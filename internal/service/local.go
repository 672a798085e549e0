package service

import (
	"context"
	"errors"
	"fmt"

	"go-inventory-console/internal/fixture"
	"go-inventory-console/internal/inventory"
	"go-inventory-console/internal/metrics"
	"go-inventory-console/internal/model"
	"go-inventory-console/internal/report"
	"go-inventory-console/internal/session"
	"go-inventory-console/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LocalTransferMessage is returned by every simulated transfer.
const LocalTransferMessage = "Local transfer simulated successfully."

type localService struct {
	store   *fixture.Store
	session *session.Session
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewLocal serves everything from the bundled fixtures. Transfers are
// simulated and never persisted.
func NewLocal(store *fixture.Store, sess *session.Session, log *zap.Logger, m *metrics.Metrics) InventoryService {
	return &localService{
		store:   store,
		session: sess,
		logger:  logger.OrNop(log),
		metrics: m,
	}
}

func (s *localService) GetRoles(ctx context.Context) ([]model.Role, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.Roles()
}

func (s *localService) GetInventory(ctx context.Context) ([]model.InventoryRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.Inventory()
}

func (s *localService) GetWarehouses(ctx context.Context) ([]model.Warehouse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.Warehouses()
}

func (s *localService) Login(ctx context.Context, username, password string) (*model.LoginResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req := model.LoginRequest{Username: username, Password: password}
	if err := validateLogin(&req); err != nil {
		s.metrics.RecordLogin("invalid")
		return nil, err
	}

	user, err := s.store.Authenticate(req.Username, req.Password)
	if err != nil {
		s.metrics.RecordLogin("failure")
		if errors.Is(err, fixture.ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	res := &model.LoginResult{Token: "local-" + uuid.NewString(), Role: user.Role}
	s.session.Start(res.Token, res.Role)
	s.metrics.RecordLogin("success")
	s.logger.Info("Local login", zap.String("username", user.Username), zap.String("role", user.Role))
	return res, nil
}

func (s *localService) Logout(ctx context.Context) error {
	s.session.Clear()
	return nil
}

func (s *localService) TransferProduct(ctx context.Context, req model.TransferRequest) (*model.TransferResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.CurrentWarehouseID == 0 && req.ProductID != 0 {
		if rows, err := s.store.Inventory(); err == nil {
			if row, ok := inventory.FindRow(rows, req.ProductID); ok {
				req.CurrentWarehouseID = row.WarehouseID
			}
		}
	}
	if err := validateTransfer(&req); err != nil {
		s.metrics.RecordTransfer(ModeLocal, "invalid")
		return nil, err
	}

	location := model.PlaceholderLocation
	if w, ok := s.store.FindWarehouse(req.WarehouseID); ok && w.Location != "" {
		location = w.Location
	}

	s.metrics.RecordTransfer(ModeLocal, "success")
	s.logger.Info("Simulated transfer",
		zap.Uint("product_id", req.ProductID),
		zap.Uint("to_warehouse_id", req.WarehouseID),
		zap.String("location", location),
	)
	return &model.TransferResult{
		OK:            true,
		ProductID:     req.ProductID,
		ToWarehouseID: req.WarehouseID,
		Location:      location,
		Message:       LocalTransferMessage,
	}, nil
}

func (s *localService) ExportReport(ctx context.Context) (*model.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.store.Inventory()
	if err != nil {
		return nil, err
	}
	rep, err := report.Build(rows)
	if err != nil {
		return nil, fmt.Errorf("export report: %w", err)
	}
	return rep, nil
}
