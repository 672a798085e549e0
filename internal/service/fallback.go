package service

import (
	"context"
	"errors"

	"go-inventory-console/internal/client"
	"go-inventory-console/internal/model"
	"go-inventory-console/pkg/logger"

	"go.uber.org/zap"
)

type fallbackService struct {
	primary   InventoryService
	secondary InventoryService
	logger    *zap.Logger
}

// WithFallback retries read operations on secondary when primary fails.
// Login, Logout and TransferProduct always go to primary, and authorization
// failures are never masked.
func WithFallback(primary, secondary InventoryService, log *zap.Logger) InventoryService {
	return &fallbackService{primary: primary, secondary: secondary, logger: logger.OrNop(log)}
}

func (s *fallbackService) shouldFallBack(ctx context.Context, op string, err error) bool {
	if err == nil || errors.Is(err, client.ErrUnauthorized) || ctx.Err() != nil {
		return false
	}
	s.logger.Warn("Backend unavailable, serving bundled data", zap.String("operation", op), zap.Error(err))
	return true
}

func (s *fallbackService) GetRoles(ctx context.Context) ([]model.Role, error) {
	roles, err := s.primary.GetRoles(ctx)
	if s.shouldFallBack(ctx, "GetRoles", err) {
		return s.secondary.GetRoles(ctx)
	}
	return roles, err
}

func (s *fallbackService) GetInventory(ctx context.Context) ([]model.InventoryRow, error) {
	rows, err := s.primary.GetInventory(ctx)
	if s.shouldFallBack(ctx, "GetInventory", err) {
		return s.secondary.GetInventory(ctx)
	}
	return rows, err
}

func (s *fallbackService) GetWarehouses(ctx context.Context) ([]model.Warehouse, error) {
	ws, err := s.primary.GetWarehouses(ctx)
	if s.shouldFallBack(ctx, "GetWarehouses", err) {
		return s.secondary.GetWarehouses(ctx)
	}
	return ws, err
}

func (s *fallbackService) ExportReport(ctx context.Context) (*model.Report, error) {
	rep, err := s.primary.ExportReport(ctx)
	if s.shouldFallBack(ctx, "ExportReport", err) {
		return s.secondary.ExportReport(ctx)
	}
	return rep, err
}

func (s *fallbackService) Login(ctx context.Context, username, password string) (*model.LoginResult, error) {
	return s.primary.Login(ctx, username, password)
}

func (s *fallbackService) Logout(ctx context.Context) error {
	return s.primary.Logout(ctx)
}

func (s *fallbackService) TransferProduct(ctx context.Context, req model.TransferRequest) (*model.TransferResult, error) {
	return s.primary.TransferProduct(ctx, req)
}
