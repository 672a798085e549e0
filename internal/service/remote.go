package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go-inventory-console/internal/client"
	"go-inventory-console/internal/fixture"
	"go-inventory-console/internal/inventory"
	"go-inventory-console/internal/metrics"
	"go-inventory-console/internal/model"
	"go-inventory-console/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Backend endpoints.
const (
	PathLogin      = "/api/Auth/Login"
	PathInventory  = "/api/Inventory/GetAllInventory"
	PathWarehouses = "/api/Inventory/GetAllWarehouses"
	PathTransfer   = "/api/Inventory/transfer"
	PathReport     = "/api/Inventory/GetInventoryReport"
)

type remoteService struct {
	client  *client.Client
	store   *fixture.Store
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewRemote talks to the REST backend through c. Roles still come from the
// fixtures since the backend does not serve them. Failures are returned as
// they are.
func NewRemote(c *client.Client, store *fixture.Store, log *zap.Logger, m *metrics.Metrics) InventoryService {
	return &remoteService{
		client:  c,
		store:   store,
		logger:  logger.OrNop(log),
		metrics: m,
	}
}

func (s *remoteService) GetRoles(ctx context.Context) ([]model.Role, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.Roles()
}

func (s *remoteService) GetWarehouses(ctx context.Context) ([]model.Warehouse, error) {
	resp, err := s.client.Do(ctx, http.MethodGet, PathWarehouses, nil)
	if err != nil {
		return nil, err
	}
	return inventory.DecodeWarehouses(resp.Body)
}

func (s *remoteService) getProducts(ctx context.Context) ([]model.Product, error) {
	resp, err := s.client.Do(ctx, http.MethodGet, PathInventory, nil)
	if err != nil {
		return nil, err
	}
	return inventory.DecodeProducts(resp.Body)
}

// GetInventory fetches products and warehouses concurrently and joins them
// once both have arrived.
func (s *remoteService) GetInventory(ctx context.Context) ([]model.InventoryRow, error) {
	var (
		products   []model.Product
		warehouses []model.Warehouse
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.getProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		warehouses, err = s.GetWarehouses(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return inventory.Join(products, warehouses), nil
}

func (s *remoteService) Login(ctx context.Context, username, password string) (*model.LoginResult, error) {
	req := model.LoginRequest{Username: username, Password: password}
	if err := validateLogin(&req); err != nil {
		s.metrics.RecordLogin("invalid")
		return nil, err
	}

	resp, err := s.client.Do(ctx, http.MethodPost, PathLogin, req, client.Anonymous())
	if err != nil {
		s.metrics.RecordLogin("failure")
		var se *client.StatusError
		if errors.As(err, &se) && (se.Code == http.StatusUnauthorized || se.Code == http.StatusBadRequest) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, strings.TrimSpace(se.Body))
		}
		return nil, err
	}

	var res model.LoginResult
	if err := resp.DecodeJSON(&res); err != nil {
		s.metrics.RecordLogin("failure")
		return nil, fmt.Errorf("%w: login response: %v", inventory.ErrShape, err)
	}
	if res.Token == "" {
		s.metrics.RecordLogin("failure")
		return nil, fmt.Errorf("%w: login response has no token", inventory.ErrShape)
	}

	s.client.Session().Start(res.Token, res.Role)
	s.metrics.RecordLogin("success")
	s.logger.Info("Remote login", zap.String("username", req.Username), zap.String("role", res.Role))
	return &res, nil
}

func (s *remoteService) Logout(ctx context.Context) error {
	s.client.Session().Clear()
	return nil
}

func (s *remoteService) TransferProduct(ctx context.Context, req model.TransferRequest) (*model.TransferResult, error) {
	if err := validateTransfer(&req); err != nil {
		s.metrics.RecordTransfer(ModeRemote, "invalid")
		return nil, err
	}

	resp, err := s.client.Do(ctx, http.MethodPost, PathTransfer, req)
	if err != nil {
		s.metrics.RecordTransfer(ModeRemote, "failure")
		return nil, err
	}
	res, err := decodeTransfer(resp.Body, req)
	if errors.Is(err, ErrTransferRejected) {
		s.metrics.RecordTransfer(ModeRemote, "rejected")
		s.logger.Warn("Transfer rejected by backend", zap.Uint("product_id", req.ProductID), zap.Error(err))
		return nil, err
	}
	if err != nil {
		s.metrics.RecordTransfer(ModeRemote, "failure")
		return nil, err
	}
	s.metrics.RecordTransfer(ModeRemote, "success")
	return res, nil
}

// decodeTransfer accepts an empty body, an {ok: ...} acknowledgement or the
// updated product record. An acknowledgement with ok false is
// ErrTransferRejected carrying the backend's message.
func decodeTransfer(body []byte, req model.TransferRequest) (*model.TransferResult, error) {
	res := &model.TransferResult{OK: true, ProductID: req.ProductID, ToWarehouseID: req.WarehouseID}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return res, nil
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(body, &keys); err != nil {
		return nil, fmt.Errorf("%w: transfer response: %v", inventory.ErrShape, err)
	}
	for k := range keys {
		if strings.EqualFold(k, "ok") {
			if err := json.Unmarshal(body, res); err != nil {
				return nil, fmt.Errorf("%w: transfer response: %v", inventory.ErrShape, err)
			}
			if !res.OK {
				if res.Message == "" {
					return nil, ErrTransferRejected
				}
				return nil, fmt.Errorf("%w: %s", ErrTransferRejected, res.Message)
			}
			return res, nil
		}
	}

	p, err := inventory.DecodeProduct(body)
	if err != nil {
		return nil, err
	}
	res.Product = &p
	res.ProductID = p.ProductID
	res.ToWarehouseID = p.WarehouseID
	return res, nil
}

func (s *remoteService) ExportReport(ctx context.Context) (*model.Report, error) {
	resp, err := s.client.Do(ctx, http.MethodGet, PathReport, nil)
	if err != nil {
		return nil, err
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = model.ReportContentType
	}
	return &model.Report{
		Filename:    resp.Filename(model.ReportFilename),
		ContentType: contentType,
		Data:        resp.Body,
	}, nil
}
