package backend

import (
	"errors"
	"fmt"

	"go-inventory-console/internal/inventory"
	"go-inventory-console/internal/model"
	"go-inventory-console/internal/report"
	"go-inventory-console/internal/repository"
	"go-inventory-console/internal/ws"
	"go-inventory-console/pkg/validator"

	"go.uber.org/zap"
)

var ErrValidation = errors.New("validation failed")

type InventoryService interface {
	GetAllInventory() ([]model.Product, error)
	GetAllWarehouses() ([]model.Warehouse, error)
	Transfer(req *model.TransferRequest, username string) (*model.Product, error)
	GetTransfers() ([]model.Transfer, error)
	InventoryReport() (*model.Report, error)
}

type inventoryService struct {
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	transferRepo  repository.TransferRepository
	wsHub         *ws.Hub
	logger        *zap.Logger
}

func NewInventoryService(pRepo repository.ProductRepository, wRepo repository.WarehouseRepository, tRepo repository.TransferRepository, hub *ws.Hub, logger *zap.Logger) InventoryService {
	return &inventoryService{
		productRepo:   pRepo,
		warehouseRepo: wRepo,
		transferRepo:  tRepo,
		wsHub:         hub,
		logger:        logger,
	}
}

func (s *inventoryService) GetAllInventory() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *inventoryService) GetAllWarehouses() ([]model.Warehouse, error) {
	return s.warehouseRepo.FindAll()
}

func (s *inventoryService) GetTransfers() ([]model.Transfer, error) {
	return s.transferRepo.FindAll()
}

func (s *inventoryService) Transfer(req *model.TransferRequest, username string) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, validator.Message(errs))
	}

	product, transfer, err := s.transferRepo.Move(req, username)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Product transferred",
		zap.Uint("product_id", product.ProductID),
		zap.Uint("from", transfer.FromWarehouseID),
		zap.Uint("to", transfer.ToWarehouseID),
		zap.String("username", username),
	)
	if s.wsHub != nil {
		s.wsHub.Publish(ws.Event{
			Action:        ws.ActionTransferred,
			ProductID:     product.ProductID,
			ToWarehouseID: transfer.ToWarehouseID,
			User:          username,
			Message:       fmt.Sprintf("%s moved '%s' from warehouse %d to %d", username, product.Name, transfer.FromWarehouseID, transfer.ToWarehouseID),
		})
	}
	return product, nil
}

// InventoryReport renders every product joined with its warehouse.
func (s *inventoryService) InventoryReport() (*model.Report, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, err
	}
	warehouses, err := s.warehouseRepo.FindAll()
	if err != nil {
		return nil, err
	}
	return report.Build(inventory.Join(products, warehouses))
}
