package repository

import (
	"errors"

	"go-inventory-console/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrWarehouseNotFound = errors.New("destination warehouse not found")
	ErrSameWarehouse     = errors.New("destination warehouse cannot be the same as current warehouse")
)

type TransferRepository interface {
	// Move reassigns a product to req.WarehouseID, applies the optional
	// overrides and records a Transfer row, all in one transaction.
	Move(req *model.TransferRequest, username string) (*model.Product, *model.Transfer, error)
	FindAll() ([]model.Transfer, error)
}

type transferRepo struct {
	db *gorm.DB
}

func NewTransferRepo(db *gorm.DB) TransferRepository {
	return &transferRepo{db}
}

func (r *transferRepo) Move(req *model.TransferRequest, username string) (*model.Product, *model.Transfer, error) {
	var (
		product  model.Product
		transfer model.Transfer
	)

	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Lock the product row until commit
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, "product_id = ?", req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		var dest model.Warehouse
		if err := tx.First(&dest, "warehouse_id = ?", req.WarehouseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWarehouseNotFound
			}
			return err
		}
		if product.WarehouseID == dest.WarehouseID {
			return ErrSameWarehouse
		}

		from := product.WarehouseID
		product.WarehouseID = dest.WarehouseID
		if req.Name != "" {
			product.Name = req.Name
		}
		if req.Price != nil {
			product.Price = *req.Price
		}
		if req.Stock != nil {
			product.Stock = *req.Stock
		}
		if err := tx.Save(&product).Error; err != nil {
			return err
		}

		transfer = model.Transfer{
			ProductID:       product.ProductID,
			FromWarehouseID: from,
			ToWarehouseID:   dest.WarehouseID,
			Username:        username,
		}
		transfer.CreatedBy = username
		transfer.UpdatedBy = username
		return tx.Create(&transfer).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &product, &transfer, nil
}

func (r *transferRepo) FindAll() ([]model.Transfer, error) {
	var transfers []model.Transfer
	err := r.db.Order("created_at DESC").Find(&transfers).Error
	return transfers, err
}
