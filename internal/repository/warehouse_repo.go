package repository

import (
	"go-inventory-console/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WarehouseRepository interface {
	FindAll() ([]model.Warehouse, error)
	Upsert(warehouses []model.Warehouse) error
}

type warehouseRepo struct {
	db *gorm.DB
}

func NewWarehouseRepo(db *gorm.DB) WarehouseRepository {
	return &warehouseRepo{db}
}

func (r *warehouseRepo) FindAll() ([]model.Warehouse, error) {
	var warehouses []model.Warehouse
	err := r.db.Order("warehouse_id ASC").Find(&warehouses).Error
	return warehouses, err
}

func (r *warehouseRepo) Upsert(warehouses []model.Warehouse) error {
	if len(warehouses) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "warehouse_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"location"}),
	}).Create(&warehouses).Error
}
