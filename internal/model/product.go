package model

import "github.com/shopspring/decimal"

// PlaceholderLocation labels a warehouse that could not be resolved.
const PlaceholderLocation = "—"

// Product is the canonical product row. JSON keys are camelCase; decoders in
// the inventory package also accept the PascalCase spelling.
type Product struct {
	ProductID   uint            `gorm:"primaryKey;column:product_id" json:"productId"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"price"`
	Stock       int             `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	WarehouseID uint            `gorm:"index;column:warehouse_id" json:"warehouseId"`
}

// Warehouse is a storage location products are assigned to.
type Warehouse struct {
	WarehouseID uint   `gorm:"primaryKey;column:warehouse_id" json:"warehouseId"`
	Location    string `gorm:"type:varchar(200);not null" json:"location"`
}

// PlaceholderWarehouse stands in for a warehouse id with no matching record.
func PlaceholderWarehouse(id uint) Warehouse {
	return Warehouse{WarehouseID: id, Location: PlaceholderLocation}
}

// InventoryRow is a product joined with its warehouse. Warehouse is a value,
// so a row always carries one (possibly the placeholder).
type InventoryRow struct {
	Product
	Warehouse Warehouse `json:"warehouse"`
}
