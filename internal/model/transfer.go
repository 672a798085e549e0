package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// TransferRequest moves a product to another warehouse. The JSON keys are
// PascalCase to match the backend's model binding.
type TransferRequest struct {
	ProductID   uint `json:"ProductId" validate:"required"`
	WarehouseID uint `json:"WarehouseId" validate:"required,nefield=CurrentWarehouseID"`

	// CurrentWarehouseID is only used for validation; zero means unknown.
	CurrentWarehouseID uint `json:"-"`

	Name  string           `json:"Name,omitempty"`
	Price *decimal.Decimal `json:"Price,omitempty" validate:"omitempty,gte=0"`
	Stock *int             `json:"Stock,omitempty" validate:"omitempty,gte=0"`
}

// MarshalJSON writes Price as a JSON number; decimal's own encoding quotes it
// and the backend binds Price as a number.
func (r TransferRequest) MarshalJSON() ([]byte, error) {
	type wire struct {
		ProductID   uint        `json:"ProductId"`
		WarehouseID uint        `json:"WarehouseId"`
		Name        string      `json:"Name,omitempty"`
		Price       json.Number `json:"Price,omitempty"`
		Stock       *int        `json:"Stock,omitempty"`
	}
	w := wire{
		ProductID:   r.ProductID,
		WarehouseID: r.WarehouseID,
		Name:        r.Name,
		Stock:       r.Stock,
	}
	if r.Price != nil {
		w.Price = json.Number(r.Price.String())
	}
	return json.Marshal(w)
}

// TransferResult is returned by a transfer. Product is set when the backend
// answers with the updated record.
type TransferResult struct {
	OK            bool     `json:"ok"`
	ProductID     uint     `json:"productId,omitempty"`
	ToWarehouseID uint     `json:"toWarehouseId,omitempty"`
	Location      string   `json:"location,omitempty"`
	Message       string   `json:"message,omitempty"`
	Product       *Product `json:"product,omitempty"`
}

// Transfer is the audit row the reference API writes for every move.
type Transfer struct {
	BaseModel
	ProductID       uint   `gorm:"not null;index" json:"productId"`
	FromWarehouseID uint   `gorm:"not null" json:"fromWarehouseId"`
	ToWarehouseID   uint   `gorm:"not null" json:"toWarehouseId"`
	Username        string `gorm:"type:varchar(100)" json:"username"`
}

// Report is an exported spreadsheet.
type Report struct {
	Filename    string
	ContentType string
	Data        []byte
}

const (
	ReportFilename    = "Inventories.xlsx"
	ReportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)
