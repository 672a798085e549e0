package inventory

import (
	"sort"
	"strconv"

	"go-inventory-console/internal/model"
)

// Join attaches a warehouse to every product. The warehouse index is built
// once; products whose warehouse id has no match get a placeholder, so the
// result always has exactly len(products) rows in input order.
func Join(products []model.Product, warehouses []model.Warehouse) []model.InventoryRow {
	byID := make(map[uint]model.Warehouse, len(warehouses))
	for _, w := range warehouses {
		byID[w.WarehouseID] = w
	}

	rows := make([]model.InventoryRow, len(products))
	for i, p := range products {
		w, ok := byID[p.WarehouseID]
		if !ok {
			w = model.PlaceholderWarehouse(p.WarehouseID)
		}
		rows[i] = model.InventoryRow{Product: p, Warehouse: w}
	}
	return rows
}

// FindRow returns the row for productID.
func FindRow(rows []model.InventoryRow, productID uint) (model.InventoryRow, bool) {
	for _, r := range rows {
		if r.ProductID == productID {
			return r, true
		}
	}
	return model.InventoryRow{}, false
}

// WarehouseOption is one entry of a transfer destination picker.
type WarehouseOption struct {
	ID    uint   `json:"id"`
	Label string `json:"label"`
}

// DestinationOptions lists the distinct warehouses present in rows, minus
// current, sorted by label. Rows with a zero warehouse id are skipped.
func DestinationOptions(rows []model.InventoryRow, current uint) []WarehouseOption {
	seen := make(map[uint]struct{}, len(rows))
	opts := make([]WarehouseOption, 0)
	for _, r := range rows {
		id := r.WarehouseID
		if id == 0 || id == current {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		opts = append(opts, WarehouseOption{ID: id, Label: labelFor(r.Warehouse)})
	}
	sort.Slice(opts, func(i, j int) bool {
		if opts[i].Label == opts[j].Label {
			return opts[i].ID < opts[j].ID
		}
		return opts[i].Label < opts[j].Label
	})
	return opts
}

func labelFor(w model.Warehouse) string {
	if w.Location == "" || w.Location == model.PlaceholderLocation {
		return "Warehouse " + strconv.FormatUint(uint64(w.WarehouseID), 10)
	}
	return w.Location
}
