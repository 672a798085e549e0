// Package report renders inventory rows as an XLSX workbook.
package report

import (
	"fmt"

	"go-inventory-console/internal/model"

	"github.com/xuri/excelize/v2"
)

const SheetName = "Inventory"

// Header is the first row of every report.
var Header = []interface{}{"ProductId", "Name", "Price", "Stock", "WarehouseId", "Location"}

// Build writes one row per inventory row, in order, below a bold header.
func Build(rows []model.InventoryRow) (*model.Report, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(SheetName, "A1", &Header); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetName, "A1", "F1", bold); err != nil {
		return nil, err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return nil, err
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []interface{}{
			r.ProductID,
			r.Name,
			r.Price.InexactFloat64(),
			r.Stock,
			r.Warehouse.WarehouseID,
			r.Warehouse.Location,
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("report: row %d: %w", i, err)
		}
		priceCell, _ := excelize.CoordinatesToCellName(3, i+2)
		if err := f.SetCellStyle(SheetName, priceCell, priceCell, money); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(SheetName, "B", "B", 32); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetName, "F", "F", 20); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("report: write workbook: %w", err)
	}
	return &model.Report{
		Filename:    model.ReportFilename,
		ContentType: model.ReportContentType,
		Data:        buf.Bytes(),
	}, nil
}
