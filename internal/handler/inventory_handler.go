package handler

import (
	"errors"

	"go-inventory-console/internal/backend"
	"go-inventory-console/internal/model"
	"go-inventory-console/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	service backend.InventoryService
}

func NewInventoryHandler(s backend.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// Username from the JWT context (set by RequireAuth)
func getUsername(c *fiber.Ctx) string {
	username, ok := c.Locals("username").(string)
	if !ok || username == "" {
		return "system"
	}
	return username
}

// GET /api/Inventory/GetAllInventory
func (h *InventoryHandler) GetAllInventory(c *fiber.Ctx) error {
	products, err := h.service.GetAllInventory()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch inventory"})
	}
	return c.JSON(products)
}

// GET /api/Inventory/GetAllWarehouses
func (h *InventoryHandler) GetAllWarehouses(c *fiber.Ctx) error {
	warehouses, err := h.service.GetAllWarehouses()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch warehouses"})
	}
	return c.JSON(warehouses)
}

// POST /api/Inventory/transfer
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var req model.TransferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.Transfer(&req, getUsername(c))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, backend.ErrValidation),
			errors.Is(err, repository.ErrWarehouseNotFound),
			errors.Is(err, repository.ErrSameWarehouse):
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to transfer product"})
	}

	return c.JSON(product)
}

// GET /api/Inventory/GetTransfers
func (h *InventoryHandler) GetTransfers(c *fiber.Ctx) error {
	transfers, err := h.service.GetTransfers()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch transfers"})
	}
	return c.JSON(transfers)
}

// GET /api/Inventory/GetInventoryReport
func (h *InventoryHandler) GetInventoryReport(c *fiber.Ctx) error {
	rep, err := h.service.InventoryReport()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build report"})
	}
	c.Attachment(rep.Filename)
	c.Set(fiber.HeaderContentType, rep.ContentType)
	return c.Send(rep.Data)
}
