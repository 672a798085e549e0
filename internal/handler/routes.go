package handler

import (
	"go-inventory-console/internal/backend"
	"go-inventory-console/internal/middleware"
	"go-inventory-console/internal/model"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes mounts the inventory API under /api.
func SetupRoutes(app *fiber.App, auth backend.AuthService, inv backend.InventoryService) {
	authHandler := NewAuthHandler(auth)
	invHandler := NewInventoryHandler(inv)

	api := app.Group("/api")

	// ============ PUBLIC ROUTES ============
	api.Post("/Auth/Login", authHandler.Login)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("/Inventory", middleware.RequireAuth(auth))
	protected.Get("/GetAllInventory", invHandler.GetAllInventory)
	protected.Get("/GetAll", invHandler.GetAllInventory)
	protected.Get("/GetAllWarehouses", invHandler.GetAllWarehouses)

	// Manager only
	manager := middleware.RequireRole(model.BackendRoleManager)
	protected.Post("/transfer", manager, invHandler.Transfer)
	protected.Post("/Update", manager, invHandler.Transfer)
	protected.Get("/GetInventoryReport", manager, invHandler.GetInventoryReport)
	protected.Get("/GetTransfers", manager, invHandler.GetTransfers)
}
