package handler

import (
	"errors"

	"go-inventory-console/internal/backend"
	"go-inventory-console/internal/model"
	"go-inventory-console/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService backend.AuthService
}

func NewAuthHandler(authService backend.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles user authentication
// POST /api/Auth/Login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req model.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Username and password are required"})
	}

	response, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, backend.ErrInvalidCredentials) || errors.Is(err, backend.ErrUserInactive) {
			return c.Status(401).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(response)
}
