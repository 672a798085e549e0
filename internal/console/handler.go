package console

import (
	"errors"
	"fmt"
	"strings"

	"go-inventory-console/internal/client"
	"go-inventory-console/internal/inventory"
	"go-inventory-console/internal/model"
	"go-inventory-console/internal/service"
	"go-inventory-console/internal/ws"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HomeView is the inventory grid.
type HomeView struct {
	Role    string               `json:"role"`
	RoleID  string               `json:"roleId"`
	CanEdit bool                 `json:"canEdit"`
	Roles   []model.Role         `json:"roles"`
	Rows    []model.InventoryRow `json:"rows"`
}

// TransferView is the transfer form for one product.
type TransferView struct {
	Product      model.InventoryRow          `json:"product"`
	Destinations []inventory.WarehouseOption `json:"destinations"`
}

func (s *Server) Healthz(c *fiber.Ctx) error {
	mode := service.ModeRemote
	if s.cfg.Client.UseLocal {
		mode = service.ModeLocal
	}
	return c.JSON(fiber.Map{"status": "ok", "mode": mode})
}

func (s *Server) LoginView(c *fiber.Ctx) error {
	if sessionFrom(c).IsAuthenticated() {
		return c.Redirect("/")
	}
	return c.JSON(fiber.Map{"view": "login", "fields": []string{"username", "password"}})
}

func (s *Server) Login(c *fiber.Ctx) error {
	var req model.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	res, err := serviceFrom(c).Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"role":     res.Role,
		"roleId":   model.RoleIDFor(res.Role),
		"redirect": "/",
	})
}

func (s *Server) Logout(c *fiber.Ctx) error {
	if err := serviceFrom(c).Logout(c.UserContext()); err != nil {
		return err
	}
	return c.Redirect("/login", fiber.StatusSeeOther)
}

func (s *Server) Home(c *fiber.Ctx) error {
	svc := serviceFrom(c)
	sess := sessionFrom(c)

	roles, err := svc.GetRoles(c.UserContext())
	if err != nil {
		return err
	}
	rows, err := svc.GetInventory(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(HomeView{
		Role:    sess.Role(),
		RoleID:  sess.RoleID(),
		CanEdit: sess.CanEdit(roles),
		Roles:   roles,
		Rows:    rows,
	})
}

func (s *Server) TransferView(c *fiber.Ctx) error {
	productID := uint(c.QueryInt("productId"))
	if productID == 0 {
		return c.Status(400).JSON(fiber.Map{"error": service.MsgMissingProduct})
	}

	rows, err := serviceFrom(c).GetInventory(c.UserContext())
	if err != nil {
		return err
	}
	row, ok := inventory.FindRow(rows, productID)
	if !ok {
		return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
	}
	return c.JSON(TransferView{
		Product:      row,
		Destinations: inventory.DestinationOptions(rows, row.Warehouse.WarehouseID),
	})
}

func (s *Server) Transfer(c *fiber.Ctx) error {
	var req model.TransferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	svc := serviceFrom(c)
	if req.ProductID != 0 && req.CurrentWarehouseID == 0 {
		rows, err := svc.GetInventory(c.UserContext())
		if err != nil {
			return err
		}
		if row, ok := inventory.FindRow(rows, req.ProductID); ok {
			req.CurrentWarehouseID = row.WarehouseID
		}
	}

	res, err := svc.TransferProduct(c.UserContext(), req)
	if err != nil {
		return err
	}

	user := sessionFrom(c).RoleID()
	s.hub.Publish(ws.Event{
		Action:        ws.ActionTransferred,
		ProductID:     res.ProductID,
		ToWarehouseID: res.ToWarehouseID,
		Location:      res.Location,
		User:          user,
		Message:       fmt.Sprintf("%s moved product %d to warehouse %d", user, res.ProductID, res.ToWarehouseID),
	})
	return c.JSON(res)
}

func (s *Server) Export(c *fiber.Ctx) error {
	rep, err := serviceFrom(c).ExportReport(c.UserContext())
	if err != nil {
		return err
	}
	c.Attachment(rep.Filename)
	c.Set(fiber.HeaderContentType, rep.ContentType)
	return c.Send(rep.Data)
}

// errorHandler maps service errors onto responses. Authorization failures
// send the tab back to the login view.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	switch {
	case errors.Is(err, service.ErrValidation):
		msg := strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+": ")
		return c.Status(400).JSON(fiber.Map{"error": msg})
	case errors.Is(err, service.ErrTransferRejected):
		msg := strings.TrimPrefix(err.Error(), service.ErrTransferRejected.Error()+": ")
		return c.Status(409).JSON(fiber.Map{"error": msg})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.Status(401).JSON(fiber.Map{"error": "Invalid username or password"})
	case errors.Is(err, client.ErrUnauthorized):
		return c.Redirect("/login")
	case errors.As(err, &fe):
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	s.logger.Error("Request failed", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(502).JSON(fiber.Map{"error": err.Error()})
}
