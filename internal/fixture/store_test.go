package fixture

import (
	"errors"
	"testing"

	"go-inventory-console/internal/model"
)

func TestStore_Roles(t *testing.T) {
	roles, err := New().Roles()
	if err != nil {
		t.Fatalf("roles: %v", err)
	}
	manager := model.FindRole(roles, model.RoleManager)
	operator := model.FindRole(roles, model.RoleOperator)
	if manager == nil || operator == nil {
		t.Fatalf("expected manager and operator roles, got %+v", roles)
	}
	if !manager.Permissions.CanEdit || operator.Permissions.CanEdit {
		t.Fatalf("unexpected permissions %+v %+v", manager, operator)
	}
}

func TestStore_InventoryJoinsEveryProduct(t *testing.T) {
	s := New()
	products, err := s.Products()
	if err != nil {
		t.Fatalf("products: %v", err)
	}
	rows, err := s.Inventory()
	if err != nil {
		t.Fatalf("inventory: %v", err)
	}
	if len(rows) != len(products) || len(rows) == 0 {
		t.Fatalf("expected %d rows, got %d", len(products), len(rows))
	}
	for _, r := range rows {
		if r.Warehouse.WarehouseID != r.WarehouseID {
			t.Fatalf("row %d joined to wrong warehouse %+v", r.ProductID, r.Warehouse)
		}
		if r.Warehouse.Location == "" || r.Warehouse.Location == model.PlaceholderLocation {
			t.Fatalf("fixture row %d should resolve to a real warehouse", r.ProductID)
		}
	}
}

func TestStore_ReturnsCopies(t *testing.T) {
	s := New()
	ws, _ := s.Warehouses()
	ws[0].Location = "changed"
	again, _ := s.Warehouses()
	if again[0].Location == "changed" {
		t.Fatalf("store leaked its backing slice")
	}
}

func TestStore_Authenticate(t *testing.T) {
	s := New()
	u, err := s.Authenticate("manager", "manager@123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if u.Role != model.BackendRoleManager {
		t.Fatalf("unexpected role %q", u.Role)
	}
	if _, err := s.Authenticate("manager", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := s.Authenticate("ghost", "manager@123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got %v", err)
	}
}

func TestStore_FindWarehouse(t *testing.T) {
	s := New()
	if w, ok := s.FindWarehouse(2); !ok || w.Location != "Delhi" {
		t.Fatalf("expected Delhi, got %+v %v", w, ok)
	}
	if _, ok := s.FindWarehouse(99); ok {
		t.Fatalf("did not expect warehouse 99")
	}
}
