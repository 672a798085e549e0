package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-inventory-console/internal/backend"
	"go-inventory-console/internal/model"
	"go-inventory-console/internal/repository"
	"go-inventory-console/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fakeAuth struct {
	tokens map[string]string // token -> role
}

func (f *fakeAuth) Login(username, password string) (*model.LoginResult, error) {
	switch {
	case username == "manager" && password == "manager@123":
		return &model.LoginResult{Token: "mgr", Role: model.BackendRoleManager}, nil
	case username == "operator" && password == "operator@123":
		return &model.LoginResult{Token: "op", Role: model.BackendRoleOperator}, nil
	}
	return nil, backend.ErrInvalidCredentials
}

func (f *fakeAuth) ValidateToken(token string) (*jwt.Claims, error) {
	role, ok := f.tokens[token]
	if !ok {
		return nil, jwt.ErrInvalidToken
	}
	return &jwt.Claims{UserID: uuid.New(), Username: token, Role: role}, nil
}

func (f *fakeAuth) ResetPassword(string, string) error { return nil }

type fakeInventory struct {
	lastUser string
}

func (f *fakeInventory) GetAllInventory() ([]model.Product, error) {
	return []model.Product{{ProductID: 1, Name: "Bolt", Price: decimal.RequireFromString("2.5"), Stock: 4, WarehouseID: 5}}, nil
}

func (f *fakeInventory) GetAllWarehouses() ([]model.Warehouse, error) {
	return []model.Warehouse{{WarehouseID: 5, Location: "Delhi"}}, nil
}

func (f *fakeInventory) Transfer(req *model.TransferRequest, username string) (*model.Product, error) {
	f.lastUser = username
	switch req.ProductID {
	case 404:
		return nil, repository.ErrProductNotFound
	case 400:
		return nil, repository.ErrSameWarehouse
	}
	return &model.Product{ProductID: req.ProductID, WarehouseID: req.WarehouseID}, nil
}

func (f *fakeInventory) GetTransfers() ([]model.Transfer, error) { return nil, nil }

func (f *fakeInventory) InventoryReport() (*model.Report, error) {
	return &model.Report{Filename: model.ReportFilename, ContentType: model.ReportContentType, Data: []byte("xlsx")}, nil
}

func newApp() (*fiber.App, *fakeInventory) {
	app := fiber.New()
	inv := &fakeInventory{}
	SetupRoutes(app, &fakeAuth{tokens: map[string]string{"mgr": model.BackendRoleManager, "op": model.BackendRoleOperator}}, inv)
	return app, inv
}

func call(t *testing.T, app *fiber.App, method, target, token, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	return resp
}

func TestLogin(t *testing.T) {
	app, _ := newApp()

	resp := call(t, app, http.MethodPost, "/api/Auth/Login", "", `{"username":"manager","password":"manager@123"}`)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var res model.LoginResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Token != "mgr" || res.Role != model.BackendRoleManager {
		t.Fatalf("unexpected login %+v", res)
	}

	if resp := call(t, app, http.MethodPost, "/api/Auth/Login", "", `{"username":"manager","password":"x"}`); resp.StatusCode != 401 {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if resp := call(t, app, http.MethodPost, "/api/Auth/Login", "", `{"username":""}`); resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestInventoryRoutes_Auth(t *testing.T) {
	app, _ := newApp()

	if resp := call(t, app, http.MethodGet, "/api/Inventory/GetAllInventory", "", ""); resp.StatusCode != 401 {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}
	if resp := call(t, app, http.MethodGet, "/api/Inventory/GetAllInventory", "forged", ""); resp.StatusCode != 401 {
		t.Fatalf("expected 401 for bad token, got %d", resp.StatusCode)
	}

	for _, path := range []string{"/api/Inventory/GetAllInventory", "/api/Inventory/GetAll", "/api/Inventory/GetAllWarehouses"} {
		if resp := call(t, app, http.MethodGet, path, "op", ""); resp.StatusCode != 200 {
			t.Fatalf("%s: expected 200, got %d", path, resp.StatusCode)
		}
	}

	if resp := call(t, app, http.MethodPost, "/api/Inventory/transfer", "op", `{"ProductId":1,"WarehouseId":2}`); resp.StatusCode != 403 {
		t.Fatalf("operator transfer: expected 403, got %d", resp.StatusCode)
	}
	if resp := call(t, app, http.MethodGet, "/api/Inventory/GetInventoryReport", "op", ""); resp.StatusCode != 403 {
		t.Fatalf("operator report: expected 403, got %d", resp.StatusCode)
	}
}

func TestInventoryRoutes_Inventory(t *testing.T) {
	app, _ := newApp()
	resp := call(t, app, http.MethodGet, "/api/Inventory/GetAllInventory", "mgr", "")
	var rows []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 1 || rows[0]["productId"] != float64(1) || rows[0]["warehouseId"] != float64(5) {
		t.Fatalf("unexpected rows %v", rows)
	}
}

func TestInventoryRoutes_Transfer(t *testing.T) {
	app, inv := newApp()

	resp := call(t, app, http.MethodPost, "/api/Inventory/transfer", "mgr", `{"ProductId":7,"WarehouseId":2}`)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var p model.Product
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.ProductID != 7 || p.WarehouseID != 2 || inv.lastUser != "mgr" {
		t.Fatalf("unexpected product %+v by %q", p, inv.lastUser)
	}

	if resp := call(t, app, http.MethodPost, "/api/Inventory/Update", "mgr", `{"ProductId":404,"WarehouseId":2}`); resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if resp := call(t, app, http.MethodPost, "/api/Inventory/transfer", "mgr", `{"ProductId":400,"WarehouseId":2}`); resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if resp := call(t, app, http.MethodPost, "/api/Inventory/transfer", "mgr", `{bad`); resp.StatusCode != 400 {
		t.Fatalf("expected 400 for bad json, got %d", resp.StatusCode)
	}
}

func TestInventoryRoutes_Report(t *testing.T) {
	app, _ := newApp()
	resp := call(t, app, http.MethodGet, "/api/Inventory/GetInventoryReport", "mgr", "")
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, model.ReportFilename) {
		t.Fatalf("unexpected content disposition %q", cd)
	}
	if ct := resp.Header.Get("Content-Type"); ct != model.ReportContentType {
		t.Fatalf("unexpected content type %q", ct)
	}
}
