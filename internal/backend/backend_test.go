package backend

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	"go-inventory-console/internal/fixture"
	"go-inventory-console/internal/model"
	"go-inventory-console/internal/repository"
	"go-inventory-console/pkg/jwt"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type memStore struct {
	mu         sync.Mutex
	products   map[uint]model.Product
	warehouses map[uint]model.Warehouse
	users      map[string]*model.User
	transfers  []model.Transfer
}

func newMemStore() *memStore {
	return &memStore{
		products:   map[uint]model.Product{},
		warehouses: map[uint]model.Warehouse{},
		users:      map[string]*model.User{},
	}
}

type memProducts struct{ *memStore }
type memWarehouses struct{ *memStore }
type memUsers struct{ *memStore }
type memTransfers struct{ *memStore }

func (m memProducts) FindAll() ([]model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Product{}
	for id := uint(0); id < 1000; id++ {
		if p, ok := m.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m memProducts) Count() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.products)), nil
}

func (m memProducts) Upsert(ps []model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range ps {
		m.products[p.ProductID] = p
	}
	return nil
}

func (m memWarehouses) FindAll() ([]model.Warehouse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Warehouse{}
	for id := uint(0); id < 100; id++ {
		if w, ok := m.warehouses[id]; ok {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m memWarehouses) Upsert(ws []model.Warehouse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range ws {
		m.warehouses[w.WarehouseID] = w
	}
	return nil
}

func (m memUsers) FindByUsername(username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, errors.New("record not found")
	}
	cp := *u
	return &cp, nil
}

func (m memUsers) FindByID(id uuid.UUID) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errors.New("record not found")
}

func (m memUsers) Create(u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cp := *u
	m.users[u.Username] = &cp
	return nil
}

func (m memUsers) UpdatePassword(id uuid.UUID, hashed string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			u.Password = hashed
			return nil
		}
	}
	return errors.New("record not found")
}

func (m memTransfers) Move(req *model.TransferRequest, username string) (*model.Product, *model.Transfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[req.ProductID]
	if !ok {
		return nil, nil, repository.ErrProductNotFound
	}
	if _, ok := m.warehouses[req.WarehouseID]; !ok {
		return nil, nil, repository.ErrWarehouseNotFound
	}
	if p.WarehouseID == req.WarehouseID {
		return nil, nil, repository.ErrSameWarehouse
	}
	t := model.Transfer{ProductID: p.ProductID, FromWarehouseID: p.WarehouseID, ToWarehouseID: req.WarehouseID, Username: username}
	p.WarehouseID = req.WarehouseID
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	m.products[p.ProductID] = p
	m.transfers = append(m.transfers, t)
	return &p, &t, nil
}

func (m memTransfers) FindAll() ([]model.Transfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Transfer(nil), m.transfers...), nil
}

var fixtures = fixture.New()

func seeded(t *testing.T) *memStore {
	t.Helper()
	m := newMemStore()
	if err := Seed(fixtures, memProducts{m}, memWarehouses{m}, memUsers{m}, zap.NewNop()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return m
}

func TestSeed(t *testing.T) {
	m := seeded(t)
	if len(m.products) == 0 || len(m.warehouses) == 0 || len(m.users) != 2 {
		t.Fatalf("unexpected seed %d products, %d warehouses, %d users", len(m.products), len(m.warehouses), len(m.users))
	}

	// Seeding again changes nothing.
	delete(m.warehouses, 4)
	if err := Seed(fixtures, memProducts{m}, memWarehouses{m}, memUsers{m}, zap.NewNop()); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	if _, ok := m.warehouses[4]; ok {
		t.Fatalf("non-empty database must not be reseeded")
	}
}

func TestAuthService(t *testing.T) {
	m := seeded(t)
	tokens := jwt.NewManager("test-secret", time.Hour)
	auth := NewAuthService(memUsers{m}, tokens, zap.NewNop())

	res, err := auth.Login("manager", "manager@123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Role != model.BackendRoleManager {
		t.Fatalf("unexpected role %q", res.Role)
	}
	claims, err := auth.ValidateToken(res.Token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Username != "manager" || claims.Role != model.BackendRoleManager {
		t.Fatalf("unexpected claims %+v", claims)
	}

	if _, err := auth.Login("manager", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := auth.Login("nobody", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	if err := auth.ResetPassword("operator", "new-pass"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := auth.Login("operator", "new-pass"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}

	m.users["manager"].IsActive = false
	if _, err := auth.ValidateToken(res.Token); !errors.Is(err, ErrUserInactive) {
		t.Fatalf("expected ErrUserInactive, got %v", err)
	}
}

func TestInventoryService_Transfer(t *testing.T) {
	m := seeded(t)
	svc := NewInventoryService(memProducts{m}, memWarehouses{m}, memTransfers{m}, nil, zap.NewNop())

	stock := 3
	p, err := svc.Transfer(&model.TransferRequest{ProductID: 101, WarehouseID: 2, Stock: &stock}, "manager")
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if p.WarehouseID != 2 || p.Stock != 3 {
		t.Fatalf("unexpected product %+v", p)
	}
	transfers, _ := svc.GetTransfers()
	if len(transfers) != 1 || transfers[0].FromWarehouseID != 1 || transfers[0].Username != "manager" {
		t.Fatalf("unexpected transfers %+v", transfers)
	}

	if _, err := svc.Transfer(&model.TransferRequest{ProductID: 101, WarehouseID: 2}, "manager"); !errors.Is(err, repository.ErrSameWarehouse) {
		t.Fatalf("expected ErrSameWarehouse, got %v", err)
	}
	if _, err := svc.Transfer(&model.TransferRequest{ProductID: 999, WarehouseID: 2}, "manager"); !errors.Is(err, repository.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if _, err := svc.Transfer(&model.TransferRequest{ProductID: 101, WarehouseID: 42}, "manager"); !errors.Is(err, repository.ErrWarehouseNotFound) {
		t.Fatalf("expected ErrWarehouseNotFound, got %v", err)
	}
	neg := -1
	if _, err := svc.Transfer(&model.TransferRequest{ProductID: 101, WarehouseID: 3, Stock: &neg}, "manager"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestInventoryService_Report(t *testing.T) {
	m := seeded(t)
	svc := NewInventoryService(memProducts{m}, memWarehouses{m}, memTransfers{m}, nil, zap.NewNop())

	rep, err := svc.InventoryReport()
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(rep.Data))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	rows, _ := f.GetRows("Inventory")
	if len(rows) != len(m.products)+1 {
		t.Fatalf("expected %d rows, got %d", len(m.products)+1, len(rows))
	}
}
