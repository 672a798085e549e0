// Package fixture serves the static role, product, warehouse and user
// records bundled into the binary.
package fixture

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go-inventory-console/internal/inventory"
	"go-inventory-console/internal/model"
)

//go:embed data/*.json
var dataFS embed.FS

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type userRecord struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Store holds the decoded fixtures. Records are parsed on first use and
// handed out as copies.
type Store struct {
	once sync.Once
	err  error

	roles      []model.Role
	products   []model.Product
	warehouses []model.Warehouse
	users      []model.User
}

func New() *Store {
	return &Store{}
}

func (s *Store) load() error {
	s.once.Do(func() {
		s.err = s.parse()
	})
	return s.err
}

func (s *Store) parse() error {
	raw, err := dataFS.ReadFile("data/roles.json")
	if err != nil {
		return err
	}
	var roles struct {
		Roles []model.Role `json:"roles"`
	}
	if err := json.Unmarshal(raw, &roles); err != nil {
		return fmt.Errorf("fixture: roles: %w", err)
	}
	s.roles = roles.Roles

	if raw, err = dataFS.ReadFile("data/products.json"); err != nil {
		return err
	}
	if s.products, err = inventory.DecodeProducts(raw); err != nil {
		return fmt.Errorf("fixture: products: %w", err)
	}

	if raw, err = dataFS.ReadFile("data/warehouses.json"); err != nil {
		return err
	}
	if s.warehouses, err = inventory.DecodeWarehouses(raw); err != nil {
		return fmt.Errorf("fixture: warehouses: %w", err)
	}

	if raw, err = dataFS.ReadFile("data/users.json"); err != nil {
		return err
	}
	var recs []userRecord
	if err := json.Unmarshal(raw, &recs); err != nil {
		return fmt.Errorf("fixture: users: %w", err)
	}
	for _, r := range recs {
		u := model.User{Username: r.Username, Role: r.Role, IsActive: true}
		if err := u.SetPassword(r.Password); err != nil {
			return fmt.Errorf("fixture: hash password for %s: %w", r.Username, err)
		}
		u.CreatedBy = "fixture"
		u.UpdatedBy = "fixture"
		s.users = append(s.users, u)
	}
	return nil
}

func (s *Store) Roles() ([]model.Role, error) {
	if err := s.load(); err != nil {
		return nil, err
	}
	return append([]model.Role(nil), s.roles...), nil
}

func (s *Store) Products() ([]model.Product, error) {
	if err := s.load(); err != nil {
		return nil, err
	}
	return append([]model.Product(nil), s.products...), nil
}

func (s *Store) Warehouses() ([]model.Warehouse, error) {
	if err := s.load(); err != nil {
		return nil, err
	}
	return append([]model.Warehouse(nil), s.warehouses...), nil
}

// Inventory returns the fixture products joined with the fixture warehouses.
func (s *Store) Inventory() ([]model.InventoryRow, error) {
	if err := s.load(); err != nil {
		return nil, err
	}
	return inventory.Join(s.products, s.warehouses), nil
}

// Users returns the bundled accounts with bcrypt-hashed passwords.
func (s *Store) Users() ([]model.User, error) {
	if err := s.load(); err != nil {
		return nil, err
	}
	return append([]model.User(nil), s.users...), nil
}

// Authenticate checks a username/password pair against the bundled accounts.
func (s *Store) Authenticate(username, password string) (*model.User, error) {
	if err := s.load(); err != nil {
		return nil, err
	}
	for i := range s.users {
		u := s.users[i]
		if u.Username != username {
			continue
		}
		if !u.IsActive || !u.CheckPassword(password) {
			return nil, ErrInvalidCredentials
		}
		return &u, nil
	}
	return nil, ErrInvalidCredentials
}

// FindWarehouse returns the bundled warehouse with the given id.
func (s *Store) FindWarehouse(id uint) (model.Warehouse, bool) {
	if err := s.load(); err != nil {
		return model.Warehouse{}, false
	}
	for _, w := range s.warehouses {
		if w.WarehouseID == id {
			return w, true
		}
	}
	return model.Warehouse{}, false
}
