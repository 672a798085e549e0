package backend

import (
	"fmt"

	"go-inventory-console/internal/fixture"
	"go-inventory-console/internal/repository"

	"go.uber.org/zap"
)

// Seed loads the bundled warehouses and products into an empty database and
// creates any bundled user that does not exist yet.
func Seed(store *fixture.Store, products repository.ProductRepository, warehouses repository.WarehouseRepository, users repository.UserRepository, logger *zap.Logger) error {
	n, err := products.Count()
	if err != nil {
		return fmt.Errorf("seed: count products: %w", err)
	}
	if n == 0 {
		ws, err := store.Warehouses()
		if err != nil {
			return err
		}
		if err := warehouses.Upsert(ws); err != nil {
			return fmt.Errorf("seed: warehouses: %w", err)
		}
		ps, err := store.Products()
		if err != nil {
			return err
		}
		if err := products.Upsert(ps); err != nil {
			return fmt.Errorf("seed: products: %w", err)
		}
		logger.Info("Seeded inventory", zap.Int("warehouses", len(ws)), zap.Int("products", len(ps)))
	}

	accounts, err := store.Users()
	if err != nil {
		return err
	}
	for i := range accounts {
		u := accounts[i]
		if _, err := users.FindByUsername(u.Username); err == nil {
			continue
		}
		if err := users.Create(&u); err != nil {
			logger.Warn("Failed to create user", zap.String("username", u.Username), zap.Error(err))
			continue
		}
		logger.Info("User created", zap.String("username", u.Username), zap.String("role", u.Role))
	}
	return nil
}
