package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-inventory-console/internal/backend"
	"go-inventory-console/internal/fixture"
	"go-inventory-console/internal/handler"
	"go-inventory-console/internal/metrics"
	"go-inventory-console/internal/middleware"
	"go-inventory-console/internal/repository"
	"go-inventory-console/internal/ws"
	"go-inventory-console/pkg/config"
	"go-inventory-console/pkg/database"
	"go-inventory-console/pkg/jwt"
	"go-inventory-console/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.Init(cfg)
	defer log.Sync()

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	// 3. Repositories and seed data
	productRepo := repository.NewProductRepo(db)
	warehouseRepo := repository.NewWarehouseRepo(db)
	userRepo := repository.NewUserRepo(db)
	transferRepo := repository.NewTransferRepo(db)

	if err := backend.Seed(fixture.New(), productRepo, warehouseRepo, userRepo, log); err != nil {
		log.Warn("Failed to seed database", zap.Error(err))
	}

	// 4. Setup WebSocket Hub
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wsHub := ws.NewHub(log)
	go wsHub.Run(ctx)

	// 5. Services
	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiration)
	authService := backend.NewAuthService(userRepo, tokens, log)
	invService := backend.NewInventoryService(productRepo, warehouseRepo, transferRepo, wsHub, log)

	m := metrics.New(prometheus.NewRegistry(), cfg.Metrics.Prefix+"_api")

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Inventory API v1.0",
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.RequestLogger(log, m))
	app.Use(cors.New())

	// 7. Routes
	handler.SetupRoutes(app, authService, invService)
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// WebSocket Route
	app.Use("/ws", ws.RequireUpgrade)
	app.Get("/ws", wsHub.Handler())

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Server.APIPort); err != nil {
			log.Error("Server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
