// Package console is the browser-facing shell over the inventory service.
// Each browser tab gets its own session, identified by a cookie, and every
// view is a JSON document.
package console

import (
	"context"
	"net/http"
	"time"

	"go-inventory-console/internal/fixture"
	"go-inventory-console/internal/metrics"
	"go-inventory-console/internal/middleware"
	"go-inventory-console/internal/model"
	"go-inventory-console/internal/service"
	"go-inventory-console/internal/session"
	"go-inventory-console/internal/ws"
	"go-inventory-console/pkg/config"
	"go-inventory-console/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionCookie names the tab session cookie. It carries no Max-Age so the
// browser drops it with the session.
const SessionCookie = "inv_session"

type Options struct {
	Config     *config.Config
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
	Registry   *session.Registry
	Fixtures   *fixture.Store
	Hub        *ws.Hub
	HTTPClient *http.Client
}

type Server struct {
	app      *fiber.App
	cfg      *config.Config
	logger   *zap.Logger
	metrics  *metrics.Metrics
	registry *session.Registry
	fixtures *fixture.Store
	hub      *ws.Hub
	http     *http.Client
}

func New(opts Options) *Server {
	s := &Server{
		cfg:      opts.Config,
		logger:   logger.OrNop(opts.Logger),
		metrics:  opts.Metrics,
		registry: opts.Registry,
		fixtures: opts.Fixtures,
		hub:      opts.Hub,
		http:     opts.HTTPClient,
	}
	if s.registry == nil {
		s.registry = session.NewRegistry()
	}
	if s.fixtures == nil {
		s.fixtures = fixture.New()
	}
	if s.hub == nil {
		s.hub = ws.NewHub(s.logger)
	}

	s.app = fiber.New(fiber.Config{
		AppName:      "Inventory Console",
		ErrorHandler: s.errorHandler,
	})
	s.routes()
	return s
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) routes() {
	app := s.app
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.RequestLogger(s.logger, s.metrics))
	app.Use(cors.New())

	app.Get("/healthz", s.Healthz)
	app.Get("/metrics", adaptor.HTTPHandler(s.metrics.Handler()))
	app.Use("/ws", ws.RequireUpgrade)
	app.Get("/ws", s.hub.Handler())

	app.Use(s.loadSession)

	app.Get("/login", s.LoginView)
	app.Post("/login", s.Login)
	app.Post("/logout", s.Logout)

	app.Get("/", s.RequireSession, s.Home)

	manager := s.RequireRole(model.BackendRoleManager)
	app.Get("/transfer", s.RequireSession, manager, s.TransferView)
	app.Post("/transfer", s.RequireSession, manager, s.Transfer)
	app.Get("/export", s.RequireSession, manager, s.Export)
}

// serviceFor builds the façade bound to one tab session.
func (s *Server) serviceFor(id uuid.UUID, sess *session.Session) service.InventoryService {
	return service.New(s.cfg.Client, service.Deps{
		Session:    sess,
		Fixtures:   s.fixtures,
		Logger:     s.logger,
		Metrics:    s.metrics,
		HTTPClient: s.http,
		OnUnauthorized: func() {
			s.logger.Warn("Session rejected by backend, login required", zap.String("session_id", id.String()))
		},
	})
}

// Start runs the hub and the idle-session sweeper, then serves on addr until
// ctx is done.
func (s *Server) Start(ctx context.Context, addr string) error {
	go s.hub.Run(ctx)
	go s.sweep(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down console...")
		return s.app.ShutdownWithTimeout(10 * time.Second)
	}
}

func (s *Server) sweep(ctx context.Context) {
	idle := s.cfg.Server.SessionIdle
	if idle <= 0 {
		return
	}
	ticker := time.NewTicker(idle / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.registry.Sweep(idle); n > 0 {
				s.logger.Debug("Swept idle sessions", zap.Int("count", n))
			}
		}
	}
}
