package console

import (
	"go-inventory-console/internal/service"
	"go-inventory-console/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	localsSession   = "session"
	localsSessionID = "session_id"
	localsService   = "service"
)

// loadSession resolves the tab session from its cookie, creating one when
// the cookie is missing or stale.
func (s *Server) loadSession(c *fiber.Ctx) error {
	var (
		id   uuid.UUID
		sess *session.Session
	)
	if raw := c.Cookies(SessionCookie); raw != "" {
		if parsed, err := uuid.Parse(raw); err == nil {
			if found, ok := s.registry.Get(parsed); ok {
				id, sess = parsed, found
			}
		}
	}
	if sess == nil {
		id, sess = s.registry.Create()
		c.Cookie(&fiber.Cookie{
			Name:        SessionCookie,
			Value:       id.String(),
			Path:        "/",
			HTTPOnly:    true,
			SessionOnly: true,
			SameSite:    fiber.CookieSameSiteLaxMode,
			Secure:      s.cfg.Server.IsProduction(),
		})
	}

	c.Locals(localsSessionID, id)
	c.Locals(localsSession, sess)
	c.Locals(localsService, s.serviceFor(id, sess))
	return c.Next()
}

func sessionFrom(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals(localsSession).(*session.Session)
	if sess == nil {
		return session.New()
	}
	return sess
}

func serviceFrom(c *fiber.Ctx) service.InventoryService {
	svc, _ := c.Locals(localsService).(service.InventoryService)
	return svc
}

// RequireSession sends anonymous tabs to the login view.
func (s *Server) RequireSession(c *fiber.Ctx) error {
	if !sessionFrom(c).IsAuthenticated() {
		return c.Redirect("/login")
	}
	return c.Next()
}

// RequireRole sends tabs without the given role back to the inventory view.
func (s *Server) RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !sessionFrom(c).HasRole(role) {
			return c.Redirect("/")
		}
		return c.Next()
	}
}
