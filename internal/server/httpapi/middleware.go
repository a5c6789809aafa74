package httpapi

import (
	"time"

	"github.com/dmitrijs2005/postgate/internal/common"
	"github.com/dmitrijs2005/postgate/internal/server/models"
	"github.com/gofiber/fiber/v2"
)

const claimsKey = "claims"

// accessLog renders chain errors itself so the logged status is the one the
// client received.
func (s *Server) accessLog(c *fiber.Ctx) error {
	start := time.Now()

	if chainErr := c.Next(); chainErr != nil {
		if err := c.App().ErrorHandler(c, chainErr); err != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	s.logger.Info(c.UserContext(), "http request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
	)
	return nil
}

// sessionToken picks the token source: the Authorization header for
// non-browser clients, the session cookie otherwise.
func sessionToken(c *fiber.Ctx) string {
	if c.Get(common.ClientHeaderName) == common.NonBrowserClient {
		return c.Get(fiber.HeaderAuthorization)
	}
	return c.Cookies(common.SessionCookieName)
}

func (s *Server) requireSession(c *fiber.Ctx) error {
	claims, err := s.sessions.VerifyBearer(sessionToken(c))
	if err != nil {
		return s.fail(c, err)
	}

	c.Locals(claimsKey, claims)
	return c.Next()
}

func claimsFrom(c *fiber.Ctx) *models.Claims {
	claims, _ := c.Locals(claimsKey).(*models.Claims)
	return claims
}
