package middleware

import (
	"Invoice-Capture/domain"
	"Invoice-Capture/internal/api/presenters"
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

const (
	authScheme   = "Token "
	LocalsUserID = "user_id"
)

type (
	// Authorizer resolves a bearer token to a user id.
	Authorizer interface {
		Authorize(ctx context.Context, token string) (string, error)
	}

	Middleware interface {
		AuthMiddleware(auth Authorizer) fiber.Handler
		CORSMiddleware() fiber.Handler
	}

	middleware struct{}
)

func NewMiddleware() Middleware {
	return &middleware{}
}

// AuthMiddleware accepts "Authorization: Token <jwt>" and stores the user id
// in c.Locals(LocalsUserID).
func (m *middleware) AuthMiddleware(auth Authorizer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, authScheme) {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrTokenNotFound)
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, authScheme))
		if token == "" {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrTokenNotFound)
		}

		userID, err := auth.Authorize(c.UserContext(), token)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedTokenInvalid, err)
		}

		c.Locals(LocalsUserID, userID)
		return c.Next()
	}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, OPTIONS",
	})
}
