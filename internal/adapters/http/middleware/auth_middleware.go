package middleware

import (
	"strings"

	"pandayo-coffee-api/internal/config"
	"pandayo-coffee-api/internal/core/domain"
	"pandayo-coffee-api/internal/pkg/jwt"
	"pandayo-coffee-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Locals keys for the authenticated identity.
const (
	LocalUserID   = "userID"
	LocalUsername = "username"
	LocalRole     = "role"
)

// AuthMiddleware validates the bearer token and attaches the claims to the
// request. Each request walks the same stages independently: extract the
// token (absent → 401), verify it (failure → 403), attach the identity and
// continue. No state is shared across requests beyond the signing secret.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return response.Unauthorized(c, response.CodeTokenMissing, "Token missing")
		}
		accessToken := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			// Expired, malformed and bad-signature tokens collapse into
			// one rejection so callers learn nothing about which failed.
			return response.Forbidden(c, response.CodeTokenInvalid, "Invalid or expired token")
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUsername, claims.Username)
		c.Locals(LocalRole, domain.ParseRole(claims.Role))

		return c.Next()
	}
}

// AdminOnly rejects any authenticated identity whose role is not admin.
// It must run after AuthMiddleware.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalRole).(domain.Role)
		if !ok || role != domain.RoleAdmin {
			return response.Forbidden(c, response.CodeAdminOnly, "Admin access only")
		}
		return c.Next()
	}
}

// Identity returns the authenticated identity from the request locals.
// ok is false when AuthMiddleware has not run on this route.
func Identity(c *fiber.Ctx) (userID uint, username string, role domain.Role, ok bool) {
	userID, okID := c.Locals(LocalUserID).(uint)
	username, okName := c.Locals(LocalUsername).(string)
	role, okRole := c.Locals(LocalRole).(domain.Role)
	return userID, username, role, okID && okName && okRole
}
