package middleware

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"placement-portal/config"
	"placement-portal/models"
	"placement-portal/services"
)

const authContextKey = "auth"

// AuthFromContext returns the AuthContext resolved by RequireAuth
func AuthFromContext(c *fiber.Ctx) *models.AuthContext {
	if auth, ok := c.Locals(authContextKey).(*models.AuthContext); ok {
		return auth
	}
	return nil
}

func authError(c *fiber.Ctx, err error) error {
	status, code, message := services.AuthErrorStatus(err)
	return c.Status(status).JSON(models.NewErrorResponse(message, code, GetRequestID(c)))
}

func forbidden(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusForbidden).JSON(models.NewErrorResponse(
		message, models.CodeForbidden, GetRequestID(c)))
}

// ensureAuth resolves the session cookie to a live AuthContext, reusing a
// context already resolved earlier in the chain. Authority is re-derived
// from the current user and account rows on every request.
func ensureAuth(c *fiber.Ctx, cfg *config.Config) (*models.AuthContext, error) {
	if auth := AuthFromContext(c); auth != nil {
		return auth, nil
	}

	auth, err := services.ResolveAuth(c.Context(), cfg.JWTSecret, services.SessionToken(c))
	if err != nil {
		return nil, err
	}

	c.Locals(authContextKey, auth)
	return auth, nil
}

// RequireAuth rejects requests without a valid, live session
func RequireAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := ensureAuth(c, cfg); err != nil {
			return authError(c, err)
		}
		return c.Next()
	}
}

// RequireRole allows only the given roles through
func RequireRole(cfg *config.Config, roles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth, err := ensureAuth(c, cfg)
		if err != nil {
			return authError(c, err)
		}

		if !auth.HasRole(roles...) {
			slog.Info("Access denied",
				"user_id", auth.UserID,
				"user_role", auth.Role,
				"required_roles", roles)
			return forbidden(c, "Insufficient role")
		}

		return c.Next()
	}
}

// RequirePermission allows only contexts holding the given permission
func RequirePermission(cfg *config.Config, permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth, err := ensureAuth(c, cfg)
		if err != nil {
			return authError(c, err)
		}

		if !auth.HasPermission(permission) {
			slog.Info("Permission denied",
				"user_id", auth.UserID,
				"role", auth.Role,
				"required_permission", permission)
			return forbidden(c, "Insufficient permissions")
		}

		return c.Next()
	}
}
