package middleware

import (
	"github.com/gofiber/fiber/v2"

	"placement-portal/models"
	"placement-portal/services"
)

// RateLimit throttles by client IP under the given prefix. Best effort
// only; the limiter backend is a deployment choice.
func RateLimit(limiter services.RateLimiter, prefix string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := prefix + ":" + c.IP()
		if !limiter.Allow(c.Context(), key) {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.NewErrorResponse(
				"Too many requests, try again later",
				models.CodeRateLimited,
				GetRequestID(c)))
		}
		return c.Next()
	}
}
