package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const RequestIDKey = "request_id"

// RequestID tags every request with a uuid used in error envelopes and logs
func RequestID(c *fiber.Ctx) error {
	id := c.Get("X-Request-ID")
	if id == "" {
		id = uuid.New().String()
	}
	c.Locals(RequestIDKey, id)
	c.Set("X-Request-ID", id)
	return c.Next()
}

// GetRequestID returns the request id set by RequestID, or "" if absent
func GetRequestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
