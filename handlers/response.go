package handlers

import (
	"github.com/gofiber/fiber/v2"

	"placement-portal/config"
	"placement-portal/middleware"
	"placement-portal/models"
	"placement-portal/services"
)

// Package state wired once at startup
var (
	cfg      *config.Config
	importer *services.Importer
)

// Init wires the handler package to its configuration and collaborators
func Init(c *config.Config, store services.StudentStore) {
	cfg = c
	importer = services.NewImporter(store)
}

func successJSON(c *fiber.Ctx, status int, data interface{}, message string) error {
	return c.Status(status).JSON(models.NewSuccessResponse(data, message))
}

func errorJSON(c *fiber.Ctx, status int, message, code string) error {
	return c.Status(status).JSON(models.NewErrorResponse(message, code, middleware.GetRequestID(c)))
}
