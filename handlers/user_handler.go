package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"placement-portal/middleware"
	"placement-portal/models"
	"placement-portal/services"
)

type CreateUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateUser creates a portal user inside the caller's account
func CreateUser(c *fiber.Ctx) error {
	auth := middleware.AuthFromContext(c)

	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body", models.CodeInvalidData)
	}

	if req.Email == "" || req.Name == "" || req.Password == "" || req.Role == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Email, name, password and role are required", models.CodeInvalidData)
	}
	if !models.IsValidRole(req.Role) {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid role: "+req.Role, models.CodeInvalidData)
	}

	passwordHash, err := services.HashPassword(req.Password)
	if err != nil {
		slog.Error("Failed to hash password", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Internal server error", models.CodeInternalError)
	}

	user := &models.User{
		Email:        req.Email,
		Name:         req.Name,
		AccountID:    auth.AccountID,
		Role:         models.UserRole(req.Role),
		PasswordHash: passwordHash,
		CreatedBy:    auth.UserID,
	}

	if err := services.CreateUser(c.Context(), user); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error(), models.CodeInvalidData)
	}

	return successJSON(c, fiber.StatusCreated, user, "User created")
}

// GetAccountUsers lists all users in the caller's account
func GetAccountUsers(c *fiber.Ctx) error {
	auth := middleware.AuthFromContext(c)

	users, err := services.GetUsersByAccount(c.Context(), auth.AccountID)
	if err != nil {
		slog.Error("Failed to list users", "error", err, "account_id", auth.AccountID)
		return errorJSON(c, fiber.StatusInternalServerError, "Internal server error", models.CodeInternalError)
	}

	return successJSON(c, fiber.StatusOK, users, "")
}
