package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"placement-portal/middleware"
	"placement-portal/models"
	"placement-portal/services"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials, issues a signed session token and binds it to
// the auth cookie
func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body", models.CodeInvalidData)
	}

	if req.Email == "" || req.Password == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Email and password are required", models.CodeInvalidData)
	}

	user, err := services.GetUserByEmail(c.Context(), req.Email)
	if err != nil {
		slog.Error("Failed to get user", "error", err, "email", req.Email)
		return errorJSON(c, fiber.StatusInternalServerError, "Internal server error", models.CodeInternalError)
	}
	if user == nil || !services.CheckPassword(user.PasswordHash, req.Password) {
		slog.Info("Invalid login attempt", "email", req.Email)
		return errorJSON(c, fiber.StatusUnauthorized, "Invalid credentials", models.CodeUnauthorized)
	}

	if !user.IsActive {
		return errorJSON(c, fiber.StatusUnauthorized, "User account has been deactivated", models.CodeAccountDeactivated)
	}

	account, err := services.GetAccountByID(c.Context(), user.AccountID)
	if err != nil {
		slog.Error("Failed to get account", "error", err, "account_id", user.AccountID)
		return errorJSON(c, fiber.StatusInternalServerError, "Internal server error", models.CodeInternalError)
	}
	if account == nil || !account.IsActive {
		return errorJSON(c, fiber.StatusUnauthorized, "Account is inactive", models.CodeAccountInactive)
	}

	claims := services.SessionClaims{
		UserID:      user.ID.Hex(),
		AccountID:   user.AccountID,
		Email:       user.Email,
		Name:        user.Name,
		Role:        user.Role,
		Permissions: models.RolePermissionList(user.Role),
	}
	if err := services.SetSessionCookie(c, cfg.JWTSecret, cfg.Production, claims); err != nil {
		slog.Error("Failed to issue session token", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Internal server error", models.CodeInternalError)
	}

	if err := services.UpdateUserLastLogin(c.Context(), user.ID.Hex()); err != nil {
		slog.Error("Failed to update last login", "error", err)
	}

	slog.Info("User logged in", "user_id", user.ID.Hex(), "email", user.Email)

	return successJSON(c, fiber.StatusOK, fiber.Map{
		"user":        user,
		"permissions": claims.Permissions,
	}, "Login successful")
}

// Logout clears the session cookie. Always succeeds from the client's
// perspective.
func Logout(c *fiber.Ctx) error {
	services.ClearSessionCookie(c, cfg.Production)
	return successJSON(c, fiber.StatusOK, nil, "Logged out successfully")
}

// VerifyAccount re-validates an existing session: token signature and
// expiry first, then the live user and account rows. Serves GET and POST
// identically.
func VerifyAccount(c *fiber.Ctx) error {
	token := services.SessionToken(c)

	auth, err := services.ResolveAuth(c.Context(), cfg.JWTSecret, token)
	if err != nil {
		status, code, message := services.AuthErrorStatus(err)
		return errorJSON(c, status, message, code)
	}

	return successJSON(c, fiber.StatusOK, fiber.Map{
		"user": fiber.Map{
			"id":             auth.UserID,
			"email":          auth.Email,
			"name":           auth.Name,
			"role":           auth.Role,
			"profile_pic":    auth.ProfilePic,
			"is_active":      auth.IsActive,
			"email_verified": auth.EmailVerified,
			"phone_verified": auth.PhoneVerified,
		},
		"permissions": auth.Permissions,
		"account":     auth.Account,
	}, "")
}

// Me returns the resolved context for the authenticated caller
func Me(c *fiber.Ctx) error {
	auth := middleware.AuthFromContext(c)
	return successJSON(c, fiber.StatusOK, auth, "")
}
