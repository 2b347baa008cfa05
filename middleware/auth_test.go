package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placement-portal/config"
	"placement-portal/models"
	"placement-portal/services"
)

func newAuthTestApp() *fiber.App {
	cfg := &config.Config{JWTSecret: "test-secret"}

	app := fiber.New()
	app.Use(RequestID)
	app.Get("/protected", RequireAuth(cfg), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/admin-only", RequireRole(cfg, models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func decodeError(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestRequireAuthNoCookie(t *testing.T) {
	app := newAuthTestApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, models.CodeUnauthorized, body["code"])
	assert.NotEmpty(t, body["request_id"])
}

func TestRequireAuthBadToken(t *testing.T) {
	app := newAuthTestApp()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: services.SessionCookieName, Value: "garbage"})

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, models.CodeInvalidToken, body["code"])
}

func TestRequireRoleNoCookie(t *testing.T) {
	app := newAuthTestApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin-only", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRoleForbidden(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}

	// Pre-resolved context stands in for the live lookup
	app := fiber.New()
	app.Use(RequestID)
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(authContextKey, &models.AuthContext{
			UserID: "u1", AccountID: "a1", Role: models.RoleCoordinator,
			Permissions: models.RolePermissionList(models.RoleCoordinator),
		})
		return c.Next()
	})
	app.Post("/import", RequireRole(cfg, models.RoleAdmin, models.RoleTPO, models.RoleFaculty), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/import", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, models.CodeForbidden, body["code"])
}

func TestRequirePermissionForbidden(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}

	app := fiber.New()
	app.Use(RequestID)
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(authContextKey, &models.AuthContext{
			UserID: "u1", AccountID: "a1", Role: models.RoleCoordinator,
			Permissions: models.RolePermissionList(models.RoleCoordinator),
		})
		return c.Next()
	})
	app.Post("/users", RequirePermission(cfg, "users:write"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/students", RequirePermission(cfg, "students:read"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/users", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/students", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "a held permission passes through")
}
