package services

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

const SessionCookieName = "auth-token"

// SetSessionCookie issues a signed token for the claims and binds it to the
// response as an HTTP-only cookie. Secure is only set in production so that
// local development over plain HTTP keeps working.
func SetSessionCookie(c *fiber.Ctx, secret string, production bool, claims SessionClaims) error {
	token, err := IssueToken(secret, claims)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		MaxAge:   int(TokenTTL.Seconds()),
		Expires:  time.Now().Add(TokenTTL),
		HTTPOnly: true,
		Secure:   production,
		SameSite: "Lax",
		Path:     "/",
	})

	return nil
}

// SessionToken reads the session token from the request cookie. Returns an
// empty string when no cookie is present; never fails.
func SessionToken(c *fiber.Ctx) string {
	return c.Cookies(SessionCookieName)
}

// ClearSessionCookie removes the session cookie. Logout must always appear
// to succeed from the client's perspective, so there is no error to return.
func ClearSessionCookie(c *fiber.Ctx, production bool) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		MaxAge:   -1,
		Expires:  time.Now().Add(-1 * time.Hour),
		HTTPOnly: true,
		Secure:   production,
		SameSite: "Lax",
		Path:     "/",
	})

	slog.Debug("Session cookie cleared")
}
