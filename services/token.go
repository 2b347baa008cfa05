package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"placement-portal/models"
)

const TokenTTL = 7 * 24 * time.Hour

var (
	// ErrTokenExpired means the token was well-formed and signed but is past
	// its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid means the signature failed or required claims are
	// missing or malformed.
	ErrTokenInvalid = errors.New("invalid token")
)

// SessionClaims is the claim set carried by a session token
type SessionClaims struct {
	UserID      string          `json:"user_id"`
	AccountID   string          `json:"account_id"`
	Email       string          `json:"email"`
	Name        string          `json:"name"`
	Role        models.UserRole `json:"role"`
	Permissions []string        `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken signs a session token for the given identity claims with
// issued-at now and a fixed 7 day expiry.
func IssueToken(secret string, claims SessionClaims) (string, error) {
	now := time.Now().UTC()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyToken checks signature and expiry and returns the typed claim set.
// Expiry and signature failures are distinguishable via ErrTokenExpired and
// ErrTokenInvalid.
func VerifyToken(secret, tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.UserID == "" || claims.AccountID == "" || claims.Email == "" || claims.Role == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
