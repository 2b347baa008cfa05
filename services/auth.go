package services

import (
	"context"
	"errors"
	"log/slog"

	"placement-portal/models"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrUserNotFound    = errors.New("user not found")
	ErrUserDeactivated = errors.New("user account is deactivated")
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountInactive = errors.New("account is inactive")
)

// Lookup seams, swapped out in tests
var (
	lookupUser    = GetUserByID
	lookupAccount = GetAccountByID
)

// ResolveAuth verifies a session token and rebuilds authority from the
// current user and account rows. Both rows are fetched fresh on every call:
// the token is only a bearer credential, so deactivating a user or account
// takes effect on their very next request without waiting for token expiry.
func ResolveAuth(ctx context.Context, secret, token string) (*models.AuthContext, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := VerifyToken(secret, token)
	if err != nil {
		return nil, err
	}

	user, err := lookupUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		slog.Info("Rejected deactivated user", "user_id", claims.UserID)
		return nil, ErrUserDeactivated
	}

	account, err := lookupAccount(ctx, user.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	if !account.IsActive {
		slog.Info("Rejected user of inactive account", "user_id", claims.UserID, "account_id", user.AccountID)
		return nil, ErrAccountInactive
	}

	permissions := models.RolePermissionList(user.Role)
	for _, p := range user.ExtraPermissions {
		if !models.HasPermission(permissions, p) {
			permissions = append(permissions, p)
		}
	}

	return &models.AuthContext{
		UserID:        user.ID.Hex(),
		AccountID:     user.AccountID,
		Email:         user.Email,
		Name:          user.Name,
		Role:          user.Role,
		ProfilePic:    user.ProfilePic,
		IsActive:      user.IsActive,
		EmailVerified: user.EmailVerified,
		PhoneVerified: user.PhoneVerified,
		Permissions:   permissions,
		Account: models.AccountSummary{
			ID:          account.ID.Hex(),
			Name:        account.Name,
			AccountType: account.AccountType,
			IsActive:    account.IsActive,
		},
	}, nil
}

// AuthErrorStatus maps a resolution failure to the HTTP status and error
// code the verify endpoint contract requires.
func AuthErrorStatus(err error) (status int, code string, message string) {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return 401, models.CodeUnauthorized, "Authentication required"
	case errors.Is(err, ErrTokenExpired):
		return 401, models.CodeTokenExpired, "Session has expired"
	case errors.Is(err, ErrTokenInvalid):
		return 401, models.CodeInvalidToken, "Invalid session token"
	case errors.Is(err, ErrUserNotFound):
		return 404, models.CodeUserNotFound, "User no longer exists"
	case errors.Is(err, ErrUserDeactivated):
		return 401, models.CodeAccountDeactivated, "User account has been deactivated"
	case errors.Is(err, ErrAccountNotFound):
		return 404, models.CodeAccountNotFound, "Account no longer exists"
	case errors.Is(err, ErrAccountInactive):
		return 401, models.CodeAccountInactive, "Account is inactive"
	default:
		// Infrastructure failures are logged server-side with full detail;
		// the client only ever sees the generic message.
		slog.Error("Auth resolution failed", "error", err)
		return 500, models.CodeInternalError, "Internal server error"
	}
}
