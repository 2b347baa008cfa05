package models

// AuthContext carries the identity resolved for one request. It is built
// from the live user and account rows, never from token claims alone, and
// is not modified after construction.
type AuthContext struct {
	UserID        string         `json:"user_id"`
	AccountID     string         `json:"account_id"`
	Email         string         `json:"email"`
	Name          string         `json:"name"`
	Role          UserRole       `json:"role"`
	ProfilePic    string         `json:"profile_pic,omitempty"`
	IsActive      bool           `json:"is_active"`
	EmailVerified bool           `json:"email_verified"`
	PhoneVerified bool           `json:"phone_verified"`
	Permissions   []string       `json:"permissions"`
	Account       AccountSummary `json:"account"`
}

// HasPermission checks the resolved permission list
func (a *AuthContext) HasPermission(permission string) bool {
	return HasPermission(a.Permissions, permission)
}

// HasRole checks whether the context role is one of the given roles
func (a *AuthContext) HasRole(roles ...UserRole) bool {
	for _, role := range roles {
		if a.Role == role {
			return true
		}
	}
	return false
}
