package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRole represents the role of a portal user
type UserRole string

const (
	RoleAdmin       UserRole = "admin"
	RoleTPO         UserRole = "tpo"
	RoleFaculty     UserRole = "faculty"
	RoleCoordinator UserRole = "coordinator"
)

// User represents a portal user in the system
type User struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email string             `bson:"email" json:"email"`
	Name  string             `bson:"name" json:"name"`

	// Account (tenant) association
	AccountID string `bson:"account_id" json:"account_id"`

	// Role and permissions
	Role UserRole `bson:"role" json:"role"`

	// Extra permissions granted beyond the role defaults
	ExtraPermissions []string `bson:"extra_permissions,omitempty" json:"extra_permissions,omitempty"`

	// Authentication
	PasswordHash string `bson:"password_hash" json:"-"`

	// Profile
	ProfilePic string `bson:"profile_pic,omitempty" json:"profile_pic,omitempty"`

	// Status
	IsActive      bool      `bson:"is_active" json:"is_active"`
	EmailVerified bool      `bson:"email_verified" json:"email_verified"`
	PhoneVerified bool      `bson:"phone_verified" json:"phone_verified"`
	LastLogin     time.Time `bson:"last_login,omitempty" json:"last_login,omitempty"`

	// Metadata
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
	CreatedBy string    `bson:"created_by,omitempty" json:"created_by,omitempty"`
}

// RolePermissions defines what each role can do
type RolePermissions struct {
	Role        UserRole
	Description string
	Permissions []string
}

// GetRolePermissions returns the permissions for each role
func GetRolePermissions() map[UserRole]RolePermissions {
	return map[UserRole]RolePermissions{
		RoleAdmin: {
			Role:        RoleAdmin,
			Description: "Full access to all features",
			Permissions: []string{
				"students:read",
				"students:write",
				"students:import",
				"companies:read",
				"companies:write",
				"drives:read",
				"drives:write",
				"trainings:read",
				"trainings:write",
				"assessments:read",
				"assessments:write",
				"users:read",
				"users:write",
				"reports:read",
				"settings:write",
			},
		},
		RoleTPO: {
			Role:        RoleTPO,
			Description: "Training and placement officer",
			Permissions: []string{
				"students:read",
				"students:write",
				"students:import",
				"companies:read",
				"companies:write",
				"drives:read",
				"drives:write",
				"trainings:read",
				"trainings:write",
				"assessments:read",
				"assessments:write",
				"reports:read",
			},
		},
		RoleFaculty: {
			Role:        RoleFaculty,
			Description: "Faculty member managing students and trainings",
			Permissions: []string{
				"students:read",
				"students:write",
				"students:import",
				"trainings:read",
				"trainings:write",
				"assessments:read",
				"assessments:write",
			},
		},
		RoleCoordinator: {
			Role:        RoleCoordinator,
			Description: "Student placement coordinator, read-mostly access",
			Permissions: []string{
				"students:read",
				"companies:read",
				"drives:read",
				"trainings:read",
				"assessments:read",
			},
		},
	}
}

// RolePermissionList returns the default permission list for a role.
// Unknown roles get an empty list, not an error.
func RolePermissionList(role UserRole) []string {
	if rolePerms, exists := GetRolePermissions()[role]; exists {
		return rolePerms.Permissions
	}
	return []string{}
}

// HasPermission checks if a permission list contains a specific permission
func HasPermission(permissions []string, permission string) bool {
	for _, perm := range permissions {
		if perm == permission {
			return true
		}
	}
	return false
}

// HasAnyPermission checks if a permission list contains at least one of the given permissions
func HasAnyPermission(permissions []string, wanted []string) bool {
	for _, p := range wanted {
		if HasPermission(permissions, p) {
			return true
		}
	}
	return false
}

// HasAllPermissions checks if a permission list contains all of the given permissions
func HasAllPermissions(permissions []string, wanted []string) bool {
	for _, p := range wanted {
		if !HasPermission(permissions, p) {
			return false
		}
	}
	return true
}

// IsValidRole checks if a role is valid
func IsValidRole(role string) bool {
	validRoles := []UserRole{
		RoleAdmin,
		RoleTPO,
		RoleFaculty,
		RoleCoordinator,
	}

	for _, validRole := range validRoles {
		if UserRole(role) == validRole {
			return true
		}
	}
	return false
}
