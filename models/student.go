package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Student represents a student record scoped to an account
type Student struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	// Tenant scoping
	AccountID string `bson:"account_id" json:"account_id"`

	// Identity
	Name       string `bson:"name" json:"name"`
	Email      string `bson:"email" json:"email"`
	RollNumber string `bson:"roll_number" json:"roll_number"`
	Phone      string `bson:"phone,omitempty" json:"phone,omitempty"`

	// Academics
	Branch    string  `bson:"branch" json:"branch"`
	Semester  int     `bson:"semester" json:"semester"`
	CGPA      float64 `bson:"cgpa" json:"cgpa"`
	BatchYear int     `bson:"batch_year" json:"batch_year"`
	Backlogs  int     `bson:"backlogs" json:"backlogs"`

	// Profile
	Gender      string `bson:"gender" json:"gender"`
	DateOfBirth string `bson:"date_of_birth,omitempty" json:"date_of_birth,omitempty"`
	Address     string `bson:"address,omitempty" json:"address,omitempty"`
	City        string `bson:"city,omitempty" json:"city,omitempty"`
	State       string `bson:"state,omitempty" json:"state,omitempty"`
	Pincode     string `bson:"pincode,omitempty" json:"pincode,omitempty"`

	// Skills
	TechnicalSkills []string `bson:"technical_skills" json:"technical_skills"`
	SoftSkills      []string `bson:"soft_skills" json:"soft_skills"`

	// Links
	LinkedinURL  string `bson:"linkedin_url,omitempty" json:"linkedin_url,omitempty"`
	GithubURL    string `bson:"github_url,omitempty" json:"github_url,omitempty"`
	PortfolioURL string `bson:"portfolio_url,omitempty" json:"portfolio_url,omitempty"`

	// Placement state
	IsPlaced      bool     `bson:"is_placed" json:"is_placed"`
	IsActive      bool     `bson:"is_active" json:"is_active"`
	AppliedDrives []string `bson:"applied_drives" json:"applied_drives"`
	Trainings     []string `bson:"trainings" json:"trainings"`

	// Metadata
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
	CreatedBy string    `bson:"created_by,omitempty" json:"created_by,omitempty"`
}
