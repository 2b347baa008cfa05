package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account represents a tenant institution. Every student, user and drive
// record is scoped to exactly one account.
type Account struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name string             `bson:"name" json:"name"`

	// e.g. "college", "university", "training_institute"
	AccountType string `bson:"account_type" json:"account_type"`

	// Contact
	Email string `bson:"email,omitempty" json:"email,omitempty"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`
	City  string `bson:"city,omitempty" json:"city,omitempty"`
	State string `bson:"state,omitempty" json:"state,omitempty"`

	// Status
	IsActive bool `bson:"is_active" json:"is_active"`

	// Metadata
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// AccountSummary is the slice of account state carried inside an AuthContext
type AccountSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AccountType string `json:"account_type"`
	IsActive    bool   `json:"is_active"`
}
