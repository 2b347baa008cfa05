package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"placement-portal/models"
)

// CreateAccount creates a new tenant account
func CreateAccount(ctx context.Context, account *models.Account) error {
	collection := database.Collection("accounts")

	account.ID = primitive.NewObjectID()
	account.IsActive = true
	account.CreatedAt = time.Now()
	account.UpdatedAt = time.Now()

	_, err := collection.InsertOne(ctx, account)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetAccountByID retrieves an account by its ObjectID. Returns nil when no
// such account exists.
func GetAccountByID(ctx context.Context, accountID string) (*models.Account, error) {
	collection := database.Collection("accounts")

	objectID, err := primitive.ObjectIDFromHex(accountID)
	if err != nil {
		return nil, nil
	}

	var account models.Account
	err = collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&account)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &account, nil
}
