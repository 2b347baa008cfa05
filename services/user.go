package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"placement-portal/models"
)

// HashPassword hashes a plain-text password with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a bcrypt hash against a plain-text password
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CreateUser creates a new user in the database
func CreateUser(ctx context.Context, user *models.User) error {
	collection := database.Collection("users")

	// Check if user already exists with the same email in the same account
	existingUser := collection.FindOne(ctx, bson.M{
		"email":      strings.ToLower(user.Email),
		"account_id": user.AccountID,
	})
	if existingUser.Err() != mongo.ErrNoDocuments {
		return fmt.Errorf("user already exists with this email in your account")
	}

	// Validate role
	if !models.IsValidRole(string(user.Role)) {
		return fmt.Errorf("invalid role: %s", user.Role)
	}

	user.ID = primitive.NewObjectID()
	user.Email = strings.ToLower(user.Email)
	user.IsActive = true
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	_, err := collection.InsertOne(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("User created",
		"user_id", user.ID.Hex(),
		"email", user.Email,
		"account_id", user.AccountID,
		"role", user.Role)

	return nil
}

// GetUserByID retrieves a user by their ObjectID. Returns nil when no such
// user exists.
func GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	collection := database.Collection("users")

	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, nil
	}

	var user models.User
	err = collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetUserByEmail retrieves a user by their email. Returns nil when no such
// user exists.
func GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	collection := database.Collection("users")

	var user models.User
	err := collection.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetUsersByAccount retrieves all users belonging to an account
func GetUsersByAccount(ctx context.Context, accountID string) ([]models.User, error) {
	collection := database.Collection("users")

	cursor, err := collection.Find(ctx, bson.M{"account_id": accountID},
		options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	return users, nil
}

// UpdateUserLastLogin records the time of a successful login
func UpdateUserLastLogin(ctx context.Context, userID string) error {
	collection := database.Collection("users")

	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID format: %w", err)
	}

	_, err = collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"last_login": time.Now(), "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	return nil
}
