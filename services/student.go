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

// StudentStore is the slice of the document store the import pipeline
// needs. All lookups are scoped to one account.
type StudentStore interface {
	FindByRollNumber(ctx context.Context, accountID, rollNumber string) (*models.Student, error)
	FindByEmail(ctx context.Context, accountID, email string) (*models.Student, error)
	Insert(ctx context.Context, student *models.Student) error
}

// ErrDuplicateStudent is returned by Insert when the unique index rejects
// the record. The index is the authoritative duplicate guard; the
// importer's pre-check is best-effort only.
var ErrDuplicateStudent = fmt.Errorf("student already exists")

// MongoStudentStore implements StudentStore on the students collection
type MongoStudentStore struct{}

func NewMongoStudentStore() *MongoStudentStore {
	return &MongoStudentStore{}
}

func (s *MongoStudentStore) FindByRollNumber(ctx context.Context, accountID, rollNumber string) (*models.Student, error) {
	collection := database.Collection("students")

	var student models.Student
	err := collection.FindOne(ctx, bson.M{
		"account_id":  accountID,
		"roll_number": rollNumber,
	}).Decode(&student)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up student by roll number: %w", err)
	}

	return &student, nil
}

func (s *MongoStudentStore) FindByEmail(ctx context.Context, accountID, email string) (*models.Student, error) {
	collection := database.Collection("students")

	var student models.Student
	err := collection.FindOne(ctx, bson.M{
		"account_id": accountID,
		"email":      email,
	}).Decode(&student)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up student by email: %w", err)
	}

	return &student, nil
}

func (s *MongoStudentStore) Insert(ctx context.Context, student *models.Student) error {
	collection := database.Collection("students")

	if student.ID.IsZero() {
		student.ID = primitive.NewObjectID()
	}
	now := time.Now()
	student.CreatedAt = now
	student.UpdatedAt = now

	_, err := collection.InsertOne(ctx, student)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateStudent
		}
		return fmt.Errorf("failed to insert student: %w", err)
	}

	return nil
}

// CountStudents counts students in an account
func CountStudents(ctx context.Context, accountID string) (int64, error) {
	collection := database.Collection("students")

	count, err := collection.CountDocuments(ctx, bson.M{"account_id": accountID})
	if err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}

	return count, nil
}
