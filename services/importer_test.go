package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"placement-portal/models"
)

// fakeStudentStore keeps students in memory, keyed the same way the Mongo
// unique indexes are
type fakeStudentStore struct {
	students   []*models.Student
	insertErr  error
	insertions int
}

func (f *fakeStudentStore) FindByRollNumber(_ context.Context, accountID, rollNumber string) (*models.Student, error) {
	for _, s := range f.students {
		if s.AccountID == accountID && s.RollNumber == rollNumber {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeStudentStore) FindByEmail(_ context.Context, accountID, email string) (*models.Student, error) {
	for _, s := range f.students {
		if s.AccountID == accountID && s.Email == email {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeStudentStore) Insert(_ context.Context, student *models.Student) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	if student.ID.IsZero() {
		student.ID = primitive.NewObjectID()
	}
	f.students = append(f.students, student)
	f.insertions++
	return nil
}

func validRow(i int) RawStudentRow {
	return RawStudentRow{
		"name":       fmt.Sprintf("Student %d", i),
		"email":      fmt.Sprintf("student%d@college.edu", i),
		"rollNumber": fmt.Sprintf("CS%03d", i),
		"branch":     "CS",
		"semester":   float64(6),
		"cgpa":       8.5,
		"batchYear":  float64(time.Now().Year() - 1),
	}
}

func TestValidateStudentRowNormalization(t *testing.T) {
	row := RawStudentRow{
		"name":            "  John Doe  ",
		"email":           "John@X.com",
		"rollNumber":      "CS001",
		"branch":          "CS",
		"semester":        "6",
		"cgpa":            "8.5",
		"batchYear":       fmt.Sprintf("%d", time.Now().Year()-2),
		"technicalSkills": "Go, MongoDB , ,Redis",
		"softSkills":      "communication",
	}

	student, err := ValidateStudentRow(row)
	require.NoError(t, err)

	assert.Equal(t, "John Doe", student.Name)
	assert.Equal(t, "john@x.com", student.Email)
	assert.Equal(t, 6, student.Semester)
	assert.Equal(t, 8.5, student.CGPA)
	assert.Equal(t, []string{"Go", "MongoDB", "Redis"}, student.TechnicalSkills)
	assert.Equal(t, []string{"communication"}, student.SoftSkills)
	assert.Equal(t, 0, student.Backlogs)
	assert.Equal(t, "not_specified", student.Gender)
}

func TestValidateStudentRowRules(t *testing.T) {
	year := time.Now().Year()

	tests := []struct {
		name    string
		mutate  func(RawStudentRow)
		wantErr string
	}{
		{"missing name", func(r RawStudentRow) { delete(r, "name") }, "Missing required field: name"},
		{"blank roll number", func(r RawStudentRow) { r["rollNumber"] = "   " }, "Missing required field: rollNumber"},
		{"bad email", func(r RawStudentRow) { r["email"] = "not-an-email" }, "Invalid email format"},
		{"bad phone", func(r RawStudentRow) { r["phone"] = "12ab" }, "Invalid phone format"},
		{"short phone", func(r RawStudentRow) { r["phone"] = "123456789" }, "Invalid phone format"},
		{"semester zero", func(r RawStudentRow) { r["semester"] = float64(0) }, "Semester must be between 1 and 8"},
		{"semester nine", func(r RawStudentRow) { r["semester"] = float64(9) }, "Semester must be between 1 and 8"},
		{"semester junk", func(r RawStudentRow) { r["semester"] = "abc" }, "Semester must be between 1 and 8"},
		{"cgpa below zero", func(r RawStudentRow) { r["cgpa"] = -0.01 }, "CGPA must be between 0 and 10"},
		{"cgpa above ten", func(r RawStudentRow) { r["cgpa"] = 10.01 }, "CGPA must be between 0 and 10"},
		{"batch year too old", func(r RawStudentRow) { r["batchYear"] = float64(year - 11) }, "Batch year must be reasonable"},
		{"batch year too new", func(r RawStudentRow) { r["batchYear"] = float64(year + 3) }, "Batch year must be reasonable"},
		{"negative backlogs", func(r RawStudentRow) { r["backlogs"] = float64(-1) }, "Backlogs must be a non-negative number"},
		{"junk backlogs", func(r RawStudentRow) { r["backlogs"] = "two" }, "Backlogs must be a non-negative number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := validRow(1)
			tt.mutate(row)

			_, err := ValidateStudentRow(row)
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestValidateStudentRowBoundaries(t *testing.T) {
	for _, semester := range []float64{1, 8} {
		row := validRow(1)
		row["semester"] = semester
		_, err := ValidateStudentRow(row)
		assert.NoError(t, err, "semester %v must pass", semester)
	}

	for _, cgpa := range []float64{0, 10} {
		row := validRow(1)
		row["cgpa"] = cgpa
		_, err := ValidateStudentRow(row)
		assert.NoError(t, err, "cgpa %v must pass", cgpa)
	}
}

func TestValidateStudentRowFirstFailureWins(t *testing.T) {
	row := validRow(1)
	row["email"] = "broken"
	row["semester"] = float64(20)
	row["cgpa"] = float64(99)

	_, err := ValidateStudentRow(row)
	require.Error(t, err)
	assert.Equal(t, "Invalid email format", err.Error())
}

func TestImportEmptyInput(t *testing.T) {
	importer := NewImporter(&fakeStudentStore{})

	_, err := importer.Run(context.Background(), nil, "account-1")
	assert.ErrorIs(t, err, ErrEmptyImport)

	_, err = importer.Run(context.Background(), []RawStudentRow{}, "account-1")
	assert.ErrorIs(t, err, ErrEmptyImport)
}

func TestImportTooManyRows(t *testing.T) {
	store := &fakeStudentStore{}
	importer := NewImporter(store)

	rows := make([]RawStudentRow, MaxImportRows+1)
	for i := range rows {
		rows[i] = validRow(i)
	}

	_, err := importer.Run(context.Background(), rows, "account-1")
	assert.ErrorIs(t, err, ErrTooManyRows)
	assert.Zero(t, store.insertions, "no rows may be processed when the ceiling is exceeded")
}

func TestImportSingleRecord(t *testing.T) {
	store := &fakeStudentStore{}
	importer := NewImporter(store)

	row := RawStudentRow{
		"name":       "John Doe",
		"email":      "john@x.com",
		"rollNumber": "CS001",
		"branch":     "CS",
		"semester":   float64(6),
		"cgpa":       8.5,
		"batchYear":  float64(time.Now().Year() - 2),
	}

	result, err := importer.Run(context.Background(), []RawStudentRow{row}, "account-1")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 1, result.Successful)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, result.Imported, 1)
	assert.Equal(t, "CS001", result.Imported[0].RollNumber)
	assert.Equal(t, 1, result.Imported[0].Row)
	assert.NotEmpty(t, result.Imported[0].StudentID)

	// Resubmitting the identical record reports a roll number duplicate
	result, err = importer.Run(context.Background(), []RawStudentRow{row}, "account-1")
	require.NoError(t, err)

	assert.Equal(t, 0, result.Successful)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Duplicates, 1)
	assert.Equal(t, 1, result.Duplicates[0].Row)
	assert.Equal(t, "rollNumber", result.Duplicates[0].Type)
	assert.Equal(t, "CS001", result.Duplicates[0].ExistingData.RollNumber)
}

func TestImportRowIndependence(t *testing.T) {
	store := &fakeStudentStore{}
	importer := NewImporter(store)

	rows := make([]RawStudentRow, 5)
	for i := range rows {
		rows[i] = validRow(i)
	}
	rows[2]["email"] = "broken-email"

	result, err := importer.Run(context.Background(), rows, "account-1")
	require.NoError(t, err)

	assert.Equal(t, 5, result.Total)
	assert.Equal(t, 4, result.Successful)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Equal(t, "Invalid email format", result.Errors[0].Error)
	assert.Equal(t, 4, store.insertions, "rows after a failed row must still be persisted")
}

func TestImportIdempotenceOnCleanData(t *testing.T) {
	store := &fakeStudentStore{}
	importer := NewImporter(store)

	rows := make([]RawStudentRow, 10)
	for i := range rows {
		rows[i] = validRow(i)
	}

	first, err := importer.Run(context.Background(), rows, "account-1")
	require.NoError(t, err)
	assert.Equal(t, 10, first.Successful)

	second, err := importer.Run(context.Background(), rows, "account-1")
	require.NoError(t, err)

	assert.Equal(t, 0, second.Successful)
	assert.Equal(t, 10, second.Failed)
	require.Len(t, second.Duplicates, 10)
	for _, dup := range second.Duplicates {
		assert.Equal(t, "rollNumber", dup.Type)
	}
	assert.Equal(t, 10, store.insertions, "second import must create no new records")
}

func TestImportEmailDuplicate(t *testing.T) {
	store := &fakeStudentStore{}
	importer := NewImporter(store)

	first := validRow(1)
	_, err := importer.Run(context.Background(), []RawStudentRow{first}, "account-1")
	require.NoError(t, err)

	// Same email, different roll number
	second := validRow(1)
	second["rollNumber"] = "CS999"

	result, err := importer.Run(context.Background(), []RawStudentRow{second}, "account-1")
	require.NoError(t, err)

	require.Len(t, result.Duplicates, 1)
	assert.Equal(t, "email", result.Duplicates[0].Type)
}

func TestImportTenantScoping(t *testing.T) {
	store := &fakeStudentStore{}
	importer := NewImporter(store)

	row := validRow(1)
	_, err := importer.Run(context.Background(), []RawStudentRow{row}, "account-1")
	require.NoError(t, err)

	// The same record imported into another account is not a duplicate
	result, err := importer.Run(context.Background(), []RawStudentRow{validRow(1)}, "account-2")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Successful)
	assert.Empty(t, result.Duplicates)
}

func TestImportInsertRaceReportedAsDuplicate(t *testing.T) {
	store := &fakeStudentStore{insertErr: ErrDuplicateStudent}
	importer := NewImporter(store)

	result, err := importer.Run(context.Background(), []RawStudentRow{validRow(1)}, "account-1")
	require.NoError(t, err)

	assert.Equal(t, 0, result.Successful)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Duplicates, 1)
	assert.Equal(t, "rollNumber", result.Duplicates[0].Type)
}

func TestImportDefaultsAndScoping(t *testing.T) {
	store := &fakeStudentStore{}
	importer := NewImporter(store)

	_, err := importer.Run(context.Background(), []RawStudentRow{validRow(1)}, "account-1")
	require.NoError(t, err)

	require.Len(t, store.students, 1)
	student := store.students[0]
	assert.Equal(t, "account-1", student.AccountID)
	assert.False(t, student.IsPlaced)
	assert.True(t, student.IsActive)
	assert.NotNil(t, student.AppliedDrives)
	assert.Empty(t, student.AppliedDrives)
	assert.NotNil(t, student.Trainings)
	assert.Empty(t, student.Trainings)
}

func TestImportResultTruncation(t *testing.T) {
	store := &fakeStudentStore{}
	importer := NewImporter(store)

	rows := make([]RawStudentRow, 60)
	for i := range rows {
		rows[i] = validRow(i)
		rows[i]["email"] = "broken"
	}

	result, err := importer.Run(context.Background(), rows, "account-1")
	require.NoError(t, err)

	assert.Equal(t, 60, result.Total)
	assert.Equal(t, 60, result.Failed)
	assert.Len(t, result.Errors, 60, "the full result keeps every detail entry")

	truncated := result.Truncated()
	assert.Len(t, truncated.Errors, 10)
	assert.Equal(t, 60, truncated.Total, "numeric counts survive truncation")
	assert.Equal(t, 60, truncated.Failed)
}

func TestImportRowNumbersSpanBatches(t *testing.T) {
	store := &fakeStudentStore{}
	importer := NewImporter(store)

	rows := make([]RawStudentRow, 55)
	for i := range rows {
		rows[i] = validRow(i)
	}
	rows[52]["email"] = "broken"

	result, err := importer.Run(context.Background(), rows, "account-1")
	require.NoError(t, err)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, 53, result.Errors[0].Row, "row numbers continue across the batch boundary")
	assert.Equal(t, 54, result.Successful)
}
