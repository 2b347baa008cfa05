package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"placement-portal/models"
)

const (
	// MaxImportRows is the hard ceiling on rows per import request
	MaxImportRows = 1000
	// importBatchSize bounds how many rows are processed per batch
	importBatchSize = 50
	// maxDetailEntries caps each detail list in the returned summary
	maxDetailEntries = 10
)

var (
	ErrEmptyImport = errors.New("no student records provided")
	ErrTooManyRows = errors.New("too many student records")
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9+\-\s()]{10,15}$`)
)

// RawStudentRow is one untyped spreadsheet row. Values may be strings or
// JSON numbers; nothing past the validator sees this type.
type RawStudentRow map[string]interface{}

// RowError is a per-row validation failure. The original data is echoed
// back so the caller can correct and resubmit just that row.
type RowError struct {
	Row   int           `json:"row"`
	Error string        `json:"error"`
	Data  RawStudentRow `json:"data"`
}

// StudentRef is the slice of a student echoed in duplicate reports
type StudentRef struct {
	Name       string `json:"name"`
	RollNumber string `json:"roll_number"`
	Email      string `json:"email"`
}

// RowDuplicate reports one duplicate row. Type is "rollNumber" or "email";
// roll number takes precedence when both collide.
type RowDuplicate struct {
	Row          int        `json:"row"`
	Type         string     `json:"type"`
	ExistingData StudentRef `json:"existing_data"`
	NewData      StudentRef `json:"new_data"`
}

// ImportedRow identifies one persisted record
type ImportedRow struct {
	Row        int    `json:"row"`
	StudentID  string `json:"student_id"`
	Name       string `json:"name"`
	RollNumber string `json:"roll_number"`
	Email      string `json:"email"`
}

// ImportResult aggregates one bulk import run. Total == Successful + Failed
// and Successful == len(Imported) always hold; the detail lists here are
// complete, truncation happens only in the HTTP summary.
type ImportResult struct {
	Total      int            `json:"total"`
	Successful int            `json:"successful"`
	Failed     int            `json:"failed"`
	Errors     []RowError     `json:"errors"`
	Duplicates []RowDuplicate `json:"duplicates"`
	Imported   []ImportedRow  `json:"imported"`
}

// Truncated returns a copy with each detail list capped for the response
// body. The numeric counts keep the full totals.
func (r *ImportResult) Truncated() ImportResult {
	out := *r
	if len(out.Errors) > maxDetailEntries {
		out.Errors = out.Errors[:maxDetailEntries]
	}
	if len(out.Duplicates) > maxDetailEntries {
		out.Duplicates = out.Duplicates[:maxDetailEntries]
	}
	if len(out.Imported) > maxDetailEntries {
		out.Imported = out.Imported[:maxDetailEntries]
	}
	return out
}

// fieldSpec describes one import column: its key, whether it must be
// present, and an optional value check run after the presence pass.
// The slice order below is the rule order; first failure wins.
type fieldSpec struct {
	Name     string
	Required bool
	Check    func(value string) error
}

func studentImportSchema() []fieldSpec {
	return []fieldSpec{
		{Name: "name", Required: true},
		{Name: "email", Required: true, Check: checkEmail},
		{Name: "rollNumber", Required: true},
		{Name: "branch", Required: true},
		{Name: "phone", Check: checkPhone},
		{Name: "semester", Required: true, Check: checkSemester},
		{Name: "cgpa", Required: true, Check: checkCGPA},
		{Name: "batchYear", Required: true, Check: checkBatchYear},
		{Name: "backlogs", Check: checkBacklogs},
		{Name: "gender"},
		{Name: "dateOfBirth"},
		{Name: "address"},
		{Name: "city"},
		{Name: "state"},
		{Name: "pincode"},
		{Name: "technicalSkills"},
		{Name: "softSkills"},
		{Name: "linkedinUrl"},
		{Name: "githubUrl"},
		{Name: "portfolioUrl"},
	}
}

func checkEmail(value string) error {
	if !emailPattern.MatchString(value) {
		return errors.New("Invalid email format")
	}
	return nil
}

func checkPhone(value string) error {
	if !phonePattern.MatchString(value) {
		return errors.New("Invalid phone format")
	}
	return nil
}

func checkSemester(value string) error {
	semester, err := strconv.Atoi(value)
	if err != nil || semester < 1 || semester > 8 {
		return errors.New("Semester must be between 1 and 8")
	}
	return nil
}

func checkCGPA(value string) error {
	cgpa, err := strconv.ParseFloat(value, 64)
	if err != nil || cgpa < 0 || cgpa > 10 {
		return errors.New("CGPA must be between 0 and 10")
	}
	return nil
}

func checkBatchYear(value string) error {
	year, err := strconv.Atoi(value)
	currentYear := time.Now().Year()
	if err != nil || year < currentYear-10 || year > currentYear+2 {
		return errors.New("Batch year must be reasonable")
	}
	return nil
}

func checkBacklogs(value string) error {
	backlogs, err := strconv.Atoi(value)
	if err != nil || backlogs < 0 {
		return errors.New("Backlogs must be a non-negative number")
	}
	return nil
}

// rawField stringifies one cell. JSON numbers arrive as float64; integral
// values must not grow a trailing ".0".
func rawField(row RawStudentRow, key string) string {
	value, ok := row[key]
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

func splitSkills(value string) []string {
	skills := []string{}
	for _, part := range strings.Split(value, ",") {
		if skill := strings.TrimSpace(part); skill != "" {
			skills = append(skills, skill)
		}
	}
	return skills
}

// ValidateStudentRow checks one raw row against the import schema and, on
// success, returns the normalized student. Checks short-circuit: the first
// failing rule is the row's error, nothing is accumulated.
func ValidateStudentRow(row RawStudentRow) (*models.Student, error) {
	schema := studentImportSchema()

	for _, field := range schema {
		if field.Required && rawField(row, field.Name) == "" {
			return nil, fmt.Errorf("Missing required field: %s", field.Name)
		}
	}

	for _, field := range schema {
		if field.Check == nil {
			continue
		}
		value := rawField(row, field.Name)
		if value == "" && !field.Required {
			continue
		}
		if err := field.Check(value); err != nil {
			return nil, err
		}
	}

	semester, _ := strconv.Atoi(rawField(row, "semester"))
	cgpa, _ := strconv.ParseFloat(rawField(row, "cgpa"), 64)
	batchYear, _ := strconv.Atoi(rawField(row, "batchYear"))

	backlogs := 0
	if value := rawField(row, "backlogs"); value != "" {
		backlogs, _ = strconv.Atoi(value)
	}

	gender := rawField(row, "gender")
	if gender == "" {
		gender = "not_specified"
	}

	return &models.Student{
		Name:            rawField(row, "name"),
		Email:           strings.ToLower(rawField(row, "email")),
		RollNumber:      rawField(row, "rollNumber"),
		Phone:           rawField(row, "phone"),
		Branch:          rawField(row, "branch"),
		Semester:        semester,
		CGPA:            cgpa,
		BatchYear:       batchYear,
		Backlogs:        backlogs,
		Gender:          gender,
		DateOfBirth:     rawField(row, "dateOfBirth"),
		Address:         rawField(row, "address"),
		City:            rawField(row, "city"),
		State:           rawField(row, "state"),
		Pincode:         rawField(row, "pincode"),
		TechnicalSkills: splitSkills(rawField(row, "technicalSkills")),
		SoftSkills:      splitSkills(rawField(row, "softSkills")),
		LinkedinURL:     rawField(row, "linkedinUrl"),
		GithubURL:       rawField(row, "githubUrl"),
		PortfolioURL:    rawField(row, "portfolioUrl"),
	}, nil
}

// Importer runs bulk student imports against a store
type Importer struct {
	store StudentStore
}

func NewImporter(store StudentStore) *Importer {
	return &Importer{store: store}
}

// checkDuplicate queries the live store for an existing record in the same
// account. Roll number collisions take precedence over email collisions and
// at most one reason is reported per row. This is a best-effort pre-check;
// the unique index closes the race between concurrent imports.
func (im *Importer) checkDuplicate(ctx context.Context, accountID string, student *models.Student) (*RowDuplicate, error) {
	existing, err := im.store.FindByRollNumber(ctx, accountID, student.RollNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &RowDuplicate{
			Type:         "rollNumber",
			ExistingData: StudentRef{Name: existing.Name, RollNumber: existing.RollNumber, Email: existing.Email},
			NewData:      StudentRef{Name: student.Name, RollNumber: student.RollNumber, Email: student.Email},
		}, nil
	}

	existing, err = im.store.FindByEmail(ctx, accountID, student.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &RowDuplicate{
			Type:         "email",
			ExistingData: StudentRef{Name: existing.Name, RollNumber: existing.RollNumber, Email: existing.Email},
			NewData:      StudentRef{Name: student.Name, RollNumber: student.RollNumber, Email: student.Email},
		}, nil
	}

	return nil, nil
}

// Run validates, de-duplicates and persists the given rows for one account.
// Rows are processed in order, in batches of fifty, each row independently:
// a failing row never blocks the rows after it. Infrastructure failures on
// a row are reported on that row and processing continues (at-least-once,
// no rollback of earlier batches).
func (im *Importer) Run(ctx context.Context, rows []RawStudentRow, accountID string) (*ImportResult, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyImport
	}
	if len(rows) > MaxImportRows {
		return nil, ErrTooManyRows
	}

	result := &ImportResult{
		Total:      len(rows),
		Errors:     []RowError{},
		Duplicates: []RowDuplicate{},
		Imported:   []ImportedRow{},
	}

	for start := 0; start < len(rows); start += importBatchSize {
		end := start + importBatchSize
		if end > len(rows) {
			end = len(rows)
		}

		for i, row := range rows[start:end] {
			rowNumber := start + i + 1

			student, err := ValidateStudentRow(row)
			if err != nil {
				result.Errors = append(result.Errors, RowError{
					Row:   rowNumber,
					Error: err.Error(),
					Data:  row,
				})
				continue
			}

			duplicate, err := im.checkDuplicate(ctx, accountID, student)
			if err != nil {
				result.Errors = append(result.Errors, RowError{
					Row:   rowNumber,
					Error: "Failed to check for duplicates",
					Data:  row,
				})
				slog.Error("Duplicate check failed", "row", rowNumber, "error", err)
				continue
			}
			if duplicate != nil {
				duplicate.Row = rowNumber
				result.Duplicates = append(result.Duplicates, *duplicate)
				continue
			}

			student.AccountID = accountID
			student.IsPlaced = false
			student.IsActive = true
			student.AppliedDrives = []string{}
			student.Trainings = []string{}

			if err := im.store.Insert(ctx, student); err != nil {
				if errors.Is(err, ErrDuplicateStudent) {
					// Lost the race against a concurrent import; report it
					// the same way the pre-check would have.
					result.Duplicates = append(result.Duplicates, RowDuplicate{
						Row:          rowNumber,
						Type:         "rollNumber",
						ExistingData: StudentRef{Name: student.Name, RollNumber: student.RollNumber, Email: student.Email},
						NewData:      StudentRef{Name: student.Name, RollNumber: student.RollNumber, Email: student.Email},
					})
					continue
				}
				result.Errors = append(result.Errors, RowError{
					Row:   rowNumber,
					Error: "Failed to save student record",
					Data:  row,
				})
				slog.Error("Student insert failed", "row", rowNumber, "error", err)
				continue
			}

			result.Imported = append(result.Imported, ImportedRow{
				Row:        rowNumber,
				StudentID:  student.ID.Hex(),
				Name:       student.Name,
				RollNumber: student.RollNumber,
				Email:      student.Email,
			})
		}
	}

	result.Successful = len(result.Imported)
	result.Failed = result.Total - result.Successful

	slog.Info("Bulk import finished",
		"account_id", accountID,
		"total", result.Total,
		"successful", result.Successful,
		"failed", result.Failed,
		"duplicates", len(result.Duplicates))

	return result, nil
}
