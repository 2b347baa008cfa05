package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"placement-portal/middleware"
	"placement-portal/models"
	"placement-portal/services"
)

type BulkImportRequest struct {
	Students []services.RawStudentRow `json:"students"`
	Options  map[string]interface{}   `json:"options,omitempty"`
}

type ImportSummary struct {
	Total       int     `json:"total"`
	Successful  int     `json:"successful"`
	Failed      int     `json:"failed"`
	SuccessRate float64 `json:"success_rate"`
}

// BulkImportStudents imports a batch of student rows into the caller's
// account. Accepts either a JSON body with a students array or a multipart
// CSV upload under the "file" field. Partial failure is the normal outcome:
// the response is 201 with the full summary even when every row failed.
func BulkImportStudents(c *fiber.Ctx) error {
	auth := middleware.AuthFromContext(c)
	if auth == nil || auth.AccountID == "" {
		return errorJSON(c, fiber.StatusNotFound, "No account associated with this session", models.CodeAccountNotFound)
	}

	rows, err := importRows(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error(), models.CodeInvalidData)
	}

	if len(rows) == 0 {
		return errorJSON(c, fiber.StatusBadRequest, "No student records provided", models.CodeInvalidData)
	}
	if len(rows) > services.MaxImportRows {
		return errorJSON(c, fiber.StatusBadRequest,
			fmt.Sprintf("Cannot import more than %d students at once", services.MaxImportRows),
			models.CodeTooManyStudents)
	}

	result, err := importer.Run(c.Context(), rows, auth.AccountID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyImport):
			return errorJSON(c, fiber.StatusBadRequest, "No student records provided", models.CodeInvalidData)
		case errors.Is(err, services.ErrTooManyRows):
			return errorJSON(c, fiber.StatusBadRequest,
				fmt.Sprintf("Cannot import more than %d students at once", services.MaxImportRows),
				models.CodeTooManyStudents)
		default:
			slog.Error("Bulk import failed", "error", err, "account_id", auth.AccountID)
			return errorJSON(c, fiber.StatusInternalServerError, "Internal server error", models.CodeInternalError)
		}
	}

	successRate := 0.0
	if result.Total > 0 {
		successRate = float64(result.Successful) / float64(result.Total) * 100
	}

	truncated := result.Truncated()

	return successJSON(c, fiber.StatusCreated, fiber.Map{
		"import_id": uuid.New().String(),
		"summary": ImportSummary{
			Total:       result.Total,
			Successful:  result.Successful,
			Failed:      result.Failed,
			SuccessRate: successRate,
		},
		"details": fiber.Map{
			"errors":     truncated.Errors,
			"duplicates": truncated.Duplicates,
			"imported":   truncated.Imported,
		},
	}, fmt.Sprintf("Imported %d of %d students", result.Successful, result.Total))
}

// importRows extracts raw rows from the request: a CSV file when one is
// attached, the JSON students array otherwise.
func importRows(c *fiber.Ctx) ([]services.RawStudentRow, error) {
	if file, err := c.FormFile("file"); err == nil && file != nil {
		f, err := file.Open()
		if err != nil {
			return nil, errors.New("Could not read uploaded file")
		}
		defer f.Close()
		return parseCSVRows(f)
	}

	var req BulkImportRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, errors.New("Request body must contain a students array")
	}
	return req.Students, nil
}

// parseCSVRows reads a header-first CSV into raw rows keyed by header name
func parseCSVRows(r io.Reader) ([]services.RawStudentRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.New("Could not parse CSV file")
	}
	if len(records) < 2 {
		return nil, errors.New("CSV file must contain a header row and at least one record")
	}

	header := records[0]
	for i, key := range header {
		header[i] = strings.TrimSpace(key)
	}

	rows := make([]services.RawStudentRow, 0, len(records)-1)
	for _, record := range records[1:] {
		row := services.RawStudentRow{}
		for i, value := range record {
			if i < len(header) && header[i] != "" {
				row[header[i]] = value
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// GetImportTemplate describes the import schema for client-side form
// generation. Any authenticated role may fetch it.
func GetImportTemplate(c *fiber.Ctx) error {
	return successJSON(c, fiber.StatusOK, fiber.Map{
		"required_fields": []string{"name", "email", "rollNumber", "branch", "semester", "cgpa", "batchYear"},
		"optional_fields": []string{
			"phone", "backlogs", "gender", "dateOfBirth", "address", "city",
			"state", "pincode", "technicalSkills", "softSkills",
			"linkedinUrl", "githubUrl", "portfolioUrl",
		},
		"validation": fiber.Map{
			"email":     "standard email format",
			"phone":     "10-15 characters: digits, +, -, spaces, parentheses",
			"semester":  "integer between 1 and 8",
			"cgpa":      "number between 0 and 10",
			"batchYear": "within 10 years past to 2 years ahead",
			"backlogs":  "non-negative integer, defaults to 0",
		},
		"notes": fiber.Map{
			"technicalSkills": "comma-separated list",
			"softSkills":      "comma-separated list",
			"gender":          "defaults to not_specified",
			"max_records":     services.MaxImportRows,
		},
	}, "")
}
