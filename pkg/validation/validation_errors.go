package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-facing labels
var FieldLabels = map[string]string{
	"DocumentTitle":       "Document title",
	"Name":                "Candidate name",
	"RightToWork":         "Right to work",
	"SalaryExpectation":   "Salary expectation",
	"TemplateID":          "Template",
	"TemplateContent":     "Template content",
	"CVText":              "CV text",
	"JobDescription":      "Job description",
	"MasterCV":            "Master CV",
	"AllowedDocs":         "Allowed documents",
	"AllowedDocsPerUsers": "Allowed documents per user",
	"AllowedTemplates":    "Allowed templates",
	"SalaryRange":         "Salary range",
	"GeneratedDocID":      "CV document",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

// Message joins FormatValidationErrors into a single sentence for the response envelope.
func Message(err error) string {
	return strings.Join(FormatValidationErrors(err), "; ")
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required", "not_blank":
		return fmt.Sprintf("%s is required", label)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at least %s", label, param)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at most %s", label, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(param, " ", ", "))
	case "email":
		return fmt.Sprintf("%s is not a valid email address", label)
	case "uuid", "uuid4":
		return fmt.Sprintf("%s is not a valid identifier", label)
	case "valid_name":
		return fmt.Sprintf("%s may only contain letters, digits, spaces and common punctuation", label)
	case "no_emoji":
		return fmt.Sprintf("%s must not contain emoji or special symbols", label)
	default:
		return fmt.Sprintf("%s failed validation (%s)", label, e.Tag())
	}
}

func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
