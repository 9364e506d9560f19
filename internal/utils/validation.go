package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var examCodeRegex = regexp.MustCompile(`^[A-Z0-9][A-Z0-9\-]*$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateExamCode checks that an exam code is usable as a stats bucket key
func ValidateExamCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return ValidationError{Field: "examCode", Message: "exam code is required"}
	}
	if !examCodeRegex.MatchString(strings.ToUpper(code)) {
		return ValidationError{Field: "examCode", Message: "invalid exam code format"}
	}
	return nil
}

// ValidateQuestionNumber checks that a question number is positive
func ValidateQuestionNumber(number int) error {
	if number < 1 {
		return ValidationError{Field: "questionNumber", Message: "question number must be at least 1"}
	}
	return nil
}
