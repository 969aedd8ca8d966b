package domain

import (
	"fmt"
	"strings"
)

// FieldError describes one invalid request field.
type FieldError struct {
	Field   string      `json:"field"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ValidationErrors collects request validation failures.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func NewMissingFieldError(field string) FieldError {
	return FieldError{
		Field:   field,
		Code:    "MISSING_FIELD",
		Message: fmt.Sprintf("%s is required", field),
	}
}

func NewInvalidFormatError(field string, value interface{}) FieldError {
	return FieldError{
		Field:   field,
		Code:    "INVALID_FORMAT",
		Message: fmt.Sprintf("%s has an invalid format", field),
		Value:   value,
	}
}

func NewOutOfRangeError(field string, value interface{}, min, max int) FieldError {
	return FieldError{
		Field:   field,
		Code:    "OUT_OF_RANGE",
		Message: fmt.Sprintf("%s must be between %d and %d", field, min, max),
		Value:   value,
	}
}
