package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	CodeInput    ErrorCode = "INPUT_ERROR"
	CodeTimeout  ErrorCode = "TIMEOUT_ERROR"
	CodeService  ErrorCode = "SERVICE_ERROR"
	CodeParse    ErrorCode = "PARSE_ERROR"
	CodeSchema   ErrorCode = "SCHEMA_ERROR"
	CodeNotFound ErrorCode = "NOT_FOUND"
	CodeBusy     ErrorCode = "BUSY"
	CodeConflict ErrorCode = "CONFLICT"
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	CodeValidation ErrorCode = "VALIDATION_ERROR"
)

// Sentinels for errors.Is checks; matching is by code only.
var (
	ErrInput    = &DomainError{Code: CodeInput}
	ErrTimeout  = &DomainError{Code: CodeTimeout}
	ErrService  = &DomainError{Code: CodeService}
	ErrParse    = &DomainError{Code: CodeParse}
	ErrSchema   = &DomainError{Code: CodeSchema}
	ErrNotFound = &DomainError{Code: CodeNotFound}
	ErrBusy     = &DomainError{Code: CodeBusy}
	ErrConflict = &DomainError{Code: CodeConflict}
	ErrInternal = &DomainError{Code: CodeInternal}
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Context map[string]interface{} `json:"context,omitempty"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
		Context: e.Context,
	})
}

// WithContext attaches a detail that the HTTP layer passes through to clients.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func NewInputError(message string) *DomainError {
	return NewError(CodeInput, message, nil)
}

func NewTimeoutError(after time.Duration, cause error) *DomainError {
	return NewError(CodeTimeout, fmt.Sprintf("Request timed out after %s", after), cause)
}

func NewServiceError(message string, cause error) *DomainError {
	return NewError(CodeService, message, cause)
}

func NewParseError(cause error) *DomainError {
	return NewError(CodeParse, "Invalid JSON response from AI service", cause)
}

func NewSchemaError(message string) *DomainError {
	return NewError(CodeSchema, message, nil)
}

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewBusyError(lectureID string) *DomainError {
	return NewError(CodeBusy, "Another quiz operation is in progress for this lecture", nil).
		WithContext("lecture_id", lectureID)
}

func NewConflictError(message string) *DomainError {
	return NewError(CodeConflict, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

// CodeOf returns the code of the first DomainError in err's chain, or CodeInternal.
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
