package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal            ErrorCode = "INTERNAL_ERROR"
	CodeValidation          ErrorCode = "VALIDATION_ERROR"
	CodeNotFound            ErrorCode = "NOT_FOUND"
	CodeForbidden           ErrorCode = "FORBIDDEN"
	CodeUnauthorized        ErrorCode = "UNAUTHORIZED"
	CodeConflict            ErrorCode = "CONFLICT"
	CodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"

	// Field level validation codes
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Conflict family
	CodeDuplicateName        ErrorCode = "DUPLICATE_NAME"
	CodeQuizAlreadyCompleted ErrorCode = "QUIZ_ALREADY_COMPLETED"
	CodeQuizEmpty            ErrorCode = "QUIZ_EMPTY"
	CodeInsufficientCurrency ErrorCode = "INSUFFICIENT_CURRENCY"
	CodeCannotSatisfySlot    ErrorCode = "CANNOT_SATISFY_SLOT"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Err     error                  `json:"-"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details,omitempty"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
		Details: e.Details,
	})
}

// WithDetail attaches a key/value pair rendered in the error response.
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewNotFoundError(entity, id string) *DomainError {
	return NewError(CodeNotFound, fmt.Sprintf("%s not found", entity), nil).WithDetail("id", id)
}

func NewForbiddenError(message string) *DomainError {
	return NewError(CodeForbidden, message, nil)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

func NewConflictError(code ErrorCode, message string) *DomainError {
	return NewError(code, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

func NewUpstreamUnavailableError(service string, err error) *DomainError {
	return NewError(CodeUpstreamUnavailable, fmt.Sprintf("%s is unavailable", service), err).WithDetail("service", service)
}

func NewCannotSatisfySlotError(slot int) *DomainError {
	return NewError(CodeCannotSatisfySlot, fmt.Sprintf("could not find or generate a unique question for slot %d", slot), nil).
		WithDetail("slot", slot)
}

func NewInsufficientCurrencyError(required, available int64) *DomainError {
	return NewError(CodeInsufficientCurrency, "not enough currency", nil).
		WithDetail("required", required).
		WithDetail("available", available)
}

// ErrorCodeOf returns the code of a wrapped DomainError, or CodeInternal.
func ErrorCodeOf(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	var validationErrs ValidationErrors
	if errors.As(err, &validationErrs) {
		return CodeValidation
	}
	return CodeInternal
}

// IsConflict reports whether the code belongs to the conflict family.
func IsConflict(code ErrorCode) bool {
	switch code {
	case CodeConflict, CodeDuplicateName, CodeQuizAlreadyCompleted, CodeQuizEmpty, CodeInsufficientCurrency:
		return true
	}
	return false
}

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string      `json:"field"`
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ValidationErrors is returned when request validation fails on one or more fields.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	if len(v) == 1 {
		return fmt.Sprintf("validation failed: %s: %s", v[0].Field, v[0].Message)
	}
	return fmt.Sprintf("validation failed: %s: %s (and %d more)", v[0].Field, v[0].Message, len(v)-1)
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Code: CodeMissingField, Message: fmt.Sprintf("%s is required", field)}
}

func NewInvalidFormatError(field string, value interface{}) ValidationError {
	return ValidationError{Field: field, Code: CodeInvalidFormat, Message: fmt.Sprintf("%s has an invalid format", field), Value: value}
}

func NewOutOfRangeError(field string, value interface{}, min, max interface{}) ValidationError {
	return ValidationError{
		Field:   field,
		Code:    CodeOutOfRange,
		Message: fmt.Sprintf("%s must be between %v and %v", field, min, max),
		Value:   value,
	}
}
