package domain

import (
	"errors"
	"fmt"
)

// NotFoundError indicates a referenced resource does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// NewNotFoundError creates a NotFoundError for the given resource and identifier.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError indicates a request that violates a business rule.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// ConflictError indicates the request lost to a competing reservation or write.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// NewConflictError creates a ConflictError with the given message.
func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

// ForbiddenError indicates the caller is not allowed to act on the resource.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

// NewForbiddenError creates a ForbiddenError with the given message.
func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsConflict reports whether err is (or wraps) a ConflictError.
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsBusinessError reports whether err is a known, user-facing error that must
// never be masked as an internal failure.
func IsBusinessError(err error) bool {
	var forbidden *ForbiddenError
	return IsNotFound(err) || IsConflict(err) || IsValidation(err) || errors.As(err, &forbidden)
}
