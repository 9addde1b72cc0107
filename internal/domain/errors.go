package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches domain errors by code and message so that wrapped copies of a
// sentinel still compare equal to it.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeAlreadyExists      = "ALREADY_EXISTS"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeStoreUnavailable   = "STORE_UNAVAILABLE"
	ErrCodeInvariantViolation = "INVARIANT_VIOLATION"
)

// Malformed input errors. These are rejected before any store call.
var (
	ErrEmptyQuery       = NewDomainError(ErrCodeValidation, "query is required")
	ErrNegativePage     = NewDomainError(ErrCodeValidation, "page must not be negative")
	ErrInvalidRating    = NewDomainError(ErrCodeValidation, "rating must be one of 1, 3 or 5")
	ErrInvalidSortKey   = NewDomainError(ErrCodeValidation, "sort_by must be one of similarity, sustainability or rating")
	ErrInvalidUserID    = NewDomainError(ErrCodeValidation, "user id must be a positive integer")
	ErrEmptySlug        = NewDomainError(ErrCodeValidation, "recipe slug is required")
	ErrInvalidColumn    = NewDomainError(ErrCodeValidation, "unsupported search column")
	ErrMissingUser      = NewDomainError(ErrCodeUnauthorized, "an authenticated user is required")
	ErrHistogramPending = NewDomainError(ErrCodeNotFound, "emissions histogram has not been computed yet")
)

// Not found errors
var (
	ErrRecipeNotFound        = NewDomainError(ErrCodeNotFound, "recipe not found")
	ErrSimilarityNotFound    = NewDomainError(ErrCodeNotFound, "no similarity data for recipe")
	ErrUserNotFound          = NewDomainError(ErrCodeNotFound, "user not found")
	ErrInteractionNotFound   = NewDomainError(ErrCodeNotFound, "interaction not found")
	ErrSearchLogNotFound     = NewDomainError(ErrCodeNotFound, "search log not found")
	ErrBookmarkAlreadyExists = NewDomainError(ErrCodeAlreadyExists, "recipe is already bookmarked")
)

// Data quality signals. These are logged and never returned to callers.
var (
	ErrSimilarityLengthMismatch = NewDomainError(ErrCodeInvariantViolation, "similarity row neighbour and score vectors differ in length")
	ErrReferenceNotFirst        = NewDomainError(ErrCodeInvariantViolation, "reference recipe is not the first similarity neighbour")
	ErrSimilarityOutOfRange     = NewDomainError(ErrCodeInvariantViolation, "similarity score exceeds 1.0")
)

// StoreUnavailable wraps a backing store failure. The engine never retries;
// retry policy belongs to the caller.
func StoreUnavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *DomainError
	if errors.As(err, &de) {
		return err
	}
	return NewDomainErrorWithCause(ErrCodeStoreUnavailable, op, err)
}

// ErrorCode returns the domain code carried by err, or "" for foreign errors.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsValidation reports whether err is malformed input.
func IsValidation(err error) bool {
	return ErrorCode(err) == ErrCodeValidation
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return ErrorCode(err) == ErrCodeNotFound
}

// IsStoreUnavailable reports whether err is a backing store failure.
func IsStoreUnavailable(err error) bool {
	return ErrorCode(err) == ErrCodeStoreUnavailable
}
