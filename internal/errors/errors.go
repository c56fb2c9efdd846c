package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Details any
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError carrying the same code, so copies made by
// WrapError or WithDetails still compare equal to the sentinel.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Details: domainErr.Details,
		Err:     err,
	}
}

// WithMessage copies the error with a different client-facing message.
func (e *DomainError) WithMessage(message string) *DomainError {
	return &DomainError{Code: e.Code, Message: message, Details: e.Details, Err: e.Err}
}

// WithDetails copies the error and attaches structured detail.
func (e *DomainError) WithDetails(details any) *DomainError {
	return &DomainError{Code: e.Code, Message: e.Message, Details: details, Err: e.Err}
}

// Error codes
const (
	CodeUserNotFound        = "USER_NOT_FOUND"
	CodeEmailExists         = "EMAIL_EXISTS"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeInvalidToken        = "INVALID_TOKEN"
	CodeInvalidRefreshToken = "INVALID_REFRESH_TOKEN"
	CodeRevokeFailed        = "REVOKE_FAILED"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeIdentifierMismatch  = "IDENTIFIER_MISMATCH"
	CodeInvalidJuryCount    = "INVALID_JURY_COUNT"
	CodeDuplicateUserIDs    = "DUPLICATE_USER_IDS"
	CodeUsersNotFound       = "USERS_NOT_FOUND"
	CodeOwnerNotFound       = "OWNER_NOT_FOUND"
	CodeNotFound            = "NOT_FOUND"
	CodeNotDeleted          = "NOT_DELETED"
	CodeTierNameExists      = "TIER_NAME_EXISTS"
	CodeAuthConfig          = "AUTH_CONFIG"
	CodeInternal            = "INTERNAL_ERROR"
	CodeServiceUnavailable  = "SERVICE_UNAVAILABLE"
)

// Predefined domain errors
var (
	// User errors
	ErrUserNotFound       = NewDomainError(CodeUserNotFound, "User not found.")
	ErrEmailExists        = NewDomainError(CodeEmailExists, "Email address is already registered.")
	ErrInvalidCredentials = NewDomainError(CodeInvalidCredentials, "Invalid email or password")

	// Authentication errors
	ErrUnauthorized        = NewDomainError(CodeUnauthorized, "Unauthorized")
	ErrForbidden           = NewDomainError(CodeForbidden, "Forbidden")
	ErrInvalidToken        = NewDomainError(CodeInvalidToken, "Invalid or expired token")
	ErrInvalidRefreshToken = NewDomainError(CodeInvalidRefreshToken, "Invalid or expired refresh token")
	ErrRevokeFailed        = NewDomainError(CodeRevokeFailed, "Invalid refresh token")

	// Validation errors
	ErrInvalidInput        = NewDomainError(CodeInvalidInput, "Invalid input")
	ErrIdentifierMismatch  = NewDomainError(CodeIdentifierMismatch, "Route id and body id must match.")
	ErrInvalidJuryCount    = NewDomainError(CodeInvalidJuryCount, "You must select between 2 and 3 users.")
	ErrDuplicateUserIDs    = NewDomainError(CodeDuplicateUserIDs, "Duplicate user IDs are not allowed.")
	ErrUsersNotFound       = NewDomainError(CodeUsersNotFound, "One or more selected users do not exist.")
	ErrOwnerNotFound       = NewDomainError(CodeOwnerNotFound, "User was not found.")
	ErrNotDeleted          = NewDomainError(CodeNotDeleted, "Resource is not deleted.")
	ErrTierNameExists      = NewDomainError(CodeTierNameExists, "A tier with this name already exists.")
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found.")

	// System errors
	ErrAuthConfig         = NewDomainError(CodeAuthConfig, "Authentication is not configured.")
	ErrInternal           = NewDomainError(CodeInternal, "internal server error")
	ErrServiceUnavailable = NewDomainError(CodeServiceUnavailable, "service unavailable")
)

// NotFound builds a not-found error naming the resource.
func NotFound(resource string) *DomainError {
	return ErrNotFound.WithMessage(resource + " not found.")
}

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps domain errors to HTTP status codes
// This should only be used in the handler/presentation layer
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	// Check if it's a domain error
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	// Default to internal server error for unknown errors
	return http.StatusInternalServerError
}

// domainErrorToHTTPStatus maps specific domain errors to HTTP status codes
func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 400 Bad Request
	case CodeInvalidInput, CodeIdentifierMismatch, CodeInvalidJuryCount,
		CodeDuplicateUserIDs, CodeUsersNotFound, CodeOwnerNotFound,
		CodeNotDeleted, CodeRevokeFailed:
		return http.StatusBadRequest

	// 401 Unauthorized
	case CodeUnauthorized, CodeInvalidCredentials, CodeInvalidToken,
		CodeInvalidRefreshToken:
		return http.StatusUnauthorized

	// 403 Forbidden
	case CodeForbidden:
		return http.StatusForbidden

	// 404 Not Found
	case CodeUserNotFound, CodeNotFound:
		return http.StatusNotFound

	// 409 Conflict
	case CodeEmailExists, CodeTierNameExists:
		return http.StatusConflict

	// 503 Service Unavailable
	case CodeServiceUnavailable, CodeAuthConfig:
		return http.StatusServiceUnavailable

	// 500 Internal Server Error (default)
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts error message
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return err.Error()
}

// GetErrorDetails returns the structured detail of a domain error.
func GetErrorDetails(err error) any {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}
