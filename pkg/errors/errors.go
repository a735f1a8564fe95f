package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Standard sentinel errors for common error cases
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized indicates the request lacks valid authentication
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the user doesn't have permission for this action
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput indicates the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials indicates the presented credential matches no record
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenRevoked indicates the presented CLI token was revoked by its owner
	ErrTokenRevoked = errors.New("token revoked")

	// ErrUserBanned indicates the user is banned from the registry
	ErrUserBanned = errors.New("user banned")

	// ErrVersionConflict indicates the version was already published for the package
	ErrVersionConflict = errors.New("version already exists")

	// ErrReferencedDependency indicates a version is still depended upon
	ErrReferencedDependency = errors.New("version is a dependency")

	// ErrFlagExists indicates the reporter already has a pending flag on the package
	ErrFlagExists = errors.New("flag already exists")

	// ErrUpstream indicates the catalog store or an identity provider failed
	ErrUpstream = errors.New("upstream failure")

	// ErrDatabaseError indicates a database operation failed
	ErrDatabaseError = errors.New("database error")
)

// ErrorCode represents HTTP-like error codes
type ErrorCode int

const (
	CodeBadRequest          ErrorCode = http.StatusBadRequest
	CodeUnauthorized        ErrorCode = http.StatusUnauthorized
	CodeForbidden           ErrorCode = http.StatusForbidden
	CodeNotFound            ErrorCode = http.StatusNotFound
	CodeConflict            ErrorCode = http.StatusConflict
	CodeTooManyRequests     ErrorCode = http.StatusTooManyRequests
	CodeInternalServerError ErrorCode = http.StatusInternalServerError
	CodeServiceUnavailable  ErrorCode = http.StatusServiceUnavailable
)

// AppError represents an application-level error with additional context
type AppError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Err     error                  `json:"-"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is interface for comparison
func (e *AppError) Is(target error) bool {
	if e.Err != nil {
		return errors.Is(e.Err, target)
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error
func (e *AppError) HTTPStatus() int {
	return int(e.Code)
}

// WithDetails adds additional details to the error
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// Messages returns the validation messages carried by the error, if any
func (e *AppError) Messages() []string {
	if e.Details == nil {
		return nil
	}
	msgs, _ := e.Details["errors"].([]string)
	return msgs
}

// NewAppError creates a new AppError with the given code, message, and underlying error
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NotFound creates a new not found error
func NotFound(resource string, err error) *AppError {
	return NewAppError(CodeNotFound, fmt.Sprintf("%s not found", resource), err)
}

// Unauthorized creates a new unauthorized error
func Unauthorized(message string, err error) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return NewAppError(CodeUnauthorized, message, err)
}

// Forbidden creates a new forbidden error
func Forbidden(message string, err error) *AppError {
	if message == "" {
		message = "access denied"
	}
	return NewAppError(CodeForbidden, message, err)
}

// BadRequest creates a new bad request error
func BadRequest(message string, err error) *AppError {
	if message == "" {
		message = "invalid request"
	}
	return NewAppError(CodeBadRequest, message, err)
}

// Conflict creates a new conflict error (for duplicate resources)
func Conflict(message string, err error) *AppError {
	return NewAppError(CodeConflict, message, err)
}

// Upstream creates an error for a failing collaborator (catalog store, identity provider).
// The message is logged, never shown to callers.
func Upstream(message string, err error) *AppError {
	if err == nil {
		err = ErrUpstream
	}
	return NewAppError(CodeServiceUnavailable, message, err)
}

// DatabaseError creates a new database error
func DatabaseError(operation string, err error) *AppError {
	return Upstream(fmt.Sprintf("database %s failed", operation), errors.Join(ErrDatabaseError, err))
}

// StorageError creates a new storage error
func StorageError(operation string, err error) *AppError {
	return NewAppError(CodeInternalServerError, fmt.Sprintf("storage %s failed", operation), err)
}

// Validation creates the aggregated validation error returned by publish.
// Messages are joined with newlines and also kept as a list in Details["errors"].
func Validation(messages []string) *AppError {
	return NewAppError(CodeBadRequest, strings.Join(messages, "\n"), ErrInvalidInput).WithDetails(map[string]interface{}{
		"errors": messages,
	})
}

func codeOf(err error) (ErrorCode, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}
	return 0, false
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	if code, ok := codeOf(err); ok {
		return code == CodeNotFound
	}
	return errors.Is(err, ErrNotFound)
}

// IsUnauthorized checks if an error is an unauthorized error
func IsUnauthorized(err error) bool {
	if code, ok := codeOf(err); ok {
		return code == CodeUnauthorized
	}
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrTokenRevoked)
}

// IsForbidden checks if an error is a forbidden error
func IsForbidden(err error) bool {
	if code, ok := codeOf(err); ok {
		return code == CodeForbidden
	}
	return errors.Is(err, ErrForbidden) || errors.Is(err, ErrUserBanned)
}

// IsConflict checks if an error is a conflict error
func IsConflict(err error) bool {
	if code, ok := codeOf(err); ok {
		return code == CodeConflict
	}
	return errors.Is(err, ErrVersionConflict) || errors.Is(err, ErrReferencedDependency) ||
		errors.Is(err, ErrFlagExists)
}

// IsBadRequest checks if an error is a bad request error
func IsBadRequest(err error) bool {
	if code, ok := codeOf(err); ok {
		return code == CodeBadRequest
	}
	return errors.Is(err, ErrInvalidInput)
}

// IsUpstream checks if an error came from a failing collaborator
func IsUpstream(err error) bool {
	if code, ok := codeOf(err); ok {
		return code == CodeServiceUnavailable
	}
	return errors.Is(err, ErrUpstream) || errors.Is(err, ErrDatabaseError)
}
