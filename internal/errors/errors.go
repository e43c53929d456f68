package errors

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
)

// Kind classifies an error by how it is surfaced to the user.
type Kind string

const (
	KindValidation Kind = "validation"
	KindAuth       Kind = "auth"
	KindActivation Kind = "activation"
	KindPermission Kind = "permission"
	KindNotFound   Kind = "not_found"
	KindInternal   Kind = "internal"
)

// Error codes
const (
	// Authentication errors
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeAccountInactive    = "ACCOUNT_INACTIVE"
	ErrCodeInvalidActivation  = "INVALID_ACTIVATION"

	// Authorization errors
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeProtectedAccount = "PROTECTED_ACCOUNT"
	ErrCodeInvalidCSRFToken = "INVALID_CSRF_TOKEN"

	// Validation errors
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeMissingField = "MISSING_FIELD"

	// Resource errors
	ErrCodeNotFound = "NOT_FOUND"
	ErrCodeConflict = "CONFLICT"
)

// AppError is an error carrying enough information for a handler to decide how to respond.
type AppError struct {
	Kind    Kind
	Code    string
	Message string
	// Field names the form input a validation error belongs to, if any.
	Field string
}

// Error implements the error interface
func (e *AppError) Error() string {
	return e.Message
}

// Validation creates a validation error bound to a form field.
func Validation(field, code, message string) *AppError {
	return &AppError{Kind: KindValidation, Code: code, Field: field, Message: message}
}

// Auth creates an authentication error.
func Auth(code, message string) *AppError {
	return &AppError{Kind: KindAuth, Code: code, Message: message}
}

// Activation creates an activation error.
func Activation(message string) *AppError {
	return &AppError{Kind: KindActivation, Code: ErrCodeInvalidActivation, Message: message}
}

// Permission creates a permission error.
func Permission(code, message string) *AppError {
	return &AppError{Kind: KindPermission, Code: code, Message: message}
}

// NotFoundError creates a not-found error.
func NotFoundError(message string) *AppError {
	return &AppError{Kind: KindNotFound, Code: ErrCodeNotFound, Message: message}
}

// FieldErrors collects validation messages keyed by form field.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e[k]
	}
	return strings.Join(parts, "; ")
}

// Add records msg for field unless the field already has a message.
func (e FieldErrors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Err returns nil when no field failed.
func (e FieldErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Fields extracts per-field messages from a validation error. Validation errors
// without a field are reported under the empty key.
func Fields(err error) FieldErrors {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe
	}
	if appErr, ok := As(err); ok && appErr.Kind == KindValidation {
		return FieldErrors{appErr.Field: appErr.Message}
	}
	return nil
}

// KindOf returns the Kind of the first AppError in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return KindValidation
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// As is errors.As specialised to AppError.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}

// NotFound renders the not-found page with a 404 status.
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	c.HTML(http.StatusNotFound, "error.html", gin.H{
		"Status":  http.StatusNotFound,
		"Message": message,
	})
}

// InternalError renders the error page with a 500 status.
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"Status":  http.StatusInternalServerError,
		"Message": message,
	})
}

// Forbidden renders the error page with a 403 status.
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Forbidden"
	}
	c.HTML(http.StatusForbidden, "error.html", gin.H{
		"Status":  http.StatusForbidden,
		"Message": message,
	})
}

// BadRequest renders the error page with a 400 status.
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	c.HTML(http.StatusBadRequest, "error.html", gin.H{
		"Status":  http.StatusBadRequest,
		"Message": message,
	})
}

// ActivationFailed answers a bad activation link with plain text rather than a redirect.
func ActivationFailed(c *gin.Context) {
	c.String(http.StatusBadRequest, "Activation link is invalid!")
}
