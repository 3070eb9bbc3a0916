package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes used by AppError.
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeDuplicate     = "DUPLICATE_FIELD"
	CodeNotFound      = "NOT_FOUND"
	CodeInvalidUpdate = "INVALID_UPDATE"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeInternal      = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized API error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error.
type AppError struct {
	Code    string
	Message string
	Field   string // set for DUPLICATE_FIELD errors ("username" or "email")
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError returns an AppError for a missing record.
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

// NewValidationError returns an AppError for invalid client input.
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewDuplicateFieldError returns an AppError for a uniqueness violation on
// the given field.
func NewDuplicateFieldError(field string) *AppError {
	return &AppError{
		Code:    CodeDuplicate,
		Message: fmt.Sprintf("%s already exists", titleField(field)),
		Field:   field,
	}
}

// NewInvalidUpdateError returns an AppError for an update rejected by a
// business rule rather than by bad input.
func NewInvalidUpdateError(message string) *AppError {
	return &AppError{
		Code:    CodeInvalidUpdate,
		Message: message,
	}
}

// NewUnauthorizedError returns an AppError for failed authentication.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

// NewInternalError wraps an unexpected error.
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// ValidationErrors maps field names to human-readable messages. It is
// returned as-is in the 400 response body so clients can attach messages
// to form fields.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(v))
}

// RespondWithError writes a standardized error response.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	if appErr, ok := err.(*AppError); ok {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
			Field: appErr.Field,
		}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}

func titleField(field string) string {
	if field == "" {
		return field
	}
	return string(field[0]-'a'+'A') + field[1:]
}
