package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried by AppError. Handlers map them onto the HTTP
// surface: NOT_FOUND masks both absent entities and ownership failures.
const (
	CodeNotFound        = "NOT_FOUND"
	CodeValidation      = "VALIDATION_ERROR"
	CodeNotOwner        = "NOT_OWNER"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeInternal        = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string              `json:"error"`
	Code    string              `json:"code,omitempty"`
	Fields  map[string][]string `json:"fields,omitempty"`
	Details string              `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	// Fields carries per-field validation messages for form errors.
	Fields map[string][]string
	Err    error
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

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewFieldErrors wraps per-field validation messages produced by a form.
func NewFieldErrors(fields map[string][]string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: "Submitted form is invalid",
		Fields:  fields,
	}
}

// NewNotOwnerError marks an operation attempted on somebody else's
// content. Most handlers surface it as 404 to hide the entity.
func NewNotOwnerError(message string) *AppError {
	return &AppError{
		Code:    CodeNotOwner,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// RespondWithError writes a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	if appErr, ok := err.(*AppError); ok {
		response = ErrorResponse{
			Error:  appErr.Message,
			Code:   appErr.Code,
			Fields: appErr.Fields,
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
