package httperror

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error is the structured error every handler returns. Code is a stable
// machine-readable identifier ("upload.invalid_input"), Message is what the
// client may render, Details carries optional context for debugging.
type Error struct {
	Status  int         `json:"-"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(status int, code, message string, details interface{}) *Error {
	return &Error{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}

func BadRequest(code, message string, details interface{}) *Error {
	return New(fiber.StatusBadRequest, code, message, details)
}

func Unauthorized(code, message string, details interface{}) *Error {
	return New(fiber.StatusUnauthorized, code, message, details)
}

func Forbidden(code, message string, details interface{}) *Error {
	return New(fiber.StatusForbidden, code, message, details)
}

func NotFound(code, message string, details interface{}) *Error {
	return New(fiber.StatusNotFound, code, message, details)
}

func InternalServerError(code, message string, details interface{}) *Error {
	return New(fiber.StatusInternalServerError, code, message, details)
}

// BadGateway maps upstream AI endpoint failures (non-2xx responses).
func BadGateway(code, message string, details interface{}) *Error {
	return New(fiber.StatusBadGateway, code, message, details)
}

// GatewayTimeout maps upstream AI endpoint deadline overruns.
func GatewayTimeout(code, message string, details interface{}) *Error {
	return New(fiber.StatusGatewayTimeout, code, message, details)
}
