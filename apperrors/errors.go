package apperrors

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes returned to clients so the UI can show a specific message
// instead of a generic failure banner.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeForbidden          = "FORBIDDEN"
	CodeInsufficientEnergy = "INSUFFICIENT_ENERGY"
	CodeInsufficientFood   = "INSUFFICIENT_FOOD"
	CodeEnergyFull         = "ENERGY_FULL"
	CodeConflict           = "CONFLICT"
	CodeChainRead          = "CHAIN_READ_ERROR"
)

// AppError carries a stable code alongside the human-readable message.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func New(code, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func Validation(format string, args ...interface{}) *AppError {
	return &AppError{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *AppError {
	return &AppError{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...interface{}) *AppError {
	return &AppError{Code: CodeForbidden, Message: fmt.Sprintf(format, args...)}
}

func InsufficientEnergy(current, required int) *AppError {
	return &AppError{
		Code:    CodeInsufficientEnergy,
		Message: fmt.Sprintf("Not enough energy. Current: %d, Required: %d", current, required),
	}
}

func InsufficientFood(foodName string) *AppError {
	return &AppError{
		Code:    CodeInsufficientFood,
		Message: fmt.Sprintf("Insufficient food. Food type: %s", foodName),
	}
}

func EnergyFull() *AppError {
	return &AppError{Code: CodeEnergyFull, Message: "Pet already has full energy!"}
}

func Conflict(format string, args ...interface{}) *AppError {
	return &AppError{Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

// HTTPStatus maps an error to the status we respond with. Unknown errors are 500.
func HTTPStatus(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeForbidden:
		return fiber.StatusForbidden
	case CodeConflict:
		return fiber.StatusConflict
	case CodeChainRead:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusBadRequest
	}
}

// Code extracts the stable error code, defaulting to an internal marker.
func Code(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "INTERNAL_ERROR"
}

// Is reports whether err is an AppError with the given code.
func Is(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
