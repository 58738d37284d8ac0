package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unique error code
type ErrorCode int

// Error codes for the ledger's failure taxonomy
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrIndexOutOfRange
	ErrInvalidAmount
	ErrInvalidFormat
	ErrStorageFailure
	ErrInternal
)

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
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

// StatusCode maps the error onto an HTTP status for the error middleware.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case ErrNotFound, ErrIndexOutOfRange:
		return http.StatusNotFound
	case ErrInvalidAmount:
		return http.StatusUnprocessableEntity
	case ErrInvalidFormat, ErrBadRequest:
		return http.StatusBadRequest
	case ErrStorageFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error constructors
func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func IndexOutOfRange(what string, index int) *AppError {
	return &AppError{
		Code:    ErrIndexOutOfRange,
		Message: fmt.Sprintf("%s index %d out of range", what, index),
	}
}

func InvalidAmount(amount float64) *AppError {
	return &AppError{
		Code:    ErrInvalidAmount,
		Message: fmt.Sprintf("payment amount must be positive, got %v", amount),
	}
}

func InvalidFormat(message string, err error) *AppError {
	return &AppError{
		Code:    ErrInvalidFormat,
		Message: message,
		Err:     err,
	}
}

func StorageFailure(op string, err error) *AppError {
	return &AppError{
		Code:    ErrStorageFailure,
		Message: fmt.Sprintf("storage %s failed", op),
		Err:     err,
	}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal error",
		Err:     err,
	}
}

// Code extracts the ErrorCode from err, or ErrInternal when err is not
// an AppError.
func Code(err error) ErrorCode {
	var app *AppError
	if errors.As(err, &app) {
		return app.Code
	}
	return ErrInternal
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	return Code(err) == code
}
