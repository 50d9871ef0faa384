package errors

import (
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeInvalidColorFormat ErrorType = "invalid_color_format"
	ErrorTypeInvalidArgument    ErrorType = "invalid_argument"
	ErrorTypeColorCodeMismatch  ErrorType = "color_code_mismatch"
	ErrorTypeDecodeFailure      ErrorType = "decode_failure"
	ErrorTypeOCR                ErrorType = "ocr"
	ErrorTypeNetwork            ErrorType = "network"
	ErrorTypeTimeout            ErrorType = "timeout"
	ErrorTypeInternal           ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"status_code"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewInvalidColorFormatError reports a malformed hex color string
func NewInvalidColorFormatError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidColorFormat,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewInvalidArgumentError reports a caller precondition violation
// (empty palette, color count out of range, bad cluster count, bad buffer shape)
func NewInvalidArgumentError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidArgument,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewColorCodeMismatchError reports an inconsistency between validation
// and canonicalization of a color code
func NewColorCodeMismatchError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeColorCodeMismatch,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// NewDecodeFailureError reports bytes that cannot be interpreted as an image
func NewDecodeFailureError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeDecodeFailure,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// NewOCRError reports a failure from the OCR collaborator
func NewOCRError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeOCR,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewNetworkError creates a new network error
func NewNetworkError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeNetwork,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeTimeout,
		Message:    message,
		StatusCode: http.StatusGatewayTimeout,
		Cause:      cause,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode extracts the HTTP status code from an error
func GetStatusCode(err error) int {
	if appErr, ok := err.(*AppError); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
