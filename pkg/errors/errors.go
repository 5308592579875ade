package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeHTTPStatus ErrorType = "http_status"
	ErrorTypeParsing    ErrorType = "parsing"
	ErrorTypeContract   ErrorType = "contract"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// Error represents a gallery operation error with type information
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause, if any
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed error without an underlying cause
func New(errorType ErrorType, code int, message string) *Error {
	return &Error{Type: errorType, Message: message, Code: code}
}

// Wrap creates a typed error around cause
func Wrap(errorType ErrorType, cause error, format string, args ...interface{}) *Error {
	msg := fmt.Sprintf(format, args...)
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return &Error{Type: errorType, Message: msg, Err: cause}
}

// TypeOf returns the ErrorType of err, or ErrorTypeUnknown if err is not an *Error
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// Is reports whether err carries the given type anywhere in its chain
func Is(err error, errorType ErrorType) bool {
	var e *Error
	return stderrors.As(err, &e) && e.Type == errorType
}

// IsSuccessStatusCode reports whether an HTTP status code is 2xx
func IsSuccessStatusCode(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
