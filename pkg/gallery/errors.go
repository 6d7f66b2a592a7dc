package gallery

import (
	"errors"
	"fmt"
)

// ErrorType classifies gallery request failures
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error represents a failed gallery request
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("gallery %s error (code %d): %s", e.Type, e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsType reports whether err is a gallery error of the given type
func IsType(err error, t ErrorType) bool {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Type == t
	}
	return false
}

// IsNotFound reports whether err is a gallery 404
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}
