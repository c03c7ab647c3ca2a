package jwtauth

import "fmt"

// ErrorCode identifies an authentication failure class. Codes are internal:
// they drive structured logging and caller branching, but HTTP responses
// never expose them (see middleware.go).
type ErrorCode string

const (
	ErrExpired                  ErrorCode = "EXPIRED"
	ErrInvalidSignature         ErrorCode = "INVALID_SIGNATURE"
	ErrMissingToken             ErrorCode = "MISSING_TOKEN"
	ErrMalformed                ErrorCode = "MALFORMED"
	ErrInvalidCredentials       ErrorCode = "INVALID_CREDENTIALS"
	ErrNoneAlgorithm            ErrorCode = "NONE_ALGORITHM"
	ErrUnsupportedAlgorithm     ErrorCode = "UNSUPPORTED_ALGORITHM"
	ErrMalformedAlgorithmHeader ErrorCode = "MALFORMED_ALGORITHM_HEADER"
	ErrConfigError              ErrorCode = "CONFIG_ERROR"
)

// AuthError is an authentication failure with an internal code. The Message
// and Internal fields are for logs and diagnostics only and must never be
// written to a client response.
type AuthError struct {
	Code     ErrorCode
	Message  string
	Internal error
}

// Error implements the error interface
func (e *AuthError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the error unwrapping interface
func (e *AuthError) Unwrap() error {
	return e.Internal
}

// newAuthError creates a new authentication error
func newAuthError(code ErrorCode, message string, internal error) *AuthError {
	return &AuthError{
		Code:     code,
		Message:  message,
		Internal: internal,
	}
}

// errorCode extracts the internal code from an error, or "UNKNOWN" for
// errors that did not originate in this package.
func errorCode(err error) string {
	if authErr, ok := err.(*AuthError); ok {
		return string(authErr.Code)
	}
	return "UNKNOWN"
}
