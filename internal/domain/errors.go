// Package domain defines core types and errors for the trends gateway.
package domain

import "fmt"

// AuthError indicates the service could not obtain a bearer token: the signing
// key is malformed, the assertion could not be signed, or the identity provider
// response lacked required fields. Never retried.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// TransportError indicates an outbound call could not be sent at all.
type TransportError struct {
	Message string
}

func (e *TransportError) Error() string { return e.Message }

// UpstreamError indicates a non-success status from BigQuery or the identity
// provider. Body holds the upstream response verbatim for operator diagnosis.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.Status, e.Body)
}

// DecodeError indicates an upstream response body that is not valid JSON or is
// missing expected structural fields.
type DecodeError struct {
	Message string
}

func (e *DecodeError) Error() string { return e.Message }

// RangeError indicates caller-supplied date bounds that are unparsable,
// inverted, or out of range. A client-input failure, not an upstream one.
type RangeError struct {
	Message string
}

func (e *RangeError) Error() string { return e.Message }

// ValidationError indicates a malformed or incomplete request payload.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// CacheError indicates a credential cache read or write failure. Always
// non-fatal: callers log it and proceed as if the cache missed.
type CacheError struct {
	Message string
}

func (e *CacheError) Error() string { return e.Message }

// ErrAuth creates an AuthError with a formatted message.
func ErrAuth(format string, args ...interface{}) *AuthError {
	return &AuthError{Message: fmt.Sprintf(format, args...)}
}

// ErrTransport creates a TransportError with a formatted message.
func ErrTransport(format string, args ...interface{}) *TransportError {
	return &TransportError{Message: fmt.Sprintf(format, args...)}
}

// ErrDecode creates a DecodeError with a formatted message.
func ErrDecode(format string, args ...interface{}) *DecodeError {
	return &DecodeError{Message: fmt.Sprintf(format, args...)}
}

// ErrRange creates a RangeError with a formatted message.
func ErrRange(format string, args ...interface{}) *RangeError {
	return &RangeError{Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrCache creates a CacheError with a formatted message.
func ErrCache(format string, args ...interface{}) *CacheError {
	return &CacheError{Message: fmt.Sprintf(format, args...)}
}
