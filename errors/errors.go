package errors

import (
	"errors"
	"fmt"
)

// Common error types for categorization and handling

var (
	// ErrInvalidInput indicates invalid user input
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstreamUnavailable indicates the hosted AI service could not be reached
	ErrUpstreamUnavailable = errors.New("upstream ai service unavailable")

	// ErrMalformedResponse indicates the upstream response lacked the expected text field
	ErrMalformedResponse = errors.New("malformed upstream response")

	// ErrFileTypeNotAllowed indicates an upload with an unsupported extension
	ErrFileTypeNotAllowed = errors.New("file type not allowed")

	// ErrSessionNotFound indicates an unknown chat session identifier
	ErrSessionNotFound = errors.New("session not found")
)

// WrapError wraps an error with context message
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// WrapErrorf wraps an error with formatted context message
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsUpstreamUnavailable checks if error is an upstream unavailable error
func IsUpstreamUnavailable(err error) bool {
	return errors.Is(err, ErrUpstreamUnavailable)
}

// IsMalformedResponse checks if error is a malformed response error
func IsMalformedResponse(err error) bool {
	return errors.Is(err, ErrMalformedResponse)
}

// IsInvalidInput checks if error is an invalid input error
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsFileTypeNotAllowed checks if error is a rejected upload extension error
func IsFileTypeNotAllowed(err error) bool {
	return errors.Is(err, ErrFileTypeNotAllowed)
}
