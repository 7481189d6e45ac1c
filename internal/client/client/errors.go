package client

import (
	"errors"
	"fmt"
)

var (
	ErrNetwork            = errors.New("network error")
	ErrServer             = errors.New("server error")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMalformedResponse  = errors.New("malformed server response")
)

// APIError is a non-success response. Message is the response body as sent
// by the server, trimmed.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return ErrServer
}
