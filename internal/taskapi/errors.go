package taskapi

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when the server rejects the admin token.
var ErrUnauthorized = errors.New("unauthorized: check the admin token")

// APIError is an application-level failure: the envelope code was not 200.
type APIError struct {
	Op      string
	Code    int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: server returned code %d", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %s (code %d)", e.Op, e.Message, e.Code)
}

// Is lets errors.Is(err, ErrUnauthorized) match 401/403 envelopes.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && (e.Code == 401 || e.Code == 403)
}

// OpError is a transport or decoding failure for one request.
type OpError struct {
	Op       string
	Resource string
	ID       int64
	Err      error
}

func (e *OpError) Error() string {
	if e == nil {
		return ""
	}
	if e.ID > 0 {
		return fmt.Sprintf("%s %s %d: %v", e.Op, e.Resource, e.ID, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Resource, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// IsAPIError reports whether err carries an application-level failure.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
