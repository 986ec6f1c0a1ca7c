package catalogclient

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the catalog answered 404.
	ErrNotFound = errors.New("not found")
	// ErrTransient covers transport failures, 429, 5xx and open-circuit rejections.
	ErrTransient = errors.New("transient failure")
	// ErrMalformedResponse means a 2xx body could not be decoded.
	ErrMalformedResponse = errors.New("malformed response")
)

// StatusError is a non-retryable rejection such as 400 or 409.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog returned HTTP %d: %s", e.StatusCode, e.Body)
}

// IsTransient reports whether a retry might succeed.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}

// IsAborted reports whether the caller's context ended the request.
func IsAborted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
