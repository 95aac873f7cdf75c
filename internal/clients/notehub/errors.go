package notehub

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidPage is returned when a list page is below 1.
var ErrInvalidPage = errors.New("page must be greater than or equal to 1")

// ErrInvalidPerPage is returned when a list page size is not positive.
var ErrInvalidPerPage = errors.New("perPage must be greater than 0")

// ErrEmptyID is returned when a note operation is called without an id.
var ErrEmptyID = errors.New("note id is required")

// ConfigError means the client is missing configuration it needs before
// it can send anything. It is never retried.
type ConfigError struct {
	Key string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing %s in configuration", e.Key)
}

// NetworkError wraps transport failures and unreadable responses.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("notehub %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("notehub: unexpected status %d", e.Status)
	}
	return fmt.Sprintf("notehub: unexpected status %d: %s", e.Status, e.Body)
}

// IsAuthError reports whether err means the credential is missing or was
// rejected by the API.
func IsAuthError(err error) bool {
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}
