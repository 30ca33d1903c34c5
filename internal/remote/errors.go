package remote

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/alexanderramin/shiftbook/internal/repository"
)

var (
	// ErrUnavailable indicates the hosted backend could not be reached.
	ErrUnavailable = errors.New("backend unavailable")

	// ErrTimeout indicates a request exceeded the configured timeout.
	ErrTimeout = errors.New("backend request timed out")

	// ErrRetryExhausted indicates every retry of a read failed.
	ErrRetryExhausted = errors.New("backend retry attempts exhausted")
)

// APIError is a non-2xx response from PostgREST or GoTrue.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details string
	Hint    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("backend error %d: %s", e.Status, e.Message)
}

// Unwrap maps well-known codes onto the repository sentinels so callers can
// use errors.Is without knowing about the wire format.
func (e *APIError) Unwrap() error {
	switch {
	case e.Code == "23505":
		return repository.ErrDuplicate
	case e.Code == "42501", e.Status == http.StatusUnauthorized, e.Status == http.StatusForbidden:
		return repository.ErrPermission
	case e.Code == "PGRST116", e.Status == http.StatusNotFound:
		return repository.ErrNotFound
	default:
		return nil
	}
}

func retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= http.StatusInternalServerError || apiErr.Status == http.StatusTooManyRequests
	}
	return true
}
