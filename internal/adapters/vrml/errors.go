package vrml

import (
	"fmt"

	crerr "github.com/cockroachdb/errors"
)

// APIError is a non-success status the client retried on.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vrml api status %d: %s", e.Status, e.Body)
}

// ServiceUnavailableError is returned as soon as the API answers 503. It is
// never retried by the client.
type ServiceUnavailableError struct {
	Route  Route
	Status int
	Body   string
}

func (e *ServiceUnavailableError) Error() string {
	return fmt.Sprintf("%s is not available, the server may be overloaded (status %d)", e.Route, e.Status)
}

// RetriesExhaustedError is returned when the attempt budget ran out without
// a successful response.
type RetriesExhaustedError struct {
	Route    Route
	Attempts int
	Last     error
}

func (e *RetriesExhaustedError) Error() string {
	q := e.Route.RawQuery()
	if q == "" {
		q = "-"
	}
	return fmt.Sprintf("%s with query %s ran out of retries after %d attempts: %v", e.Route, q, e.Attempts, e.Last)
}

func (e *RetriesExhaustedError) Unwrap() error { return e.Last }

// MalformedResponseError means a 200 answer whose body could not be mapped.
type MalformedResponseError struct {
	Route Route
	Body  string
	Err   error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s returned a malformed body: %v", e.Route, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

func IsServiceUnavailable(err error) bool {
	var target *ServiceUnavailableError
	return crerr.As(err, &target)
}

func IsMalformed(err error) bool {
	var target *MalformedResponseError
	return crerr.As(err, &target)
}

func IsRetriesExhausted(err error) bool {
	var target *RetriesExhaustedError
	return crerr.As(err, &target)
}
