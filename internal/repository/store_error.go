package repository

import (
	"errors"
	"fmt"
	"net/http"
)

// Backend names used in StoreError.
const (
	BackendPostgres = "Postgres"
	BackendSupabase = "Supabase"
)

// StoreError is a failed write to the durable store.
type StoreError struct {
	Backend string
	// Status is the store's HTTP status, or 500 for stores that have none.
	Status int
	// Details is the store's own error text.
	Details string
	// Unreachable is set when the store could not be contacted at all.
	Unreachable bool
	Err         error
}

func (e *StoreError) Error() string {
	if e.Unreachable {
		return fmt.Sprintf("failed to connect to %s: %s", e.Backend, e.Details)
	}
	return fmt.Sprintf("%s rejected the write with status %d: %s", e.Backend, e.Status, e.Details)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// HTTPStatus is the status to answer with: the store's own for rejected
// writes, 500 otherwise.
func (e *StoreError) HTTPStatus() int {
	if e.Unreachable || e.Status < 400 {
		return http.StatusInternalServerError
	}
	return e.Status
}

// AsStoreError unwraps err into a *StoreError.
func AsStoreError(err error) (*StoreError, bool) {
	var se *StoreError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
