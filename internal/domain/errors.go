package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrRemoteUnavailable wraps a transport failure talking to the
	// remote document store. No automatic retry happens at this layer.
	ErrRemoteUnavailable = errors.New("remote store unavailable")

	// ErrNotFound is returned when a rental record id no longer exists
	// remotely.
	ErrNotFound = errors.New("rental record not found")

	// ErrAlreadyReturned guards the return operation: a rental may only
	// be returned once.
	ErrAlreadyReturned = errors.New("rental has already been returned")

	// ErrInvalidRange is returned by price calculation when the end date
	// precedes the start date.
	ErrInvalidRange = errors.New("end date is before start date")
)

// MalformedRecordError reports a fetched document with a required field
// missing or of the wrong type. The fetch that hit it fails as a whole
// so a broken catalog never partially populates the cache.
type MalformedRecordError struct {
	Collection string
	ID         string
	Field      string
	Reason     string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record %s/%s: field %q: %s", e.Collection, e.ID, e.Field, e.Reason)
}

// ValidationError reports a client-side precondition failure on a rental
// submission. Nothing is sent to the remote store when it is returned.
type ValidationError struct {
	Index  int
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid rental record at index %d: %s", e.Index, e.Reason)
}
