package migrate

import "errors"

var (
	// ErrVersionMismatch means a revision returned a document whose version
	// tag is not the expected next version. This indicates a broken revision
	// function, not a data condition, and always fails the whole call.
	ErrVersionMismatch = errors.New("revision returned document with wrong version")

	// ErrInvalidProjection means a projection entry carries something other
	// than an exclusion. Raised before any read or transform work begins.
	ErrInvalidProjection = errors.New("projection entries may only exclude fields")
)
