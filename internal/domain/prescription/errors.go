package prescription

import "errors"

var (
	// ErrNotFound is returned when no prescription has the given id.
	ErrNotFound = errors.New("prescription not found")
	// ErrDuplicateID is returned by Create when the id is already taken.
	ErrDuplicateID = errors.New("prescription id already exists")
	// ErrInvalidInput wraps every validation failure: empty line lists,
	// non-positive quantities, unknown statuses, illegal transitions.
	ErrInvalidInput = errors.New("invalid prescription input")
)
