package domain

import "errors"

// ErrGridNotFound is returned by a store when no grid has been persisted yet.
var ErrGridNotFound = errors.New("grid not found")

// ErrCorruptGrid is returned when a persisted document cannot be read as a grid.
var ErrCorruptGrid = errors.New("corrupt grid document")

// ErrStorageUnavailable is returned when the durable store cannot be written.
var ErrStorageUnavailable = errors.New("storage unavailable")

// Validation sentinels. They are wrapped by ValidationError.
var (
	ErrMissingField   = errors.New("missing field")
	ErrInvalidCellID  = errors.New("invalid cell id")
	ErrCellOutOfRange = errors.New("cell id out of range")
	ErrInvalidColor   = errors.New("invalid color")
)

// ValidationError describes a client-caused rejection of an update.
// Reason is safe to show to the client.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
