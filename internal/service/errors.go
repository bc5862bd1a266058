package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals that the requested product or receipt id does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateReceiptNumber rejects a receipt whose human-facing number is already taken.
	ErrDuplicateReceiptNumber = errors.New("receipt number already exists")
)

// ValidationError reports a rejected request field. Nothing is persisted
// when one is returned, so the caller can correct the input and retry.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: field '%s' %s", e.Field, e.Message)
}
