package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that no record exists for the requested ID.
var ErrNotFound = errors.New("record not found")

// StorageError wraps a storage I/O failure with the operation that
// produced it. Callers must not retry automatically; ingestion governs
// its own retry cadence.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error in %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
