package videometa

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrVideoNotFound indicates a requested video is not in the inventory
	ErrVideoNotFound = errors.New("video not found")

	// ErrObjectNotFound indicates a storage key does not exist
	ErrObjectNotFound = errors.New("object not found")

	// ErrObjectExists indicates a write without overwrite hit an existing key
	ErrObjectExists = errors.New("object already exists")

	// ErrInvalidRecord indicates a record failed validation after overrides were merged
	ErrInvalidRecord = errors.New("invalid metadata record")

	// ErrNoBlobStore indicates a Generator was built without storage
	ErrNoBlobStore = errors.New("blob store is required")
)

// StorageError represents an error related to storage operations
type StorageError struct {
	Backend string
	Key     string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %q on backend %s: %v", e.Op, e.Key, e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NotFoundError reports that no inventoried video matched an identifier.
type NotFoundError struct {
	Video string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("video not found: %s", e.Video)
}

func (e *NotFoundError) Unwrap() error {
	return ErrVideoNotFound
}
