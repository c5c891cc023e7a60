package journal

import "fmt"

// StorageError represents a failure in a journal storage backend.
type StorageError struct {
	// Backend is the storage backend type ("sqlite", "memory").
	Backend string

	// Operation is the operation that failed ("store", "query", ...).
	Operation string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("journal storage error [backend=%s, operation=%s]: %v",
		e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}

// RetentionError represents a failure during retention enforcement.
type RetentionError struct {
	// RetentionDays is the configured retention period.
	RetentionDays int

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *RetentionError) Error() string {
	return fmt.Sprintf("journal retention error [retention_days=%d]: %v",
		e.RetentionDays, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *RetentionError) Unwrap() error {
	return e.Cause
}

// NewRetentionError creates a new RetentionError.
func NewRetentionError(retentionDays int, cause error) *RetentionError {
	return &RetentionError{
		RetentionDays: retentionDays,
		Cause:         cause,
	}
}
