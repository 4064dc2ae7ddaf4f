package versionedcontent

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrContentNotFound indicates no record is visible to the calling
	// owner. A record owned by someone else is reported the same way as a
	// record that does not exist.
	ErrContentNotFound = errors.New("content not found")

	// ErrVersionNotFound indicates a version snapshot was not found
	ErrVersionNotFound = errors.New("content version not found")

	// ErrVersionConflict indicates an update carried an expected version
	// that no longer matches the stored record
	ErrVersionConflict = errors.New("content version conflict")

	// ErrInvalidContentKind indicates an unknown content kind
	ErrInvalidContentKind = errors.New("invalid content kind")

	// ErrInvalidContentStatus indicates an unknown content status
	ErrInvalidContentStatus = errors.New("invalid content status")

	// ErrArchiverNotConfigured indicates ArchiveContent was called on a
	// service built without an archiver
	ErrArchiverNotConfigured = errors.New("archiver not configured")
)

// ValidationError reports malformed or missing caller input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ContentError represents an error related to content operations
type ContentError struct {
	ContentID uuid.UUID
	Op        string
	Err       error
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("content operation %s failed for content %s: %v", e.Op, e.ContentID, e.Err)
}

func (e *ContentError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to archive storage operations
type StorageError struct {
	Bucket string
	Key    string
	Op     string
	Err    error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s in bucket %s: %v", e.Op, e.Key, e.Bucket, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
