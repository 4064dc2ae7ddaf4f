package versionedcontent

import "github.com/google/uuid"

// Request/Response DTOs

// CreateContentRequest contains parameters for creating a new content
// record. Title, Body and Kind are required.
type CreateContentRequest struct {
	OwnerID  uuid.UUID
	Title    string
	Kind     ContentKind
	Body     string
	Metadata Metadata
}

// UpdateContentRequest is a partial update. Nil fields are left
// untouched; a non-nil field overwrites the stored value. A non-nil Body
// always snapshots the prior state and bumps the version, even when the
// new body equals the stored one.
//
// ExpectedVersion, when set, enables strict mode: the write only
// succeeds if the stored version still matches, otherwise the update
// fails with ErrVersionConflict.
type UpdateContentRequest struct {
	ID              uuid.UUID
	OwnerID         uuid.UUID
	Title           *string
	Body            *string
	Status          *ContentStatus
	Metadata        *MetadataPatch
	ExpectedVersion *int
}

// ListContentRequest contains parameters for listing content. Page is
// 1-indexed; out-of-range Page/PageSize values are normalized rather
// than rejected.
type ListContentRequest struct {
	OwnerID  uuid.UUID
	Kind     *ContentKind
	Status   *ContentStatus
	Search   string
	Page     int
	PageSize int
}

// Default pagination bounds.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// Normalize replaces malformed pagination values with defaults.
func (r *ListContentRequest) Normalize() {
	if r.Page < 1 {
		r.Page = DefaultPage
	}
	if r.PageSize < 1 {
		r.PageSize = DefaultPageSize
	}
}
