package versionedcontent

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for content and version persistence.
// Every read and write is scoped to an owner: a record belonging to a
// different owner behaves exactly like a missing one.
type Repository interface {
	// Content operations
	CreateContent(ctx context.Context, content *Content) error
	GetContent(ctx context.Context, id, ownerID uuid.UUID) (*Content, error)
	UpdateContent(ctx context.Context, params UpdateContentParams) error
	DeleteContent(ctx context.Context, id, ownerID uuid.UUID) (bool, error)
	ListContent(ctx context.Context, params ListContentParams) ([]*Content, int64, error)

	// Version snapshot operations
	GetVersion(ctx context.Context, contentID uuid.UUID, version int) (*ContentVersion, error)
	ListVersions(ctx context.Context, contentID uuid.UUID) ([]*ContentVersion, error)
	DeleteVersions(ctx context.Context, contentID uuid.UUID) (int64, error)
}

// UpdateContentParams carries one atomic read-modify-write: the new
// record state, optionally the snapshot of the superseded state, and
// optionally a version to compare-and-swap on. The repository must
// persist the snapshot and the update together or not at all, with the
// write scoped by both id and owner in the same operation.
type UpdateContentParams struct {
	Content *Content
	// Snapshot, when non-nil, is written to the version history in the
	// same atomic operation as the content update.
	Snapshot *ContentVersion
	// ExpectedVersion, when non-nil, makes the write conditional on the
	// stored version still matching; a mismatch fails with
	// ErrVersionConflict.
	ExpectedVersion *int
}

// ListContentParams contains filtering and paging options for listing
// content. Search matches case-insensitively against title or body.
type ListContentParams struct {
	OwnerID uuid.UUID
	Kind    *ContentKind
	Status  *ContentStatus
	Search  string
	Limit   int
	Offset  int
}

// Archiver stores JSON exports of content records in an external
// location, e.g. an object store.
type Archiver interface {
	Store(ctx context.Context, key string, data []byte) error
}

// EventSink defines the interface for lifecycle event handling
type EventSink interface {
	// ContentCreated is fired when content is created
	ContentCreated(ctx context.Context, content *Content) error

	// ContentUpdated is fired when content is updated
	ContentUpdated(ctx context.Context, content *Content) error

	// ContentReverted is fired when content is reverted to a prior
	// version; fromVersion is the version the body was restored from
	ContentReverted(ctx context.Context, content *Content, fromVersion int) error

	// ContentDeleted is fired when content is deleted
	ContentDeleted(ctx context.Context, contentID uuid.UUID) error
}
