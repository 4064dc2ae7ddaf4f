package versionedcontent

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the main interface for the versioned-content library
type Service interface {
	// Content operations
	CreateContent(ctx context.Context, req CreateContentRequest) (*Content, error)
	GetContent(ctx context.Context, ownerID, id uuid.UUID) (*Content, error)
	GetContentWithHistory(ctx context.Context, ownerID, id uuid.UUID) (*Content, []*ContentVersion, error)
	UpdateContent(ctx context.Context, req UpdateContentRequest) (*Content, error)
	DeleteContent(ctx context.Context, ownerID, id uuid.UUID) (bool, error)
	ListContent(ctx context.Context, req ListContentRequest) (*ContentList, error)

	// Version history operations
	ListVersions(ctx context.Context, ownerID, id uuid.UUID) ([]*ContentVersion, error)
	RevertToVersion(ctx context.Context, ownerID, id uuid.UUID, targetVersion int) (*Content, error)
	DiffVersions(ctx context.Context, ownerID, id uuid.UUID, fromVersion, toVersion int) ([]DiffSegment, error)

	// Export operations
	ArchiveContent(ctx context.Context, ownerID, id uuid.UUID) (string, error)
}
