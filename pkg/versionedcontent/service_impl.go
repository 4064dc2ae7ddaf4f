package versionedcontent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	repository   Repository
	events       EventSink
	archiver     Archiver
	purgeHistory bool
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.events = sink
	}
}

// WithArchiver sets the archiver used by ArchiveContent
func WithArchiver(archiver Archiver) Option {
	return func(s *service) {
		s.archiver = archiver
	}
}

// WithHistoryPurge controls whether deleting a record also purges its
// version snapshots.
func WithHistoryPurge(purge bool) Option {
	return func(s *service) {
		s.purgeHistory = purge
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		events: NewNoopEventSink(),
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}

	return s, nil
}

// Content operations

func (s *service) CreateContent(ctx context.Context, req CreateContentRequest) (*Content, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	content := &Content{
		ID:        uuid.New(),
		OwnerID:   req.OwnerID,
		Title:     req.Title,
		Body:      req.Body,
		Kind:      req.Kind,
		Metadata:  req.Metadata,
		WordCount: CountWords(req.Body),
		Version:   1,
		Status:    ContentStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repository.CreateContent(ctx, content); err != nil {
		return nil, &ContentError{ContentID: content.ID, Op: "create", Err: err}
	}

	_ = s.events.ContentCreated(ctx, content)

	return content, nil
}

func validateCreate(req CreateContentRequest) error {
	if req.OwnerID == uuid.Nil {
		return &ValidationError{Field: "owner_id", Reason: "is required"}
	}
	if req.Title == "" {
		return &ValidationError{Field: "title", Reason: "is required"}
	}
	if req.Body == "" {
		return &ValidationError{Field: "body", Reason: "is required"}
	}
	if req.Kind == "" {
		return &ValidationError{Field: "kind", Reason: "is required"}
	}
	if !req.Kind.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidContentKind, req.Kind)
	}
	return nil
}

func (s *service) GetContent(ctx context.Context, ownerID, id uuid.UUID) (*Content, error) {
	return s.repository.GetContent(ctx, id, ownerID)
}

func (s *service) GetContentWithHistory(ctx context.Context, ownerID, id uuid.UUID) (*Content, []*ContentVersion, error) {
	content, err := s.repository.GetContent(ctx, id, ownerID)
	if err != nil {
		return nil, nil, err
	}

	versions, err := s.repository.ListVersions(ctx, id)
	if err != nil {
		return nil, nil, &ContentError{ContentID: id, Op: "list_versions", Err: err}
	}

	return content, versions, nil
}

// UpdateContent applies a partial update. A body present in the request
// always snapshots the superseded state and bumps the version by one,
// even when the new body equals the stored one; title, status and
// metadata changes never touch the version.
func (s *service) UpdateContent(ctx context.Context, req UpdateContentRequest) (*Content, error) {
	if req.Status != nil && !req.Status.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidContentStatus, *req.Status)
	}

	current, err := s.repository.GetContent(ctx, req.ID, req.OwnerID)
	if err != nil {
		return nil, err
	}

	updated := *current
	var snapshot *ContentVersion

	if req.Body != nil {
		snapshot = snapshotOf(current)
		updated.Body = *req.Body
		updated.WordCount = CountWords(*req.Body)
		updated.Version = current.Version + 1
	}
	if req.Title != nil {
		updated.Title = *req.Title
	}
	if req.Status != nil {
		updated.Status = *req.Status
	}
	if req.Metadata != nil {
		updated.Metadata = req.Metadata.Apply(current.Metadata)
	}
	updated.UpdatedAt = time.Now().UTC()

	err = s.repository.UpdateContent(ctx, UpdateContentParams{
		Content:         &updated,
		Snapshot:        snapshot,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		if errors.Is(err, ErrContentNotFound) || errors.Is(err, ErrVersionConflict) {
			return nil, err
		}
		return nil, &ContentError{ContentID: req.ID, Op: "update", Err: err}
	}

	_ = s.events.ContentUpdated(ctx, &updated)

	return &updated, nil
}

func (s *service) DeleteContent(ctx context.Context, ownerID, id uuid.UUID) (bool, error) {
	deleted, err := s.repository.DeleteContent(ctx, id, ownerID)
	if err != nil {
		return false, &ContentError{ContentID: id, Op: "delete", Err: err}
	}
	if !deleted {
		return false, nil
	}

	if s.purgeHistory {
		if _, err := s.repository.DeleteVersions(ctx, id); err != nil {
			return true, &ContentError{ContentID: id, Op: "purge_versions", Err: err}
		}
	}

	_ = s.events.ContentDeleted(ctx, id)

	return true, nil
}

func (s *service) ListContent(ctx context.Context, req ListContentRequest) (*ContentList, error) {
	req.Normalize()

	contents, total, err := s.repository.ListContent(ctx, ListContentParams{
		OwnerID: req.OwnerID,
		Kind:    req.Kind,
		Status:  req.Status,
		Search:  req.Search,
		Limit:   req.PageSize,
		Offset:  (req.Page - 1) * req.PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}

	return &ContentList{
		Contents: contents,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

// Version history operations

func (s *service) ListVersions(ctx context.Context, ownerID, id uuid.UUID) ([]*ContentVersion, error) {
	// Owner scoping: resolve the record first so history of someone
	// else's record is indistinguishable from a missing one.
	if _, err := s.repository.GetContent(ctx, id, ownerID); err != nil {
		return nil, err
	}

	return s.repository.ListVersions(ctx, id)
}

// RevertToVersion restores the title, body and metadata of a prior
// snapshot as a forward update: the superseded state is snapshotted and
// the version advances by one. The version counter is never rewound, so
// every version number keeps identifying exactly one historical state.
func (s *service) RevertToVersion(ctx context.Context, ownerID, id uuid.UUID, targetVersion int) (*Content, error) {
	current, err := s.repository.GetContent(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	target, err := s.repository.GetVersion(ctx, id, targetVersion)
	if err != nil {
		return nil, err
	}

	updated := *current
	snapshot := snapshotOf(current)
	updated.Title = target.Title
	updated.Body = target.Body
	updated.Metadata = target.Metadata
	updated.WordCount = CountWords(target.Body)
	updated.Version = current.Version + 1
	updated.UpdatedAt = time.Now().UTC()

	err = s.repository.UpdateContent(ctx, UpdateContentParams{
		Content:  &updated,
		Snapshot: snapshot,
	})
	if err != nil {
		if errors.Is(err, ErrContentNotFound) {
			return nil, err
		}
		return nil, &ContentError{ContentID: id, Op: "revert", Err: err}
	}

	_ = s.events.ContentReverted(ctx, &updated, targetVersion)

	return &updated, nil
}

// DiffVersions compares the bodies of two revisions of a record. A
// version number equal to the live record's version resolves to the
// current body; any other number is looked up in the snapshot history.
func (s *service) DiffVersions(ctx context.Context, ownerID, id uuid.UUID, fromVersion, toVersion int) ([]DiffSegment, error) {
	current, err := s.repository.GetContent(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	fromBody, err := s.resolveBody(ctx, current, fromVersion)
	if err != nil {
		return nil, err
	}
	toBody, err := s.resolveBody(ctx, current, toVersion)
	if err != nil {
		return nil, err
	}

	return DiffWords(fromBody, toBody), nil
}

func (s *service) resolveBody(ctx context.Context, current *Content, version int) (string, error) {
	if version == current.Version {
		return current.Body, nil
	}
	snapshot, err := s.repository.GetVersion(ctx, current.ID, version)
	if err != nil {
		return "", err
	}
	return snapshot.Body, nil
}

// Export operations

// ArchiveContent marshals the record and its full history to JSON and
// stores it through the configured archiver, returning the storage key.
func (s *service) ArchiveContent(ctx context.Context, ownerID, id uuid.UUID) (string, error) {
	if s.archiver == nil {
		return "", ErrArchiverNotConfigured
	}

	content, versions, err := s.GetContentWithHistory(ctx, ownerID, id)
	if err != nil {
		return "", err
	}

	export := ContentExport{
		Content:    content,
		Versions:   versions,
		ExportedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(export)
	if err != nil {
		return "", &ContentError{ContentID: id, Op: "archive", Err: err}
	}

	key := fmt.Sprintf("exports/%s/%s.json", ownerID, id)
	if err := s.archiver.Store(ctx, key, data); err != nil {
		return "", &ContentError{ContentID: id, Op: "archive", Err: err}
	}

	return key, nil
}

// snapshotOf captures the full state of a record as an immutable
// version history entry.
func snapshotOf(content *Content) *ContentVersion {
	return &ContentVersion{
		ID:        uuid.New(),
		ContentID: content.ID,
		OwnerID:   content.OwnerID,
		Title:     content.Title,
		Body:      content.Body,
		Kind:      content.Kind,
		Metadata:  content.Metadata,
		WordCount: content.WordCount,
		Version:   content.Version,
		Status:    content.Status,
		CreatedAt: time.Now().UTC(),
	}
}
