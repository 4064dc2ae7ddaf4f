package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	vc "github.com/draftkit/versioned-content/pkg/versionedcontent"
)

// Repository implements versionedcontent.Repository using in-memory storage
type Repository struct {
	mu       sync.RWMutex
	contents map[uuid.UUID]*vc.Content
	versions map[uuid.UUID][]*vc.ContentVersion // content_id -> snapshots
	seq      map[uuid.UUID]int64                // content_id -> insertion order
	nextSeq  int64
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		contents: make(map[uuid.UUID]*vc.Content),
		versions: make(map[uuid.UUID][]*vc.ContentVersion),
		seq:      make(map[uuid.UUID]int64),
	}
}

// Content operations

func (r *Repository) CreateContent(ctx context.Context, content *vc.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Create a copy to avoid external modifications
	contentCopy := *content
	r.contents[content.ID] = &contentCopy
	r.nextSeq++
	r.seq[content.ID] = r.nextSeq

	return nil
}

func (r *Repository) GetContent(ctx context.Context, id, ownerID uuid.UUID) (*vc.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	content, exists := r.contents[id]
	if !exists || content.OwnerID != ownerID {
		return nil, vc.ErrContentNotFound
	}

	// Return a copy to prevent external modifications
	contentCopy := *content
	return &contentCopy, nil
}

func (r *Repository) UpdateContent(ctx context.Context, params vc.UpdateContentParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.contents[params.Content.ID]
	if !exists || stored.OwnerID != params.Content.OwnerID {
		return vc.ErrContentNotFound
	}
	if params.ExpectedVersion != nil && stored.Version != *params.ExpectedVersion {
		return vc.ErrVersionConflict
	}

	// Snapshot and update happen under the same lock: both or neither.
	if params.Snapshot != nil {
		snapshotCopy := *params.Snapshot
		r.versions[snapshotCopy.ContentID] = append(r.versions[snapshotCopy.ContentID], &snapshotCopy)
	}

	contentCopy := *params.Content
	r.contents[contentCopy.ID] = &contentCopy

	return nil
}

func (r *Repository) DeleteContent(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	content, exists := r.contents[id]
	if !exists || content.OwnerID != ownerID {
		return false, nil
	}

	delete(r.contents, id)
	delete(r.seq, id)
	return true, nil
}

func (r *Repository) ListContent(ctx context.Context, params vc.ListContentParams) ([]*vc.Content, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []*vc.Content
	for _, content := range r.contents {
		if content.OwnerID != params.OwnerID {
			continue
		}
		if params.Kind != nil && content.Kind != *params.Kind {
			continue
		}
		if params.Status != nil && content.Status != *params.Status {
			continue
		}
		if params.Search != "" && !matchesSearch(content, params.Search) {
			continue
		}
		matches = append(matches, content)
	}

	// Sort by created_at descending, insertion order breaking ties
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
		return r.seq[matches[i].ID] < r.seq[matches[j].ID]
	})

	total := int64(len(matches))

	if params.Offset >= len(matches) {
		return []*vc.Content{}, total, nil
	}
	matches = matches[params.Offset:]
	if params.Limit > 0 && params.Limit < len(matches) {
		matches = matches[:params.Limit]
	}

	result := make([]*vc.Content, len(matches))
	for i, content := range matches {
		contentCopy := *content
		result[i] = &contentCopy
	}

	return result, total, nil
}

func matchesSearch(content *vc.Content, search string) bool {
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(content.Title), needle) ||
		strings.Contains(strings.ToLower(content.Body), needle)
}

// Version snapshot operations

func (r *Repository) GetVersion(ctx context.Context, contentID uuid.UUID, version int) (*vc.ContentVersion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, snapshot := range r.versions[contentID] {
		if snapshot.Version == version {
			snapshotCopy := *snapshot
			return &snapshotCopy, nil
		}
	}

	return nil, vc.ErrVersionNotFound
}

func (r *Repository) ListVersions(ctx context.Context, contentID uuid.UUID) ([]*vc.ContentVersion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshots := r.versions[contentID]
	result := make([]*vc.ContentVersion, len(snapshots))
	for i, snapshot := range snapshots {
		snapshotCopy := *snapshot
		result[i] = &snapshotCopy
	}

	// Sort by version descending
	sort.Slice(result, func(i, j int) bool {
		return result[i].Version > result[j].Version
	})

	return result, nil
}

func (r *Repository) DeleteVersions(ctx context.Context, contentID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := int64(len(r.versions[contentID]))
	delete(r.versions, contentID)
	return count, nil
}
