package versionedcontent

import (
	"time"

	"github.com/google/uuid"
)

// ContentKind is the domain type for the kind of generated content.
// It is fixed at creation time and cannot be changed by an update.
type ContentKind string

// Content kind constants (typed).
const (
	ContentKindBlog        ContentKind = "blog"
	ContentKindArticle     ContentKind = "article"
	ContentKindSocial      ContentKind = "social"
	ContentKindEmail       ContentKind = "email"
	ContentKindDescription ContentKind = "description"
)

// IsValid reports whether the kind is one of the known content kinds.
func (k ContentKind) IsValid() bool {
	switch k {
	case ContentKindBlog, ContentKindArticle, ContentKindSocial,
		ContentKindEmail, ContentKindDescription:
		return true
	}
	return false
}

// ContentStatus is the domain type for content lifecycle states.
type ContentStatus string

// Content status constants (typed).
const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusPublished ContentStatus = "published"
	ContentStatusArchived  ContentStatus = "archived"
)

// IsValid reports whether the status is one of the known content statuses.
func (s ContentStatus) IsValid() bool {
	switch s {
	case ContentStatusDraft, ContentStatusPublished, ContentStatusArchived:
		return true
	}
	return false
}

// Metadata holds the generation parameters attached to a content record.
// Keywords preserve order and may contain duplicates.
type Metadata struct {
	Topic                  string   `json:"topic"`
	Keywords               []string `json:"keywords"`
	Tone                   string   `json:"tone"`
	AdditionalInstructions string   `json:"additional_instructions,omitempty"`
}

// Content represents the current, live state of one content record.
//
// Version starts at 1 and is incremented by exactly one every time the
// body changes; metadata-only and status-only updates leave it untouched.
// WordCount is derived from the body and recomputed alongside it.
type Content struct {
	ID        uuid.UUID     `json:"id"`
	OwnerID   uuid.UUID     `json:"owner_id"`
	Title     string        `json:"title"`
	Body      string        `json:"body"`
	Kind      ContentKind   `json:"kind"`
	Metadata  Metadata      `json:"metadata"`
	WordCount int           `json:"word_count"`
	Version   int           `json:"version"`
	Status    ContentStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ContentVersion is an immutable snapshot of a record's state captured
// immediately before a body-changing update was applied. ContentID points
// at the live record; Version equals the superseded record's version.
type ContentVersion struct {
	ID        uuid.UUID     `json:"id"`
	ContentID uuid.UUID     `json:"content_id"`
	OwnerID   uuid.UUID     `json:"owner_id"`
	Title     string        `json:"title"`
	Body      string        `json:"body"`
	Kind      ContentKind   `json:"kind"`
	Metadata  Metadata      `json:"metadata"`
	WordCount int           `json:"word_count"`
	Version   int           `json:"version"`
	Status    ContentStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// ContentList is one page of an owner's records plus the total count of
// matches ignoring pagination, so callers can render page controls.
type ContentList struct {
	Contents []*Content `json:"contents"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}

// ContentExport is the JSON shape produced by ArchiveContent: the live
// record together with its full version history.
type ContentExport struct {
	Content    *Content          `json:"content"`
	Versions   []*ContentVersion `json:"versions"`
	ExportedAt time.Time         `json:"exported_at"`
}
