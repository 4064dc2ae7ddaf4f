package versionedcontent

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// NoopEventSink is a no-operation implementation of EventSink
// Useful when no event handling is needed or for testing
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

// ContentCreated does nothing and returns nil
func (n *NoopEventSink) ContentCreated(ctx context.Context, content *Content) error {
	return nil
}

// ContentUpdated does nothing and returns nil
func (n *NoopEventSink) ContentUpdated(ctx context.Context, content *Content) error {
	return nil
}

// ContentReverted does nothing and returns nil
func (n *NoopEventSink) ContentReverted(ctx context.Context, content *Content, fromVersion int) error {
	return nil
}

// ContentDeleted does nothing and returns nil
func (n *NoopEventSink) ContentDeleted(ctx context.Context, contentID uuid.UUID) error {
	return nil
}

// SlogEventSink logs lifecycle events through a structured logger but
// takes no other action.
type SlogEventSink struct {
	logger *slog.Logger
}

// NewSlogEventSink creates an event sink backed by the given logger.
// A nil logger falls back to slog.Default().
func NewSlogEventSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogEventSink{logger: logger}
}

// ContentCreated logs the content creation event
func (l *SlogEventSink) ContentCreated(ctx context.Context, content *Content) error {
	l.logger.Info("content created",
		"content_id", content.ID, "owner_id", content.OwnerID, "kind", content.Kind)
	return nil
}

// ContentUpdated logs the content update event
func (l *SlogEventSink) ContentUpdated(ctx context.Context, content *Content) error {
	l.logger.Info("content updated",
		"content_id", content.ID, "version", content.Version)
	return nil
}

// ContentReverted logs the content revert event
func (l *SlogEventSink) ContentReverted(ctx context.Context, content *Content, fromVersion int) error {
	l.logger.Info("content reverted",
		"content_id", content.ID, "from_version", fromVersion, "version", content.Version)
	return nil
}

// ContentDeleted logs the content deletion event
func (l *SlogEventSink) ContentDeleted(ctx context.Context, contentID uuid.UUID) error {
	l.logger.Info("content deleted", "content_id", contentID)
	return nil
}
